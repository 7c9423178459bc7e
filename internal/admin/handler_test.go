package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/common"
	"aheyecare/internal/testutil"
)

func newTestService(t *testing.T) AdminService {
	t.Helper()
	svc := NewAdminService(NewAdminRepository(testutil.NewTestDB(t)), common.NewTokenManager("secret", "aheyecare"), testAuthConfig())
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin", "admin123"))
	return svc
}

func TestHandler_LoginLogout(t *testing.T) {
	h := NewHandler(newTestService(t), false)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":"admin","password":"admin123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var session Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.AdminCookie, cookies[0].Name)
	assert.Equal(t, session.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestHandler_LoginFailures(t *testing.T) {
	h := NewHandler(newTestService(t), false)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty", `{}`, http.StatusBadRequest},
		{"wrong password", `{"username":"admin","password":"wrong"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(t)
	session, err := svc.Login(context.Background(), "admin", "admin123", false)
	require.NoError(t, err)

	protected := Identify(svc)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, _ := common.AdminName(r.Context())
		w.Write([]byte(name))
	})))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.Token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: common.AdminCookie, Value: session.Token}) }, http.StatusOK},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + session.Token }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
			}
		})
	}
}
