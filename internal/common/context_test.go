package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsAdmin(ctx))

	ctx = WithAdmin(ctx, "admin")
	assert.True(t, IsAdmin(ctx))
	name, ok := AdminName(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", name)

	assert.False(t, IsAdmin(WithAdmin(context.Background(), "")))
}

func TestRequestToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Equal(t, "", RequestToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	assert.Equal(t, "from-query", RequestToken(r))

	r.AddCookie(&http.Cookie{Name: AdminCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", RequestToken(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", RequestToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "from-cookie", RequestToken(r))
}
