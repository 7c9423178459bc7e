package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/common"
	"aheyecare/internal/config"
	"aheyecare/internal/dbmysql"
)

type fakeProducts struct {
	products map[uint]*dbmysql.Product
	err      error
}

func (f *fakeProducts) FindByIDs(ctx context.Context, ids []uint) ([]*dbmysql.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*dbmysql.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func catalog() *fakeProducts {
	return &fakeProducts{products: map[uint]*dbmysql.Product{
		1: {ID: 1, Name: "Round", Price: 50},
		2: {ID: 2, Name: "Aviator", Price: 120.5},
	}}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	lines, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	s.Add(ctx, "c1", 1)
	lines, _ = s.Add(ctx, "c1", 1)
	assert.Equal(t, map[uint]int{1: 2}, lines)

	lines, _ = s.Remove(ctx, "c1", 1)
	assert.Empty(t, lines)

	s.Add(ctx, "c1", 2)
	require.NoError(t, s.Clear(ctx, "c1"))
	lines, _ = s.Get(ctx, "c1")
	assert.Empty(t, lines)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Add(ctx, "c1", 1)
	now = now.Add(50 * time.Second)
	lines, _ := s.Get(ctx, "c1")
	assert.Equal(t, map[uint]int{1: 1}, lines, "access refreshes the ttl")

	now = now.Add(61 * time.Second)
	lines, _ = s.Get(ctx, "c1")
	assert.Empty(t, lines)
}

func TestCartService(t *testing.T) {
	svc := NewCartService(NewMemoryStore(time.Minute), catalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, "c1", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "c1", 2)
	require.NoError(t, err)
	summary, err := svc.Add(ctx, "c1", 1)
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{ID: 1, Name: "Round", Price: 50, Qty: 2},
		{ID: 2, Name: "Aviator", Price: 120.5, Qty: 1},
	}, summary.Items)
	assert.InDelta(t, 220.5, summary.Total, 0.001)
	assert.Equal(t, 3, summary.Count)

	_, err = svc.Add(ctx, "c1", 99)
	assert.ErrorIs(t, err, common.ErrNotFound)

	summary, err = svc.Remove(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)

	require.NoError(t, svc.Clear(ctx, "c1"))
	summary, err = svc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, summary.Items)
	assert.Empty(t, summary.Items)
	assert.Zero(t, summary.Total)
}

func TestCartService_LookupFailure(t *testing.T) {
	products := catalog()
	store := NewMemoryStore(time.Minute)
	svc := NewCartService(store, products)
	ctx := context.Background()
	_, err := svc.Add(ctx, "c1", 1)
	require.NoError(t, err)

	products.err = errors.New("db down")
	_, err = svc.Summary(ctx, "c1")
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(30*time.Minute, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)
	assert.Equal(t, 1800, cookies[0].MaxAge)

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: existing})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, existing, seen)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../../etc", seen)
}

func TestHandler(t *testing.T) {
	h := NewHandler(NewCartService(NewMemoryStore(time.Minute), catalog()))
	router := mux.NewRouter()
	router.Use(Middleware(time.Minute, false))
	router.HandleFunc("/cart", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/cart/{productID}", h.Add).Methods(http.MethodPost)
	router.HandleFunc("/cart/{productID}", h.Remove).Methods(http.MethodDelete)

	cookie := &http.Cookie{Name: CookieName, Value: uuid.NewString()}
	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/cart/2").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/cart/2").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/cart/77").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/cart/abc").Code)

	rec := do(http.MethodGet, "/cart")
	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 241.0, summary.Total, 0.001)

	rec = do(http.MethodDelete, "/cart/2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Zero(t, summary.Count)
}

func TestDecodeLines(t *testing.T) {
	got := decodeLines(map[string]string{"1": "2", "x": "1", "3": "zero", "4": "-1", "5": "1"})
	assert.Equal(t, map[uint]int{1: 2, 5: 1}, got)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := NewRedisClient(config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	s := NewRedisStore(client, time.Minute)
	ctx := context.Background()
	id := uuid.NewString()
	defer s.Clear(ctx, id)

	s.Add(ctx, id, 1)
	lines, err := s.Add(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{1: 2}, lines)

	ttl, err := client.TTL(ctx, cartKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	lines, err = s.Remove(ctx, id, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
