package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-purchase-service/internal/config"
	"github.com/iliyamo/ticket-purchase-service/internal/utils"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := AccountID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"account_id": id})
	}, JWTAuth("secret"))

	tok, err := utils.NewAccessToken("secret", 17, 5)
	require.NoError(t, err)

	rec := serve(e, http.MethodGet, "/me", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account_id":17}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = serve(e, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestAccountID_Anonymous(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := AccountID(c)
	assert.False(t, ok)
	assert.Equal(t, "anon", accountKey(c))

	c.Set(AccountIDKey, int64(9))
	assert.Equal(t, "9", accountKey(c))
}

func TestNewTokenBucket(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "account_route",
		Prefix:         "rl",
	}
	e := echo.New()
	e.POST("/v1/purchases", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, NewTokenBucket(cfg, rdb))

	for i, remaining := range []string{"1", "0"} {
		rec := serve(e, http.MethodPost, "/v1/purchases", "")
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, remaining, rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := serve(e, http.MethodPost, "/v1/purchases", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestNewTokenBucket_DisabledOrNoRedis(t *testing.T) {
	_, rdb := newRedis(t)
	for name, mw := range map[string]echo.MiddlewareFunc{
		"disabled": NewTokenBucket(config.RateLimitConfig{Enabled: false, Capacity: 1}, rdb),
		"no redis": NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
	} {
		e := echo.New()
		e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw)
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/x", "").Code, name)
		}
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/purchases", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/purchases")
	c.Set(AccountIDKey, int64(5))

	for strategy, want := range map[string]string{
		"ip":               "rl:ip:10.0.0.1",
		"account":          "rl:account:5",
		"route":            "rl:route:POST /v1/purchases",
		"ip_route":         "rl:ip:10.0.0.1:route:POST /v1/purchases",
		"ip_account_route": "rl:ip:10.0.0.1:account:5:route:POST /v1/purchases",
		"":                 "rl:account:5:route:POST /v1/purchases",
	} {
		got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		assert.Equal(t, want, got, strategy)
	}
}

func TestNewRedisCache(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
	calls := 0
	e := echo.New()
	e.GET("/v1/catalog", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/catalog", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)

	second := serve(e, http.MethodGet, "/v1/catalog", "")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	third := serve(e, http.MethodGet, "/v1/catalog", "")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestNewRedisCache_SkipsErrorsAndOversizedBodies(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 8,
	}
	e := echo.New()
	mw := NewRedisCache(cfg, rdb)
	e.GET("/missing", func(c echo.Context) error { return c.String(http.StatusNotFound, "no") }, mw)
	e.GET("/big", func(c echo.Context) error { return c.String(http.StatusOK, "0123456789") }, mw)

	serve(e, http.MethodGet, "/missing", "")
	rec := serve(e, http.MethodGet, "/big", "")
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.Empty(t, mr.Keys())
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 50, '{'})
	assert.False(t, ok)
}
