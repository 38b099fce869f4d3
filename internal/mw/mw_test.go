package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"bloompal-backend/internal/logging"
)

const ownerHeader = "X-Owner-ID"

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path, owner string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOwner(t *testing.T) {
	r := gin.New()
	r.Use(Owner(ownerHeader))
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, OwnerID(c)) })

	w := do(r, http.MethodGet, "/whoami", " alice ")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	w = do(r, http.MethodGet, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	long := make([]byte, maxOwnerIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	w = do(r, http.MethodGet, "/whoami", string(long))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCache(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Owner(ownerHeader), InvalidateOnWrite(store))
	r.GET("/plants", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.Header("X-Calls", "counted")
		c.String(http.StatusOK, "plants of %s #%d", OwnerID(c), calls)
	})
	r.GET("/broken", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.Status(http.StatusInternalServerError)
	})
	r.POST("/plants", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	t.Run("second read is served from cache", func(t *testing.T) {
		first := do(r, http.MethodGet, "/plants", "alice")
		second := do(r, http.MethodGet, "/plants", "alice")
		assert.Equal(t, "plants of alice #1", first.Body.String())
		assert.Equal(t, "plants of alice #1", second.Body.String())
		assert.Equal(t, "counted", second.Header().Get("X-Calls"))
		assert.Equal(t, 1, calls)
	})

	t.Run("owners do not share entries", func(t *testing.T) {
		w := do(r, http.MethodGet, "/plants", "bob")
		assert.Equal(t, "plants of bob #2", w.Body.String())
	})

	t.Run("failed write keeps the cache", func(t *testing.T) {
		do(r, http.MethodPost, "/fail", "alice")
		w := do(r, http.MethodGet, "/plants", "alice")
		assert.Equal(t, "plants of alice #1", w.Body.String())
	})

	t.Run("successful write flushes only that owner", func(t *testing.T) {
		do(r, http.MethodPost, "/plants", "alice")
		w := do(r, http.MethodGet, "/plants", "alice")
		assert.Equal(t, "plants of alice #3", w.Body.String())
		w = do(r, http.MethodGet, "/plants", "bob")
		assert.Equal(t, "plants of bob #2", w.Body.String())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		before := calls
		do(r, http.MethodGet, "/broken", "alice")
		do(r, http.MethodGet, "/broken", "alice")
		assert.Equal(t, before+2, calls)
	})
}

func TestCache_KeepsFreshRequestID(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	r := gin.New()
	r.Use(RequestID(logging.Discard()), Owner(ownerHeader))
	r.GET("/dashboard", Cache(store, time.Minute), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	first := do(r, http.MethodGet, "/dashboard", "alice")
	second := do(r, http.MethodGet, "/dashboard", "alice")

	assert.Equal(t, "dashboard", second.Body.String())
	require.Len(t, second.Header().Values(RequestIDHeader), 1)
	assert.NotEqual(t, first.Header().Get(RequestIDHeader), second.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(Owner(ownerHeader), RateLimiter(rate.Limit(0.001), 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "alice").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/ping", "alice").Code)

	// Each owner has its own bucket.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "bob").Code)
}

func TestKeyedRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewKeyedRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(logging.Discard()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	require.Len(t, id, 36)
	assert.NotEqual(t, "client-chosen", id)
	assert.Equal(t, id, w.Body.String())
}
