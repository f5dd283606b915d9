package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-board/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	_, client := newRedis(t)

	router := setupTestRouter()
	router.Use(RateLimitMiddleware(client, 2, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)

	w := doGet(router, "/test")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
	assert.Nil(t, body["data"])
}

func TestRateLimitMiddleware_WindowResets(t *testing.T) {
	mr, client := newRedis(t)

	router := setupTestRouter()
	router.Use(RateLimitMiddleware(client, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "/test").Code)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)
}

func TestRateLimitMiddleware_PerCaller(t *testing.T) {
	_, client := newRedis(t)

	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(IdentityKey, id)
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(client, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, user := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("X-User", user)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_DisabledWithoutRedis(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(nil, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)
	}
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	router := setupTestRouter()
	router.Use(RateLimitMiddleware(client, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doGet(router, "/test").Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOptions(logger.Options{Level: "debug", Format: "json", Output: &buf})

	router := setupTestRouter()
	router.Use(RequestLogger(log))
	router.GET("/missing", func(c *gin.Context) {
		c.Set(IdentityKey, uint(9))
		c.Status(http.StatusNotFound)
	})

	doGet(router, "/missing")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request rejected", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/missing", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
	assert.EqualValues(t, 9, entry["user_id"])
}
