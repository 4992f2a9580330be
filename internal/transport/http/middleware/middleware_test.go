package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, "")
	rid := w.Header().Get(KeyRequestID)
	require.NotEmpty(t, rid)
	// handler 从 context 拿到的要和响应头一致
	assert.Equal(t, rid, seen)
}

func TestRequestIDPreservesClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(KeyRequestID, "client-rid-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-rid-42", w.Header().Get(KeyRequestID))
	assert.Equal(t, "client-rid-42", seen)
}

func TestRequestIDFromBareContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFrom(t.Context()))
}

func TestRateLimitPerIPBlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitPerIP(1, 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, "10.0.0.9:1234").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 别的 IP 有自己的桶，不受牵连
	assert.Equal(t, http.StatusOK, serve(r, "10.0.0.10:1234").Code)
}

func TestMetricsRegistersNamespacedSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	serve(r, "")

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["course_api_http_requests_total"])
	assert.True(t, names["course_api_http_request_duration_seconds"])
	assert.True(t, names["course_api_http_requests_in_flight"])
}
