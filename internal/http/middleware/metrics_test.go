package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RouteLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/history/:userId", func(c *gin.Context) { c.String(http.StatusOK, "[]") })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/history/:userId", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))

	for _, path := range []string{"/history/a", "/history/b", "/nope/x"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, baseOK+2, testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/history/:userId", "200")))
	assert.Equal(t, baseMiss+1, testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInflight))
}
