// Package httpapi wires the Gin engine: middleware, health and metrics
// endpoints, and the website builder routes.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"site-builder/internal/http/handlers"
	"site-builder/internal/http/middleware"
)

type Config struct {
	// AllowedOrigins empty means any origin.
	AllowedOrigins []string
}

// NewEngine returns a gin.Engine with RegisterRoutes applied.
func NewEngine(h *handlers.Handlers, cfg Config) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, h, cfg)
	return r
}

// RegisterRoutes installs middleware in the order RequestID, Logger,
// Recovery, Metrics, gzip, CORS and mounts every endpoint.
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, cfg Config) {
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/history/:userId", h.GetHistory)
	r.GET("/profile/:userId", h.GetProfile)
	r.GET("/reset/:userId", h.Reset)
	r.POST("/chat/:userId", h.Chat)
	r.POST("/upload-image/:userId", h.UploadImages)
	r.GET("/get-webSite-code", h.GetWebsiteCode)
	r.POST("/generate/:userId", h.Generate)
	r.POST("/publish/:userId", h.Publish)
	r.GET("/images/:userId/:file", h.ServeImage)
	r.GET("/sites/:userId/:file", h.ServeSiteFile)
	r.GET("/stats", h.Stats)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
