package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/soaringjerry/Flourish/internal/middleware"
	"github.com/soaringjerry/Flourish/internal/utils"
)

// BuildInfo is reported by /health and /version.
type BuildInfo struct {
	Commit    string
	BuildTime string
}

// NewEngine builds the gin engine with the API routes and the health endpoints.
func NewEngine(h *Handler, info BuildInfo) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		loc := middleware.LocaleFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"ok":              true,
			"name":            "Flourish API",
			"locale":          loc,
			"msg":             utils.T(loc, "health.ok"),
			"catalog_version": h.reports.Catalog().Version,
			"commit":          info.Commit,
			"build_time":      info.BuildTime,
		})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"commit":     info.Commit,
			"build_time": info.BuildTime,
		})
	})
	h.RegisterRoutes(r)
	return r
}

// NewServerHandler wraps the engine in the HTTP middleware chain.
func NewServerHandler(engine http.Handler, logger zerolog.Logger) http.Handler {
	return middleware.Chain(engine,
		middleware.RequestLogger(logger),
		middleware.NoStore,
		middleware.SecureHeaders,
		middleware.CORS,
		middleware.LocaleMiddleware,
	)
}
