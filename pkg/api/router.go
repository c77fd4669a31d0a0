package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signup-relay/pkg/metrics"
	"signup-relay/pkg/middleware"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	StaticDir string
	SSL       bool
	Logger    *zap.Logger
}

// NewRouter registers the relay routes and the static asset fallback
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Security(opts.SSL),
	)

	router.GET("/", h.SignupPage)
	router.HEAD("/", h.SignupPage)
	router.POST("/", h.SubmitSignup)
	router.POST("/failure", h.RetrySignup)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", metrics.Handler())

	router.NoRoute(StaticFiles(opts.StaticDir))

	return router
}

// StaticFiles serves regular files below dir for GET and HEAD requests
func StaticFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}

		// Clean against "/" so ".." can never climb out of dir
		name := path.Clean("/" + c.Request.URL.Path)
		full := filepath.Join(dir, filepath.FromSlash(name))

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}

		c.File(full)
	}
}
