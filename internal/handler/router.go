package handler

import (
	"fmt"
	"net/http"
	"strings"

	"homeprice/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions wires the handlers into a router
type RouterOptions struct {
	Form           *FormHandler
	Health         *HealthHandler
	AllowedOrigins string
	// Metrics serves GET /metrics when set
	Metrics http.Handler
}

// NewRouter builds the gin engine serving the form pages and the JSON API
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(opts.AllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", RequestIDHeader}
	corsConfig.AllowCredentials = !containsWildcard(corsConfig.AllowOrigins)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger.New("http")), cors.New(corsConfig))
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", opts.Health.Health)
	router.GET("/version", opts.Health.Version)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	// Form pages
	router.GET("/", opts.Form.Page)
	router.POST("/predict", opts.Form.Predict)
	router.POST("/reset", opts.Form.Reset)
	router.POST("/reload", opts.Form.Reload)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/locations", opts.Form.Locations)
		apiV1.GET("/form", opts.Form.State)
		apiV1.POST("/form/predict", opts.Form.SubmitJSON)
		apiV1.POST("/form/reset", opts.Form.ResetJSON)
		apiV1.POST("/form/reload", opts.Form.ReloadJSON)
	}

	return router, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
