//go:build !embed
// +build !embed

package main

import (
	"net/http"
	"strings"

	"homeprice/internal/logger"

	"github.com/gin-gonic/gin"
)

// setupStaticFiles configures static file serving for development (no embedding)
func setupStaticFiles(router *gin.Engine) {
	logger.New("static").Infof("🔧 Using local filesystem for static assets (development mode)")

	router.Static("/static", "./cmd/server/web/static")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.String(http.StatusNotFound, "404 page not found (run from the repository root to serve ./cmd/server/web/static)")
	})
}
