//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"homeprice/internal/logger"

	"github.com/gin-gonic/gin"
)

//go:embed web/static
var webStatic embed.FS

// setupStaticFiles configures the static file serving with embedded assets
func setupStaticFiles(router *gin.Engine) {
	log := logger.New("static")
	log.Infof("📦 Using embedded static assets")

	staticFS, err := fs.Sub(webStatic, "web/static")
	if err != nil {
		log.Errorf("Failed to get static subdirectory: %v", err)
		return
	}
	router.StaticFS("/static", http.FS(staticFS))
	router.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}
