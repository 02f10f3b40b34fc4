package handler

import (
	"context"
	"net/http"
	"time"

	"homeprice/internal/model"
	"homeprice/internal/service"

	"github.com/gin-gonic/gin"
)

// UpstreamInfo describes the prediction service
type UpstreamInfo interface {
	Info(ctx context.Context) (*model.ServiceInfo, error)
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// HealthHandler reports the state of this server and its upstream
type HealthHandler struct {
	upstream UpstreamInfo
	sessions *service.SessionStore
	build    BuildInfo
	probe    time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(upstream UpstreamInfo, sessions *service.SessionStore, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		upstream: upstream,
		sessions: sessions,
		build:    build,
		probe:    3 * time.Second,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.probe)
	defer cancel()

	upstream := gin.H{"status": "reachable"}
	if info, err := h.upstream.Info(ctx); err != nil {
		upstream = gin.H{"status": "unreachable", "error": err.Error()}
	} else {
		upstream["version"] = info.Version
		upstream["total_locations"] = info.TotalLocations
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "home-price-form",
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
		"sessions":   h.sessions.Len(),
		"upstream":   upstream,
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	})
}
