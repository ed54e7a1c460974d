package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/mediagrab/internal/services/storage"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

// VersionProber is an external tool that can report its installed version.
type VersionProber interface {
	Version(ctx context.Context) (string, error)
}

type HealthHandler struct {
	tools   map[string]VersionProber
	storage storage.StorageInterface
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status       string `json:"status"`
	Version      string `json:"version,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// NewHealthHandler takes the tools keyed by name. store may be nil when
// archiving is disabled.
func NewHealthHandler(tools map[string]VersionProber, store storage.StorageInterface) *HealthHandler {
	return &HealthHandler{
		tools:   tools,
		storage: store,
	}
}

// Health godoc
// @Summary Health check endpoint
// @Description Check the external tools and the archive bucket
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Success 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]ServiceHealth),
	}

	for _, name := range h.toolNames() {
		response.Services[name] = h.checkTool(ctx, name, h.tools[name])
	}

	if h.storage != nil {
		response.Services["s3"] = h.checkS3(ctx)
	} else {
		response.Services["s3"] = ServiceHealth{Status: "disabled"}
	}

	overallHealthy := true
	for _, service := range response.Services {
		if service.Status == "unhealthy" {
			overallHealthy = false
			break
		}
	}

	if !overallHealthy {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Readiness godoc
// @Summary Readiness check endpoint
// @Description Check if every external tool can be launched
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	ready := true
	checks := make(map[string]interface{})

	for _, name := range h.toolNames() {
		health := h.checkTool(ctx, name, h.tools[name])
		if health.Status != "healthy" {
			ready = false
			checks[name] = map[string]interface{}{
				"ready": false,
				"error": health.Error,
			}
			continue
		}
		checks[name] = map[string]interface{}{
			"ready": true,
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	if ready {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Liveness godoc
// @Summary Liveness check endpoint
// @Description Check if the service is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) toolNames() []string {
	names := make([]string, 0, len(h.tools))
	for name := range h.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *HealthHandler) checkTool(ctx context.Context, name string, tool VersionProber) ServiceHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	version, err := tool.Version(checkCtx)
	responseTime := time.Since(start).String()

	if err != nil {
		utils.LogError(ctx, "Tool health check failed", err, utils.Fields{"tool": name})
		return ServiceHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ServiceHealth{
		Status:       "healthy",
		Version:      version,
		ResponseTime: responseTime,
	}
}

func (h *HealthHandler) checkS3(ctx context.Context) ServiceHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := h.storage.Ping(checkCtx)
	responseTime := time.Since(start).String()

	if err != nil {
		utils.LogError(ctx, "S3 health check failed", err)
		return ServiceHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ServiceHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
