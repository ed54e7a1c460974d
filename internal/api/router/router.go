package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denisAlshanov/mediagrab/internal/api/handlers"
	"github.com/denisAlshanov/mediagrab/internal/api/middleware"
	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

type Router struct {
	engine *gin.Engine
	config *config.Config
	server *http.Server
}

func NewRouter(cfg *config.Config, mediaHandler *handlers.MediaHandler, healthHandler *handlers.HealthHandler) *Router {
	// Set Gin mode
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware
	engine.Use(gin.CustomRecovery(recoverPanic))
	engine.Use(middleware.CorrelationIDMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))

	// Health endpoints
	health := engine.Group("/")
	{
		health.GET("/health", healthHandler.Health)
		health.GET("/ready", healthHandler.Readiness)
		health.GET("/live", healthHandler.Liveness)
	}

	// Swagger documentation
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Media endpoints spawn external tools, so they are rate limited
	media := engine.Group("/")
	media.Use(middleware.RateLimitMiddleware(&cfg.API))
	{
		media.GET("/fetch-info", mediaHandler.FetchInfo)
		media.POST("/download", mediaHandler.Download)
	}

	return &Router{
		engine: engine,
		config: cfg,
		server: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func recoverPanic(c *gin.Context, recovered any) {
	utils.LogError(c.Request.Context(), "Recovered from panic", fmt.Errorf("%v", recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": fmt.Sprint(recovered),
	})
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed
// after a graceful shutdown.
func (r *Router) Start() error {
	return r.server.ListenAndServe()
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
