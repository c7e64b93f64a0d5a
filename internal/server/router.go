package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cardnexus/cardnexus-backend/internal/http/handlers"
	"github.com/cardnexus/cardnexus-backend/internal/http/middleware"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log           *logger.Logger
	HealthHandler *handlers.HealthHandler
	CardHandler   *handlers.CardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("cardnexus-backend"))
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/cards", cfg.CardHandler.ListCards)
		api.POST("/cards/scan", cfg.CardHandler.ScanCard)
	}

	return router
}
