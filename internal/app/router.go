package app

import (
	"github.com/gin-gonic/gin"

	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
	"github.com/cardnexus/cardnexus-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:           log,
		HealthHandler: handlerset.Health,
		CardHandler:   handlerset.Card,
	})
}
