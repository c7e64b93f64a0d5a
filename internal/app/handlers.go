package app

import (
	"github.com/cardnexus/cardnexus-backend/internal/http/handlers"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Card   *handlers.CardHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: handlers.NewHealthHandler(),
		Card:   handlers.NewCardHandler(serviceset.Card),
	}
}
