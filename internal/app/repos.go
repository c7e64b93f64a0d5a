package app

import (
	"gorm.io/gorm"

	"github.com/cardnexus/cardnexus-backend/internal/data/repos"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type Repos struct {
	Card repos.CardRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Card: repos.NewCardRepo(db, log),
	}
}
