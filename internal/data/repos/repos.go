package repos

import (
	"gorm.io/gorm"

	"github.com/cardnexus/cardnexus-backend/internal/data/repos/cards"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type CardRepo = cards.CardRepo

func NewCardRepo(db *gorm.DB, baseLog *logger.Logger) CardRepo {
	return cards.NewCardRepo(db, baseLog)
}
