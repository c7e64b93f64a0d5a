package db

import (
	"fmt"

	"github.com/cardnexus/cardnexus-backend/internal/domain/cards"
)

// AutoMigrateAll creates the card schema plus the indexes the matching engine
// relies on: a btree on type for the per-family idempotence count and a GIN
// trigram index on name backing similarity() search.
func (s *PostgresService) AutoMigrateAll() error {
	if err := s.db.AutoMigrate(&cards.Card{}); err != nil {
		return fmt.Errorf("automigrate cards: %w", err)
	}
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_cards_name_trgm ON cards USING gin (name gin_trgm_ops);`,
	}
	for _, stmt := range indexes {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
