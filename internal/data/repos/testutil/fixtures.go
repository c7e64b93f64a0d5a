package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
)

func SeedLorcanaCard(tb testing.TB, ctx context.Context, tx *gorm.DB, cardID, name string, inkCost int) *types.Card {
	tb.Helper()
	c := &types.Card{
		ID:      uuid.New(),
		CardID:  cardID,
		Name:    name,
		Type:    types.CardTypeLorcana,
		InkCost: &inkCost,
		Rarity:  string(types.LorcanaRarityCommon),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed lorcana card: %v", err)
	}
	return c
}

func SeedMTGCard(tb testing.TB, ctx context.Context, tx *gorm.DB, cardID, name string, color *string) *types.Card {
	tb.Helper()
	c := &types.Card{
		ID:     uuid.New(),
		CardID: cardID,
		Name:   name,
		Type:   types.CardTypeMagicTheGathering,
		Color:  color,
		Rarity: string(types.MTGRarityCommon),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed mtg card: %v", err)
	}
	return c
}
