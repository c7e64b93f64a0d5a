package cards

import (
	"context"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

// searchScoreFloor is the store-level relevance cutoff: similarity scores are
// scaled to 0..100 and anything at or below the floor never leaves the store.
const searchScoreFloor = 90

type CardRepo interface {
	CountByType(ctx context.Context, tx *gorm.DB, cardType types.CardType) (int64, error)
	BulkUpsert(ctx context.Context, tx *gorm.DB, batch []*types.Card) error
	// SearchByName runs a single-term fuzzy name search. One term per call; the
	// trigram index supports exactly one search expression per query.
	SearchByName(ctx context.Context, tx *gorm.DB, term string) ([]types.ScoredCandidate, error)
	List(ctx context.Context, tx *gorm.DB, req types.CardListRequest) (*types.CardListResponse, error)
}

type cardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCardRepo(db *gorm.DB, baseLog *logger.Logger) CardRepo {
	repoLog := baseLog.With("repo", "CardRepo")
	return &cardRepo{db: db, log: repoLog}
}

func (cr *cardRepo) CountByType(ctx context.Context, tx *gorm.DB, cardType types.CardType) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Card{}).
		Where("type = ?", cardType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *cardRepo) BulkUpsert(ctx context.Context, tx *gorm.DB, batch []*types.Card) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(batch) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "type", "image_url", "ink_cost", "color", "rarity", "updated_at",
			}),
		}).
		Create(&batch).Error
}

func (cr *cardRepo) SearchByName(ctx context.Context, tx *gorm.DB, term string) ([]types.ScoredCandidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if term == "" {
		return []types.ScoredCandidate{}, nil
	}

	var results []types.ScoredCandidate
	if err := transaction.WithContext(ctx).Raw(`
		SELECT card_id, name, image_url, similarity(name, @term) * 100 AS score
		FROM cards
		WHERE similarity(name, @term) * 100 > @floor
		ORDER BY score DESC`,
		map[string]any{"term": term, "floor": searchScoreFloor},
	).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *cardRepo) List(ctx context.Context, tx *gorm.DB, req types.CardListRequest) (*types.CardListResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	query := transaction.WithContext(ctx).Model(&types.Card{})
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Query != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+req.Query+"%")
	}
	if len(req.AttrInkCost) > 0 {
		query = query.Where("ink_cost IN ?", req.AttrInkCost)
	}
	if len(req.AttrColor) > 0 {
		query = query.Where("color IN ?", req.AttrColor)
	}
	if len(req.AttrRarity) > 0 {
		query = query.Where("rarity IN ?", req.AttrRarity)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, err
	}

	var rows []*types.Card
	offset := (req.Page - 1) * req.ItemsPerPage
	if err := query.
		Order("card_id").
		Offset(offset).
		Limit(req.ItemsPerPage).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]types.CardView, 0, len(rows))
	for _, c := range rows {
		items = append(items, c.View())
	}

	return &types.CardListResponse{
		Items: items,
		Pagination: types.Pagination{
			Page:         req.Page,
			ItemsPerPage: req.ItemsPerPage,
			TotalItems:   totalItems,
			TotalPages:   int64(math.Ceil(float64(totalItems) / float64(req.ItemsPerPage))),
		},
	}, nil
}
