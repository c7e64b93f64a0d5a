package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cardnexus/cardnexus-backend/internal/clients/redis"
	"github.com/cardnexus/cardnexus-backend/internal/clients/scanapi"
	"github.com/cardnexus/cardnexus-backend/internal/data/repos"
	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	apperrors "github.com/cardnexus/cardnexus-backend/internal/pkg/errors"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

const (
	// Block filter applied to the scan collaborator's output before matching.
	scanMinConfidence = 0.60
	scanMaxTextLen    = 256
	scanMaxBlocks     = 3
)

type CardService interface {
	CardList(ctx context.Context, req types.CardListRequest) (*types.CardListResponse, error)
	CardScan(ctx context.Context, image []byte, filename string) (*types.ScanResponse, error)
}

type cardService struct {
	cardRepo repos.CardRepo
	matcher  CardMatcher
	scanner  scanapi.Client
	cache    redis.ShortlistCache // nil when REDIS_ADDR is unset
	log      *logger.Logger
}

func NewCardService(
	cardRepo repos.CardRepo,
	matcher CardMatcher,
	scanner scanapi.Client,
	cache redis.ShortlistCache,
	baseLog *logger.Logger,
) CardService {
	return &cardService{
		cardRepo: cardRepo,
		matcher:  matcher,
		scanner:  scanner,
		cache:    cache,
		log:      baseLog.With("service", "CardService"),
	}
}

func (cs *cardService) CardList(ctx context.Context, req types.CardListRequest) (*types.CardListResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return cs.cardRepo.List(ctx, nil, req)
}

func (cs *cardService) CardScan(ctx context.Context, image []byte, filename string) (*types.ScanResponse, error) {
	scanned, err := cs.scanner.Scan(ctx, image, filename)
	if err != nil {
		return nil, err
	}
	if !scanned.Success {
		return nil, fmt.Errorf("scan API reported failure")
	}

	names := filterBlocks(scanned.Blocks)
	cs.log.Debug("scan blocks filtered", "total", len(scanned.Blocks), "kept", len(names))

	key := shortlistCacheKey(names)
	if cs.cache != nil && len(names) > 0 {
		if items, ok := cs.cache.Get(ctx, key); ok {
			return &types.ScanResponse{Items: items}, nil
		}
	}

	items, err := cs.matcher.MatchNames(ctx, names)
	if err != nil {
		return nil, err
	}

	if cs.cache != nil && len(names) > 0 {
		cs.cache.Set(ctx, key, items)
	}
	return &types.ScanResponse{Items: items}, nil
}

// filterBlocks keeps the OCR fragments worth matching: confident enough to be
// real text, short enough to be a card name, and at most the first few blocks
// (card names sit at the top of the frame, so earlier blocks matter more).
func filterBlocks(blocks []types.ScanBlock) []string {
	names := make([]string, 0, scanMaxBlocks)
	for _, b := range blocks {
		if len(names) == scanMaxBlocks {
			break
		}
		if b.Confidence <= scanMinConfidence {
			continue
		}
		if len(b.Text) >= scanMaxTextLen {
			continue
		}
		names = append(names, b.Text)
	}
	return names
}

func shortlistCacheKey(names []string) string {
	sum := sha256.Sum256([]byte(strings.Join(names, "\x1f")))
	return "cardnexus:scan:" + hex.EncodeToString(sum[:])
}
