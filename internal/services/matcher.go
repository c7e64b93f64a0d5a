package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

const (
	// exactMatchBonus privileges literal OCR hits over fuzzy index hits.
	exactMatchBonus = 100
	shortlistSize   = 5
)

// CardSearcher is the store primitive the matcher consumes. The underlying
// index takes exactly one search expression per query, hence one call per
// candidate name.
type CardSearcher interface {
	SearchByName(ctx context.Context, tx *gorm.DB, term string) ([]types.ScoredCandidate, error)
}

// CardMatcher turns noisy OCR-derived name strings into a ranked shortlist of
// catalog candidates.
type CardMatcher interface {
	MatchNames(ctx context.Context, names []string) ([]types.ScanMatch, error)
}

type cardMatcher struct {
	searcher CardSearcher
	log      *logger.Logger
}

func NewCardMatcher(searcher CardSearcher, baseLog *logger.Logger) CardMatcher {
	return &cardMatcher{
		searcher: searcher,
		log:      baseLog.With("service", "CardMatcher"),
	}
}

func (cm *cardMatcher) MatchNames(ctx context.Context, names []string) ([]types.ScanMatch, error) {
	if len(names) == 0 {
		return []types.ScanMatch{}, nil
	}

	// One store query per name. The queries share no mutable state, so they run
	// concurrently; any failure aborts the whole match.
	perName := make([][]types.ScoredCandidate, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			found, err := cm.searcher.SearchByName(gctx, nil, name)
			if err != nil {
				return fmt.Errorf("search %q: %w", name, err)
			}
			perName[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]types.ScoredCandidate, 0)
	for _, found := range perName {
		all = append(all, found...)
	}

	ranked := rankCandidates(names, all)

	out := make([]types.ScanMatch, 0, len(ranked))
	for _, cand := range ranked {
		out = append(out, types.ScanMatch{
			CardID:   cand.CardID,
			Name:     cand.Name,
			ImageURL: cand.ImageURL,
		})
	}
	return out, nil
}

// rankCandidates is the pure merge stage: dedup by card id keeping the best
// score, add the exact-match bonus, sort by score descending and truncate to
// the shortlist size. The best-seen map is scoped to the single call.
func rankCandidates(names []string, all []types.ScoredCandidate) []types.ScoredCandidate {
	best := make(map[string]types.ScoredCandidate, len(all))
	order := make([]string, 0, len(all))
	for _, cand := range all {
		cur, ok := best[cand.CardID]
		if !ok {
			order = append(order, cand.CardID)
		}
		if !ok || cand.Score > cur.Score {
			best[cand.CardID] = cand
		}
	}

	exact := make(map[string]bool, len(names))
	for _, n := range names {
		exact[n] = true
	}

	merged := make([]types.ScoredCandidate, 0, len(best))
	for _, id := range order {
		cand := best[id]
		if exact[cand.Name] {
			cand.Score += exactMatchBonus
		}
		merged = append(merged, cand)
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > shortlistSize {
		merged = merged[:shortlistSize]
	}
	return merged
}
