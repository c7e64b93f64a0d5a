package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	apperrors "github.com/cardnexus/cardnexus-backend/internal/pkg/errors"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

type fakeStore struct {
	countByType map[types.CardType]int64
	countErr    error
	upsertErr   error

	batches [][]*types.Card
}

func (s *fakeStore) CountByType(ctx context.Context, tx *gorm.DB, cardType types.CardType) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.countByType[cardType], nil
}

func (s *fakeStore) BulkUpsert(ctx context.Context, tx *gorm.DB, batch []*types.Card) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	copied := make([]*types.Card, len(batch))
	copy(copied, batch)
	s.batches = append(s.batches, copied)
	return nil
}

func (s *fakeStore) persisted() []*types.Card {
	var all []*types.Card
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all
}

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func writeSource(tb testing.TB, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "cards.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write source file: %v", err)
	}
	return path
}

func TestImportLorcanaEmptySource(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	outcome, err := importer.ImportLorcana(context.Background(), writeSource(t, `[]`))
	if err != nil {
		t.Fatalf("ImportLorcana: %v", err)
	}
	if outcome.Imported != 0 || outcome.Rejected != 0 {
		t.Fatalf("expected {0 0}, got %+v", outcome)
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no upserts for empty source, got %d", len(store.batches))
	}
}

func TestImportLorcanaCountsValidAndRejected(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	source := `[
		{"id": "lor-1", "name": "Mickey Mouse", "ink_cost": 3, "rarity": "Rare", "image_url": "http://img/1.png"},
		{"id": "lor-2", "name": "Elsa", "ink_cost": 11, "rarity": "Legendary"},
		{"id": "lor-3", "name": "Stitch", "ink_cost": 1, "rarity": "Common"},
		{"id": "lor-4", "rarity": "Common"},
		{"id": "lor-5", "name": "Maleficent", "ink_cost": "four", "rarity": "Rare"},
		{"id": "lor-6", "name": "Genie", "ink_cost": 2.5, "rarity": "Uncommon"},
		{"id": "lor-7", "name": "Belle", "ink_cost": 4, "rarity": "Shiny"}
	]`

	outcome, err := importer.ImportLorcana(context.Background(), writeSource(t, source))
	if err != nil {
		t.Fatalf("ImportLorcana: %v", err)
	}
	if outcome.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d", outcome.Imported)
	}
	if outcome.Rejected != 5 {
		t.Fatalf("expected 5 rejected, got %d", outcome.Rejected)
	}

	persisted := store.persisted()
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted cards, got %d", len(persisted))
	}
	if persisted[0].CardID != "lor-1" || persisted[1].CardID != "lor-3" {
		t.Fatalf("expected lor-1 then lor-3, got %q then %q", persisted[0].CardID, persisted[1].CardID)
	}
	if persisted[0].ImageURL != "http://img/1.png" {
		t.Fatalf("expected image url to survive normalization, got %q", persisted[0].ImageURL)
	}
}

func TestImportMTGNormalizesRecords(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	source := `[
		{"id": "mtg-1", "name": "Counterspell", "color": "U", "rarity": "common"},
		{"id": "mtg-2", "name": "Sol Ring", "rarity": "uncommon"},
		{"id": "mtg-3", "name": "Bad Color", "color": "X", "rarity": "rare"},
		{"id": "mtg-4", "name": "Bad Rarity", "rarity": "legendary"}
	]`

	outcome, err := importer.ImportMTG(context.Background(), writeSource(t, source))
	if err != nil {
		t.Fatalf("ImportMTG: %v", err)
	}
	if outcome.Imported != 2 || outcome.Rejected != 2 {
		t.Fatalf("expected {2 2}, got %+v", outcome)
	}

	persisted := store.persisted()
	if persisted[0].Color == nil || *persisted[0].Color != "U" {
		t.Fatalf("expected color U, got %v", persisted[0].Color)
	}
	// Colorless card: absent color stays absent.
	if persisted[1].Color != nil {
		t.Fatalf("expected nil color for mtg-2, got %q", *persisted[1].Color)
	}
}

func TestImportBatchesBySize(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	var sb strings.Builder
	sb.WriteString("[")
	total := importBatchSize + 3
	for i := 0; i < total; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "lor-%d", "name": "Card %d", "ink_cost": 1, "rarity": "Common"}`, i, i)
	}
	sb.WriteString("]")

	outcome, err := importer.ImportLorcana(context.Background(), writeSource(t, sb.String()))
	if err != nil {
		t.Fatalf("ImportLorcana: %v", err)
	}
	if outcome.Imported != total {
		t.Fatalf("expected %d imported, got %d", total, outcome.Imported)
	}
	if len(store.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(store.batches))
	}
	if len(store.batches[0]) != importBatchSize {
		t.Fatalf("expected first batch of %d, got %d", importBatchSize, len(store.batches[0]))
	}
	if len(store.batches[1]) != 3 {
		t.Fatalf("expected trailing batch of 3, got %d", len(store.batches[1]))
	}
	if store.batches[1][0].CardID != fmt.Sprintf("lor-%d", importBatchSize) {
		t.Fatalf("batches out of source order: %q", store.batches[1][0].CardID)
	}
}

func TestImportSkipsWhenFamilyAlreadyPresent(t *testing.T) {
	store := &fakeStore{countByType: map[types.CardType]int64{types.CardTypeLorcana: 10}}
	importer := NewCardImporter(store, testLogger(t))

	// The path does not exist; the skip must happen before the source is touched.
	outcome, err := importer.ImportLorcana(context.Background(), "does-not-exist.json")
	if err != nil {
		t.Fatalf("ImportLorcana: %v", err)
	}
	if outcome.Imported != 0 || outcome.Rejected != 0 {
		t.Fatalf("expected {0 0} on skip, got %+v", outcome)
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no upserts on skip, got %d", len(store.batches))
	}
}

func TestImportFailsFastOnPersistenceError(t *testing.T) {
	boom := errors.New("connection reset")
	store := &fakeStore{upsertErr: boom}
	importer := NewCardImporter(store, testLogger(t))

	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < importBatchSize+10; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "lor-%d", "name": "Card %d", "ink_cost": 1, "rarity": "Common"}`, i, i)
	}
	sb.WriteString("]")

	outcome, err := importer.ImportLorcana(context.Background(), writeSource(t, sb.String()))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the persistence error, got %v", err)
	}
	if outcome.Imported != 0 {
		t.Fatalf("expected nothing counted imported after failed flush, got %d", outcome.Imported)
	}
}

func TestImportUnreadableSource(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	_, err := importer.ImportLorcana(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, apperrors.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable, got %v", err)
	}

	_, err = importer.ImportLorcana(context.Background(), writeSource(t, `{"not": "an array"}`))
	if !errors.Is(err, apperrors.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable for non-array source, got %v", err)
	}
}

func TestRunImportsManifestSources(t *testing.T) {
	store := &fakeStore{}
	importer := NewCardImporter(store, testLogger(t))

	lorcana := writeSource(t, `[{"id": "lor-1", "name": "Mickey Mouse", "ink_cost": 3, "rarity": "Rare"}]`)
	mtg := writeSource(t, `[{"id": "mtg-1", "name": "Counterspell", "color": "U", "rarity": "common"}]`)

	m := &Manifest{Sources: []ManifestSource{
		{Type: types.CardTypeLorcana, Path: lorcana},
		{Type: types.CardTypeMagicTheGathering, Path: mtg},
	}}
	if err := importer.Run(context.Background(), m); err != nil {
		t.Fatalf("Run: %v", err)
	}

	persisted := store.persisted()
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted cards, got %d", len(persisted))
	}
	if persisted[0].Type != types.CardTypeLorcana || persisted[1].Type != types.CardTypeMagicTheGathering {
		t.Fatalf("sources imported out of manifest order: %v then %v", persisted[0].Type, persisted[1].Type)
	}
}
