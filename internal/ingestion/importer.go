package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	apperrors "github.com/cardnexus/cardnexus-backend/internal/pkg/errors"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
)

// importBatchSize bounds peak memory: the importer never holds more than one
// window of decoded cards plus the in-flight write.
const importBatchSize = 512

// CardStore is the slice of the card repository the importer needs.
type CardStore interface {
	CountByType(ctx context.Context, tx *gorm.DB, cardType types.CardType) (int64, error)
	BulkUpsert(ctx context.Context, tx *gorm.DB, batch []*types.Card) error
}

// ImportOutcome summarizes one ingestion run.
type ImportOutcome struct {
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
}

type CardImporter interface {
	// ImportLorcana streams the Lorcana dump at path into the store. Skipped
	// entirely when the store already holds Lorcana cards.
	ImportLorcana(ctx context.Context, path string) (ImportOutcome, error)
	// ImportMTG does the same for the Magic The Gathering dump.
	ImportMTG(ctx context.Context, path string) (ImportOutcome, error)
	// Run imports every source listed in the manifest, in order.
	Run(ctx context.Context, m *Manifest) error
}

type cardImporter struct {
	store CardStore
	log   *logger.Logger
}

func NewCardImporter(store CardStore, baseLog *logger.Logger) CardImporter {
	return &cardImporter{
		store: store,
		log:   baseLog.With("service", "CardImporter"),
	}
}

func (ci *cardImporter) ImportLorcana(ctx context.Context, path string) (ImportOutcome, error) {
	return ci.importType(ctx, types.CardTypeLorcana, path, decodeLorcana)
}

func (ci *cardImporter) ImportMTG(ctx context.Context, path string) (ImportOutcome, error) {
	return ci.importType(ctx, types.CardTypeMagicTheGathering, path, decodeMTG)
}

func (ci *cardImporter) Run(ctx context.Context, m *Manifest) error {
	for _, src := range m.Sources {
		var (
			outcome ImportOutcome
			err     error
		)
		switch src.Type {
		case types.CardTypeLorcana:
			outcome, err = ci.ImportLorcana(ctx, src.Path)
		case types.CardTypeMagicTheGathering:
			outcome, err = ci.ImportMTG(ctx, src.Path)
		default:
			err = fmt.Errorf("unknown card type %q in manifest", src.Type)
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", src.Type, err)
		}
		ci.log.Info("import completed", "type", src.Type, "imported", outcome.Imported, "rejected", outcome.Rejected)
	}
	return nil
}

func (ci *cardImporter) importType(
	ctx context.Context,
	cardType types.CardType,
	path string,
	decode func(json.RawMessage) (*types.Card, error),
) (ImportOutcome, error) {
	count, err := ci.store.CountByType(ctx, nil, cardType)
	if err != nil {
		return ImportOutcome{}, fmt.Errorf("count %s cards: %w", cardType, err)
	}
	if count > 0 {
		ci.log.Info("cards already imported, skipping import", "type", cardType)
		return ImportOutcome{}, nil
	}
	return ci.streamImport(ctx, path, decode)
}

// streamImport walks the source array one element at a time so the whole dump
// is never materialized. The decoder is pull-based: while a batch is being
// persisted nothing further is read from the file, which is the backpressure
// the memory bound depends on. Batches are persisted strictly in source order.
func (ci *cardImporter) streamImport(
	ctx context.Context,
	path string,
	decode func(json.RawMessage) (*types.Card, error),
) (ImportOutcome, error) {
	var outcome ImportOutcome

	f, err := os.Open(path)
	if err != nil {
		return outcome, fmt.Errorf("%w: %v", apperrors.ErrSourceUnreadable, err)
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReaderSize(f, 64<<10))

	tok, err := dec.Token()
	if err != nil {
		return outcome, fmt.Errorf("%w: reading array start: %v", apperrors.ErrSourceUnreadable, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return outcome, fmt.Errorf("%w: expected a JSON array, got %v", apperrors.ErrSourceUnreadable, tok)
	}

	batch := make([]*types.Card, 0, importBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ci.store.BulkUpsert(ctx, nil, batch); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
		outcome.Imported += len(batch)
		ci.log.Info("batch imported", "batchSize", len(batch))
		batch = make([]*types.Card, 0, importBatchSize)
		return nil
	}

	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return outcome, fmt.Errorf("decode source element: %w", err)
		}
		card, err := decode(raw)
		if err != nil {
			outcome.Rejected++
			ci.log.Warn("rejected card: invalid schema", "data", string(raw), "error", err)
			continue
		}
		batch = append(batch, card)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return outcome, err
			}
		}
	}

	if _, err := dec.Token(); err != nil {
		return outcome, fmt.Errorf("reading array end: %w", err)
	}
	if err := flush(); err != nil {
		return outcome, err
	}
	return outcome, nil
}
