package catalog

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"hosteldesk/internal/types"
)

// BookUpserter is the narrow persistence interface the importer needs.
// *db.BookRepository satisfies it; tests use lightweight fakes.
type BookUpserter interface {
	Upsert(ctx context.Context, book types.BookRecord, now time.Time) (created bool, err error)
}

// Importer loads a parsed catalog into the books table, one upsert per
// record. Rows the reader could not normalize are reported as skipped; a
// database failure aborts the run, since a half-applied import with an
// unknown cutoff is worse than a clean retry.
type Importer struct {
	repo   BookUpserter
	logger types.Logger
	clock  types.Clock
}

// NewImporter creates an Importer writing through the given repository.
func NewImporter(repo BookUpserter, logger types.Logger, clock types.Clock) *Importer {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Importer{
		repo:   repo,
		logger: logger,
		clock:  clock,
	}
}

// ImportFile parses the catalog file at path and upserts every record.
func (im *Importer) ImportFile(ctx context.Context, path string) (types.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ImportSummary{}, types.NewAppError(types.ErrCodeCatalogParse, "failed to open catalog file", err)
	}
	defer f.Close()

	records, skipped, err := ReadRecords(f)
	if err != nil {
		return types.ImportSummary{}, err
	}

	return im.Run(ctx, records, skipped)
}

// Run upserts the given records and returns the aggregate summary. The
// skipped count from parsing carries through into the summary.
func (im *Importer) Run(ctx context.Context, records []types.BookRecord, skipped int) (types.ImportSummary, error) {
	logger := im.logger.With("import_id", uuid.New().String())
	logger.Info("catalog import starting", "rows", len(records), "skipped", skipped)

	summary := types.ImportSummary{Skipped: skipped}
	now := im.clock.Now()

	for _, rec := range records {
		created, err := im.repo.Upsert(ctx, rec, now)
		if err != nil {
			logger.Error("book upsert failed", "book_id", rec.BookID, "error", err.Error())
			return summary, err
		}
		if created {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}

	logger.Info("catalog import complete",
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)

	return summary, nil
}
