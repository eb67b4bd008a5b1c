// Package main imports a book catalog CSV into the books table. Existing
// books (matched on book_id) are updated in place; their availability status
// is never touched. Usage:
//
//	import-books [path]
//
// The path defaults to books.csv in the working directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hosteldesk/internal/catalog"
	"hosteldesk/internal/config"
	"hosteldesk/internal/db"
	"hosteldesk/internal/types"
)

const startupTimeout = 30 * time.Second

type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

var _ types.Logger = (*slogAdapter)(nil)

func main() {
	path := "books.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	typedLogger := &slogAdapter{logger: logger}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	poolCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	pool, err := db.NewPool(poolCtx, cfg.Database)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	importer := catalog.NewImporter(db.NewBookRepository(pool), typedLogger, nil)

	summary, err := importer.ImportFile(ctx, path)
	if err != nil {
		logger.Error("import failed", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "import aborted after %d inserted, %d updated\n",
			summary.Inserted, summary.Updated)
		os.Exit(1)
	}

	fmt.Printf("imported %s: %d inserted, %d updated, %d skipped\n",
		path, summary.Inserted, summary.Updated, summary.Skipped)
}
