package db

import (
	"context"
	"time"

	"hosteldesk/internal/types"
)

// BookRepository provides data access for the books table. The catalog
// importer upserts by business key (book_id) rather than surrogate ID so
// repeated imports of the same file converge instead of duplicating rows.
type BookRepository struct {
	db DBTX
}

// NewBookRepository creates a BookRepository backed by the given database
// connection (pool or transaction).
func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

// Upsert inserts or updates one book keyed by book_id.
//
// New rows are created with status 'available' and created_at=now. Existing
// rows get title/author/price refreshed and updated_at=now while the stored
// status is preserved, so a book checked out before a re-import stays
// checked out.
//
// Returns created=true when the row was newly inserted. The xmax=0 check is
// the standard Postgres way to distinguish insert from update under
// ON CONFLICT DO UPDATE.
func (r *BookRepository) Upsert(ctx context.Context, book types.BookRecord, now time.Time) (created bool, err error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO books (book_id, title, author, price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'available', $5, $5)
		 ON CONFLICT (book_id) DO UPDATE
		 SET title = EXCLUDED.title,
		     author = EXCLUDED.author,
		     price = EXCLUDED.price,
		     updated_at = EXCLUDED.updated_at
		 RETURNING (xmax = 0)`,
		book.BookID,
		book.Title,
		book.Author,
		book.Price,
		now,
	)

	if err := row.Scan(&created); err != nil {
		return false, types.NewAppError(types.ErrCodeInternalDB, "failed to upsert book", err)
	}
	return created, nil
}
