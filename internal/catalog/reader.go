// Package catalog implements the book catalog import: CSV parsing of raw
// spreadsheet exports into normalized BookRecords, and the upsert run that
// loads them into the books table.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hosteldesk/internal/types"
)

// Header names recognized in the catalog file, case-insensitive.
// "book_id" is accepted as an alias of "bookid".
const (
	headerBookID      = "bookid"
	headerBookIDAlias = "book_id"
	headerTitle       = "title"
	headerAuthor      = "author"
	headerPrice       = "price"
)

// defaultAuthor fills rows whose author cell is empty.
const defaultAuthor = "Unknown"

// ReadRecords parses a CSV catalog export into normalized BookRecords.
// The first row must be a header row containing bookid (or book_id), title,
// author, and price, in any order and any casing. Rows that cannot be
// normalized (missing/invalid book id, empty title) are counted in skipped,
// not failed.
func ReadRecords(r io.Reader) (records []types.BookRecord, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeCatalogParse, "failed to parse catalog CSV", err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	cols, err := mapHeaders(rows[0])
	if err != nil {
		return nil, 0, err
	}

	for _, row := range rows[1:] {
		rec, ok := normalizeRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

// headerIndex maps each recognized column to its position in the row.
type headerIndex struct {
	bookID int
	title  int
	author int
	price  int
}

// mapHeaders resolves the column positions from the header row. All four
// columns are required; book_id satisfies the bookid requirement.
func mapHeaders(header []string) (headerIndex, error) {
	idx := headerIndex{bookID: -1, title: -1, author: -1, price: -1}

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case headerBookID, headerBookIDAlias:
			if idx.bookID < 0 {
				idx.bookID = i
			}
		case headerTitle:
			idx.title = i
		case headerAuthor:
			idx.author = i
		case headerPrice:
			idx.price = i
		}
	}

	var missing []string
	if idx.bookID < 0 {
		missing = append(missing, headerBookID)
	}
	if idx.title < 0 {
		missing = append(missing, headerTitle)
	}
	if idx.author < 0 {
		missing = append(missing, headerAuthor)
	}
	if idx.price < 0 {
		missing = append(missing, headerPrice)
	}
	if len(missing) > 0 {
		return idx, types.NewAppError(
			types.ErrCodeCatalogParse,
			fmt.Sprintf("catalog file is missing required headers: %s", strings.Join(missing, ", ")),
			nil,
		)
	}

	return idx, nil
}

// normalizeRow converts one raw CSV row into a BookRecord. Returns ok=false
// when the row should be skipped: blank book id or blank title.
func normalizeRow(row []string, cols headerIndex) (types.BookRecord, bool) {
	bookID := formatBookID(cell(row, cols.bookID))
	if bookID == "" {
		return types.BookRecord{}, false
	}

	title := strings.TrimSpace(cell(row, cols.title))
	if title == "" {
		return types.BookRecord{}, false
	}

	author := strings.TrimSpace(cell(row, cols.author))
	if author == "" {
		author = defaultAuthor
	}

	return types.BookRecord{
		BookID: bookID,
		Title:  title,
		Author: author,
		Price:  parsePrice(cell(row, cols.price)),
	}, true
}

// cell returns the trimmed value at index i, or empty for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// formatBookID normalizes the raw book id: numeric values are zero-padded
// into the BK-%04d scheme used throughout the system; non-numeric values are
// kept as-is. Empty values yield "".
func formatBookID(raw string) string {
	if raw == "" {
		return ""
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return fmt.Sprintf("BK-%04d", n)
	}
	return raw
}

// parsePrice parses the price cell as a float. Absent or non-numeric cells
// yield nil rather than an error: the source spreadsheets routinely leave
// price blank.
func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &p
}
