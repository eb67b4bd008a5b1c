package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk/internal/types"
)

func TestReadRecords(t *testing.T) {
	csvData := `bookid,title,author,price
1,The Go Programming Language,Donovan,450.50
2,Clean Architecture,,
BK-9001,Custom Keyed Book,Martin,199
,No ID Book,Someone,10
3,,Authorless,20
`

	records, skipped, err := ReadRecords(strings.NewReader(csvData))
	require.NoError(t, err)

	// Two rows skipped: blank book id and blank title.
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 3)

	assert.Equal(t, "BK-0001", records[0].BookID)
	assert.Equal(t, "The Go Programming Language", records[0].Title)
	assert.Equal(t, "Donovan", records[0].Author)
	require.NotNil(t, records[0].Price)
	assert.Equal(t, 450.50, *records[0].Price)

	// Empty author defaults; empty price stays nil.
	assert.Equal(t, "BK-0002", records[1].BookID)
	assert.Equal(t, "Unknown", records[1].Author)
	assert.Nil(t, records[1].Price)

	// Non-numeric ids pass through untouched.
	assert.Equal(t, "BK-9001", records[2].BookID)
}

func TestReadRecordsHeaderAliasesAndCasing(t *testing.T) {
	csvData := `Book_ID, Title ,AUTHOR,Price
7,Dune,Herbert,299
`

	records, skipped, err := ReadRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "BK-0007", records[0].BookID)
}

func TestReadRecordsMissingHeaders(t *testing.T) {
	csvData := `bookid,title
1,Dune
`

	_, _, err := ReadRecords(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeCatalogParse, types.CodeOf(err))
	assert.Contains(t, err.Error(), "author")
	assert.Contains(t, err.Error(), "price")
}

func TestReadRecordsEmptyInput(t *testing.T) {
	records, skipped, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Equal(t, 0, skipped)
}

func TestReadRecordsHeaderOnly(t *testing.T) {
	records, skipped, err := ReadRecords(strings.NewReader("bookid,title,author,price\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, skipped)
}

func TestReadRecordsShortRows(t *testing.T) {
	// Rows shorter than the header are tolerated; missing cells read as empty.
	csvData := `bookid,title,author,price
5,Short Row Book
`

	records, skipped, err := ReadRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown", records[0].Author)
	assert.Nil(t, records[0].Price)
}

func TestReadRecordsInvalidPrice(t *testing.T) {
	csvData := `bookid,title,author,price
8,Priced Oddly,Author,free
`

	records, _, err := ReadRecords(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Price)
}

func TestFormatBookID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "BK-0001"},
		{"42", "BK-0042"},
		{"12345", "BK-12345"},
		{"BK-0009", "BK-0009"},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := formatBookID(tt.in); got != tt.want {
			t.Errorf("formatBookID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
