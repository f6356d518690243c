package csvfile

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
)

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestListingWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listings.csv")
	w, err := NewListingWriter(path, zap.NewNop())
	require.NoError(t, err)

	listings := []domain.Listing{
		{
			ListingID:   "12345",
			PriceHTML:   "$350,000",
			CashFormat:  "$150,000",
			Location:    "Bronx, NY 10467",
			Content:     "3 bed 2 bath",
			DetailsLink: "https://example.com/listing/12345",
			PhotoLink:   "https://photos.example.com/12345_zpid/photo.jpg",
			MainFeatures: domain.MainFeatures{
				Rate:               "2.75%",
				PaymentFormat:      "$1,200",
				EstimatedPayFormat: "$1,450",
			},
		},
		// Sparse record: blanks, never an error.
		{ListingID: "67890"},
	}
	require.NoError(t, w.Write(listings))
	require.NoError(t, w.Close())

	rows := readAllRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{
		"12345", "$150,000", "$350,000", "Bronx, NY 10467", "3 bed 2 bath",
		"2.75%", "$1,200", "$1,450",
		"https://example.com/listing/12345",
		"https://photos.example.com/12345_zpid/photo.jpg",
	}, rows[1])
	assert.Equal(t, []string{"67890", "", "", "", "", "", "", "", "", ""}, rows[2])
}

func TestListingWriter_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	w, err := NewListingWriter(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())

	rows := readAllRows(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, header, rows[0])
}
