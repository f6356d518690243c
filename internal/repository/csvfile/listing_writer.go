package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
)

var header = []string{
	"ListingId",
	"Cash",
	"Price",
	"Location",
	"Content",
	"Rate",
	"Payment",
	"EstimatedPayment",
	"DetailsLink",
	"PhotoLink",
}

// ListingWriter exports raw listings to a CSV file, one row per listing.
// Missing fields stay blank rather than failing the row.
type ListingWriter struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
}

var _ repository.ListingWriter = (*ListingWriter)(nil)

func NewListingWriter(path string, logger *zap.Logger) (*ListingWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &ListingWriter{file: f, writer: w, logger: logger}, nil
}

func (c *ListingWriter) Write(listings []domain.Listing) error {
	for _, l := range listings {
		row := []string{
			string(l.ListingID),
			l.CashFormat,
			l.PriceHTML,
			l.Location,
			l.Content,
			l.MainFeatures.Rate,
			l.MainFeatures.PaymentFormat,
			l.MainFeatures.EstimatedPayFormat,
			l.DetailsLink,
			l.PhotoLink,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return err
	}
	c.logger.Info("listings written to CSV",
		zap.String("file", c.file.Name()),
		zap.Int("rows", len(listings)))
	return nil
}

func (c *ListingWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
