package postgres

import (
	"fmt"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
)

const listingsSchema = `
CREATE TABLE IF NOT EXISTS listings (
	listing_id        TEXT PRIMARY KEY,
	price_html        TEXT NOT NULL DEFAULT '',
	cash_format       TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	content           TEXT NOT NULL DEFAULT '',
	rate              TEXT NOT NULL DEFAULT '',
	payment           TEXT NOT NULL DEFAULT '',
	estimated_payment TEXT NOT NULL DEFAULT '',
	details_link      TEXT NOT NULL DEFAULT '',
	photo_link        TEXT NOT NULL DEFAULT '',
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_location ON listings(location);
`

const upsertListing = `
INSERT INTO listings (
	listing_id, price_html, cash_format, location, content,
	rate, payment, estimated_payment, details_link, photo_link, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (listing_id) DO UPDATE SET
	price_html = EXCLUDED.price_html,
	cash_format = EXCLUDED.cash_format,
	location = EXCLUDED.location,
	content = EXCLUDED.content,
	rate = EXCLUDED.rate,
	payment = EXCLUDED.payment,
	estimated_payment = EXCLUDED.estimated_payment,
	details_link = EXCLUDED.details_link,
	photo_link = EXCLUDED.photo_link,
	updated_at = NOW()
`

// ListingWriter upserts raw listings into Postgres, keyed by listing ID.
type ListingWriter struct {
	db *DB
}

var _ repository.ListingWriter = (*ListingWriter)(nil)

func NewListingWriter(db *DB) (*ListingWriter, error) {
	if _, err := db.Exec(listingsSchema); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return &ListingWriter{db: db}, nil
}

func (w *ListingWriter) Write(listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := w.db.Beginx()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	for _, l := range listings {
		if l.ListingID == "" {
			continue
		}
		if _, err := tx.Exec(upsertListing,
			string(l.ListingID),
			l.PriceHTML,
			l.CashFormat,
			l.Location,
			l.Content,
			l.MainFeatures.Rate,
			l.MainFeatures.PaymentFormat,
			l.MainFeatures.EstimatedPayFormat,
			l.DetailsLink,
			l.PhotoLink,
		); err != nil {
			return fmt.Errorf("postgres: upsert listing %s: %w", l.ListingID, err)
		}
	}

	return tx.Commit()
}

// Close is a no-op; the shared DB handle is owned by the caller.
func (w *ListingWriter) Close() error {
	return nil
}
