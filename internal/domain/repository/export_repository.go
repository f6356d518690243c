package repository

import (
	"github.com/assumable-map/internal/domain"
)

// ListingWriter is a tabular export backend for raw listings.
type ListingWriter interface {
	Write(listings []domain.Listing) error
	Close() error
}
