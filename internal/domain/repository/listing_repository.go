package repository

import (
	"context"

	"github.com/assumable-map/internal/domain"
)

// ListingRepository fetches paginated listing search results. A successfully
// fetched page is persisted to the page cache before it is returned, so the
// map build pipeline only ever reads what already exists on disk.
type ListingRepository interface {
	FetchListingPage(ctx context.Context, page int) (*domain.ListingPage, error)
}
