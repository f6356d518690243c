package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/pkg/metrics"
)

// ScrapeUseCase walks the listing source's pager and accumulates every raw
// listing. Fetched pages land in the page cache as a side effect of the
// listing client, which is what the map build pipeline later consumes.
type ScrapeUseCase struct {
	listings repository.ListingRepository
	metrics  metrics.Emitter
	logger   *zap.Logger
}

func NewScrapeUseCase(
	listings repository.ListingRepository,
	emitter metrics.Emitter,
	logger *zap.Logger,
) *ScrapeUseCase {
	return &ScrapeUseCase{
		listings: listings,
		metrics:  emitter,
		logger:   logger,
	}
}

// FetchAll fetches page 1 to learn the page count, then the remaining pages
// in order.
func (uc *ScrapeUseCase) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	start := time.Now()

	first, err := uc.listings.FetchListingPage(ctx, 1)
	if err != nil {
		return nil, err
	}

	totalPages := first.SearchPagerBar.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	all := append([]domain.Listing(nil), first.MapList.Listings...)
	uc.logger.Info("pagination discovered",
		zap.Int("total_pages", totalPages),
		zap.Int("first_page_items", len(all)))

	for page := 2; page <= totalPages; page++ {
		resp, err := uc.listings.FetchListingPage(ctx, page)
		if err != nil {
			return nil, err
		}
		items := resp.MapList.Listings
		if len(items) == 0 {
			uc.logger.Warn("empty listing page", zap.Int("page", page))
		}
		all = append(all, items...)
	}

	uc.metrics.Emit("listings_fetched", metrics.Fields{
		"pages": totalPages,
		"count": len(all),
		"ms":    time.Since(start).Milliseconds(),
	})
	return all, nil
}
