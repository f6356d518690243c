package usecase

import (
	"encoding/json"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/pkg/errors"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/usecase/dto"
)

// CacheLoader turns cached listing pages into map points. A file or record
// that cannot be used counts as a skip; the batch never aborts on one bad
// input.
type CacheLoader struct {
	cache   repository.PageCacheRepository
	metrics metrics.Emitter
	logger  *zap.Logger
}

func NewCacheLoader(
	cache repository.PageCacheRepository,
	emitter metrics.Emitter,
	logger *zap.Logger,
) *CacheLoader {
	return &CacheLoader{
		cache:   cache,
		metrics: emitter,
		logger:  logger,
	}
}

// cachedListingPage is the envelope shape the loader needs; the request half
// of the cache document is irrelevant here.
type cachedListingPage struct {
	Response domain.ListingPage `json:"response"`
}

// Load reads every cached listing page in stable order and normalizes each
// record. An empty or missing cache returns a zero-point result together with
// ErrEmptyCache so the caller can decide whether that is acceptable.
func (l *CacheLoader) Load() (*dto.LoadResult, error) {
	start := time.Now()

	paths, err := l.cache.ListListingPages()
	if err != nil {
		return nil, err
	}
	l.metrics.Emit("cache_scan", metrics.Fields{"files": len(paths)})

	result := &dto.LoadResult{}
	for _, path := range paths {
		data, err := l.cache.ReadFile(path)
		if err != nil {
			l.logger.Warn("failed to read cache file",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			result.Skipped++
			continue
		}

		var page cachedListingPage
		if err := json.Unmarshal(data, &page); err != nil {
			l.logger.Warn("failed to parse cache file",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			result.Skipped++
			continue
		}

		listings := page.Response.MapList.Listings
		l.logger.Debug("cache page parsed",
			zap.String("file", filepath.Base(path)),
			zap.Int("listings", len(listings)))

		for _, listing := range listings {
			pt := ListingToPoint(listing)
			if pt == nil {
				result.Skipped++
				continue
			}
			result.Points = append(result.Points, *pt)
		}
	}

	result.Loaded = len(result.Points)
	result.Elapsed = time.Since(start)
	l.metrics.Emit("cache_loaded", metrics.Fields{
		"points":  result.Loaded,
		"skipped": result.Skipped,
		"ms":      result.Elapsed.Milliseconds(),
	})

	if len(paths) == 0 {
		return result, errors.ErrEmptyCache
	}
	return result, nil
}
