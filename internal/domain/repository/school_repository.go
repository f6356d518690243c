package repository

import (
	"context"

	"github.com/assumable-map/internal/domain"
)

// SchoolRepository finds schools near a coordinate. Any transport,
// authorization or decoding error is returned as-is; the overlay stage
// converts all of them uniformly into "no overlay available".
type SchoolRepository interface {
	FindNearby(ctx context.Context, lat, lon float64) ([]domain.School, error)
}
