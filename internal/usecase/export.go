package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	apperrors "github.com/assumable-map/internal/pkg/errors"
	"github.com/assumable-map/internal/pkg/metrics"
)

// ExportUseCase writes raw listings through every configured tabular backend.
type ExportUseCase struct {
	writers []repository.ListingWriter
	metrics metrics.Emitter
	logger  *zap.Logger
}

func NewExportUseCase(
	writers []repository.ListingWriter,
	emitter metrics.Emitter,
	logger *zap.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		writers: writers,
		metrics: emitter,
		logger:  logger,
	}
}

func (uc *ExportUseCase) Export(listings []domain.Listing) error {
	start := time.Now()
	for _, w := range uc.writers {
		if err := w.Write(listings); err != nil {
			return apperrors.ErrExportFailed.WithDetails(map[string]interface{}{
				"cause": err.Error(),
			})
		}
	}
	uc.metrics.Emit("listings_exported", metrics.Fields{
		"rows":    len(listings),
		"writers": len(uc.writers),
		"ms":      time.Since(start).Milliseconds(),
	})
	return nil
}
