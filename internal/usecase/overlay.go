package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/usecase/dto"
)

// OverlayFetcher retrieves school records near the anchor point and converts
// them into tagged overlay markers. Overlay is best-effort: every failure
// path resolves to an empty marker set, never to a pipeline abort.
type OverlayFetcher struct {
	schools repository.SchoolRepository
	enabled bool
	metrics metrics.Emitter
	logger  *zap.Logger
}

func NewOverlayFetcher(
	schools repository.SchoolRepository,
	enabled bool,
	emitter metrics.Emitter,
	logger *zap.Logger,
) *OverlayFetcher {
	return &OverlayFetcher{
		schools: schools,
		enabled: enabled,
		metrics: emitter,
		logger:  logger,
	}
}

// Fetch resolves the overlay for the given anchor. The client capability is
// not called when the overlay is disabled or there is nothing to anchor the
// query to.
func (f *OverlayFetcher) Fetch(ctx context.Context, anchor *domain.MapPoint) dto.OverlayResult {
	if !f.enabled {
		f.metrics.Emit("schools_disabled", metrics.Fields{})
		return dto.OverlayResult{Status: dto.OverlayDisabled}
	}
	if anchor == nil {
		f.metrics.Emit("schools_skipped", metrics.Fields{"reason": "no_anchor"})
		return dto.OverlayResult{Status: dto.OverlayNoAnchor}
	}

	start := time.Now()
	records, err := f.schools.FindNearby(ctx, anchor.Lat, anchor.Lon)
	if err != nil {
		f.logger.Warn("school fetch failed, building without overlay", zap.Error(err))
		f.metrics.Emit("schools_failed", metrics.Fields{"error": err.Error()})
		return dto.OverlayResult{Status: dto.OverlayFailed}
	}

	markers := make([]domain.SchoolMarker, 0, len(records))
	byRating := make(map[string]int)
	byType := make(map[string]int)
	for _, school := range records {
		if !school.Lat.Valid || !school.Lon.Valid {
			continue
		}
		m := schoolToMarker(school)
		markers = append(markers, m)
		byRating[m.Rating.Tag()]++
		byType[m.Type]++
	}

	elapsed := time.Since(start)
	f.metrics.Emit("schools_loaded", metrics.Fields{"count": len(markers)})
	f.metrics.Emit("schools_summary", metrics.Fields{
		"ms":        elapsed.Milliseconds(),
		"by_rating": byRating,
		"by_type":   byType,
	})

	return dto.OverlayResult{
		Status:  dto.OverlayLoaded,
		Markers: markers,
		Elapsed: elapsed,
	}
}

func schoolToMarker(s domain.School) domain.SchoolMarker {
	schoolType := normalizeSchoolType(s)
	return domain.SchoolMarker{
		Lat:       s.Lat.Value,
		Lon:       s.Lon.Value,
		PopupHTML: schoolPopup(s, schoolType),
		Rating:    s.Rating,
		Type:      schoolType,
		Color:     ratingToColor(s.Rating),
		Tags: []domain.FilterTag{
			{Dimension: "rating", Value: s.Rating.Tag()},
			{Dimension: "type", Value: schoolType},
		},
	}
}

// ratingToColor maps ratings onto a blue/purple scale so school pins stay
// visually distinct from the red/orange/green property pins. Higher rating,
// cooler hue. A missing rating is neutral, never treated as zero.
func ratingToColor(r domain.Rating) string {
	if !r.Valid {
		return "lightgray"
	}
	switch {
	case r.Value >= 9:
		return "darkblue"
	case r.Value >= 7:
		return "blue"
	case r.Value >= 5:
		return "cadetblue"
	case r.Value >= 3:
		return "purple"
	default:
		return "darkpurple"
	}
}

// normalizeSchoolType returns a stable label: public | charter | private.
// Falls back to boolean hints when the explicit type field is absent.
func normalizeSchoolType(s domain.School) string {
	raw := s.SchoolType
	if raw == "" {
		raw = s.TypeSnake
	}
	if raw == "" {
		raw = s.TypeShort
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "public", "private", "charter":
		return strings.ToLower(strings.TrimSpace(raw))
	case "district", "magnet":
		return "public"
	case "religious", "parochial":
		return "private"
	}
	if s.IsPrivate != nil && *s.IsPrivate {
		return "private"
	}
	if s.IsCharter != nil && *s.IsCharter {
		return "charter"
	}
	return "public"
}

func schoolPopup(s domain.School, schoolType string) string {
	rating := "N/A"
	if s.Rating.Valid {
		rating = s.Rating.Tag()
	}
	return fmt.Sprintf(
		`<div style="width:250px"><strong>%s</strong><br>Rating: %s<br>Type: %s<br>%s, %s</div>`,
		s.Name, rating, schoolType, s.Address.Street1, s.Address.City,
	)
}
