package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/config"
	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
	apperrors "github.com/assumable-map/internal/pkg/errors"
	"github.com/assumable-map/internal/pkg/metrics"
	"github.com/assumable-map/internal/usecase/dto"
)

const (
	// anchorZoom is the initial zoom level around the first loaded point.
	anchorZoom = 11

	propertyIcon = "home"
	schoolIcon   = "graduation-cap"
	schoolsLayer = "Schools"
)

// MapBuildUseCase orchestrates the cache-driven build: load points, classify
// into bucket layers, attach the best-effort school overlay, persist the
// artifact.
type MapBuildUseCase struct {
	loader    *CacheLoader
	overlay   *OverlayFetcher
	newCanvas func() repository.MapCanvas
	cfg       config.MapConfig
	metrics   metrics.Emitter
	logger    *zap.Logger
}

func NewMapBuildUseCase(
	loader *CacheLoader,
	overlay *OverlayFetcher,
	newCanvas func() repository.MapCanvas,
	cfg config.MapConfig,
	emitter metrics.Emitter,
	logger *zap.Logger,
) *MapBuildUseCase {
	return &MapBuildUseCase{
		loader:    loader,
		overlay:   overlay,
		newCanvas: newCanvas,
		cfg:       cfg,
		metrics:   emitter,
		logger:    logger,
	}
}

// Build runs the pipeline once. It returns ErrNothingToRender (with no file
// written) when zero points load and empty artifacts are not tolerated, and
// ErrArtifactWrite when the final save fails. Overlay problems never surface
// as errors.
func (uc *MapBuildUseCase) Build(ctx context.Context) (*dto.BuildReport, error) {
	start := time.Now()

	load, err := uc.loader.Load()
	if err != nil && !errors.Is(err, apperrors.ErrEmptyCache) {
		return nil, err
	}
	emptyCache := errors.Is(err, apperrors.ErrEmptyCache)

	report := &dto.BuildReport{
		Points:     load.Loaded,
		Skipped:    load.Skipped,
		OutputPath: uc.cfg.OutputPath,
	}

	if len(load.Points) == 0 && !uc.cfg.AllowEmpty {
		uc.logger.Warn("no mappable points, skipping artifact",
			zap.Bool("empty_cache", emptyCache),
			zap.Int("skipped", load.Skipped))
		report.Overlay = dto.OverlayNoAnchor
		report.Elapsed = time.Since(start)
		if emptyCache {
			return report, apperrors.ErrEmptyCache
		}
		return report, apperrors.ErrNothingToRender
	}

	canvas := uc.newCanvas()

	var anchor *domain.MapPoint
	if len(load.Points) > 0 {
		anchor = &load.Points[0]
		canvas.SetView(anchor.Lat, anchor.Lon, anchorZoom)
	}

	uc.addPropertyLayers(canvas, load.Points)

	overlayRes := uc.overlay.Fetch(ctx, anchor)
	report.Overlay = overlayRes.Status
	report.Markers = len(overlayRes.Markers)
	if overlayRes.Status == dto.OverlayLoaded {
		uc.addSchoolLayers(canvas, overlayRes.Markers)
	}

	saveStart := time.Now()
	if err := canvas.Save(uc.cfg.OutputPath); err != nil {
		uc.logger.Error("artifact save failed",
			zap.String("path", uc.cfg.OutputPath),
			zap.Error(err))
		return report, apperrors.ErrArtifactWrite.WithDetails(map[string]interface{}{
			"path":  uc.cfg.OutputPath,
			"cause": err.Error(),
		})
	}
	report.ArtifactWritten = true
	report.Elapsed = time.Since(start)

	uc.metrics.Emit("map_saved", metrics.Fields{
		"file":     uc.cfg.OutputPath,
		"pins":     report.Points,
		"save_ms":  time.Since(saveStart).Milliseconds(),
		"total_ms": report.Elapsed.Milliseconds(),
	})
	return report, nil
}

// addPropertyLayers creates one toggleable layer per non-empty price bucket,
// in fixed bucket order.
func (uc *MapBuildUseCase) addPropertyLayers(canvas repository.MapCanvas, points []domain.MapPoint) {
	byGroup := make(map[string][]domain.CanvasMarker)
	for _, pt := range points {
		byGroup[pt.Group] = append(byGroup[pt.Group], domain.CanvasMarker{
			Lat:       pt.Lat,
			Lon:       pt.Lon,
			PopupHTML: pt.PopupHTML,
			Color:     pt.Color,
			Icon:      propertyIcon,
		})
	}

	counts := make(metrics.Fields, len(byGroup))
	for _, bucket := range BucketOrder() {
		markers := byGroup[bucket.Label]
		if len(markers) == 0 {
			continue
		}
		canvas.AddLayer(bucket.Label, markers)
		counts[bucket.Label] = len(markers)
	}
	uc.metrics.Emit("property_groups", counts)
}

// addSchoolLayers adds the school markers plus one filter control per tag
// dimension. Controls are independent, so combining a rating selection with a
// type selection intersects the two.
func (uc *MapBuildUseCase) addSchoolLayers(canvas repository.MapCanvas, schoolMarkers []domain.SchoolMarker) {
	markers := make([]domain.CanvasMarker, 0, len(schoolMarkers))
	ratingSet := make(map[string]struct{})
	typeSet := make(map[string]struct{})
	for _, m := range schoolMarkers {
		tags := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			tags = append(tags, t.String())
			switch t.Dimension {
			case "rating":
				ratingSet[t.Value] = struct{}{}
			case "type":
				typeSet[t.Value] = struct{}{}
			}
		}
		markers = append(markers, domain.CanvasMarker{
			Lat:       m.Lat,
			Lon:       m.Lon,
			PopupHTML: m.PopupHTML,
			Color:     m.Color,
			Icon:      schoolIcon,
			Tags:      tags,
		})
	}

	canvas.AddLayer(schoolsLayer, markers)
	if len(ratingSet) > 0 {
		canvas.AddTagFilter("rating", sortRatingValues(ratingSet))
	}
	if len(typeSet) > 0 {
		canvas.AddTagFilter("type", sortedKeys(typeSet))
	}
}

// sortRatingValues orders rating filter values highest first with NA last.
func sortRatingValues(set map[string]struct{}) []string {
	values := sortedKeys(set)
	sort.SliceStable(values, func(i, j int) bool {
		ni, iErr := strconv.Atoi(values[i])
		nj, jErr := strconv.Atoi(values[j])
		if iErr != nil {
			return false
		}
		if jErr != nil {
			return true
		}
		return ni > nj
	})
	return values
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
