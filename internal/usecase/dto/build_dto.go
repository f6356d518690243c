package dto

import (
	"time"

	"github.com/assumable-map/internal/domain"
)

// LoadResult is the cache loader's output: every usable point plus the
// skip/timing tallies for observability.
type LoadResult struct {
	Points  []domain.MapPoint
	Loaded  int
	Skipped int
	Elapsed time.Duration
}

// OverlayStatus tags how the overlay stage resolved. Anything but
// OverlayLoaded means the artifact is built without school markers.
type OverlayStatus string

const (
	OverlayLoaded   OverlayStatus = "loaded"
	OverlayDisabled OverlayStatus = "disabled"
	OverlayNoAnchor OverlayStatus = "no_anchor"
	OverlayFailed   OverlayStatus = "failed"
)

// OverlayResult is the overlay fetcher's output. Markers is nil unless
// Status is OverlayLoaded; callers must branch on Status rather than assume
// overlay presence.
type OverlayResult struct {
	Status  OverlayStatus
	Markers []domain.SchoolMarker
	Elapsed time.Duration
}

// BuildReport summarizes one pipeline run.
type BuildReport struct {
	Points          int
	Skipped         int
	Markers         int
	Overlay         OverlayStatus
	OutputPath      string
	ArtifactWritten bool
	Elapsed         time.Duration
}
