package repository

import (
	"github.com/assumable-map/internal/domain"
)

// MapCanvas is the opaque rendering capability that turns marker layers into
// a single self-contained artifact. Save is all-or-nothing: on error no file
// may be left at the target path.
type MapCanvas interface {
	SetView(lat, lon float64, zoom int)

	// AddLayer registers one independently toggleable marker layer.
	AddLayer(name string, markers []domain.CanvasMarker)

	// AddTagFilter registers a filter control over marker tags for one
	// dimension; values within a control combine with OR semantics.
	AddTagFilter(name string, values []string)

	Save(path string) error
}
