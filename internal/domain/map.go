package domain

// MapPoint is one mappable property pin. Constructed only by the normalizer,
// which guarantees finite in-range coordinates; immutable afterwards.
type MapPoint struct {
	Lat       float64
	Lon       float64
	PopupHTML string
	Color     string
	Group     string
}

// FilterTag is a (dimension, value) pair attached to overlay markers for
// client-side filtering.
type FilterTag struct {
	Dimension string
	Value     string
}

func (t FilterTag) String() string {
	return t.Dimension + ":" + t.Value
}

// CanvasMarker is the shape the map canvas capability renders. Both property
// points and overlay markers are converted to it by the assembler.
type CanvasMarker struct {
	Lat       float64
	Lon       float64
	PopupHTML string
	Color     string
	Icon      string
	Tags      []string
}
