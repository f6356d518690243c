package leaflet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/domain/repository"
)

// pinColors maps the marker color vocabulary (Leaflet.awesome-markers names,
// kept for parity with the classifier table) onto hex values for circle pins.
var pinColors = map[string]string{
	"red":        "#d63e2a",
	"lightred":   "#ff8e7f",
	"orange":     "#f69730",
	"green":      "#72b026",
	"gray":       "#575757",
	"darkblue":   "#0067a3",
	"blue":       "#38aadd",
	"cadetblue":  "#436978",
	"purple":     "#d252b9",
	"darkpurple": "#5b396b",
	"lightgray":  "#a3a3a3",
}

type markerData struct {
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Popup string   `json:"popup"`
	Color string   `json:"color"`
	Icon  string   `json:"icon,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

type layerData struct {
	Name    string       `json:"name"`
	Markers []markerData `json:"markers"`
}

type filterData struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type mapData struct {
	Center  [2]float64   `json:"center"`
	Zoom    int          `json:"zoom"`
	Layers  []layerData  `json:"layers"`
	Filters []filterData `json:"filters"`
}

// Canvas accumulates marker layers and renders them into one self-contained
// HTML artifact.
type Canvas struct {
	data   mapData
	logger *zap.Logger
}

var _ repository.MapCanvas = (*Canvas)(nil)

func NewCanvas(logger *zap.Logger) *Canvas {
	return &Canvas{
		data: mapData{
			Center: [2]float64{0, 0},
			Zoom:   2,
		},
		logger: logger,
	}
}

func (c *Canvas) SetView(lat, lon float64, zoom int) {
	c.data.Center = [2]float64{lat, lon}
	c.data.Zoom = zoom
}

func (c *Canvas) AddLayer(name string, markers []domain.CanvasMarker) {
	layer := layerData{Name: name, Markers: make([]markerData, 0, len(markers))}
	for _, m := range markers {
		color, ok := pinColors[m.Color]
		if !ok {
			color = pinColors["gray"]
		}
		layer.Markers = append(layer.Markers, markerData{
			Lat:   m.Lat,
			Lon:   m.Lon,
			Popup: m.PopupHTML,
			Color: color,
			Icon:  m.Icon,
			Tags:  m.Tags,
		})
	}
	c.data.Layers = append(c.data.Layers, layer)
}

func (c *Canvas) AddTagFilter(name string, values []string) {
	c.data.Filters = append(c.data.Filters, filterData{Name: name, Values: values})
}

// Save renders the artifact and writes it atomically: the rendered document
// goes to a temp file first and is renamed into place, so a failed run never
// leaves a partial artifact at the target path.
func (c *Canvas) Save(path string) error {
	payload, err := json.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("failed to marshal map data: %w", err)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, struct{ Data template.JS }{Data: template.JS(payload)}); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	c.logger.Info("map artifact written",
		zap.String("path", path),
		zap.Int("layers", len(c.data.Layers)),
		zap.Int("bytes", buf.Len()))
	return nil
}
