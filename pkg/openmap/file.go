// Package openmap defines the .openmap project file format: a versioned JSON
// document capturing the map configuration, the camera, engine render state
// and every loaded vector dataset. A FileState is constructed only as a
// snapshot at save time and parsed only at load time; the live aggregate
// between those points is mapstate.Manager.
package openmap

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"mapdesk/pkg/mapconf"
)

// Version is the format version written into every saved document. The field
// is carried but deliberately not gated on load; any value is accepted.
const Version = "1.0"

// Padding holds four viewport edge insets in pixels.
type Padding struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Viewport describes the camera: what part of the map is visible.
type Viewport struct {
	Center  [2]float64 `json:"center"` // lon, lat
	Zoom    float64    `json:"zoom"`
	Bearing float64    `json:"bearing"`
	Pitch   float64    `json:"pitch"`
	Padding *Padding   `json:"padding,omitempty"`
}

// Terrain describes a terrain source and its vertical exaggeration.
type Terrain struct {
	Source       string  `json:"source"`
	Exaggeration float64 `json:"exaggeration"`
}

// RenderState holds engine-level visual configuration independent of the
// viewport. Every field is optional; absence means "engine default". Sky and
// fog are opaque engine bags captured and replayed verbatim.
type RenderState struct {
	Projection string         `json:"projection,omitempty"`
	Terrain    *Terrain       `json:"terrain,omitempty"`
	Sky        map[string]any `json:"sky,omitempty"`
	Fog        map[string]any `json:"fog,omitempty"`
}

// LayerStyle is a captured style definition for one rendered layer. Paint and
// layout are opaque engine key/value bags.
type LayerStyle struct {
	LayerID string         `json:"layerId,omitempty"`
	Type    string         `json:"type"`
	Paint   map[string]any `json:"paint,omitempty"`
	Layout  map[string]any `json:"layout,omitempty"`
}

// Dataset is one loaded vector dataset: its geometry, visibility and the
// derived rendering layers with their captured styles.
type Dataset struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Geometry *geojson.FeatureCollection `json:"geometry"`
	Visible  bool                       `json:"visible"`
	LayerIDs []string                   `json:"layerIds"`
	Styles   []LayerStyle               `json:"styles,omitempty"`
}

// FileState is the persisted .openmap document.
type FileState struct {
	Version     string         `json:"version"`
	SavedAt     time.Time      `json:"savedAt"`
	Config      mapconf.Config `json:"config"`
	Viewport    Viewport       `json:"viewport"`
	RenderState *RenderState   `json:"renderState,omitempty"`
	Datasets    []Dataset      `json:"datasets"`
}

// FileStateToConfig projects a parsed document into a live configuration.
// The saved viewport always wins over whatever initial view was embedded in
// the stored config.
func FileStateToConfig(fs *FileState) mapconf.Config {
	cfg := fs.Config.Clone()
	cfg.Center = fs.Viewport.Center
	cfg.Zoom = fs.Viewport.Zoom
	return cfg
}
