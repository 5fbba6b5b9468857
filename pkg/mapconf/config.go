// Package mapconf defines the map configuration chosen on the landing page:
// which basemap to show, the initial camera, and which optional map controls
// are enabled. A Config is embedded verbatim in saved .openmap project files.
package mapconf

// Control describes the state of one optional map control.
type Control struct {
	Enabled  bool   `json:"enabled"`
	Position string `json:"position"`
}

// Config holds the user-chosen map options.
type Config struct {
	Basemap  string             `json:"basemap"`
	StyleURL string             `json:"styleUrl"`
	Center   [2]float64         `json:"center"` // lon, lat
	Zoom     float64            `json:"zoom"`
	Controls map[string]Control `json:"controls"`
}

// controlDefault is one row of the static control default table.
type controlDefault struct {
	Label    string
	Enabled  bool
	Position string
}

var controlDefaults = map[string]controlDefault{
	"navigation": {Label: "Zoom & rotate", Enabled: true, Position: "top-right"},
	"scale":      {Label: "Scale bar", Enabled: true, Position: "bottom-left"},
	"fullscreen": {Label: "Fullscreen", Enabled: false, Position: "top-right"},
	"geolocate":  {Label: "Locate me", Enabled: false, Position: "top-right"},
	"globe":      {Label: "Globe view", Enabled: false, Position: "top-right"},
	"terrain":    {Label: "3D terrain", Enabled: false, Position: "top-right"},
}

// ControlNames returns the recognized control names in a stable order.
func ControlNames() []string {
	return []string{"navigation", "scale", "fullscreen", "geolocate", "globe", "terrain"}
}

// ControlLabel returns the display label for a recognized control, or the
// name itself if unknown.
func ControlLabel(name string) string {
	if d, ok := controlDefaults[name]; ok {
		return d.Label
	}
	return name
}

// DefaultControls returns a fresh control map populated from the default table.
func DefaultControls() map[string]Control {
	out := make(map[string]Control, len(controlDefaults))
	for name, d := range controlDefaults {
		out[name] = Control{Enabled: d.Enabled, Position: d.Position}
	}
	return out
}

// Clone returns a deep copy of the config. Controls maps are never shared
// between the returned value and the receiver.
func (c Config) Clone() Config {
	out := c
	out.Controls = make(map[string]Control, len(c.Controls))
	for name, ctl := range c.Controls {
		out.Controls[name] = ctl
	}
	return out
}
