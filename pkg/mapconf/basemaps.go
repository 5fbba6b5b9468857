package mapconf

import (
	"os"
	"strings"
)

// DefaultBasemap is used whenever a basemap id does not resolve.
const DefaultBasemap = "streets"

// StyleKeyEnv names the environment variable holding the tile provider API key
// substituted into style URLs containing the {key} placeholder.
const StyleKeyEnv = "MAPDESK_STYLE_KEY"

// Basemap is one selectable background style.
type Basemap struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	StyleURL string `json:"styleUrl" yaml:"style_url"`
}

// Registry resolves basemap ids to style references.
type Registry struct {
	basemaps []Basemap
}

// defaultBasemaps lists the built-in styles. Keyless entries work out of the
// box; the maptiler entries need MAPDESK_STYLE_KEY set.
func defaultBasemaps() []Basemap {
	return []Basemap{
		{ID: "streets", Label: "Streets", StyleURL: "https://tiles.openfreemap.org/styles/liberty"},
		{ID: "bright", Label: "Bright", StyleURL: "https://tiles.openfreemap.org/styles/bright"},
		{ID: "positron", Label: "Light", StyleURL: "https://tiles.openfreemap.org/styles/positron"},
		{ID: "dark", Label: "Dark", StyleURL: "https://tiles.openfreemap.org/styles/dark"},
		{ID: "satellite", Label: "Satellite", StyleURL: "https://api.maptiler.com/maps/hybrid/style.json?key={key}"},
		{ID: "outdoor", Label: "Outdoor", StyleURL: "https://api.maptiler.com/maps/outdoor-v2/style.json?key={key}"},
	}
}

// NewRegistry builds a registry from the built-in table with extra entries
// merged over it (matching ids override, new ids append).
func NewRegistry(extra ...Basemap) *Registry {
	r := &Registry{basemaps: defaultBasemaps()}
	for _, b := range extra {
		if b.ID == "" || b.StyleURL == "" {
			continue
		}
		replaced := false
		for i := range r.basemaps {
			if r.basemaps[i].ID == b.ID {
				r.basemaps[i] = b
				replaced = true
				break
			}
		}
		if !replaced {
			r.basemaps = append(r.basemaps, b)
		}
	}
	return r
}

// Basemaps returns all registered basemaps with style keys substituted.
func (r *Registry) Basemaps() []Basemap {
	out := make([]Basemap, len(r.basemaps))
	copy(out, r.basemaps)
	for i := range out {
		out[i].StyleURL = substituteKey(out[i].StyleURL)
	}
	return out
}

// Resolve returns the style URL for a basemap id. The second return is false
// when the id is unknown.
func (r *Registry) Resolve(id string) (string, bool) {
	for _, b := range r.basemaps {
		if b.ID == id {
			return substituteKey(b.StyleURL), true
		}
	}
	return "", false
}

func substituteKey(url string) string {
	if !strings.Contains(url, "{key}") {
		return url
	}
	return strings.ReplaceAll(url, "{key}", os.Getenv(StyleKeyEnv))
}
