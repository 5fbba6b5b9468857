package mapstate

import "mapdesk/pkg/openmap"

// MapView is the live map attached to the manager. Only the camera is
// mandatory; everything else is an optional capability below.
type MapView interface {
	Viewport() openmap.Viewport
}

// The capability interfaces model engine accessors that may be missing on
// older engines. Capture treats an unimplemented capability as "absent",
// never as an error, so saving always succeeds against a partially
// initialized map.

// ProjectionProvider exposes the active projection name ("" when unset).
type ProjectionProvider interface {
	Projection() string
}

// TerrainProvider exposes the active terrain descriptor (nil when disabled).
type TerrainProvider interface {
	Terrain() *openmap.Terrain
}

// SkyProvider exposes the sky bag (nil when unset).
type SkyProvider interface {
	Sky() map[string]any
}

// FogProvider exposes the fog bag (nil when unset).
type FogProvider interface {
	Fog() map[string]any
}

// StyleProvider looks up the current style definition of one layer.
type StyleProvider interface {
	LayerStyle(id string) (openmap.LayerStyle, bool)
}
