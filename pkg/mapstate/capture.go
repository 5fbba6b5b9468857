package mapstate

import "mapdesk/pkg/openmap"

// fallbackViewport is returned when no live map is attached: a whole-world
// view matching the landing page default.
func fallbackViewport() openmap.Viewport {
	return openmap.Viewport{
		Center: [2]float64{0, 20},
		Zoom:   2,
	}
}

// CaptureViewport reads the live camera. With no map attached it returns the
// fixed fallback viewport; it never fails. Capture runs opportunistically
// during save and must not block saving.
func (m *Manager) CaptureViewport() openmap.Viewport {
	m.mu.RLock()
	view := m.view
	m.mu.RUnlock()

	if view == nil {
		return fallbackViewport()
	}
	return view.Viewport()
}

// CaptureRenderState reads projection, terrain, sky and fog off the live map.
// Each field independently defaults to absent when the map does not provide
// it. Returns nil when nothing is set at all.
func (m *Manager) CaptureRenderState() *openmap.RenderState {
	m.mu.RLock()
	view := m.view
	m.mu.RUnlock()

	if view == nil {
		return nil
	}

	var rs openmap.RenderState
	if p, ok := view.(ProjectionProvider); ok {
		rs.Projection = p.Projection()
	}
	if t, ok := view.(TerrainProvider); ok {
		rs.Terrain = t.Terrain()
	}
	if s, ok := view.(SkyProvider); ok {
		rs.Sky = s.Sky()
	}
	if f, ok := view.(FogProvider); ok {
		rs.Fog = f.Fog()
	}

	if rs.Projection == "" && rs.Terrain == nil && rs.Sky == nil && rs.Fog == nil {
		return nil
	}
	return &rs
}

// CaptureLayerStyles records type, paint and layout for each given layer id
// from the live map's style. Identifiers the map does not know are silently
// omitted.
func (m *Manager) CaptureLayerStyles(layerIDs []string) []openmap.LayerStyle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.captureLayerStylesLocked(layerIDs)
}

func (m *Manager) captureLayerStylesLocked(layerIDs []string) []openmap.LayerStyle {
	styles, ok := m.view.(StyleProvider)
	if !ok {
		return nil
	}

	var out []openmap.LayerStyle
	for _, id := range layerIDs {
		if style, found := styles.LayerStyle(id); found {
			style.LayerID = id
			out = append(out, style)
		}
	}
	return out
}
