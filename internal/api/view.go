package api

import (
	"sync"

	"mapdesk/pkg/openmap"
)

// liveView mirrors the camera and render state the UI reports over the
// websocket. It implements mapstate.MapView and all capture capability
// interfaces; the manager reads it synchronously during save.
type liveView struct {
	mu       sync.RWMutex
	viewport openmap.Viewport
	render   openmap.RenderState
	styles   map[string]openmap.LayerStyle
}

func newLiveView() *liveView {
	return &liveView{styles: make(map[string]openmap.LayerStyle)}
}

func (v *liveView) setViewport(vp openmap.Viewport) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport = vp
}

func (v *liveView) setRenderState(rs openmap.RenderState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.render = rs
}

// setStyles replaces the style definitions the UI reported for its layers.
func (v *liveView) setStyles(styles []openmap.LayerStyle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, s := range styles {
		if s.LayerID != "" {
			v.styles[s.LayerID] = s
		}
	}
}

func (v *liveView) dropStyles(layerIDs []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range layerIDs {
		delete(v.styles, id)
	}
}

// --- mapstate.MapView and capabilities ---

func (v *liveView) Viewport() openmap.Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.viewport
}

func (v *liveView) Projection() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.render.Projection
}

func (v *liveView) Terrain() *openmap.Terrain {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.render.Terrain == nil {
		return nil
	}
	t := *v.render.Terrain
	return &t
}

func (v *liveView) Sky() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.render.Sky
}

func (v *liveView) Fog() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.render.Fog
}

func (v *liveView) LayerStyle(id string) (openmap.LayerStyle, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s, ok := v.styles[id]
	return s, ok
}
