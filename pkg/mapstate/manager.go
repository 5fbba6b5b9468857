// Package mapstate holds the single authoritative aggregate of "the project
// currently open": configuration, file path, dirty flag, the attached live
// map and the dataset list. Exactly one Manager exists per process; it is
// constructed explicitly and passed into every component that needs it, and
// Reset at every project-close boundary.
package mapstate

import (
	"encoding/json"
	"sync"
	"time"

	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/openmap"
)

// Manager aggregates the state of the open project. All methods are safe for
// concurrent use; bridge handlers run on server goroutines.
type Manager struct {
	mu       sync.RWMutex
	path     string
	dirty    bool
	cfg      *mapconf.Config
	view     MapView
	datasets []openmap.Dataset
}

// New creates an empty manager: no project open.
func New() *Manager {
	return &Manager{}
}

// SetView attaches the live map. Pass nil when the map goes away; capture
// then degrades to fallbacks.
func (m *Manager) SetView(v MapView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = v
}

// Path returns the file path of the open project ("" when never saved).
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// SetPath records the file path of the open project.
func (m *Manager) SetPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
}

// Dirty reports whether there are unsaved changes.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirty
}

// MarkDirty flags unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// MarkClean clears the dirty flag, after a successful save or load.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = false
}

// Open reports whether a project is currently open.
func (m *Manager) Open() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg != nil
}

// Config returns a copy of the current configuration, or nil when no project
// is open.
func (m *Manager) Config() *mapconf.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return nil
	}
	c := m.cfg.Clone()
	return &c
}

// SetConfig installs the configuration, opening a project.
func (m *Manager) SetConfig(c mapconf.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc := c.Clone()
	m.cfg = &cc
}

// Datasets returns a copy of the dataset list. Mutating the returned slice
// has no effect on the manager.
func (m *Manager) Datasets() []openmap.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyDatasets(m.datasets)
}

// SetDatasets replaces the whole dataset list. Callers never mutate elements
// in place; the list is copied on the way in.
func (m *Manager) SetDatasets(ds []openmap.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = copyDatasets(ds)
}

// SetDatasetVisible updates one dataset's visibility and marks the project
// dirty. Unknown ids are ignored.
func (m *Manager) SetDatasetVisible(id string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := copyDatasets(m.datasets)
	for i := range next {
		if next[i].ID == id && next[i].Visible != visible {
			next[i].Visible = visible
			m.datasets = next
			m.dirty = true
			return
		}
	}
}

// RenameDataset updates one dataset's display name and marks the project
// dirty. Unknown ids and empty names are ignored.
func (m *Manager) RenameDataset(id, name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := copyDatasets(m.datasets)
	for i := range next {
		if next[i].ID == id && next[i].Name != name {
			next[i].Name = name
			m.datasets = next
			m.dirty = true
			return
		}
	}
}

// ReorderDatasets rearranges the list to follow the given id order. Ids not
// in the list are ignored; datasets not mentioned keep their relative order at
// the end. A no-op reorder does not mark the project dirty.
func (m *Manager) ReorderDatasets(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := make(map[string]int, len(m.datasets))
	for i := range m.datasets {
		byID[m.datasets[i].ID] = i
	}

	next := make([]openmap.Dataset, 0, len(m.datasets))
	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok && !taken[id] {
			next = append(next, m.datasets[i])
			taken[id] = true
		}
	}
	for i := range m.datasets {
		if !taken[m.datasets[i].ID] {
			next = append(next, m.datasets[i])
		}
	}

	changed := false
	for i := range next {
		if next[i].ID != m.datasets[i].ID {
			changed = true
			break
		}
	}
	if !changed {
		return
	}
	m.datasets = copyDatasets(next)
	m.dirty = true
}

// RemoveDataset drops one dataset from the list and marks the project dirty.
func (m *Manager) RemoveDataset(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.datasets {
		if m.datasets[i].ID == id {
			next := copyDatasets(m.datasets)
			m.datasets = append(next[:i], next[i+1:]...)
			m.dirty = true
			return
		}
	}
}

// Populate loads a parsed project document into the manager, replacing
// whatever was open before. The manager comes out clean.
func (m *Manager) Populate(fs *openmap.FileState, path string) {
	cfg := openmap.FileStateToConfig(fs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = &cfg
	m.path = path
	m.dirty = false
	m.datasets = copyDatasets(fs.Datasets)
}

// Serialize assembles a snapshot of the open project with a fresh timestamp,
// refreshing dataset style captures from the live map first. Returns nil when
// no project is open.
func (m *Manager) Serialize() *openmap.FileState {
	viewport := m.CaptureViewport()
	render := m.CaptureRenderState()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil
	}

	datasets := copyDatasets(m.datasets)
	for i := range datasets {
		if styles := m.captureLayerStylesLocked(datasets[i].LayerIDs); len(styles) > 0 {
			datasets[i].Styles = styles
		}
	}
	m.datasets = copyDatasets(datasets)

	return &openmap.FileState{
		Version:     openmap.Version,
		SavedAt:     time.Now().UTC(),
		Config:      m.cfg.Clone(),
		Viewport:    viewport,
		RenderState: render,
		Datasets:    datasets,
	}
}

// ProjectJSON returns the pretty-printed project document, or nil when no
// project is open.
func (m *Manager) ProjectJSON() ([]byte, error) {
	fs := m.Serialize()
	if fs == nil {
		return nil, nil
	}
	return json.MarshalIndent(fs, "", "  ")
}

// Reset clears the manager back to "no project open": path, dirty flag,
// configuration, map reference and dataset list.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = ""
	m.dirty = false
	m.cfg = nil
	m.view = nil
	m.datasets = nil
}

func copyDatasets(ds []openmap.Dataset) []openmap.Dataset {
	if ds == nil {
		return nil
	}
	out := make([]openmap.Dataset, len(ds))
	copy(out, ds)
	for i := range out {
		out[i].LayerIDs = append([]string(nil), ds[i].LayerIDs...)
		out[i].Styles = append([]openmap.LayerStyle(nil), ds[i].Styles...)
	}
	return out
}
