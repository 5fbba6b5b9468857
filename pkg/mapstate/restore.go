package mapstate

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"mapdesk/pkg/layers"
	"mapdesk/pkg/openmap"
)

// StyleAssignment tells the UI to apply one captured style to one freshly
// created layer.
type StyleAssignment struct {
	LayerID string             `json:"layerId"`
	Style   openmap.LayerStyle `json:"style"`
}

// RestorePlan is the manager's answer to a dataset-load notification: what
// the UI should do with the newly created layers.
type RestorePlan struct {
	DatasetID   string            `json:"datasetId"`
	New         bool              `json:"new"`
	DisplayName string            `json:"displayName,omitempty"`
	Visible     bool              `json:"visible"`
	Assignments []StyleAssignment `json:"assignments,omitempty"`
}

// DatasetLoaded reconciles a dataset-load notification against the known
// dataset list, matching by name rather than id because layer and dataset
// identifiers are allocated afresh each time data is loaded.
//
// A name match means "this dataset's geometry finished loading, not a brand
// new dataset": only the layer-id list of the existing record is updated, and
// the plan re-applies previously captured styles to the new layers plus any
// custom display name. Styles are matched to new layers by style type, first
// layer of the matching type wins. That is a best effort heuristic: with two
// layers of the same type the assignment can silently swap, which the format
// carries no information to prevent.
//
// With no name match the notification is a first-time load: the materialized
// geometry becomes a new record appended to the list and the project is
// marked dirty.
func (m *Manager) DatasetLoaded(name string, layerIDs []string, fc *geojson.FeatureCollection) RestorePlan {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := copyDatasets(m.datasets)
	for i := range next {
		if next[i].Name != name {
			continue
		}
		next[i].LayerIDs = append([]string(nil), layerIDs...)
		m.datasets = next

		return RestorePlan{
			DatasetID:   next[i].ID,
			DisplayName: next[i].Name,
			Visible:     next[i].Visible,
			Assignments: matchStylesByType(next[i].Styles, layerIDs),
		}
	}

	ds := openmap.Dataset{
		ID:       uuid.NewString(),
		Name:     name,
		Geometry: fc,
		Visible:  true,
		LayerIDs: append([]string(nil), layerIDs...),
	}
	m.datasets = append(next, ds)
	m.dirty = true

	return RestorePlan{
		DatasetID:   ds.ID,
		New:         true,
		DisplayName: ds.Name,
		Visible:     true,
	}
}

// matchStylesByType pairs saved styles with new layer ids by layer kind.
// Each new layer is consumed at most once.
func matchStylesByType(styles []openmap.LayerStyle, layerIDs []string) []StyleAssignment {
	used := make(map[string]bool, len(layerIDs))

	var out []StyleAssignment
	for _, style := range styles {
		for _, id := range layerIDs {
			if used[id] || layers.KindOf(id) != style.Type {
				continue
			}
			used[id] = true
			out = append(out, StyleAssignment{LayerID: id, Style: style})
			break
		}
	}
	return out
}
