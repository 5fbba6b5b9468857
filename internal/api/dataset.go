package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"mapdesk/pkg/layers"
	"mapdesk/pkg/mapstate"
)

var datasetPatterns = []string{"*.geojson", "*.json", "*.shp"}

// DatasetHandler implements the add-data flow: native dialog, ingestion,
// geometry handed to the UI. The UI adds the layers and reports back over
// the websocket, which is where reconciliation happens.
type DatasetHandler struct {
	mgr *mapstate.Manager
	dlg Dialogs
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(mgr *mapstate.Manager, dlg Dialogs) *DatasetHandler {
	return &DatasetHandler{mgr: mgr, dlg: dlg}
}

// datasetPayload is what the UI needs to put a dataset on the map.
type datasetPayload struct {
	Canceled bool                       `json:"canceled,omitempty"`
	ID       string                     `json:"id,omitempty"`
	Name     string                     `json:"name,omitempty"`
	Geometry *geojson.FeatureCollection `json:"geometry,omitempty"`
	Kinds    []string                   `json:"kinds,omitempty"`
	LayerIDs []string                   `json:"layerIds,omitempty"`
	Bounds   [4]float64                 `json:"bounds,omitempty"` // minLon, minLat, maxLon, maxLat
}

// HandleOpen asks for a vector data file and returns its geometry with the
// derived layer plan. Nothing is recorded on the manager yet; the record is
// created when the UI confirms the load via the dataset-loaded event.
func (h *DatasetHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	if !h.mgr.Open() {
		http.Error(w, "No open project", http.StatusConflict)
		return
	}

	res, err := h.dlg.OpenFile("Vector data", datasetPatterns)
	if err != nil {
		slog.Error("Dataset dialog failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if res.Canceled {
		writeJSON(w, datasetPayload{Canceled: true})
		return
	}

	fc, err := layers.Load(res.Path)
	if err != nil {
		slog.Error("Failed to load dataset", "path", res.Path, "error", err)
		h.dlg.Error(fmt.Sprintf("Could not load %s: %v", filepath.Base(res.Path), err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	kinds := layers.Kinds(fc)
	payload := datasetPayload{
		ID:       id,
		Name:     filepath.Base(res.Path),
		Geometry: fc,
		Kinds:    kinds,
		LayerIDs: layers.LayerIDs(id, kinds),
	}
	if b, ok := layers.Bounds(fc); ok {
		payload.Bounds = [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	}

	slog.Info("Dataset loaded", "name", payload.Name, "features", len(fc.Features), "kinds", kinds)
	writeJSON(w, payload)
}
