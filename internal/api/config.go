package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/store"
)

// ConfigHandler serves the landing-page configuration: the remembered
// last-chosen map options and the basemap registry.
type ConfigHandler struct {
	st  store.StateStore
	reg *mapconf.Registry
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(st store.StateStore, reg *mapconf.Registry) *ConfigHandler {
	return &ConfigHandler{st: st, reg: reg}
}

// HandleConfig is a unified handler for config reads and writes.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut, http.MethodPost:
		h.handleSet(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGet returns the saved landing configuration, or the defaults when
// nothing usable is stored. This never fails: a corrupt blob reads as absent.
func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, mapconf.LoadSaved(r.Context(), h.st, h.reg))
}

// handleSet normalizes and persists the landing configuration, echoing the
// normalized value back.
func (h *ConfigHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var cfg mapconf.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	cfg = h.reg.Normalize(cfg)
	if err := mapconf.Save(r.Context(), h.st, cfg); err != nil {
		slog.Error("Failed to save landing config", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Debug("Landing config updated", "basemap", cfg.Basemap)
	writeJSON(w, cfg)
}

// HandleBasemaps returns the basemap registry for the landing page.
func (h *ConfigHandler) HandleBasemaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.reg.Basemaps())
}

// controlInfo describes one recognized control for the landing page form.
type controlInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Enabled  bool   `json:"enabled"`
	Position string `json:"position"`
}

// HandleControls returns the recognized control table with defaults.
func (h *ConfigHandler) HandleControls(w http.ResponseWriter, r *http.Request) {
	defaults := mapconf.DefaultControls()
	out := make([]controlInfo, 0, len(defaults))
	for _, name := range mapconf.ControlNames() {
		d := defaults[name]
		out = append(out, controlInfo{
			Name:     name,
			Label:    mapconf.ControlLabel(name),
			Enabled:  d.Enabled,
			Position: d.Position,
		})
	}
	writeJSON(w, out)
}
