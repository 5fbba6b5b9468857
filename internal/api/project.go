package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/mapstate"
	"mapdesk/pkg/openmap"
	"mapdesk/pkg/store"
)

var openmapPatterns = []string{"*.openmap"}

// ProjectHandler implements the project lifecycle endpoints of the host
// bridge: open, save, save-as, close, launch and the menu-state flag.
type ProjectHandler struct {
	mgr     *mapstate.Manager
	dlg     Dialogs
	recents store.RecentStore
	hub     *Hub
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(mgr *mapstate.Manager, dlg Dialogs, recents store.RecentStore, hub *Hub) *ProjectHandler {
	return &ProjectHandler{mgr: mgr, dlg: dlg, recents: recents, hub: hub}
}

// projectState is the menu-state flag reported to the UI: whether a project
// is open is all the host tracks for menu enablement.
type projectState struct {
	Open  bool   `json:"open"`
	Path  string `json:"path,omitempty"`
	Dirty bool   `json:"dirty"`
}

func (h *ProjectHandler) state() projectState {
	return projectState{
		Open:  h.mgr.Open(),
		Path:  h.mgr.Path(),
		Dirty: h.mgr.Dirty(),
	}
}

// notifyState pushes the menu-state flag to the UI.
func (h *ProjectHandler) notifyState() {
	if h.hub != nil {
		h.hub.Broadcast("project-state", h.state())
	}
}

// HandleState returns the menu-state flag.
func (h *ProjectHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.state())
}

// openResponse is the restore payload for the UI after a project was opened.
type openResponse struct {
	Canceled bool               `json:"canceled,omitempty"`
	Path     string             `json:"path,omitempty"`
	Project  *openmap.FileState `json:"project,omitempty"`
}

// HandleOpen runs the open flow: native dialog, file read, parse, manager
// populate. A malformed document is surfaced once in a native alert and as a
// 400; there is no retry.
func (h *ProjectHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	res, err := h.dlg.OpenFile("OpenMap project", openmapPatterns)
	if err != nil {
		slog.Error("Open dialog failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if res.Canceled {
		writeJSON(w, openResponse{Canceled: true})
		return
	}

	h.openPath(r.Context(), w, res.Path)
}

// openRequest selects a project by path, bypassing the dialog (recent list).
type openRequest struct {
	Path string `json:"path"`
}

// HandleOpenRecent opens a project from the recent list without a dialog.
func (h *ProjectHandler) HandleOpenRecent(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	h.openPath(r.Context(), w, req.Path)
}

func (h *ProjectHandler) openPath(ctx context.Context, w http.ResponseWriter, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read project file", "path", path, "error", err)
		h.dlg.Error(fmt.Sprintf("Could not read %s: %v", path, err))
		if h.recents != nil {
			_ = h.recents.RemoveRecent(ctx, path)
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fs, err := openmap.Parse(content)
	if err != nil {
		slog.Error("Failed to parse project file", "path", path, "error", err)
		h.dlg.Error(fmt.Sprintf("Could not open project: %v", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mgr.Populate(fs, path)
	if h.recents != nil {
		if err := h.recents.TouchRecent(ctx, path); err != nil {
			slog.Error("Failed to record recent project", "path", path, "error", err)
		}
	}

	slog.Info("Project opened", "path", path, "datasets", len(fs.Datasets))
	h.notifyState()
	writeJSON(w, openResponse{Path: path, Project: fs})
}

// launchRequest starts a fresh project from a landing-page configuration.
type launchRequest struct {
	Config mapconf.Config `json:"config"`
}

// HandleLaunch opens a new unsaved project with the given configuration.
func (h *ProjectHandler) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	h.mgr.Reset()
	h.mgr.SetConfig(req.Config)
	slog.Info("Project launched", "basemap", req.Config.Basemap)
	h.notifyState()
	writeJSON(w, h.state())
}

// saveResponse reports where the project was written.
type saveResponse struct {
	Canceled bool   `json:"canceled,omitempty"`
	Path     string `json:"path,omitempty"`
}

// HandleSave saves to the current path, falling through to save-as for a
// never-saved project.
func (h *ProjectHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.save(r.Context(), w, false)
}

// HandleSaveAs always asks for a destination, seeded with the current path.
func (h *ProjectHandler) HandleSaveAs(w http.ResponseWriter, r *http.Request) {
	h.save(r.Context(), w, true)
}

func (h *ProjectHandler) save(ctx context.Context, w http.ResponseWriter, forceDialog bool) {
	data, err := h.mgr.ProjectJSON()
	if err != nil {
		slog.Error("Failed to serialize project", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.Error(w, "No open project", http.StatusConflict)
		return
	}

	path := h.mgr.Path()
	if forceDialog || path == "" {
		res, err := h.dlg.SaveFile("OpenMap project", defaultSavePath(path), openmapPatterns)
		if err != nil {
			slog.Error("Save dialog failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if res.Canceled {
			writeJSON(w, saveResponse{Canceled: true})
			return
		}
		path = res.Path
	}

	// Write failures are surfaced once via a native dialog; no retry.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("Failed to write project file", "path", path, "error", err)
		h.dlg.Error(fmt.Sprintf("Could not save %s: %v", path, err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.mgr.SetPath(path)
	h.mgr.MarkClean()
	if h.recents != nil {
		if err := h.recents.TouchRecent(ctx, path); err != nil {
			slog.Error("Failed to record recent project", "path", path, "error", err)
		}
	}

	slog.Info("Project saved", "path", path, "bytes", len(data))
	h.notifyState()
	writeJSON(w, saveResponse{Path: path})
}

func defaultSavePath(current string) string {
	if current != "" {
		return current
	}
	return "untitled.openmap"
}

// HandleClose resets the manager; the UI returns to the landing page.
func (h *ProjectHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.mgr.Reset()
	slog.Info("Project closed")
	h.notifyState()
	writeJSON(w, h.state())
}

// HandleRecent lists the recently opened projects for the landing page.
func (h *ProjectHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if h.recents == nil {
		writeJSON(w, []store.RecentProject{})
		return
	}
	list, err := h.recents.ListRecent(r.Context(), 0)
	if err != nil {
		slog.Error("Failed to list recent projects", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.RecentProject{}
	}
	writeJSON(w, list)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
