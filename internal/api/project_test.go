package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/mapstate"
	"mapdesk/pkg/openmap"
	"mapdesk/pkg/store"
)

// stubDialogs scripts the native dialog outcomes for a test.
type stubDialogs struct {
	openResult FileDialogResult
	saveResult FileDialogResult
	openErr    error
	saveErr    error
	errors     []string
	saveCalls  int
}

func (s *stubDialogs) OpenFile(title string, patterns []string) (FileDialogResult, error) {
	return s.openResult, s.openErr
}

func (s *stubDialogs) SaveFile(title, defaultPath string, patterns []string) (FileDialogResult, error) {
	s.saveCalls++
	return s.saveResult, s.saveErr
}

func (s *stubDialogs) Error(msg string) {
	s.errors = append(s.errors, msg)
}

// mockRecents records recent-project calls in memory.
type mockRecents struct {
	touched []string
	removed []string
	list    []store.RecentProject
}

func (m *mockRecents) TouchRecent(ctx context.Context, path string) error {
	m.touched = append(m.touched, path)
	return nil
}

func (m *mockRecents) ListRecent(ctx context.Context, limit int) ([]store.RecentProject, error) {
	return m.list, nil
}

func (m *mockRecents) RemoveRecent(ctx context.Context, path string) error {
	m.removed = append(m.removed, path)
	return nil
}

func launchedManager() *mapstate.Manager {
	m := mapstate.New()
	m.SetConfig(mapconf.Config{
		Basemap:  "streets",
		StyleURL: "https://tiles.example.com/style.json",
		Center:   [2]float64{0, 20},
		Zoom:     2,
		Controls: mapconf.DefaultControls(),
	})
	return m
}

func writeProjectFile(t *testing.T, dir string) string {
	t.Helper()
	doc := `{
		"version": "1.0",
		"config": {"basemap": "streets", "styleUrl": "https://tiles.example.com/style.json", "center": [0, 20], "zoom": 2},
		"viewport": {"center": [13.4, 52.5], "zoom": 11, "bearing": 0, "pitch": 0},
		"datasets": [{"id": "d1", "name": "pois.geojson", "visible": true}]
	}`
	path := filepath.Join(dir, "city.openmap")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

func TestHandleStateClosed(t *testing.T) {
	h := NewProjectHandler(mapstate.New(), &stubDialogs{}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleState(rec, httptest.NewRequest(http.MethodGet, "/api/project/state", nil))

	var st projectState
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if st.Open || st.Dirty || st.Path != "" {
		t.Errorf("expected closed state, got %+v", st)
	}
}

func TestHandleOpen(t *testing.T) {
	path := writeProjectFile(t, t.TempDir())
	mgr := mapstate.New()
	dlg := &stubDialogs{openResult: FileDialogResult{Path: path}}
	recents := &mockRecents{}
	h := NewProjectHandler(mgr, dlg, recents, nil)

	rec := httptest.NewRecorder()
	h.HandleOpen(rec, httptest.NewRequest(http.MethodPost, "/api/project/open", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp openResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Path != path {
		t.Errorf("expected path %s, got %s", path, resp.Path)
	}
	if resp.Project == nil || len(resp.Project.Datasets) != 1 {
		t.Fatalf("expected project payload with one dataset, got %+v", resp.Project)
	}
	if !mgr.Open() {
		t.Error("manager should report a project open")
	}
	if mgr.Dirty() {
		t.Error("freshly opened project should be clean")
	}
	if len(recents.touched) != 1 || recents.touched[0] != path {
		t.Errorf("expected recent touch for %s, got %v", path, recents.touched)
	}
	// The saved viewport overrides the config's landing-page camera.
	if cfg := mgr.Config(); cfg.Zoom != 11 {
		t.Errorf("expected saved viewport zoom 11, got %v", cfg.Zoom)
	}
}

func TestHandleOpenCanceled(t *testing.T) {
	mgr := mapstate.New()
	h := NewProjectHandler(mgr, &stubDialogs{openResult: FileDialogResult{Canceled: true}}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleOpen(rec, httptest.NewRequest(http.MethodPost, "/api/project/open", nil))

	var resp openResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Canceled {
		t.Error("expected canceled response")
	}
	if mgr.Open() {
		t.Error("canceling the dialog must not open a project")
	}
}

func TestHandleOpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.openmap")
	if err := os.WriteFile(path, []byte(`{"config": {}, "viewport": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr := mapstate.New()
	dlg := &stubDialogs{openResult: FileDialogResult{Path: path}}
	h := NewProjectHandler(mgr, dlg, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleOpen(rec, httptest.NewRequest(http.MethodPost, "/api/project/open", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed project, got %d", rec.Code)
	}
	if len(dlg.errors) != 1 {
		t.Errorf("expected one native error alert, got %v", dlg.errors)
	}
	if mgr.Open() {
		t.Error("malformed project must leave the manager closed")
	}
}

func TestHandleOpenRecentMissingFile(t *testing.T) {
	gone := filepath.Join(t.TempDir(), "gone.openmap")
	recents := &mockRecents{}
	h := NewProjectHandler(mapstate.New(), &stubDialogs{}, recents, nil)

	body := bytes.NewBufferString(`{"path": "` + gone + `"}`)
	rec := httptest.NewRecorder()
	h.HandleOpenRecent(rec, httptest.NewRequest(http.MethodPost, "/api/project/open-recent", body))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for vanished file, got %d", rec.Code)
	}
	if len(recents.removed) != 1 || recents.removed[0] != gone {
		t.Errorf("expected stale entry removed from recents, got %v", recents.removed)
	}
}

func TestHandleSaveWithoutProject(t *testing.T) {
	h := NewProjectHandler(mapstate.New(), &stubDialogs{}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/project/save", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 with no open project, got %d", rec.Code)
	}
}

func TestHandleSaveFirstTimeUsesDialog(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "fresh.openmap")
	mgr := launchedManager()
	mgr.MarkDirty()
	dlg := &stubDialogs{saveResult: FileDialogResult{Path: dest}}
	recents := &mockRecents{}
	h := NewProjectHandler(mgr, dlg, recents, nil)

	rec := httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/project/save", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if dlg.saveCalls != 1 {
		t.Errorf("expected the save dialog for a never-saved project, got %d calls", dlg.saveCalls)
	}
	if mgr.Path() != dest {
		t.Errorf("expected manager path %s, got %s", dest, mgr.Path())
	}
	if mgr.Dirty() {
		t.Error("successful save must clear the dirty flag")
	}

	// The written document must round-trip through the parser.
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("saved file unreadable: %v", err)
	}
	fs, err := openmap.Parse(data)
	if err != nil {
		t.Fatalf("saved file does not parse: %v", err)
	}
	if fs.Version != openmap.Version {
		t.Errorf("expected version %s, got %s", openmap.Version, fs.Version)
	}
}

func TestHandleSaveExistingPathSkipsDialog(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "existing.openmap")
	mgr := launchedManager()
	mgr.SetPath(dest)
	dlg := &stubDialogs{}
	h := NewProjectHandler(mgr, dlg, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/project/save", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if dlg.saveCalls != 0 {
		t.Errorf("save with a known path must not open a dialog, got %d calls", dlg.saveCalls)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("expected file written to %s: %v", dest, err)
	}
}

func TestHandleSaveAsAlwaysUsesDialog(t *testing.T) {
	dir := t.TempDir()
	mgr := launchedManager()
	mgr.SetPath(filepath.Join(dir, "old.openmap"))
	dlg := &stubDialogs{saveResult: FileDialogResult{Path: filepath.Join(dir, "copy.openmap")}}
	h := NewProjectHandler(mgr, dlg, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleSaveAs(rec, httptest.NewRequest(http.MethodPost, "/api/project/save-as", nil))

	if dlg.saveCalls != 1 {
		t.Errorf("save-as must always open the dialog, got %d calls", dlg.saveCalls)
	}
	if mgr.Path() != filepath.Join(dir, "copy.openmap") {
		t.Errorf("expected manager repointed at the new path, got %s", mgr.Path())
	}
}

func TestHandleSaveWriteFailure(t *testing.T) {
	// Point the save at a directory to force the write to fail.
	mgr := launchedManager()
	mgr.SetPath(t.TempDir())
	dlg := &stubDialogs{}
	h := NewProjectHandler(mgr, dlg, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleSave(rec, httptest.NewRequest(http.MethodPost, "/api/project/save", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on write failure, got %d", rec.Code)
	}
	if len(dlg.errors) != 1 {
		t.Errorf("expected one native error alert, got %v", dlg.errors)
	}
}

func TestHandleLaunchAndClose(t *testing.T) {
	mgr := mapstate.New()
	h := NewProjectHandler(mgr, &stubDialogs{}, nil, nil)

	body := bytes.NewBufferString(`{"config": {"basemap": "streets", "center": [10, 50], "zoom": 5}}`)
	rec := httptest.NewRecorder()
	h.HandleLaunch(rec, httptest.NewRequest(http.MethodPost, "/api/project/launch", body))

	var st projectState
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if !st.Open {
		t.Error("launch should open a project")
	}
	if st.Path != "" {
		t.Errorf("launched project has no path yet, got %s", st.Path)
	}

	rec = httptest.NewRecorder()
	h.HandleClose(rec, httptest.NewRequest(http.MethodPost, "/api/project/close", nil))

	if mgr.Open() {
		t.Error("close should reset the manager")
	}
}

func TestHandleRecent(t *testing.T) {
	recents := &mockRecents{list: []store.RecentProject{{Path: "/maps/a.openmap"}}}
	h := NewProjectHandler(mapstate.New(), &stubDialogs{}, recents, nil)

	rec := httptest.NewRecorder()
	h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/api/project/recent", nil))

	var list []store.RecentProject
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list) != 1 || list[0].Path != "/maps/a.openmap" {
		t.Errorf("unexpected recent list: %+v", list)
	}
}
