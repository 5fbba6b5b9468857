package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"mapdesk/internal/ui"
	"mapdesk/pkg/version"
)

// NewServer creates and configures the bridge HTTP server the UI process
// talks to. shutdown is invoked when the UI requests application exit.
func NewServer(addr string, proj *ProjectHandler, cfg *ConfigHandler, ds *DatasetHandler, hub *Hub, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// Health & version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// Landing configuration
	mux.HandleFunc("/api/config", cfg.HandleConfig)
	mux.HandleFunc("GET /api/basemaps", cfg.HandleBasemaps)
	mux.HandleFunc("GET /api/controls", cfg.HandleControls)

	// Project lifecycle
	mux.HandleFunc("GET /api/project", proj.HandleState)
	mux.HandleFunc("POST /api/project/launch", proj.HandleLaunch)
	mux.HandleFunc("POST /api/project/open", proj.HandleOpen)
	mux.HandleFunc("POST /api/project/open-recent", proj.HandleOpenRecent)
	mux.HandleFunc("POST /api/project/save", proj.HandleSave)
	mux.HandleFunc("POST /api/project/saveas", proj.HandleSaveAs)
	mux.HandleFunc("POST /api/project/close", proj.HandleClose)
	mux.HandleFunc("GET /api/project/recent", proj.HandleRecent)

	// Datasets
	mux.HandleFunc("POST /api/dataset/open", ds.HandleOpen)

	// Live event channel
	mux.HandleFunc("GET /api/ws", hub.HandleWS)

	// Status bar log line
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// Shutdown endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Shutdown requested via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Let the response flush before tearing the window down
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// Static frontend
	webFS, err := fs.Sub(ui.Assets, "web")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree web from embedded assets: %v", err))
	}

	spaFS := &spaFileSystem{root: http.FS(webFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
