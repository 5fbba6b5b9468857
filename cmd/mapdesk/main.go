package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	webview "github.com/webview/webview_go"

	"mapdesk/internal/api"
	"mapdesk/pkg/config"
	"mapdesk/pkg/db"
	"mapdesk/pkg/logging"
	"mapdesk/pkg/mapconf"
	"mapdesk/pkg/mapstate"
	"mapdesk/pkg/store"
	"mapdesk/pkg/version"
)

var (
	configPath = flag.String("config", "configs/mapdesk.yaml", "Path to config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	noWindow   = flag.Bool("no-window", false, "Run the bridge server without opening a window")
)

func main() {
	// Webview requires the main thread
	runtime.LockOSThread()

	flag.Parse()

	if *initConfig {
		if err := config.Save(*configPath, config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env may carry the basemap style key; absence is fine
	_ = godotenv.Load()

	appCfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("mapdesk started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	st := store.NewSQLiteStore(dbConn)
	defer st.Close()

	reg := mapconf.NewRegistry(appCfg.Map.Basemaps...)
	mgr := mapstate.New()

	hub := api.NewHub(mgr)
	dialogs := api.ZenityDialogs{}
	projH := api.NewProjectHandler(mgr, dialogs, st, hub)
	cfgH := api.NewConfigHandler(st, reg)
	dsH := api.NewDatasetHandler(mgr, dialogs)

	srv := api.NewServer(appCfg.Server.Address, projH, cfgH, dsH, hub, cancel)

	ln, err := net.Listen("tcp", appCfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", appCfg.Server.Address, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Bridge server failed", "error", err)
			cancel()
		}
	}()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	url := "http://" + ln.Addr().String()
	slog.Info("Bridge server listening", "url", url)

	if *noWindow {
		<-ctx.Done()
		return nil
	}

	w := webview.New(false)
	defer w.Destroy()

	// Close the window when the UI requests shutdown
	go func() {
		<-ctx.Done()
		w.Dispatch(w.Terminate)
	}()

	w.SetTitle("mapdesk")
	w.SetSize(1280, 840, webview.HintNone)
	w.Navigate(url)
	w.Run()

	return nil
}
