package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/paulmach/orb/geojson"

	"mapdesk/pkg/mapstate"
	"mapdesk/pkg/openmap"
)

// wsEnvelope is the framing of every websocket message, both directions.
type wsEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UI-to-host event payloads.
type viewportEvent struct {
	Viewport openmap.Viewport `json:"viewport"`
}

type renderStateEvent struct {
	RenderState openmap.RenderState `json:"renderState"`
}

type layerStylesEvent struct {
	Styles []openmap.LayerStyle `json:"styles"`
}

type datasetLoadedEvent struct {
	Name     string                     `json:"name"`
	LayerIDs []string                   `json:"layerIds"`
	Geometry *geojson.FeatureCollection `json:"geometry"`
}

type datasetVisibilityEvent struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
}

type datasetRenamedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type datasetsReorderedEvent struct {
	IDs []string `json:"ids"`
}

type datasetRemovedEvent struct {
	ID       string   `json:"id"`
	LayerIDs []string `json:"layerIds"`
}

// Hub is the live event channel between the map UI and the host. The UI
// pushes camera, render-state and dataset events; the host pushes the
// project (menu) state. One browser window means at most one client in
// practice, but nothing depends on that.
type Hub struct {
	mgr  *mapstate.Manager
	view *liveView

	mu    sync.Mutex
	conns map[*websocket.Conn]*sync.Mutex

	upgrader websocket.Upgrader
}

// NewHub creates a hub bound to the manager. The hub owns the liveView it
// attaches to the manager while a UI client is connected.
func NewHub(mgr *mapstate.Manager) *Hub {
	return &Hub{
		mgr:   mgr,
		view:  newLiveView(),
		conns: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			// The server only listens on loopback; the webview origin check
			// would reject the embedded page.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades the connection and runs the read loop.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	h.mu.Unlock()
	h.mgr.SetView(h.view)
	slog.Debug("UI connected")

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		empty := len(h.conns) == 0
		h.mu.Unlock()
		conn.Close()
		if empty {
			// No UI attached; capture degrades to fallbacks.
			h.mgr.SetView(nil)
		}
		slog.Debug("UI disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(conn, data)
	}
}

func (h *Hub) dispatch(conn *websocket.Conn, data []byte) {
	var env wsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Debug("Dropping malformed ws message", "error", err)
		return
	}

	switch env.Type {
	case "viewport":
		var ev viewportEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.view.setViewport(ev.Viewport)
			if h.mgr.Open() {
				h.mgr.MarkDirty()
			}
		}
	case "render-state":
		var ev renderStateEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.view.setRenderState(ev.RenderState)
			if h.mgr.Open() {
				h.mgr.MarkDirty()
			}
		}
	case "layer-styles":
		var ev layerStylesEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.view.setStyles(ev.Styles)
		}
	case "dataset-loaded":
		var ev datasetLoadedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil || ev.Name == "" {
			slog.Debug("Dropping malformed dataset-loaded event")
			return
		}
		plan := h.mgr.DatasetLoaded(ev.Name, ev.LayerIDs, ev.Geometry)
		slog.Info("Dataset reconciled", "name", ev.Name, "new", plan.New, "layers", len(ev.LayerIDs))
		h.send(conn, "restore-plan", plan)
	case "dataset-visibility":
		var ev datasetVisibilityEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.mgr.SetDatasetVisible(ev.ID, ev.Visible)
		}
	case "dataset-renamed":
		var ev datasetRenamedEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.mgr.RenameDataset(ev.ID, ev.Name)
		}
	case "datasets-reordered":
		var ev datasetsReorderedEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.mgr.ReorderDatasets(ev.IDs)
		}
	case "dataset-removed":
		var ev datasetRemovedEvent
		if json.Unmarshal(env.Data, &ev) == nil {
			h.mgr.RemoveDataset(ev.ID)
			h.view.dropStyles(ev.LayerIDs)
		}
	default:
		slog.Debug("Unknown ws message type", "type", env.Type)
	}
}

func (h *Hub) send(conn *websocket.Conn, msgType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal ws payload", "type", msgType, "error", err)
		return
	}

	h.mu.Lock()
	wmu, ok := h.conns[conn]
	h.mu.Unlock()
	if !ok {
		return
	}

	wmu.Lock()
	defer wmu.Unlock()
	if err := conn.WriteJSON(wsEnvelope{Type: msgType, Data: data}); err != nil {
		slog.Debug("Failed to write ws message", "type", msgType, "error", err)
	}
}

// Broadcast pushes a message to every connected UI client.
func (h *Hub) Broadcast(msgType string, v any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		h.send(c, msgType, v)
	}
}
