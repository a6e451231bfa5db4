package httpapi

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/config"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/feed"
	httpopenapi "github.com/zervanh/GildedRose-Refactoring-Kata/internal/http/openapi"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/obs"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/queue"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/store"
)

var daysAdvanced = expvar.NewInt("days_advanced")

type App struct {
	Cfg     config.Config
	Store   *store.Store
	Manager *queue.Manager
	Feed    *feed.Hub
	closing atomic.Bool
	started time.Time
}

type ack struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Sequence    uint64 `json:"sequence"`
	ItemID      string `json:"item_id"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
	WorkerCount int    `json:"worker_count"`
}

type inventory struct {
	Day   int               `json:"day"`
	Items []model.StockItem `json:"items"`
}

func NewApp(cfg config.Config, st *store.Store, m *queue.Manager, hub *feed.Hub) *App {
	return &App{Cfg: cfg, Store: st, Manager: m, Feed: hub, started: time.Now()}
}

// StartShutdown rejects new stock events and day advances.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

func (a *App) shuttingDown() bool {
	return a.closing.Load() || a.Manager.IsShuttingDown()
}

func (a *App) itemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.postItem(w, r)
	case http.MethodGet:
		a.listItems(w, r)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) postItem(w http.ResponseWriter, r *http.Request) {
	if a.shuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var ev model.Event
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if ev.ItemID == "" {
		ev.ItemID = uuid.NewString()
	} else if strings.TrimSpace(ev.ItemID) == "" || strings.Contains(ev.ItemID, "/") {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "item_id must be non-blank and must not contain '/'")
		return
	}
	ev.Sequence = a.Manager.NextSequence()
	if !a.Manager.Enqueue(ev) {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ac := ack{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    ev.Sequence,
		ItemID:      ev.ItemID,
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.QueueDepth(),
		BacklogSize: a.Manager.BacklogSize(),
		WorkerCount: a.Manager.WorkerCount(),
	}
	writeJSON(w, http.StatusAccepted, ac)
	obs.Logger.Info("event_accepted",
		"request_id", ac.RequestID,
		"sequence", ac.Sequence,
		"item_id", ac.ItemID,
		"queue_depth", ac.QueueDepth,
		"backlog_size", ac.BacklogSize,
		"worker_count", ac.WorkerCount,
	)
}

func (a *App) listItems(w http.ResponseWriter, _ *http.Request) {
	day, items := a.Store.List()
	writeJSON(w, http.StatusOK, inventory{Day: day, Items: items})
}

func (a *App) getItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/items/")
	if id == "" || id == r.URL.Path {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	it, ok := a.Store.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// postDayHandler lets accepted stock events land, then ages the whole
// inventory by exactly one day.
func (a *App) postDayHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.shuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.Cfg.DayDrainTimeout)
	defer cancel()
	if !a.Manager.DrainUntil(ctx) {
		WriteJSONError(w, http.StatusGatewayTimeout, "drain_timeout", "pending stock events were not applied in time")
		return
	}
	day, items := a.Store.AdvanceDay()
	daysAdvanced.Add(1)
	if a.Feed != nil {
		a.Feed.PublishDay(day, items)
	}
	obs.Logger.Info("day_advanced",
		"request_id", RequestIDFromContext(r.Context()),
		"day", day,
		"item_count", len(items),
	)
	writeJSON(w, http.StatusOK, inventory{Day: day, Items: items})
}

func (a *App) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, _ *http.Request) {
	st := a.Manager.Stats()
	m := map[string]any{
		"events_enqueued":  st.Enqueued,
		"events_processed": st.Processed,
		"backlog_size":     st.Backlog,
		"queue_depth":      st.Depth,
		"worker_count":     a.Manager.WorkerCount(),
		"item_count":       a.Store.Len(),
		"day":              a.Store.Day(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	if a.Feed != nil {
		m["feed_subscribers"] = a.Feed.Subscribers()
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

const docsPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Gilded Rose Inventory API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`

func (a *App) docsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}
