package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/items", app.itemsHandler)
	mux.HandleFunc("/items/", app.getItemHandler)
	mux.HandleFunc("/days", app.postDayHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	if app.Feed != nil {
		mux.Handle("/feed", app.Feed)
	}
	return WithRequestID(WithLogging(mux))
}
