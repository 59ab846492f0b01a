package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// RouterOptions carries everything the HTTP layer needs. It is built once in
// main from config.Config.
type RouterOptions struct {
	Greeting       string
	AllowedOrigins []string
	Analytics      *AnalyticsHandler
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
}

// NewRouter wires routes and middleware. Order, outermost first: request id,
// access log, panic recovery, CORS, routing.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", HealthCheck(opts.Greeting, logger)).Methods(http.MethodGet)
	r.HandleFunc(analyticsEndpoint, opts.Analytics.HandleAnalytics).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Path("/metrics").Handler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, loggerFromContext(req.Context(), logger), errNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, loggerFromContext(req.Context(), logger), errMethodNotAllowed)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	var h http.Handler = c.Handler(r)
	h = WithRecovery(logger, h)
	h = WithAccessLog(logger, h)
	h = WithRequestID(logger, h)
	return h
}
