package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the map page, the overlay API, and health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	session    *domain.MapSession
	logger     *slog.Logger
}

// NewServer creates an HTTP server bound to the given map session.
func NewServer(addr string, session *domain.MapSession, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		session: session,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /api/earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /api/tectonic-plates", s.handleTectonics)
	mux.HandleFunc("GET /api/legend", s.handleLegend)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// overlayResponse is the JSON shape of one overlay group.
type overlayResponse[T any] struct {
	Name      string            `json:"name"`
	Attached  bool              `json:"attached"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
	Count     int               `json:"count"`
	Items     []T               `json:"items"`
	Bounds    *[2]domain.LatLng `json:"bounds,omitempty"`
}

func newOverlayResponse[T any](snap domain.OverlaySnapshot[T]) overlayResponse[T] {
	resp := overlayResponse[T]{
		Name:     snap.Name,
		Attached: snap.Attached,
		Count:    len(snap.Items),
		Items:    snap.Items,
	}
	if !snap.UpdatedAt.IsZero() {
		resp.UpdatedAt = &snap.UpdatedAt
	}
	return resp
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.View)
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, _ *http.Request) {
	snap := s.session.Earthquakes.Snapshot()
	resp := newOverlayResponse(snap)
	if b, ok := domain.MarkerBounds(snap.Items); ok {
		resp.Bounds = &[2]domain.LatLng{
			{Lat: domain.Number(b.Min.Lat()), Lng: domain.Number(b.Min.Lon())},
			{Lat: domain.Number(b.Max.Lat()), Lng: domain.Number(b.Max.Lon())},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTectonics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newOverlayResponse(s.session.Tectonics.Snapshot()))
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Legend)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{
		View:       s.session.View,
		Legend:     s.session.Legend,
		PollMillis: overlayPollInterval.Milliseconds(),
	}); err != nil {
		s.logger.Error("render map page failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort API response
}
