package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher retrieves the two upstream GeoJSON documents.
type Fetcher interface {
	FetchEarthquakes(ctx context.Context) (domain.FeatureCollection, error)
	FetchPlateBoundaries(ctx context.Context) ([]domain.Boundary, error)
}

// MarkerSink receives every rendered earthquake marker batch.
type MarkerSink interface {
	PublishMarkers(ctx context.Context, markers []domain.Marker) error
}

// Loader populates a MapSession's overlay groups. Each pass fetches the
// earthquake feed first and only then the plate boundaries.
type Loader struct {
	fetcher Fetcher
	sink    MarkerSink
	session *domain.MapSession
	logger  *slog.Logger
	metrics *observability.Metrics

	interval    time.Duration
	clock       clockwork.Clock
	sinkTimeout time.Duration
}

// DefaultSinkTimeout bounds one PublishMarkers call.
const DefaultSinkTimeout = 30 * time.Second

// New creates a Loader that loads once. Pass a nil sink to skip publishing.
func New(f Fetcher, sink MarkerSink, session *domain.MapSession, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher: f,
		sink:    sink,
		session: session,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),

		sinkTimeout: DefaultSinkTimeout,
	}
}

// WithSinkTimeout sets how long a single publish may take. Zero or negative
// disables the bound.
func (l *Loader) WithSinkTimeout(d time.Duration) *Loader {
	l.sinkTimeout = d
	return l
}

// WithRefresh makes Run reload every interval on the given clock.
// A nil clock keeps the real clock.
func (l *Loader) WithRefresh(interval time.Duration, c clockwork.Clock) *Loader {
	l.interval = interval
	if c != nil {
		l.clock = c
	}
	return l
}

// CheckReadiness returns nil once the earthquake overlay has been attached.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.session.Earthquakes.Attached() {
		return errors.New("earthquake overlay has not been loaded yet")
	}
	return nil
}

// Run performs one load pass, then reloads on the refresh interval until the
// context is cancelled. A failed pass is logged and never retried early.
func (l *Loader) Run(ctx context.Context) error {
	l.logger.Info("loader started", "refresh_interval", l.interval)
	l.metrics.LoaderRunning.Set(1)
	defer l.metrics.LoaderRunning.Set(0)

	l.pass(ctx)
	if l.interval <= 0 {
		return nil
	}

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loader stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			l.pass(ctx)
		}
	}
}

func (l *Loader) pass(ctx context.Context) {
	if err := l.Load(ctx); err != nil && ctx.Err() == nil {
		l.logger.Warn("load pass incomplete", "error", err)
	}
}

// Load runs one strictly ordered pass: earthquakes are fetched, rendered and
// attached before the plate boundary fetch starts. If the earthquake fetch
// fails the plate fetch is never started and the error is returned.
// Rendered markers go to the sink only after both overlays have been handled.
func (l *Loader) Load(ctx context.Context) error {
	markers, err := l.loadEarthquakes(ctx)
	if err != nil {
		l.metrics.LoadPasses.WithLabelValues("earthquakes_failed").Inc()
		return err
	}
	plateErr := l.loadPlates(ctx)
	l.publish(ctx, markers)
	if plateErr != nil {
		l.metrics.LoadPasses.WithLabelValues("plates_failed").Inc()
		return plateErr
	}
	l.metrics.LoadPasses.WithLabelValues("complete").Inc()
	return nil
}

func (l *Loader) loadEarthquakes(ctx context.Context) ([]domain.Marker, error) {
	fc, err := l.fetcher.FetchEarthquakes(ctx)
	if err != nil {
		l.logger.Error("earthquake fetch failed, skipping plate boundaries", "error", err)
		return nil, fmt.Errorf("load earthquakes: %w", err)
	}

	markers := domain.RenderCollection(fc)
	degenerate := 0
	for _, m := range markers {
		if m.Degenerate() {
			degenerate++
			l.logger.Debug("degenerate marker", "feature_id", m.FeatureID, "radius", float64(m.Radius))
		}
	}

	group := l.session.Earthquakes
	group.Replace(markers)
	group.Attach()

	l.metrics.MarkersRendered.Add(float64(len(markers)))
	l.metrics.DegenerateMarkers.Add(float64(degenerate))
	l.metrics.OverlayItems.WithLabelValues(group.Name()).Set(float64(len(markers)))
	l.logger.Info("earthquake overlay loaded", "markers", len(markers), "degenerate", degenerate)
	return markers, nil
}

func (l *Loader) publish(ctx context.Context, markers []domain.Marker) {
	if l.sink == nil || len(markers) == 0 {
		return
	}
	if l.sinkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.sinkTimeout)
		defer cancel()
	}
	if err := l.sink.PublishMarkers(ctx, markers); err != nil {
		l.metrics.SinkPublishes.WithLabelValues("error").Inc()
		l.logger.Warn("publish markers failed", "error", err, "markers", len(markers))
		return
	}
	l.metrics.SinkPublishes.WithLabelValues("success").Inc()
}

func (l *Loader) loadPlates(ctx context.Context) error {
	boundaries, err := l.fetcher.FetchPlateBoundaries(ctx)
	if err != nil {
		l.logger.Error("plate boundary fetch failed", "error", err)
		return fmt.Errorf("load plate boundaries: %w", err)
	}

	lines, skipped := domain.RenderBoundaries(boundaries)
	if skipped > 0 {
		l.logger.Debug("skipped non-line plate geometries", "count", skipped)
	}

	group := l.session.Tectonics
	group.Replace(lines)
	group.Attach()

	l.metrics.PolylinesRendered.Add(float64(len(lines)))
	l.metrics.SkippedGeometries.Add(float64(skipped))
	l.metrics.OverlayItems.WithLabelValues(group.Name()).Set(float64(len(lines)))
	l.logger.Info("tectonic overlay loaded", "polylines", len(lines))
	return nil
}
