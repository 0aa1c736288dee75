//go:build smoke

package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real USGS and GitHub endpoints.
// Run with: go test -tags=smoke ./internal/adapter/feed/ -v -count=1

func smokeClient() *Client {
	return &Client{
		earthquakeURL: config.DefaultEarthquakeFeedURL,
		platesURL:     config.DefaultTectonicPlatesURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		metrics:       observability.NewMetricsForTesting(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_FetchEarthquakes(t *testing.T) {
	fc, err := smokeClient().FetchEarthquakes(context.Background())
	require.NoError(t, err)

	// The weekly all-magnitudes feed always carries thousands of events.
	assert.Greater(t, len(fc.Features), 100)
	markers := domain.RenderCollection(fc)
	assert.Len(t, markers, len(fc.Features))
	for _, m := range markers[:10] {
		assert.NotEmpty(t, m.Color)
		assert.Contains(t, m.Popup, "Magnitude: ")
	}
}

func TestSmoke_FetchPlateBoundaries(t *testing.T) {
	boundaries, err := smokeClient().FetchPlateBoundaries(context.Background())
	require.NoError(t, err)

	lines, skipped := domain.RenderBoundaries(boundaries)
	assert.NotEmpty(t, lines)
	assert.Equal(t, 0, skipped)
}
