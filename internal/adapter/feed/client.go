package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
)

// Dataset labels used in logs and metrics.
const (
	DatasetEarthquakes = "earthquakes"
	DatasetPlates      = "plates"
)

// maxBodyBytes caps a single feed document. The weekly USGS feed is a few MB
// and PB2002 boundaries are under 1 MB.
const maxBodyBytes = 64 << 20

// Client fetches the earthquake and plate boundary GeoJSON documents.
// It implements loader.Fetcher.
type Client struct {
	earthquakeURL string
	platesURL     string
	httpClient    *http.Client
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates a feed client for the two fixed upstream URLs.
func NewClient(earthquakeURL, platesURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		earthquakeURL: earthquakeURL,
		platesURL:     platesURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEarthquakes downloads and decodes the earthquake feed.
func (c *Client) FetchEarthquakes(ctx context.Context) (domain.FeatureCollection, error) {
	body, err := c.get(ctx, c.earthquakeURL, DatasetEarthquakes)
	if err != nil {
		return domain.FeatureCollection{}, err
	}

	fc, err := domain.ParseFeatureCollection(body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(DatasetEarthquakes, "decode_error").Inc()
		return domain.FeatureCollection{}, err
	}
	c.metrics.FeedRequests.WithLabelValues(DatasetEarthquakes, "success").Inc()
	c.logger.Debug("earthquake feed fetched", "title", fc.Title, "features", len(fc.Features))
	return fc, nil
}

// FetchPlateBoundaries downloads and decodes the plate boundary dataset.
func (c *Client) FetchPlateBoundaries(ctx context.Context) ([]domain.Boundary, error) {
	body, err := c.get(ctx, c.platesURL, DatasetPlates)
	if err != nil {
		return nil, err
	}

	boundaries, err := domain.ParseBoundaries(body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(DatasetPlates, "decode_error").Inc()
		return nil, err
	}
	c.metrics.FeedRequests.WithLabelValues(DatasetPlates, "success").Inc()
	c.logger.Debug("plate boundaries fetched", "features", len(boundaries))
	return boundaries, nil
}

func (c *Client) get(ctx context.Context, url, dataset string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(dataset, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FeedRequests.WithLabelValues(dataset, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s feed error: status %d: %s", dataset, resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(dataset, "error").Inc()
		return nil, fmt.Errorf("read %s body: %w", dataset, err)
	}
	return body, nil
}
