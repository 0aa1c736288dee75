package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Upstream GeoJSON sources.
const (
	DefaultEarthquakeFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultTectonicPlatesURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	EarthquakeFeedURL string
	TectonicPlatesURL string
	FetchTimeout      time.Duration
	// RefreshInterval of zero loads the feeds once at startup.
	RefreshInterval time.Duration

	// Optional marker sink. Empty KafkaBrokers disables it.
	KafkaBrokers     []string
	KafkaMarkerTopic string
}

// SinkEnabled reports whether rendered markers should be published to Kafka.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "0s")
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EarthquakeFeedURL: sharedcfg.EnvOrDefault("EARTHQUAKE_FEED_URL", DefaultEarthquakeFeedURL),
		TectonicPlatesURL: sharedcfg.EnvOrDefault("TECTONIC_PLATES_URL", DefaultTectonicPlatesURL),
		FetchTimeout:      fetchTimeout,
		RefreshInterval:   refreshInterval,

		KafkaBrokers:     brokers,
		KafkaMarkerTopic: sharedcfg.EnvOrDefault("KAFKA_MARKER_TOPIC", "earthquake-markers"),
	}

	if err := validateURL("EARTHQUAKE_FEED_URL", cfg.EarthquakeFeedURL); err != nil {
		return nil, err
	}
	if err := validateURL("TECTONIC_PLATES_URL", cfg.TectonicPlatesURL); err != nil {
		return nil, err
	}
	if cfg.SinkEnabled() && cfg.KafkaMarkerTopic == "" {
		return nil, errors.New("KAFKA_MARKER_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
