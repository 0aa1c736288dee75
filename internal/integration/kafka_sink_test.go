//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/quakemap/internal/adapter/feed"
	"github.com/couchcryptid/quakemap/internal/adapter/kafka"
	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/loader"
	"github.com/couchcryptid/quakemap/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testMarkerTopic = "test-markers"

const quakeFeed = `{"type":"FeatureCollection","features":[
	{"type":"Feature","id":"us1","properties":{"mag":3.0},"geometry":{"type":"Point","coordinates":[-100,40,15]}},
	{"type":"Feature","id":"us2","properties":{"mag":5.0},"geometry":{"type":"Point","coordinates":[142.3,38.1,85]}}
]}`

const plateFeed = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"Name":"PA-NA"},"geometry":{"type":"LineString","coordinates":[[-120,35],[-121,36]]}}
]}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("quakemap-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func serveFeeds(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /quakes", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(quakeFeed)) })
	mux.HandleFunc("GET /plates", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(plateFeed)) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestLoaderPublishesMarkers runs a full load pass against fake upstream
// feeds and reads the published markers back from Kafka.
func TestLoaderPublishesMarkers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testMarkerTopic)

	upstream := serveFeeds(t)
	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaMarkerTopic: testMarkerTopic,
	}

	metrics := observability.NewMetricsForTesting()
	fetcher := feed.NewClient(upstream.URL+"/quakes", upstream.URL+"/plates", 5*time.Second, metrics, discardLogger())
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	session := domain.NewMapSession(domain.DefaultMapView())
	l := loader.New(fetcher, writer, session, discardLogger(), metrics)
	require.NoError(t, l.Load(ctx))

	assert.True(t, session.Earthquakes.Attached())
	assert.True(t, session.Tectonics.Attached())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testMarkerTopic,
		GroupID:     fmt.Sprintf("test-markers-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string]domain.Marker{}
	for len(got) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from marker topic")

		var m domain.Marker
		require.NoError(t, json.Unmarshal(msg.Value, &m))
		assert.Equal(t, string(msg.Key), m.FeatureID)
		got[m.FeatureID] = m
	}

	assert.Equal(t, "orange", got["us1"].Color)
	assert.Equal(t, domain.Number(15), got["us1"].Radius)
	assert.Equal(t, "green", got["us2"].Color)
	assert.Equal(t, domain.Number(25), got["us2"].Radius)
}
