package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/quakemap/internal/config"
	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	marker := domain.RenderFeature(domain.Feature{
		ID:          "us7000abcd",
		Coordinates: []float64{-100, 40, 15},
		Magnitude:   3.0,
	})

	msg, err := serializeToMessage(marker, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("us7000abcd"), msg.Key)
	assert.Contains(t, string(msg.Value), `"color":"orange"`)
	assert.Contains(t, string(msg.Value), `"radius":15`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "color", msg.Headers[0].Key)
	assert.Equal(t, []byte("orange"), msg.Headers[0].Value)
	assert.Equal(t, "rendered_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_DegenerateMarker(t *testing.T) {
	marker := domain.RenderFeature(domain.Feature{ID: "bad", Magnitude: math.NaN()})

	msg, err := serializeToMessage(marker, time.Now())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Nil(t, decoded["radius"])
	assert.Equal(t, "green", decoded["color"])
}

func TestNewWriter_UsesConfiguredTopic(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaMarkerTopic: "markers"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "markers", w.writer.Topic)
	assert.Equal(t, "localhost:9092", w.writer.Addr.String())
}
