package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Feature is one earthquake from the USGS GeoJSON feed.
// Coordinates are kept exactly as received: [lon, lat, depth].
type Feature struct {
	ID          string
	Coordinates []float64
	Magnitude   float64
	Place       string
	Time        time.Time
}

// Lon returns coordinates[0], or NaN when missing.
func (f Feature) Lon() float64 { return coordinate(f.Coordinates, 0) }

// Lat returns coordinates[1], or NaN when missing.
func (f Feature) Lat() float64 { return coordinate(f.Coordinates, 1) }

// Depth returns coordinates[2] in kilometres, or NaN when missing.
func (f Feature) Depth() float64 { return coordinate(f.Coordinates, 2) }

func coordinate(c []float64, i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return math.NaN()
}

// FeatureCollection is a decoded earthquake feed document.
type FeatureCollection struct {
	Title    string
	Features []Feature
}

// rawCollection mirrors the subset of the USGS summary format that is read.
type rawCollection struct {
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	ID       string `json:"id"`
	Geometry *struct {
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  *int64   `json:"time"` // epoch milliseconds
	} `json:"properties"`
}

// ParseFeatureCollection decodes an earthquake GeoJSON document.
// Only a document that is not valid JSON is an error; individual features
// with missing or malformed fields decode with NaN in the affected slots.
func ParseFeatureCollection(data []byte) (FeatureCollection, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return FeatureCollection{}, fmt.Errorf("parse earthquake feed: %w", err)
	}

	fc := FeatureCollection{
		Title:    raw.Metadata.Title,
		Features: make([]Feature, 0, len(raw.Features)),
	}
	for _, rf := range raw.Features {
		fc.Features = append(fc.Features, rf.toFeature())
	}
	return fc, nil
}

func (rf rawFeature) toFeature() Feature {
	f := Feature{
		ID:        rf.ID,
		Magnitude: math.NaN(),
		Place:     rf.Properties.Place,
	}
	if rf.Properties.Mag != nil {
		f.Magnitude = *rf.Properties.Mag
	}
	if rf.Properties.Time != nil {
		f.Time = time.UnixMilli(*rf.Properties.Time).UTC()
	}
	if rf.Geometry != nil && len(rf.Geometry.Coordinates) > 0 {
		var coords []*float64
		// Non-point geometries fail here and keep nil coordinates.
		if err := json.Unmarshal(rf.Geometry.Coordinates, &coords); err == nil {
			f.Coordinates = make([]float64, len(coords))
			for i, c := range coords {
				f.Coordinates[i] = math.NaN()
				if c != nil {
					f.Coordinates[i] = *c
				}
			}
		}
	}
	return f
}
