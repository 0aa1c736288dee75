package domain

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Plate boundary line style.
const (
	BoundaryColor  = "purple"
	BoundaryWeight = 3
)

// Polyline is one styled tectonic plate boundary segment.
type Polyline struct {
	Name      string   `json:"name,omitempty"`
	Positions []LatLng `json:"positions"`
	Color     string   `json:"color"`
	Weight    int      `json:"weight"`
}

// Boundary is one plate boundary geometry with its PB2002 name, if any.
type Boundary struct {
	Name     string
	Geometry orb.Geometry
}

// ParseBoundaries decodes a plate boundary GeoJSON FeatureCollection.
func ParseBoundaries(data []byte) ([]Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse plate boundaries: %w", err)
	}

	out := make([]Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		out = append(out, Boundary{
			Name:     f.Properties.MustString("Name", ""),
			Geometry: f.Geometry,
		})
	}
	return out, nil
}

// RenderBoundaries styles line geometries as purple polylines. MultiLineStrings
// are split into one polyline per part. It also returns how many boundaries
// were skipped because their geometry is not a line.
func RenderBoundaries(boundaries []Boundary) ([]Polyline, int) {
	lines := make([]Polyline, 0, len(boundaries))
	skipped := 0
	for _, b := range boundaries {
		switch g := b.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, newPolyline(b.Name, g))
		case orb.MultiLineString:
			for _, ls := range g {
				lines = append(lines, newPolyline(b.Name, ls))
			}
		default:
			skipped++
		}
	}
	return lines, skipped
}

func newPolyline(name string, ls orb.LineString) Polyline {
	positions := make([]LatLng, len(ls))
	for i, p := range ls {
		positions[i] = LatLng{Lat: Number(p.Lat()), Lng: Number(p.Lon())}
	}
	return Polyline{
		Name:      name,
		Positions: positions,
		Color:     BoundaryColor,
		Weight:    BoundaryWeight,
	}
}
