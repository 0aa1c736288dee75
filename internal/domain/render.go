package domain

import (
	"strings"
)

// Marker is the styled circle drawn for one earthquake.
type Marker struct {
	FeatureID string `json:"id,omitempty"`
	Position  LatLng `json:"position"`
	Color     string `json:"color"`
	FillColor string `json:"fillColor"`
	Radius    Number `json:"radius"`
	Popup     string `json:"popup"`
}

// Degenerate reports whether the marker cannot be drawn as a visible circle:
// a non-finite position or a radius that is not a positive finite number.
func (m Marker) Degenerate() bool {
	return !m.Position.IsFinite() || !m.Radius.IsFinite() || m.Radius <= 0
}

// RenderFeature converts one earthquake into a styled marker. Missing fields
// propagate as NaN rather than failing.
func RenderFeature(f Feature) Marker {
	lat, lon, depth := f.Lat(), f.Lon(), f.Depth()
	color := ChooseColor(depth)

	return Marker{
		FeatureID: f.ID,
		Position:  LatLng{Lat: Number(lat), Lng: Number(lon)},
		Color:     color,
		FillColor: color,
		Radius:    Number(ChooseRadius(f.Magnitude)),
		Popup:     popupText(f.Magnitude, lat, lon, depth),
	}
}

// RenderCollection renders every feature in feed order.
func RenderCollection(fc FeatureCollection) []Marker {
	markers := make([]Marker, 0, len(fc.Features))
	for _, f := range fc.Features {
		markers = append(markers, RenderFeature(f))
	}
	return markers
}

func popupText(mag, lat, lon, depth float64) string {
	return strings.Join([]string{
		"Magnitude: " + formatNumber(mag),
		"Latitude: " + formatNumber(lat),
		"Longitude: " + formatNumber(lon),
		"Depth: " + formatNumber(depth) + " km",
	}, "<br>")
}
