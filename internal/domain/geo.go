package domain

import (
	"math"
	"strconv"
)

// Number is a float64 that encodes non-finite values as JSON null.
// Degenerate markers (NaN radius, NaN position) must still be servable.
type Number float64

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON encodes n in its shortest decimal form, or null when non-finite.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// UnmarshalJSON decodes a JSON number; null decodes to NaN.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// LatLng is a map position in Leaflet order (latitude first).
type LatLng struct {
	Lat Number `json:"lat"`
	Lng Number `json:"lng"`
}

// IsFinite reports whether both components are finite.
func (p LatLng) IsFinite() bool {
	return p.Lat.IsFinite() && p.Lng.IsFinite()
}

// formatNumber renders v in its shortest decimal form: 3.0 -> "3", NaN -> "NaN".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
