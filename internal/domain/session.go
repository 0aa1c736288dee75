package domain

import (
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// Overlay group names as shown in the layer control.
const (
	EarthquakesOverlay = "Earthquakes"
	TectonicOverlay    = "Tectonic Plates"
)

// OverlayGroup is a named, toggleable collection of drawables. It is written
// by the loader and read concurrently by HTTP handlers.
type OverlayGroup[T any] struct {
	name string

	mu        sync.RWMutex
	items     []T
	attached  bool
	updatedAt time.Time
}

// NewOverlayGroup creates an empty, unattached group.
func NewOverlayGroup[T any](name string) *OverlayGroup[T] {
	return &OverlayGroup[T]{name: name}
}

// Name returns the group's display name.
func (g *OverlayGroup[T]) Name() string { return g.name }

// Replace swaps the group's contents in one step, so readers never observe a
// half-populated group during a reload.
func (g *OverlayGroup[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = cp
	g.updatedAt = Now()
}

// Attach marks the group as shown on the map.
func (g *OverlayGroup[T]) Attach() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attached = true
}

// Attached reports whether the group has been attached to the map.
func (g *OverlayGroup[T]) Attached() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.attached
}

// Len returns the number of items in the group.
func (g *OverlayGroup[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

// Snapshot returns a copy of the group's items and its attachment state.
func (g *OverlayGroup[T]) Snapshot() OverlaySnapshot[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	items := make([]T, len(g.items))
	copy(items, g.items)
	return OverlaySnapshot[T]{
		Name:      g.name,
		Attached:  g.attached,
		UpdatedAt: g.updatedAt,
		Items:     items,
	}
}

// OverlaySnapshot is a point-in-time copy of an overlay group.
type OverlaySnapshot[T any] struct {
	Name      string
	Attached  bool
	UpdatedAt time.Time
	Items     []T
}

// BaseLayer is a tile layer offered in the layer control.
type BaseLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Default     bool   `json:"default"`
}

// MapView is the initial map configuration handed to the browser.
type MapView struct {
	Container  string      `json:"container"`
	Center     LatLng      `json:"center"`
	Zoom       int         `json:"zoom"`
	BaseLayers []BaseLayer `json:"baseLayers"`
}

// DefaultMapView returns the continental-US view with street and topo tiles.
func DefaultMapView() MapView {
	return MapView{
		Container: "map",
		Center:    LatLng{Lat: 37.09, Lng: -95.71},
		Zoom:      3,
		BaseLayers: []BaseLayer{
			{
				Name:        "Streets",
				URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
				Default:     true,
			},
			{
				Name: "Topography",
				URL:  "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
					`<a href="http://viewfinderpanoramas.org">SRTM</a> | ` +
					`Map style: &copy; <a href="https://opentopomap.org/">OpenTopoMap</a> ` +
					`(<a href="https://creativecommons.org/licenses/by-sa/3.0/">CC-BY-SA</a>)`,
			},
		},
	}
}

// MapSession owns the map configuration, both overlay groups and the legend
// for the lifetime of the process.
type MapSession struct {
	View        MapView
	Earthquakes *OverlayGroup[Marker]
	Tectonics   *OverlayGroup[Polyline]
	Legend      Legend
}

// NewMapSession builds the session once at startup. The legend is built here
// and never updated.
func NewMapSession(view MapView) *MapSession {
	return &MapSession{
		View:        view,
		Earthquakes: NewOverlayGroup[Marker](EarthquakesOverlay),
		Tectonics:   NewOverlayGroup[Polyline](TectonicOverlay),
		Legend:      BuildLegend(),
	}
}

// MarkerBounds returns the bounding box of all markers with a finite
// position. ok is false when there is no such marker.
func MarkerBounds(markers []Marker) (b orb.Bound, ok bool) {
	for _, m := range markers {
		if !m.Position.IsFinite() {
			continue
		}
		p := orb.Point{float64(m.Position.Lng), float64(m.Position.Lat)}
		if !ok {
			b = p.Bound()
			ok = true
			continue
		}
		b = b.Extend(p)
	}
	return b, ok
}
