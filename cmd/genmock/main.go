// Command genmock renders saved earthquake and plate boundary GeoJSON files
// into the overlay fixtures the map API serves. It uses the actual domain
// package so fixtures match real loader output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -quakes testdata/all_week.geojson \
//	  -plates testdata/PB2002_boundaries.json \
//	  -out data/mock/overlays.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixture is the combined output document.
type fixture struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Legend      domain.Legend     `json:"legend"`
	Markers     []domain.Marker   `json:"markers"`
	Polylines   []domain.Polyline `json:"polylines,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	quakesPath := flag.String("quakes", "", "path to a saved USGS earthquake GeoJSON feed")
	platesPath := flag.String("plates", "", "optional path to a saved plate boundary GeoJSON file")
	out := flag.String("out", "", "output path for the rendered overlay fixture")
	flag.Parse()

	if *quakesPath == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -quakes, -out")
	}

	// Set a fixed clock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	data, err := os.ReadFile(*quakesPath)
	if err != nil {
		return fmt.Errorf("read earthquakes: %w", err)
	}
	fc, err := domain.ParseFeatureCollection(data)
	if err != nil {
		return err
	}

	fx := fixture{
		GeneratedAt: domain.Now(),
		Legend:      domain.BuildLegend(),
		Markers:     domain.RenderCollection(fc),
	}
	log.Printf("earthquakes: %d markers", len(fx.Markers))

	// Plates are only rendered after earthquakes, as in the loader.
	if *platesPath != "" {
		data, err := os.ReadFile(*platesPath)
		if err != nil {
			return fmt.Errorf("read plates: %w", err)
		}
		boundaries, err := domain.ParseBoundaries(data)
		if err != nil {
			return err
		}
		var skipped int
		fx.Polylines, skipped = domain.RenderBoundaries(boundaries)
		log.Printf("plates: %d polylines, %d skipped", len(fx.Polylines), skipped)
	}

	if err := writeJSON(*out, fx); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(fx.Markers)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats reports marker counts per depth color and degenerate markers.
func printStats(markers []domain.Marker) {
	colorCounts := map[string]int{}
	degenerate := 0
	for _, m := range markers {
		colorCounts[m.Color]++
		if m.Degenerate() {
			degenerate++
		}
	}

	legend := domain.BuildLegend()
	fmt.Println("\n--- Depth buckets ---")
	for _, item := range legend.Items {
		fmt.Printf("  %-7s %-24s %d\n", item.Color, item.Label, colorCounts[item.Color])
	}

	colors := make([]string, 0, len(colorCounts))
	for c := range colorCounts {
		colors = append(colors, c)
	}
	sort.Strings(colors)
	fmt.Printf("\n  distinct colors: %v\n", colors)
	fmt.Printf("  degenerate markers: %d\n", degenerate)
}
