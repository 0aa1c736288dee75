package http

import (
	"html/template"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
)

// overlayPollInterval is how often the page re-checks an overlay that the
// loader has not attached yet.
const overlayPollInterval = 5 * time.Second

type pageData struct {
	View       domain.MapView
	Legend     domain.Legend
	PollMillis int64
}

// pageTemplate hosts the Leaflet map. Tiles, panning and the layer control
// run in the browser; overlays come from the JSON API in load order.
var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Earthquakes, Past Week</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <style>
    html, body, #{{.View.Container}} { height: 100%; margin: 0; }
    .legend { background: white; padding: 8px 10px; line-height: 1.4; border-radius: 4px; }
    .legend h4 { margin: 0 0 6px; }
    .legend-item i { display: inline-block; width: 14px; height: 14px; margin-right: 6px; vertical-align: middle; }
  </style>
</head>
<body>
  <div id="{{.View.Container}}"></div>
  <template id="legend-panel">
    <div class="legend">
      <h4>{{.Legend.Title}}</h4>
      {{- range .Legend.Items}}
      <div class="legend-item"><i style="background: {{.Color}}"></i><span>({{.Label}})</span></div>
      {{- end}}
    </div>
  </template>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <script>
  (async function () {
    const view = await (await fetch("/api/session")).json();

    const baseMaps = {};
    let defaultLayer = null;
    for (const b of view.baseLayers) {
      const layer = L.tileLayer(b.url, { attribution: b.attribution });
      baseMaps[b.name] = layer;
      if (b.default) defaultLayer = layer;
    }

    const map = L.map(view.container, {
      center: [view.center.lat, view.center.lng],
      zoom: view.zoom,
      layers: defaultLayer ? [defaultLayer] : [],
    });

    const earthquakes = new L.LayerGroup();
    const tectonics = new L.LayerGroup();
    L.control.layers(baseMaps, { "Earthquakes": earthquakes, "Tectonic Plates": tectonics }).addTo(map);

    const legend = L.control({ position: {{.Legend.Position}} });
    legend.onAdd = function () {
      return document.getElementById("legend-panel").content.firstElementChild.cloneNode(true);
    };
    legend.addTo(map);

    // Overlays are published by the background loader; poll until attached.
    async function attachedOverlay(path) {
      for (;;) {
        try {
          const res = await fetch(path);
          if (res.ok) {
            const group = await res.json();
            if (group.attached) return group;
          }
        } catch (e) {}
        await new Promise(r => setTimeout(r, {{.PollMillis}}));
      }
    }

    const quakes = await attachedOverlay("/api/earthquakes");
    for (const m of quakes.items) {
      if (m.position.lat === null || m.position.lng === null) continue;
      L.circleMarker([m.position.lat, m.position.lng], {
        color: m.color,
        fillColor: m.fillColor,
        radius: m.radius === null ? 0 : Math.max(m.radius, 0),
      }).bindPopup(m.popup).addTo(earthquakes);
    }
    earthquakes.addTo(map);

    const plates = await attachedOverlay("/api/tectonic-plates");
    for (const p of plates.items) {
      L.polyline(p.positions.map(ll => [ll.lat, ll.lng]), { color: p.color, weight: p.weight }).addTo(tectonics);
    }
    tectonics.addTo(map);
  })();
  </script>
</body>
</html>
`))
