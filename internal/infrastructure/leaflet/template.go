package leaflet

import "html/template"

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Listings Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.tag-filter { background: #fff; padding: 6px 10px; font: 13px/1.5 sans-serif; max-height: 240px; overflow-y: auto; }
.tag-filter label { display: block; cursor: pointer; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var DATA = {{.Data}};
(function () {
  var map = L.map('map').setView(DATA.center, DATA.zoom);
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    maxZoom: 19,
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);

  var overlays = {};
  var tagged = [];
  (DATA.layers || []).forEach(function (layer) {
    var group = L.layerGroup();
    layer.markers.forEach(function (m) {
      var marker = L.circleMarker([m.lat, m.lon], {
        radius: 7,
        weight: 2,
        color: m.color,
        fillColor: m.color,
        fillOpacity: 0.85
      });
      marker.bindPopup(m.popup, { maxWidth: 400 });
      marker.addTo(group);
      if (m.tags && m.tags.length) {
        tagged.push({ marker: marker, group: group, tags: m.tags });
      }
    });
    group.addTo(map);
    overlays[layer.name] = group;
  });
  L.control.layers(null, overlays, { collapsed: false }).addTo(map);

  // Per-dimension tag filters: values inside one control combine with OR,
  // separate controls intersect.
  var selected = {};
  function refresh() {
    tagged.forEach(function (tm) {
      var visible = (DATA.filters || []).every(function (f) {
        var chosen = selected[f.name];
        if (!chosen || chosen.length === 0) { return true; }
        return tm.tags.some(function (t) { return chosen.indexOf(t) !== -1; });
      });
      if (visible) {
        tm.group.addLayer(tm.marker);
      } else {
        tm.group.removeLayer(tm.marker);
      }
    });
  }

  (DATA.filters || []).forEach(function (f) {
    selected[f.name] = [];
    var control = L.control({ position: 'topleft' });
    control.onAdd = function () {
      var div = L.DomUtil.create('div', 'tag-filter leaflet-bar');
      var html = '<strong>' + f.name + '</strong>';
      f.values.forEach(function (v) {
        html += '<label><input type="checkbox" data-dim="' + f.name + '" data-val="' + v + '"> ' + v + '</label>';
      });
      div.innerHTML = html;
      L.DomEvent.disableClickPropagation(div);
      div.addEventListener('change', function (ev) {
        var dim = ev.target.getAttribute('data-dim');
        var tag = dim + ':' + ev.target.getAttribute('data-val');
        var chosen = selected[dim];
        if (ev.target.checked) {
          chosen.push(tag);
        } else {
          chosen.splice(chosen.indexOf(tag), 1);
        }
        refresh();
      });
      return div;
    };
    control.addTo(map);
  });
})();
</script>
</body>
</html>
`))
