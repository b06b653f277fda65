package models

// GeoPoint is a single vertex of a permitted-area polygon.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoPolygon is an ordered sequence of vertices. The closing edge from the
// last point back to the first is implicit and never stored.
type GeoPolygon []GeoPoint

// IsGeofence reports whether the polygon describes a usable area. Fewer than
// three vertices cannot enclose anything and are treated as "no geofence".
func (p GeoPolygon) IsGeofence() bool {
	return len(p) >= 3
}

// ContainsPoint runs a ray-casting test against the polygon, including the
// implicit closing edge. Polygons without a usable area contain nothing.
func (p GeoPolygon) ContainsPoint(point GeoPoint) bool {
	if !p.IsGeofence() {
		return false
	}

	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		pi, pj := p[i], p[j]
		if (pi.Lat > point.Lat) != (pj.Lat > point.Lat) {
			crossing := (pj.Lng-pi.Lng)*(point.Lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lng
			if point.Lng < crossing {
				inside = !inside
			}
		}
		j = i
	}

	return inside
}
