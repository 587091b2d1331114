package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the latitude/longitude ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Route is an ordered sequence of points in travel order, decoded once per request.
type Route []GeoPoint

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether p falls inside the box (edges inclusive).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Valid checks coordinate ranges and min/max ordering.
func (b Bounds) Valid() bool {
	if !(GeoPoint{Lat: b.MinLat, Lng: b.MinLng}).Valid() || !(GeoPoint{Lat: b.MaxLat, Lng: b.MaxLng}).Valid() {
		return false
	}
	return b.MinLat <= b.MaxLat && b.MinLng <= b.MaxLng
}
