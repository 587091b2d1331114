package geospatial

import (
	"math"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// DistanceToRoute returns the shortest distance in meters from p to the
// polyline route. The projection parameter divides a dot product of degree
// offsets by the squared segment length in kilometres. An empty route yields +Inf.
func DistanceToRoute(p domain.GeoPoint, route []domain.GeoPoint) float64 {
	switch len(route) {
	case 0:
		return math.Inf(1)
	case 1:
		return DistanceKm(p, route[0]) * 1000
	}

	best := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		if d := distanceToSegmentKm(p, route[i], route[i+1]); d < best {
			best = d
		}
	}
	return best * 1000
}

func distanceToSegmentKm(p, p1, p2 domain.GeoPoint) float64 {
	segLen := DistanceKm(p1, p2)
	if segLen == 0 {
		return DistanceKm(p, p1)
	}

	t := ((p.Lat-p1.Lat)*(p2.Lat-p1.Lat) + (p.Lng-p1.Lng)*(p2.Lng-p1.Lng)) / (segLen * segLen)
	switch {
	case t <= 0:
		return DistanceKm(p, p1)
	case t >= 1:
		return DistanceKm(p, p2)
	}

	proj := domain.GeoPoint{
		Lat: p1.Lat + t*(p2.Lat-p1.Lat),
		Lng: p1.Lng + t*(p2.Lng-p1.Lng),
	}
	return DistanceKm(p, proj)
}

// WithinCorridor reports whether p lies within bufferMeters of route.
func WithinCorridor(p domain.GeoPoint, route []domain.GeoPoint, bufferMeters float64) bool {
	return DistanceToRoute(p, route) <= bufferMeters
}

// CorridorMatch is a point that fell inside a route corridor.
type CorridorMatch struct {
	Index     int
	DistanceM float64
}

// FilterAlongRoute scans every point against every segment of route and
// returns the matches in input order.
func FilterAlongRoute(points []domain.GeoPoint, route []domain.GeoPoint, bufferMeters float64) []CorridorMatch {
	var out []CorridorMatch
	for i, p := range points {
		if d := DistanceToRoute(p, route); d <= bufferMeters {
			out = append(out, CorridorMatch{Index: i, DistanceM: d})
		}
	}
	return out
}
