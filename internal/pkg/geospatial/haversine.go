package geospatial

import (
	"math"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// EarthRadiusKm is the mean Earth radius (IUGG) used by every distance in the service.
const EarthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between a and b in kilometres.
func DistanceKm(a, b domain.GeoPoint) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return haversineKm(lat1, lon1, lat2, lon2) * 1000
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can lift a past 1 for near-antipodal pairs
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// BoundsCenter returns the arithmetic center of b.
func BoundsCenter(b domain.Bounds) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// RouteBounds returns the box enclosing route, grown by bufferMeters on every side.
// The second return value is false for an empty route.
func RouteBounds(route []domain.GeoPoint, bufferMeters float64) (domain.Bounds, bool) {
	if len(route) == 0 {
		return domain.Bounds{}, false
	}
	b := domain.Bounds{
		MinLat: route[0].Lat, MaxLat: route[0].Lat,
		MinLng: route[0].Lng, MaxLng: route[0].Lng,
	}
	for _, p := range route[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	if bufferMeters > 0 {
		// widest longitude span sits at the latitude farthest from the equator
		refLat := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
		minLat, minLng, maxLat, maxLng := BoundingBox(refLat, 0, bufferMeters)
		b.MinLat -= refLat - minLat
		b.MaxLat += maxLat - refLat
		b.MinLng += minLng
		b.MaxLng += maxLng
	}
	b.MinLat = math.Max(b.MinLat, -90)
	b.MaxLat = math.Min(b.MaxLat, 90)
	b.MinLng = math.Max(b.MinLng, -180)
	b.MaxLng = math.Min(b.MaxLng, 180)
	return b, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
