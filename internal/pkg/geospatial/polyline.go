package geospatial

import (
	"fmt"
	"math"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

const (
	polylineOffset    = 63
	polylineChunkMask = 0x1f
	polylineMore      = 0x20
	polylinePrecision = 1e5
	polylineMaxShift  = 32
)

// DecodeError reports a malformed encoded polyline.
type DecodeError struct {
	Offset int    // byte offset of the offending character, or len(input) when truncated
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("polyline: %s at offset %d", e.Reason, e.Offset)
}

// DecodePolyline decodes an encoded polyline (precision 5) into points in travel order.
// Malformed input yields a *DecodeError and no points.
func DecodePolyline(encoded string) (domain.Route, error) {
	points := make(domain.Route, 0, len(encoded)/4)

	var lat, lng int32
	idx := 0
	for idx < len(encoded) {
		dLat, next, err := decodeValue(encoded, idx)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, &DecodeError{Offset: next, Reason: "latitude without longitude"}
		}
		dLng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		idx = next

		lat += dLat
		lng += dLng
		points = append(points, domain.GeoPoint{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}
	return points, nil
}

// decodeValue reads one zig-zag encoded value starting at idx and returns it
// with the index of the next unread byte.
func decodeValue(encoded string, idx int) (int32, int, error) {
	var result uint32
	shift := 0
	for {
		if idx >= len(encoded) {
			return 0, idx, &DecodeError{Offset: idx, Reason: "truncated value"}
		}
		if shift >= polylineMaxShift {
			return 0, idx, &DecodeError{Offset: idx, Reason: "value overflows 32 bits"}
		}
		b := int(encoded[idx]) - polylineOffset
		if b < 0 || b > 63 {
			return 0, idx, &DecodeError{Offset: idx, Reason: fmt.Sprintf("invalid character %q", encoded[idx])}
		}
		idx++
		result |= uint32(b&polylineChunkMask) << shift
		shift += 5
		if b < polylineMore {
			break
		}
	}

	v := int32(result >> 1)
	if result&1 != 0 {
		v = ^v
	}
	return v, idx, nil
}

// EncodePolyline encodes points with precision 5.
func EncodePolyline(points []domain.GeoPoint) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*6)
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * polylinePrecision))
		lng := int64(math.Round(p.Lng * polylinePrecision))

		buf = encodeValue(buf, lat-prevLat)
		buf = encodeValue(buf, lng-prevLng)

		prevLat, prevLng = lat, lng
	}
	return string(buf)
}

func encodeValue(buf []byte, value int64) []byte {
	v := uint64(value << 1)
	if value < 0 {
		v = ^v
	}
	for v >= polylineMore {
		buf = append(buf, byte((v&polylineChunkMask)|polylineMore)+polylineOffset)
		v >>= 5
	}
	return append(buf, byte(v)+polylineOffset)
}
