package graphhopper

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
)

const polylinePrecision = 1e5

var ErrMalformedPolyline = errors.New("graphhopper: malformed encoded polyline")

// DecodePolyline decodes the standard encoded polyline format at precision 1e5. Each
// coordinate is a zigzag-encoded delta from the previous one, written as 5-bit groups offset
// by 63 with 0x20 marking continuation.
func DecodePolyline(encoded string) ([]kernel.GeoPoint, error) {
	points := make([]kernel.GeoPoint, 0, len(encoded)/4)
	var lat, lng int64

	for index := 0; index < len(encoded); {
		dlat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		dlng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		index = next

		lat += dlat
		lng += dlng
		p, err := kernel.NewGeoPoint(float64(lat)/polylinePrecision, float64(lng)/polylinePrecision)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func decodeValue(encoded string, index int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if index >= len(encoded) || shift > 60 {
			return 0, 0, ErrMalformedPolyline
		}
		b := int64(encoded[index]) - 63
		index++
		if b < 0 || b > 63 {
			return 0, 0, ErrMalformedPolyline
		}
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}
