package kernel

import (
	"errors"
	"fmt"
	"math"

	"partnerdelivery/internal/pkg/errs"
	"partnerdelivery/internal/pkg/guard"
)

const (
	// EarthRadiusKm is the mean earth radius used by the haversine distance.
	EarthRadiusKm = 6371.0

	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint was not built by NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a latitude/longitude pair in decimal degrees (WGS84).
// It is immutable; the zero value fails validation.
//
// Example:
//
//	chennai, _ := kernel.NewGeoPoint(13.0827, 80.2707)
//	tnagar, _ := kernel.NewGeoPoint(13.0418, 80.2341)
//	km := chennai.DistanceKm(tnagar) // ~6.0
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates the coordinate ranges and builds a GeoPoint.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceKm returns the great-circle (haversine) distance to other in kilometers.
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
//	d = 2·R·atan2(√a, √(1−a))
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := degreesToRadians(p.lat)
	lat2 := degreesToRadians(other.lat)
	dLat := degreesToRadians(other.lat - p.lat)
	dLng := degreesToRadians(other.lng - p.lng)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < minLatitude || lat > maxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, minLatitude, maxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < minLongitude || lng > maxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, minLongitude, maxLongitude)
	}
	p.lng = lng
	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
