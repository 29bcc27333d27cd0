package ports

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"
)

// GeoPlace is one geocoding hit.
type GeoPlace struct {
	Point    kernel.GeoPoint
	Name     string
	Street   string
	City     string
	State    string
	Country  string
	Postcode string
}

// Route is a driving route between two points.
type Route struct {
	DistanceMeters float64
	DurationMillis int64
	Points         []kernel.GeoPoint
}

// Geocoder resolves free-text addresses to coordinates and back.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]GeoPlace, error)
	ReverseGeocode(ctx context.Context, point kernel.GeoPoint) (GeoPlace, error)
}

// Router computes routes between coordinates.
type Router interface {
	Route(ctx context.Context, from, to kernel.GeoPoint) (Route, error)
}
