package order

import (
	"strings"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/errs"
)

// ErrAddressIsRequired is returned when a pickup or drop place has no address text.
var ErrAddressIsRequired = errs.NewValueIsRequiredError("address")

// Place is a pickup or drop endpoint of an order: a free-form address and, when known,
// its coordinates. Orders created before geocoding was available may carry no point.
type Place struct {
	address string
	point   *kernel.GeoPoint
}

// NewPlace builds a Place. point may be nil when the address has not been geocoded.
func NewPlace(address string, point *kernel.GeoPoint) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, ErrAddressIsRequired
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Place{}, err
		}
		p := *point
		point = &p
	}
	return Place{address: address, point: point}, nil
}

func (p Place) Address() string {
	return p.address
}

// Point returns a copy of the coordinates, or nil.
func (p Place) Point() *kernel.GeoPoint {
	if p.point == nil {
		return nil
	}
	point := *p.point
	return &point
}

func (p Place) HasPoint() bool {
	return p.point != nil
}
