package partner

import (
	"fmt"
	"math"
	"strings"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/errs"
)

// DefaultZoneRadiusKm applies to zones saved without an explicit radius.
const DefaultZoneRadiusKm = 5.0

var ErrZoneNameIsRequired = errs.NewValueIsRequiredError("name")

// SavedLocation is a partner's preferred pickup zone: a named center and a radius in km.
// It is a value owned by exactly one partner and is added or removed as a whole.
type SavedLocation struct {
	id       kernel.UUID
	name     string
	address  string
	center   kernel.GeoPoint
	radiusKm float64
}

// NewSavedLocation builds a zone. A non-positive radius falls back to DefaultZoneRadiusKm.
func NewSavedLocation(id kernel.UUID, name, address string, center kernel.GeoPoint, radiusKm float64) (SavedLocation, error) {
	name = strings.TrimSpace(name)
	if err := id.Validate(); err != nil {
		return SavedLocation{}, err
	}
	if name == "" {
		return SavedLocation{}, ErrZoneNameIsRequired
	}
	if err := center.Validate(); err != nil {
		return SavedLocation{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return SavedLocation{}, errs.NewValueIsInvalidErrorWithCause("radius", fmt.Errorf("%v is not a number", radiusKm))
	}
	if radiusKm <= 0 {
		radiusKm = DefaultZoneRadiusKm
	}

	return SavedLocation{
		id:       id,
		name:     name,
		address:  strings.TrimSpace(address),
		center:   center,
		radiusKm: radiusKm,
	}, nil
}

func (l SavedLocation) ID() kernel.UUID         { return l.id }
func (l SavedLocation) Name() string            { return l.name }
func (l SavedLocation) Address() string         { return l.address }
func (l SavedLocation) Center() kernel.GeoPoint { return l.center }
func (l SavedLocation) RadiusKm() float64       { return l.radiusKm }

// Contains reports whether point lies within the zone, boundary included.
func (l SavedLocation) Contains(point kernel.GeoPoint) bool {
	radius := l.radiusKm
	if radius <= 0 {
		radius = DefaultZoneRadiusKm
	}
	return l.center.DistanceKm(point) <= radius
}
