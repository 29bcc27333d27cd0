package services

import (
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
)

// ZoneMatcher decides whether an order's pickup point falls inside a partner's
// preferred zones.
//
// Business rules:
//   - A partner with no zones sees every order
//   - Otherwise a point matches when its haversine distance to at least one zone center
//     is within that zone's radius, boundary included
//   - A zone without a radius covers partner.DefaultZoneRadiusKm
//
// Example usage:
//
//	matcher := services.NewZoneMatcher()
//	if matcher.IsOrderMatching(pickup, p.SavedLocations()) {
//	    // show the order to the partner
//	}
type ZoneMatcher struct{}

func NewZoneMatcher() ZoneMatcher {
	return ZoneMatcher{}
}

// IsOrderMatching reports whether pickup lies within any of zones.
func (ZoneMatcher) IsOrderMatching(pickup kernel.GeoPoint, zones []partner.SavedLocation) bool {
	if len(zones) == 0 {
		return true
	}

	for _, zone := range zones {
		if zone.Contains(pickup) {
			return true
		}
	}
	return false
}
