// Package services holds domain logic that spans the order and partner aggregates.
//
// The package includes:
//   - ZoneMatcher: filters the order pool by a partner's saved pickup zones
//   - DeliverySettlement: credits a partner's wallet when an order is delivered
package services
