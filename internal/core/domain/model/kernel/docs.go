// Package kernel provides the value objects shared by the order and partner models.
//
// The package includes:
//   - UUID: identifier of orders, partners, zones and ledger entries
//   - GeoPoint: a latitude/longitude pair with great-circle distance
//   - Money: a non-negative amount in minor units
//
// Values are immutable and validated on construction, so the domain model never
// holds an out-of-range coordinate or a negative balance.
package kernel
