// Package partner implements the delivery partner aggregate.
//
// A Partner holds contact details, an account status that gates access to the order pool,
// a wallet with its append-only ledger (Transaction), a delivery counter, the saved pickup
// zones (SavedLocation) used to filter the pool, and read-only KYC metadata.
//
// Business rules:
//   - Only active or verified partners may browse, claim or deliver orders
//   - Each delivered order credits the wallet exactly once through Settle
//   - A zone without a radius covers DefaultZoneRadiusKm
package partner
