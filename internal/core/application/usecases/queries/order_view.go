// Package queries contains read-only operations. Handlers read straight from the database
// with SQL and return flat views; they never load aggregates or take locks.
package queries

import (
	"database/sql"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// statusKey normalizes legacy spellings ("Picked Up", "in-transit") in SQL so rows not yet
// rewritten by the normalization job are still counted.
const statusKey = "lower(replace(replace(status, ' ', '_'), '-', '_'))"

const orderViewColumns = `
	id,
	pickup_address, pickup_lat, pickup_lng,
	drop_address, drop_lat, drop_lng,
	package_name, distance_km, weight_kg,
	price_minor, commission_minor,
	status, customer_id, partner_id,
	created_at, updated_at, accepted_at`

// OrderView is an order as shown to partners.
type OrderView struct {
	ID            kernel.UUID
	PickupAddress string
	Pickup        *kernel.GeoPoint
	DropAddress   string
	Drop          *kernel.GeoPoint
	PackageName   string
	DistanceKm    float64
	WeightKg      float64
	Price         kernel.Money
	Commission    kernel.Money
	Status        order.Status
	CustomerID    string
	PartnerID     *kernel.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AcceptedAt    *time.Time
}

func scanOrderViews(rows *sql.Rows) ([]OrderView, error) {
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		var (
			view                        OrderView
			id                          uuid.UUID
			partnerID                   *uuid.UUID
			pickupLat, pickupLng        *float64
			dropLat, dropLng            *float64
			priceMinor, commissionMinor int64
			status                      string
		)

		err := rows.Scan(
			&id,
			&view.PickupAddress, &pickupLat, &pickupLng,
			&view.DropAddress, &dropLat, &dropLng,
			&view.PackageName, &view.DistanceKm, &view.WeightKg,
			&priceMinor, &commissionMinor,
			&status, &view.CustomerID, &partnerID,
			&view.CreatedAt, &view.UpdatedAt, &view.AcceptedAt,
		)
		if err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if partnerID != nil {
			pID, pErr := kernel.UUIDFromBytes(partnerID[:])
			if pErr != nil {
				return nil, pErr
			}
			view.PartnerID = &pID
		}
		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if view.Pickup, err = optionalPoint(pickupLat, pickupLng); err != nil {
			return nil, err
		}
		if view.Drop, err = optionalPoint(dropLat, dropLng); err != nil {
			return nil, err
		}
		if view.Price, err = kernel.MoneyFromMinor(priceMinor); err != nil {
			return nil, err
		}
		if view.Commission, err = kernel.MoneyFromMinor(commissionMinor); err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func optionalPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil //nolint:nilnil // missing coordinates are not an error
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func activeStatusKeys() []string {
	keys := make([]string, 0, len(order.ActiveStatuses()))
	for _, s := range order.ActiveStatuses() {
		keys = append(keys, s.String())
	}
	return keys
}
