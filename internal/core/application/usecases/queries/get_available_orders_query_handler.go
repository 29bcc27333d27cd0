package queries

import (
	"context"
	"log/slog"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/domain/services"
	"partnerdelivery/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler reads the pending pool, newest first.
//
// Zone filtering runs in memory with services.ZoneMatcher. A partner without zones sees
// the whole pool. Orders whose pickup has no stored coordinates are geocoded on the fly;
// when that yields nothing, or no geocoder is configured, they are left out of the
// filtered pool.
type GetAvailableOrdersQueryHandler struct {
	db       *gorm.DB
	geocoder ports.Geocoder
	matcher  services.ZoneMatcher
	logger   *slog.Logger
}

func NewGetAvailableOrdersQueryHandler(db *gorm.DB, geocoder ports.Geocoder, logger *slog.Logger) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{
		db:       db,
		geocoder: geocoder,
		matcher:  services.NewZoneMatcher(),
		logger:   logger.With("component", "available_orders_query"),
	}
}

func (h GetAvailableOrdersQueryHandler) Handle(ctx context.Context, query GetAvailableOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderViewColumns+`
		FROM orders
		WHERE `+statusKey+` = ?
		  AND partner_id IS NULL
		  AND (is_available IS NULL OR is_available)
		ORDER BY created_at DESC
	`, order.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}

	pool, err := scanOrderViews(rows)
	if err != nil {
		return nil, err
	}
	if !query.MatchingOnly() {
		return pool, nil
	}

	zones, err := h.savedLocations(ctx, query.PartnerID())
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return pool, nil
	}

	located := make(map[string]*kernel.GeoPoint)
	matching := make([]OrderView, 0, len(pool))
	for _, view := range pool {
		pickup := view.Pickup
		if pickup == nil {
			if _, seen := located[view.PickupAddress]; !seen {
				located[view.PickupAddress] = h.geocode(ctx, view.PickupAddress)
			}
			pickup = located[view.PickupAddress]
		}

		if pickup != nil && h.matcher.IsOrderMatching(*pickup, zones) {
			matching = append(matching, view)
		}
	}

	return matching, nil
}

func (h GetAvailableOrdersQueryHandler) savedLocations(ctx context.Context, partnerID kernel.UUID) ([]partner.SavedLocation, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, address, lat, lng, radius_km
		FROM saved_locations
		WHERE partner_id = ?
	`, partnerID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]partner.SavedLocation, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			name, address string
			lat, lng, rKm float64
		)
		if err = rows.Scan(&id, &name, &address, &lat, &lng, &rKm); err != nil {
			return nil, err
		}

		zoneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		center, pointErr := kernel.NewGeoPoint(lat, lng)
		if pointErr != nil {
			return nil, pointErr
		}
		zone, zoneErr := partner.NewSavedLocation(zoneID, name, address, center, rKm)
		if zoneErr != nil {
			return nil, zoneErr
		}
		zones = append(zones, zone)
	}

	return zones, rows.Err()
}

func (h GetAvailableOrdersQueryHandler) geocode(ctx context.Context, address string) *kernel.GeoPoint {
	if h.geocoder == nil || address == "" {
		return nil
	}

	places, err := h.geocoder.Geocode(ctx, address, 1)
	if err != nil {
		h.logger.WarnContext(ctx, "pickup geocoding failed", "address", address, "error", err)
		return nil
	}
	if len(places) == 0 {
		return nil
	}

	point := places[0].Point
	return &point
}
