// Package orderrepo persists order aggregates with GORM.
package orderrepo

import (
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table. Status is stored as text so that rows
// written by older clients with other spellings can still be read and normalized.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Pickup          PlaceDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	Drop            PlaceDTO   `gorm:"embedded;embeddedPrefix:drop_"`
	PackageName     string     `gorm:"type:varchar(255);not null"`
	DistanceKm      float64    `gorm:"not null"`
	WeightKg        float64    `gorm:"not null"`
	PriceMinor      int64      `gorm:"not null"`
	CommissionMinor int64      `gorm:"not null;default:0"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	CustomerID      string     `gorm:"type:varchar(255);not null;index"`
	PartnerID       *uuid.UUID `gorm:"type:uuid;index"`
	IsAvailable     *bool
	CreatedAt       time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false"`
	AcceptedAt      *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// PlaceDTO is an embedded pickup or drop place. Coordinates are null until geocoded.
type PlaceDTO struct {
	Address string `gorm:"type:text;not null"`
	Lat     *float64
	Lng     *float64
}

func fromDomain(o *order.Order) OrderDTO {
	var partnerID *uuid.UUID
	if id := o.Partner(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	details := o.Details()
	return OrderDTO{
		ID:              o.ID().Bytes(),
		Pickup:          placeFromDomain(o.Pickup()),
		Drop:            placeFromDomain(o.Drop()),
		PackageName:     details.PackageName,
		DistanceKm:      details.DistanceKm,
		WeightKg:        details.WeightKg,
		PriceMinor:      details.Price.Minor(),
		CommissionMinor: details.Commission.Minor(),
		Status:          o.Status().String(),
		CustomerID:      details.CustomerID,
		PartnerID:       partnerID,
		IsAvailable:     o.AvailabilityFlag(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		AcceptedAt:      o.AcceptedAt(),
	}
}

func placeFromDomain(p order.Place) PlaceDTO {
	dto := PlaceDTO{Address: p.Address()}
	if point := p.Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := placeToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	drop, err := placeToDomain(dto.Drop)
	if err != nil {
		return nil, err
	}

	price, err := kernel.MoneyFromMinor(dto.PriceMinor)
	if err != nil {
		return nil, err
	}
	commission, err := kernel.MoneyFromMinor(dto.CommissionMinor)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:     id,
		Pickup: pickup,
		Drop:   drop,
		Details: order.Details{
			PackageName: dto.PackageName,
			DistanceKm:  dto.DistanceKm,
			WeightKg:    dto.WeightKg,
			Price:       price,
			Commission:  commission,
			CustomerID:  dto.CustomerID,
		},
		Status:      status,
		PartnerID:   partnerID,
		IsAvailable: dto.IsAvailable,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		AcceptedAt:  dto.AcceptedAt,
	})
}

func placeToDomain(dto PlaceDTO) (order.Place, error) {
	if dto.Lat == nil || dto.Lng == nil {
		return order.NewPlace(dto.Address, nil)
	}

	point, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
	if err != nil {
		return order.Place{}, err
	}
	return order.NewPlace(dto.Address, &point)
}
