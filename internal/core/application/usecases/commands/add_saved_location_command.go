package commands

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrAddSavedLocationCommandIsNotConstructed = errors.New(
	"AddSavedLocationCommand must be created via NewAddSavedLocationCommand constructor",
)

// AddSavedLocationCommand adds a preferred pickup zone to a partner.
// A zero radius takes the default zone radius.
type AddSavedLocationCommand struct { //nolint:recvcheck //using for validation
	partnerID  kernel.UUID
	locationID kernel.UUID
	name       string
	address    string
	center     kernel.GeoPoint
	radiusKm   float64

	guard guard.ConstructorGuard
}

func NewAddSavedLocationCommand(
	partnerID, locationID kernel.UUID,
	name, address string,
	center kernel.GeoPoint,
	radiusKm float64,
) (AddSavedLocationCommand, error) {
	if err := errors.Join(partnerID.Validate(), locationID.Validate(), center.Validate()); err != nil {
		return AddSavedLocationCommand{}, err
	}

	return AddSavedLocationCommand{
		partnerID:  partnerID,
		locationID: locationID,
		name:       name,
		address:    address,
		center:     center,
		radiusKm:   radiusKm,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AddSavedLocationCommand) Validate() error {
	return c.guard.Validate(ErrAddSavedLocationCommandIsNotConstructed)
}

func (c AddSavedLocationCommand) PartnerID() kernel.UUID  { return c.partnerID }
func (c AddSavedLocationCommand) LocationID() kernel.UUID { return c.locationID }
func (c AddSavedLocationCommand) Name() string            { return c.name }
func (c AddSavedLocationCommand) Address() string         { return c.address }
func (c AddSavedLocationCommand) Center() kernel.GeoPoint { return c.center }
func (c AddSavedLocationCommand) RadiusKm() float64       { return c.radiusKm }
