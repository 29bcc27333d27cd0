package commands

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

var ErrRemoveSavedLocationCommandIsNotConstructed = errors.New(
	"RemoveSavedLocationCommand must be created via NewRemoveSavedLocationCommand constructor",
)

// RemoveSavedLocationCommand deletes one of a partner's zones.
type RemoveSavedLocationCommand struct { //nolint:recvcheck //using for validation
	partnerID  kernel.UUID
	locationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveSavedLocationCommand(partnerID, locationID kernel.UUID) (RemoveSavedLocationCommand, error) {
	if err := errors.Join(partnerID.Validate(), locationID.Validate()); err != nil {
		return RemoveSavedLocationCommand{}, err
	}

	return RemoveSavedLocationCommand{
		partnerID:  partnerID,
		locationID: locationID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveSavedLocationCommand) Validate() error {
	return c.guard.Validate(ErrRemoveSavedLocationCommandIsNotConstructed)
}

func (c RemoveSavedLocationCommand) PartnerID() kernel.UUID  { return c.partnerID }
func (c RemoveSavedLocationCommand) LocationID() kernel.UUID { return c.locationID }
