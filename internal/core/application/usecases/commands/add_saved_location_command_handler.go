package commands

import (
	"context"

	"partnerdelivery/internal/core/domain/model/partner"
)

// AddSavedLocationCommandHandler appends a zone to the partner's saved locations.
type AddSavedLocationCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewAddSavedLocationCommandHandler(uowFactory PartnerUoWFactory) AddSavedLocationCommandHandler {
	return AddSavedLocationCommandHandler{uowFactory: uowFactory}
}

func (h AddSavedLocationCommandHandler) Handle(ctx context.Context, cmd AddSavedLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	zone, err := partner.NewSavedLocation(cmd.LocationID(), cmd.Name(), cmd.Address(), cmd.Center(), cmd.RadiusKm())
	if err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow PartnerUoW) error {
		repo := uow.PartnerRepository()

		p, err := repo.GetForUpdate(ctx, cmd.PartnerID())
		if err != nil {
			return err
		}

		if err = p.AddSavedLocation(zone); err != nil {
			return err
		}

		return repo.Update(ctx, p)
	})
}
