package commands

import (
	"context"
)

// RemoveSavedLocationCommandHandler deletes a zone from the partner's saved locations.
// Removing a zone the partner does not have fails with partner.ErrSavedLocationNotFound.
type RemoveSavedLocationCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewRemoveSavedLocationCommandHandler(uowFactory PartnerUoWFactory) RemoveSavedLocationCommandHandler {
	return RemoveSavedLocationCommandHandler{uowFactory: uowFactory}
}

func (h RemoveSavedLocationCommandHandler) Handle(ctx context.Context, cmd RemoveSavedLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow PartnerUoW) error {
		repo := uow.PartnerRepository()

		p, err := repo.GetForUpdate(ctx, cmd.PartnerID())
		if err != nil {
			return err
		}

		if err = p.RemoveSavedLocation(cmd.LocationID()); err != nil {
			return err
		}

		return repo.Update(ctx, p)
	})
}
