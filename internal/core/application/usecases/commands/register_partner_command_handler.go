package commands

import (
	"context"
	"time"

	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
)

// RegisterPartnerCommandHandler creates a partner profile and its sign-in credential in
// one transaction. New partners start active, or pending verification when the
// deployment requires KYC before work.
type RegisterPartnerCommandHandler struct {
	uowFactory          RegistrationUoWFactory
	hasher              ports.PasswordHasher
	requireVerification bool
	now                 func() time.Time
}

func NewRegisterPartnerCommandHandler(
	uowFactory RegistrationUoWFactory,
	hasher ports.PasswordHasher,
	requireVerification bool,
) RegisterPartnerCommandHandler {
	return RegisterPartnerCommandHandler{
		uowFactory:          uowFactory,
		hasher:              hasher,
		requireVerification: requireVerification,
		now:                 time.Now,
	}
}

// Handle returns ports.ErrEmailTaken when the email already has an account.
func (h RegisterPartnerCommandHandler) Handle(ctx context.Context, cmd RegisterPartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.now()
	p, err := partner.NewPartner(cmd.AccountID(), cmd.Profile(), h.requireVerification, now)
	if err != nil {
		return err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return err
	}

	return runInTransaction(ctx, h.uowFactory.Create, func(uow RegistrationUoW) error {
		err := uow.CredentialRepository().Add(ctx, ports.Credential{
			AccountID:    p.ID(),
			Email:        p.Profile().Email,
			PasswordHash: hash,
			CreatedAt:    now.UTC(),
		})
		if err != nil {
			return err
		}

		return uow.PartnerRepository().Add(ctx, p)
	})
}
