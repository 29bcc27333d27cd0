package commands

import (
	"errors"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/pkg/errs"
	"partnerdelivery/internal/pkg/guard"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

var (
	ErrRegisterPartnerCommandIsNotConstructed = errors.New(
		"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
	)
	ErrPasswordTooShort = errs.NewValueIsInvalidError("password")
)

// RegisterPartnerCommand signs up a new partner account with its credential.
type RegisterPartnerCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	profile   partner.Profile
	password  string

	guard guard.ConstructorGuard
}

func NewRegisterPartnerCommand(accountID kernel.UUID, profile partner.Profile, password string) (RegisterPartnerCommand, error) {
	var passwordErr error
	if len(password) < MinPasswordLength {
		passwordErr = ErrPasswordTooShort
	}

	if err := errors.Join(accountID.Validate(), passwordErr); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return RegisterPartnerCommand{
		accountID: accountID,
		profile:   profile,
		password:  password,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

func (c RegisterPartnerCommand) AccountID() kernel.UUID {
	return c.accountID
}

func (c RegisterPartnerCommand) Profile() partner.Profile {
	return c.profile
}

func (c RegisterPartnerCommand) Password() string {
	return c.password
}
