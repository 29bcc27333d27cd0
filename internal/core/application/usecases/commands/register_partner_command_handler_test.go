package commands_test

import (
	"testing"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signUpProfile() partner.Profile {
	return partner.Profile{Name: "Arun", Email: "Arun@Example.com", Phone: "99", VehicleType: "scooter"}
}

func TestNewRegisterPartnerCommand(t *testing.T) {
	_, err := commands.NewRegisterPartnerCommand(kernel.NewUUID(), signUpProfile(), "123")

	require.ErrorIs(t, err, commands.ErrPasswordTooShort)
}

func TestRegisterPartnerCommandHandler_Handle(t *testing.T) {
	for _, requireVerification := range []bool{false, true} {
		t.Run(map[bool]string{false: "open sign-up", true: "verification required"}[requireVerification], func(t *testing.T) {
			ctx := t.Context()
			accountID := kernel.NewUUID()
			cmd, err := commands.NewRegisterPartnerCommand(accountID, signUpProfile(), "secret-pass")
			require.NoError(t, err)

			// Given
			hasher := new(MockHasher)
			hasher.On("Hash", "secret-pass").Return("hashed", nil).Once()

			credentials := new(MockCredentialRepository)
			credentials.On("Add", ctx, mock.MatchedBy(func(c ports.Credential) bool {
				return c.AccountID.IsEqual(accountID) && c.Email == "arun@example.com" && c.PasswordHash == "hashed"
			})).Return(nil).Once()

			partners := new(MockPartnerRepository)
			var stored *partner.Partner
			partners.On("Add", ctx, mock.AnythingOfType("*partner.Partner")).
				Run(func(args mock.Arguments) { stored = args.Get(1).(*partner.Partner) }).
				Return(nil).Once()

			uow := new(MockUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("CredentialRepository").Return(credentials).Once()
			uow.On("PartnerRepository").Return(partners).Once()
			uow.On("Commit", ctx).Return(nil).Once()
			uow.On("Rollback", ctx).Return(nil)

			factory := new(MockRegistrationUoWFactory)
			factory.On("Create").Return(uow).Once()

			// When
			err = commands.NewRegisterPartnerCommandHandler(factory, hasher, requireVerification).Handle(ctx, cmd)

			// Then
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.True(t, stored.ID().IsEqual(accountID))
			assert.True(t, stored.WalletBalance().IsZero())
			if requireVerification {
				assert.Equal(t, partner.PendingVerification, stored.Status())
			} else {
				assert.Equal(t, partner.Active, stored.Status())
			}
			credentials.AssertExpectations(t)
		})
	}
}

func TestRegisterPartnerCommandHandler_Handle_EmailTaken(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRegisterPartnerCommand(kernel.NewUUID(), signUpProfile(), "secret-pass")

	hasher := new(MockHasher)
	hasher.On("Hash", "secret-pass").Return("hashed", nil).Once()

	credentials := new(MockCredentialRepository)
	credentials.On("Add", ctx, mock.Anything).Return(ports.ErrEmailTaken).Once()
	partners := new(MockPartnerRepository)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CredentialRepository").Return(credentials).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRegistrationUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewRegisterPartnerCommandHandler(factory, hasher, false).Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrEmailTaken)
	partners.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestRegisterPartnerCommandHandler_Handle_InvalidProfile(t *testing.T) {
	cmd, _ := commands.NewRegisterPartnerCommand(kernel.NewUUID(), partner.Profile{}, "secret-pass")
	factory := new(MockRegistrationUoWFactory)
	hasher := new(MockHasher)

	err := commands.NewRegisterPartnerCommandHandler(factory, hasher, false).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, partner.ErrNameIsRequired)
	factory.AssertNotCalled(t, "Create")
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}
