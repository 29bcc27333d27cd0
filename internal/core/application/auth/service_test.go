package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRegister struct{ mock.Mock }

func (m *MockRegister) Handle(ctx context.Context, cmd commands.RegisterPartnerCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCredentials struct{ mock.Mock }

func (m *MockCredentials) Add(ctx context.Context, c ports.Credential) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCredentials) GetByEmail(ctx context.Context, email string) (ports.Credential, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(ports.Credential), args.Error(1)
}

type MockPartners struct{ mock.Mock }

func (m *MockPartners) Add(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartners) Update(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartners) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

func (m *MockPartners) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type MockTokens struct{ mock.Mock }

func (m *MockTokens) Issue(s ports.Session) (string, error) {
	args := m.Called(s)
	return args.String(0), args.Error(1)
}

func (m *MockTokens) Parse(token string) (ports.Session, error) {
	args := m.Called(token)
	return args.Get(0).(ports.Session), args.Error(1)
}

type authFixture struct {
	register    *MockRegister
	credentials *MockCredentials
	partners    *MockPartners
	hasher      *MockHasher
	tokens      *MockTokens
	service     *auth.Service
}

func newAuthFixture() authFixture {
	f := authFixture{
		register:    new(MockRegister),
		credentials: new(MockCredentials),
		partners:    new(MockPartners),
		hasher:      new(MockHasher),
		tokens:      new(MockTokens),
	}
	f.service = auth.NewService(f.register, f.credentials, f.partners, f.hasher, f.tokens, time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func newPartner(t *testing.T, status partner.AccountStatus) *partner.Partner {
	t.Helper()
	p, err := partner.RestorePartner(partner.State{
		ID:       kernel.NewUUID(),
		Profile:  partner.Profile{Name: "Priya", Email: "priya@example.com", VehicleType: "bike"},
		Status:   status,
		JoinedAt: time.Now(),
	})
	require.NoError(t, err)
	return p
}

func TestSignUp_RegistersAndIssuesToken(t *testing.T) {
	// Given
	f := newAuthFixture()
	f.register.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RegisterPartnerCommand) bool {
		return cmd.Profile().Name == "Priya" && cmd.Password() == "secret1"
	})).Return(nil).Once()
	f.tokens.On("Issue", mock.MatchedBy(func(s ports.Session) bool {
		return s.Email == "priya@example.com"
	})).Return("signed", nil).Once()

	// When
	out, err := f.service.SignUp(context.Background(), auth.SignUpInput{
		Name: "Priya", Email: " Priya@Example.com", Password: "secret1", VehicleType: "bike",
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "signed", out.Token)
	assert.True(t, out.Session.ExpiresAt.After(time.Now()))
	f.register.AssertExpectations(t)
}

func TestSignUp_ShortPassword_FailsBeforeRegistering(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.SignUp(context.Background(), auth.SignUpInput{
		Name: "Priya", Email: "priya@example.com", Password: "123", VehicleType: "bike",
	})

	require.ErrorIs(t, err, commands.ErrPasswordTooShort)
	f.register.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSignIn(t *testing.T) {
	accountID := kernel.NewUUID()
	credential := ports.Credential{AccountID: accountID, Email: "priya@example.com", PasswordHash: "hash"}

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.credentials.On("GetByEmail", mock.Anything, "x@example.com").
			Return(ports.Credential{}, errs.NewObjectNotFoundError("credential", "x@example.com"))

		_, err := f.service.SignIn(context.Background(), "x@example.com", "secret1")

		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.credentials.On("GetByEmail", mock.Anything, credential.Email).Return(credential, nil)
		f.hasher.On("Compare", "hash", "wrong").Return(errors.New("mismatch"))

		_, err := f.service.SignIn(context.Background(), credential.Email, "wrong")

		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("no partner profile", func(t *testing.T) {
		f := newAuthFixture()
		f.credentials.On("GetByEmail", mock.Anything, credential.Email).Return(credential, nil)
		f.hasher.On("Compare", "hash", "secret1").Return(nil)
		f.partners.On("Get", mock.Anything, accountID).Return(nil, errs.NewObjectNotFoundError("partner", accountID))

		_, err := f.service.SignIn(context.Background(), credential.Email, "secret1")

		require.ErrorIs(t, err, auth.ErrNotAPartner)
		assert.Equal(t, "This account is not registered as a partner", err.Error())
	})

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		f.credentials.On("GetByEmail", mock.Anything, credential.Email).Return(credential, nil)
		f.hasher.On("Compare", "hash", "secret1").Return(nil)
		f.partners.On("Get", mock.Anything, accountID).Return(newPartner(t, partner.Active), nil)
		f.tokens.On("Issue", mock.Anything).Return("signed", nil)

		out, err := f.service.SignIn(context.Background(), credential.Email, "secret1")

		require.NoError(t, err)
		assert.Equal(t, accountID, out.Session.PartnerID)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := newAuthFixture().service.Authenticate(context.Background(), "")
		require.ErrorIs(t, err, ports.ErrInvalidSession)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.On("Parse", "tok").Return(ports.Session{PartnerID: kernel.NewUUID(), ExpiresAt: time.Now().Add(-time.Minute)}, nil)

		_, err := f.service.Authenticate(context.Background(), "tok")

		require.ErrorIs(t, err, ports.ErrInvalidSession)
	})

	t.Run("valid", func(t *testing.T) {
		f := newAuthFixture()
		want := ports.Session{PartnerID: kernel.NewUUID(), Email: "a@b.c", ExpiresAt: time.Now().Add(time.Hour)}
		f.tokens.On("Parse", "tok").Return(want, nil)

		got, err := f.service.Authenticate(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestRequireOperational(t *testing.T) {
	cases := []struct {
		status  partner.AccountStatus
		allowed bool
	}{
		{partner.Active, true},
		{partner.Verified, true},
		{partner.PendingVerification, false},
		{partner.Rejected, false},
		{partner.Suspended, false},
	}

	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			// Given
			f := newAuthFixture()
			p := newPartner(t, tc.status)
			f.partners.On("Get", mock.Anything, p.ID()).Return(p, nil)

			// When
			_, err := f.service.RequireOperational(context.Background(), ports.Session{PartnerID: p.ID()})

			// Then
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, partner.ErrPartnerCannotOperate)
			}
		})
	}
}
