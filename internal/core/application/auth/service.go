// Package auth signs partners up and in and turns session tokens back into explicit
// sessions.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"
)

const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAPartner is returned when the credential has no partner profile.
	ErrNotAPartner = errors.New("This account is not registered as a partner") //nolint:staticcheck // shown verbatim to users
)

type registerHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterPartnerCommand) error
}

// SignUpInput carries the registration form.
type SignUpInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	VehicleType string
}

// SignedIn is a fresh session and its signed token.
type SignedIn struct {
	Token   string
	Session ports.Session
}

type Service struct {
	register    registerHandler
	credentials ports.CredentialRepository
	partners    ports.PartnerRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	ttl         time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(
	register registerHandler,
	credentials ports.CredentialRepository,
	partners ports.PartnerRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		register:    register,
		credentials: credentials,
		partners:    partners,
		hasher:      hasher,
		tokens:      tokens,
		ttl:         ttl,
		logger:      logger.With("component", "auth"),
		now:         time.Now,
	}
}

// SignUp registers the partner and signs them in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (SignedIn, error) {
	accountID := kernel.NewUUID()
	cmd, err := commands.NewRegisterPartnerCommand(accountID, partner.Profile{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		VehicleType: in.VehicleType,
	}, in.Password)
	if err != nil {
		return SignedIn{}, err
	}

	if err = s.register.Handle(ctx, cmd); err != nil {
		return SignedIn{}, err
	}
	s.logger.InfoContext(ctx, "partner registered", "partner_id", accountID)

	return s.issue(accountID, strings.ToLower(strings.TrimSpace(in.Email)))
}

// SignIn checks the password and that the account has a partner profile.
func (s *Service) SignIn(ctx context.Context, email, password string) (SignedIn, error) {
	credential, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return SignedIn{}, ErrInvalidCredentials
		}
		return SignedIn{}, err
	}

	if err = s.hasher.Compare(credential.PasswordHash, password); err != nil {
		s.logger.InfoContext(ctx, "sign-in rejected", "account_id", credential.AccountID)
		return SignedIn{}, ErrInvalidCredentials
	}

	if _, err = s.partners.Get(ctx, credential.AccountID); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return SignedIn{}, ErrNotAPartner
		}
		return SignedIn{}, err
	}

	return s.issue(credential.AccountID, credential.Email)
}

// Authenticate verifies a token and returns its session.
func (s *Service) Authenticate(_ context.Context, token string) (ports.Session, error) {
	if token == "" {
		return ports.Session{}, ports.ErrInvalidSession
	}
	session, err := s.tokens.Parse(token)
	if err != nil {
		return ports.Session{}, err
	}
	if !session.ExpiresAt.After(s.now()) {
		return ports.Session{}, ports.ErrInvalidSession
	}
	return session, nil
}

// RequireOperational loads the session's partner and fails with
// partner.ErrPartnerCannotOperate unless the account is active or verified.
func (s *Service) RequireOperational(ctx context.Context, session ports.Session) (*partner.Partner, error) {
	p, err := s.partners.Get(ctx, session.PartnerID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, ErrNotAPartner
		}
		return nil, err
	}
	if err = p.EnsureCanOperate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) issue(partnerID kernel.UUID, email string) (SignedIn, error) {
	session := ports.Session{
		PartnerID: partnerID,
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl).UTC().Truncate(time.Second),
	}
	token, err := s.tokens.Issue(session)
	if err != nil {
		return SignedIn{}, err
	}
	return SignedIn{Token: token, Session: session}, nil
}
