package ports

import (
	"context"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
)

// Credential is a sign-in identity. Its AccountID is also the partner id when the account
// has a partner profile.
type Credential struct {
	AccountID    kernel.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CredentialRepository stores sign-in identities.
type CredentialRepository interface {
	// Add stores a credential. It returns ErrEmailTaken when the email is already registered.
	Add(ctx context.Context, credential Credential) error

	// GetByEmail returns errs.ErrObjectNotFound when no credential matches.
	GetByEmail(ctx context.Context, email string) (Credential, error)
}
