package ports

import (
	"errors"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
)

// ErrInvalidSession is returned for missing, malformed, expired or forged session tokens.
var ErrInvalidSession = errors.New("invalid session")

// Session identifies the signed-in partner. It is passed explicitly into every
// partner-scoped operation.
type Session struct {
	PartnerID kernel.UUID
	Email     string
	ExpiresAt time.Time
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(session Session) (string, error)
	Parse(token string) (Session, error)
}
