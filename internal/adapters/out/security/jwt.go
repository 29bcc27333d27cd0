package security

import (
	"errors"
	"fmt"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "partnerdelivery"

// MinSecretLength is the shortest HS256 secret NewJWTIssuer accepts.
const MinSecretLength = 32

var ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer implements ports.TokenIssuer with HS256 tokens. The partner id is the subject.
type JWTIssuer struct {
	secret []byte
	leeway time.Duration
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &JWTIssuer{secret: []byte(secret), leeway: 30 * time.Second}, nil
}

func (i *JWTIssuer) Issue(session ports.Session) (string, error) {
	if err := session.PartnerID.Validate(); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   session.PartnerID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	return token.SignedString(i.secret)
}

// Parse returns ports.ErrInvalidSession, wrapping the cause, for any token that does not
// verify.
func (i *JWTIssuer) Parse(raw string) (ports.Session, error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(i.leeway),
	)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: %w", ports.ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return ports.Session{}, fmt.Errorf("%w: %w", ports.ErrInvalidSession, errors.New("unexpected claims"))
	}

	partnerID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Session{}, fmt.Errorf("%w: subject: %w", ports.ErrInvalidSession, err)
	}

	return ports.Session{
		PartnerID: partnerID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
