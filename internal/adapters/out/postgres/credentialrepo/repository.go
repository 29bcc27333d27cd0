// Package credentialrepo stores sign-in identities.
package credentialrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"partnerdelivery/internal/adapters/out/postgres/pgerr"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const emailConstraint = "idx_credentials_email"

type CredentialDTO struct {
	AccountID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_credentials_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
}

func (CredentialDTO) TableName() string {
	return "credentials"
}

type GormCredentialRepository struct {
	db *gorm.DB
}

func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

func (r *GormCredentialRepository) Add(ctx context.Context, credential ports.Credential) error {
	if err := credential.AccountID.Validate(); err != nil {
		return err
	}

	dto := CredentialDTO{
		AccountID:    credential.AccountID.Bytes(),
		Email:        normalizeEmail(credential.Email),
		PasswordHash: credential.PasswordHash,
		CreatedAt:    credential.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, emailConstraint) {
			return ports.ErrEmailTaken
		}
		return pgerr.Translate(err)
	}

	return nil
}

func (r *GormCredentialRepository) GetByEmail(ctx context.Context, email string) (ports.Credential, error) {
	email = normalizeEmail(email)

	var dto CredentialDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Credential{}, errs.NewObjectNotFoundError("credential", email)
		}
		return ports.Credential{}, pgerr.Translate(err)
	}

	id, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return ports.Credential{}, err
	}

	return ports.Credential{
		AccountID:    id,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		CreatedAt:    dto.CreatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
