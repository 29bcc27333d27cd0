// Package ledgerrepo appends wallet ledger entries.
package ledgerrepo

import (
	"context"
	"time"

	"partnerdelivery/internal/adapters/out/postgres/pgerr"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionDTO is one wallet ledger row. order_id is unique, which backs the
// one-credit-per-order rule at the storage level.
type TransactionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_wallet_transactions_partner_date,priority:1"`
	Type        string    `gorm:"type:varchar(16);not null"`
	AmountMinor int64     `gorm:"not null"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Description string    `gorm:"type:varchar(255);not null"`
	Date        time.Time `gorm:"not null;index:idx_wallet_transactions_partner_date,priority:2,sort:desc"`
}

func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{db: db, tracker: tracker}
}

func (r *GormTransactionRepository) Add(ctx context.Context, entry partner.Transaction) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := TransactionDTO{
		ID:          entry.ID().Bytes(),
		PartnerID:   entry.PartnerID().Bytes(),
		Type:        string(entry.Type()),
		AmountMinor: entry.Amount().Minor(),
		OrderID:     entry.OrderID().Bytes(),
		Description: entry.Description(),
		Date:        entry.Date(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err)
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}
