package ports

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for partner aggregates together
// with their saved zones.
type PartnerRepository interface {
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists profile, wallet, counters and the full zone set. Zones missing
	// from the aggregate are deleted.
	Update(ctx context.Context, aggregate *partner.Partner) error

	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetForUpdate retrieves a partner and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Partner, error)
}

// TransactionRepository appends wallet ledger entries. Entries are never updated.
type TransactionRepository interface {
	Add(ctx context.Context, entry partner.Transaction) error
}
