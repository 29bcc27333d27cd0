package queries

import (
	"errors"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/errs"
	"partnerdelivery/internal/pkg/guard"
)

const (
	DefaultWalletTransactionsLimit = 20
	MaxWalletTransactionsLimit     = 100
)

var ErrGetWalletTransactionsQueryIsNotConstructed = errors.New(
	"GetWalletTransactionsQuery must be created via NewGetWalletTransactionsQuery constructor",
)

// GetWalletTransactionsQuery pages through a partner's ledger, newest first. A limit of
// zero means DefaultWalletTransactionsLimit.
type GetWalletTransactionsQuery struct {
	partnerID kernel.UUID
	limit     int

	guard guard.ConstructorGuard
}

func NewGetWalletTransactionsQuery(partnerID kernel.UUID, limit int) (GetWalletTransactionsQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetWalletTransactionsQuery{}, err
	}
	if limit == 0 {
		limit = DefaultWalletTransactionsLimit
	}
	if limit < 1 || limit > MaxWalletTransactionsLimit {
		return GetWalletTransactionsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxWalletTransactionsLimit)
	}

	return GetWalletTransactionsQuery{
		partnerID: partnerID,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetWalletTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletTransactionsQueryIsNotConstructed)
}

func (q GetWalletTransactionsQuery) PartnerID() kernel.UUID { return q.partnerID }
func (q GetWalletTransactionsQuery) Limit() int             { return q.limit }

type WalletTransactionView struct {
	ID          kernel.UUID
	Type        string
	Amount      kernel.Money
	OrderID     kernel.UUID
	Description string
	Date        time.Time
}
