package queries

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetWalletTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletTransactionsQueryHandler(db *gorm.DB) GetWalletTransactionsQueryHandler {
	return GetWalletTransactionsQueryHandler{db: db}
}

func (h GetWalletTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetWalletTransactionsQuery,
) ([]WalletTransactionView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, type, amount_minor, order_id, description, date
		FROM wallet_transactions
		WHERE partner_id = ?
		ORDER BY date DESC, id
		LIMIT ?
	`, query.PartnerID().Bytes(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]WalletTransactionView, 0)
	for rows.Next() {
		var (
			entry       WalletTransactionView
			id, orderID uuid.UUID
			amountMinor int64
		)
		if err = rows.Scan(&id, &entry.Type, &amountMinor, &orderID, &entry.Description, &entry.Date); err != nil {
			return nil, err
		}

		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if entry.Amount, err = kernel.MoneyFromMinor(amountMinor); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
