package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the partner's accepted, picked up and in-transit orders, most recently
// accepted first.
func (h GetActiveOrdersQueryHandler) Handle(ctx context.Context, query GetActiveOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderViewColumns+`
		FROM orders
		WHERE partner_id = ?
		  AND `+statusKey+` IN ?
		ORDER BY accepted_at DESC NULLS LAST, created_at DESC
	`, query.PartnerID().Bytes(), activeStatusKeys()).Rows()
	if err != nil {
		return nil, err
	}

	return scanOrderViews(rows)
}
