package queries

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOverCapPartnersQueryHandler struct {
	db *gorm.DB
}

func NewGetOverCapPartnersQueryHandler(db *gorm.DB) GetOverCapPartnersQueryHandler {
	return GetOverCapPartnersQueryHandler{db: db}
}

func (h GetOverCapPartnersQueryHandler) Handle(
	ctx context.Context,
	query GetOverCapPartnersQuery,
) ([]GetOverCapPartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT partner_id, count(*) AS active
		FROM orders
		WHERE partner_id IS NOT NULL
		  AND `+statusKey+` IN ?
		GROUP BY partner_id
		HAVING count(*) > ?
		ORDER BY active DESC, partner_id
	`, activeStatusKeys(), order.MaxActiveOrdersPerPartner).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]GetOverCapPartnersQueryResponse, 0)
	for rows.Next() {
		var (
			id     uuid.UUID
			active int
		)
		if err = rows.Scan(&id, &active); err != nil {
			return nil, err
		}
		partnerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		result = append(result, GetOverCapPartnersQueryResponse{PartnerID: partnerID, ActiveOrders: active})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
