package queries

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetDashboardQueryHandler struct {
	db *gorm.DB
}

func NewGetDashboardQueryHandler(db *gorm.DB) GetDashboardQueryHandler {
	return GetDashboardQueryHandler{db: db}
}

func (h GetDashboardQueryHandler) Handle(ctx context.Context, query GetDashboardQuery) (GetDashboardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDashboardQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	partnerID := query.PartnerID().Bytes()

	var wallet struct {
		WalletMinor     int64
		TotalDeliveries int
	}
	result := db.Raw(`
		SELECT wallet_minor, total_deliveries
		FROM partners
		WHERE id = ?
	`, partnerID).Scan(&wallet)
	if result.Error != nil {
		return GetDashboardQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetDashboardQueryResponse{}, errs.NewObjectNotFoundError("partner", query.PartnerID().String())
	}

	var counts struct {
		Active         int
		Completed      int
		CompletedMinor int64
		Available      int
	}
	err := db.Raw(`
		SELECT
			count(*) FILTER (WHERE partner_id = @partner AND `+statusKey+` IN @active) AS active,
			count(*) FILTER (WHERE partner_id = @partner AND `+statusKey+` = @delivered) AS completed,
			coalesce(sum(price_minor) FILTER (WHERE partner_id = @partner AND `+statusKey+` = @delivered), 0) AS completed_minor,
			count(*) FILTER (WHERE partner_id IS NULL AND `+statusKey+` = @pending
				AND (is_available IS NULL OR is_available)) AS available
		FROM orders
	`, map[string]any{
		"partner":   partnerID,
		"active":    activeStatusKeys(),
		"delivered": order.Delivered.String(),
		"pending":   order.Pending.String(),
	}).Scan(&counts).Error
	if err != nil {
		return GetDashboardQueryResponse{}, err
	}

	earnings, err := kernel.MoneyFromMinor(counts.CompletedMinor)
	if err != nil {
		return GetDashboardQueryResponse{}, err
	}
	balance, err := kernel.MoneyFromMinor(wallet.WalletMinor)
	if err != nil {
		return GetDashboardQueryResponse{}, err
	}

	return GetDashboardQueryResponse{
		ActiveOrders:      counts.Active,
		AvailableOrders:   counts.Available,
		CompletedOrders:   counts.Completed,
		CompletedEarnings: earnings,
		WalletBalance:     balance,
		TotalDeliveries:   wallet.TotalDeliveries,
	}, nil
}
