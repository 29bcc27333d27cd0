package commands_test

import (
	"testing"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	pickup, err := order.NewPlace("Anna Nagar, Chennai", nil)
	require.NoError(t, err)
	drop, err := order.NewPlace("T. Nagar, Chennai", nil)
	require.NoError(t, err)
	price, _ := kernel.NewMoney(100)
	commission, _ := kernel.NewMoney(25)

	o, err := order.NewOrder(kernel.NewUUID(), pickup, drop, order.Details{
		PackageName: "Documents",
		DistanceKm:  5,
		WeightKg:    1,
		Price:       price,
		Commission:  commission,
		CustomerID:  "customer-1",
	}, time.Now())
	require.NoError(t, err)
	return o
}

func newAcceptedOrder(t *testing.T, partnerID kernel.UUID) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	require.NoError(t, o.Accept(partnerID, time.Now()))
	return o
}

func newPartner(t *testing.T) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner(kernel.NewUUID(), partner.Profile{
		Name:        "Priya",
		Email:       "priya@example.com",
		Phone:       "+91 98400 00000",
		VehicleType: "bike",
	}, false, time.Now())
	require.NoError(t, err)
	return p
}
