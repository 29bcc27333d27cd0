package commands

import (
	"errors"
	"strings"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/guard"
)

// Defaults applied to test orders created without the corresponding field.
const (
	DefaultOrderPrice       = 100.0
	DefaultOrderWeightKg    = 1.0
	DefaultOrderDistanceKm  = 5.0
	DefaultOrderPackageName = "Package"
	DefaultOrderCustomerID  = "manual_test_customer"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrPickupIsRequired = errors.New("pickup address is required")
	ErrDropIsRequired   = errors.New("drop address is required")
)

// OrderDraft is the caller's description of a new order. Zero numeric fields and empty
// strings take the package defaults.
type OrderDraft struct {
	PickupAddress string
	PickupPoint   *kernel.GeoPoint
	DropAddress   string
	DropPoint     *kernel.GeoPoint
	PackageName   string
	Price         float64
	WeightKg      float64
	DistanceKm    float64
	Commission    float64
	CustomerID    string
}

// CreateOrderCommand represents a request to publish a new pending order to the pool.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, OrderDraft{
//	    PickupAddress: "Anna Nagar, Chennai",
//	    DropAddress:   "T. Nagar, Chennai",
//	    Commission:    25,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	draft   OrderDraft
	price   kernel.Money
	fee     kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the draft and fills in defaults.
func NewCreateOrderCommand(orderID kernel.UUID, draft OrderDraft) (CreateOrderCommand, error) {
	draft.PickupAddress = strings.TrimSpace(draft.PickupAddress)
	draft.DropAddress = strings.TrimSpace(draft.DropAddress)
	if strings.TrimSpace(draft.PackageName) == "" {
		draft.PackageName = DefaultOrderPackageName
	}
	if strings.TrimSpace(draft.CustomerID) == "" {
		draft.CustomerID = DefaultOrderCustomerID
	}
	if draft.Price == 0 {
		draft.Price = DefaultOrderPrice
	}
	if draft.WeightKg == 0 {
		draft.WeightKg = DefaultOrderWeightKg
	}
	if draft.DistanceKm == 0 {
		draft.DistanceKm = DefaultOrderDistanceKm
	}

	var problems []error
	problems = append(problems, orderID.Validate())
	if draft.PickupAddress == "" {
		problems = append(problems, ErrPickupIsRequired)
	}
	if draft.DropAddress == "" {
		problems = append(problems, ErrDropIsRequired)
	}

	price, priceErr := kernel.NewMoney(draft.Price)
	fee, feeErr := kernel.NewMoney(draft.Commission)
	problems = append(problems, priceErr, feeErr)

	if err := errors.Join(problems...); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID: orderID,
		draft:   draft,
		price:   price,
		fee:     fee,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Draft returns the draft with defaults applied.
func (c CreateOrderCommand) Draft() OrderDraft {
	return c.draft
}

func (c CreateOrderCommand) Price() kernel.Money {
	return c.price
}

func (c CreateOrderCommand) Commission() kernel.Money {
	return c.fee
}
