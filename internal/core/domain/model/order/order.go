package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/errs"
)

// Domain errors for order lifecycle operations. Their messages are shown to partners
// verbatim, so they stay short and human-readable.
var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder constructor")
	// ErrOrderUnavailable is returned when an order is no longer open for claiming.
	ErrOrderUnavailable = errors.New("order is no longer available")
	// ErrOrderAlreadyCompleted is returned when a delivered order receives another status update.
	ErrOrderAlreadyCompleted = errors.New("order is already completed")
	// ErrOrderIsTerminal is returned when a cancelled order receives another status update.
	ErrOrderIsTerminal = errors.New("order is cancelled and cannot change status")
	// ErrOrderCannotBeReopened is returned when a claimed order is moved back to pending.
	ErrOrderCannotBeReopened = errors.New("order cannot be returned to pending")
	// ErrOrderCannotBeCancelled is returned when an order is cancelled after pickup.
	ErrOrderCannotBeCancelled = errors.New("order can only be cancelled before pickup")
	// ErrOrderNotClaimed is returned when an unclaimed order is moved into a partner-held status.
	ErrOrderNotClaimed = errors.New("order has not been accepted by a partner")
	// ErrOrderOwnedByAnotherPartner is returned when a partner updates an order claimed by someone else.
	ErrOrderOwnedByAnotherPartner = errors.New("order is assigned to another partner")

	ErrCustomerIsRequired    = errs.NewValueIsRequiredError("customerID")
	ErrPackageNameIsRequired = errs.NewValueIsRequiredError("packageName")
)

// Details carries the descriptive, immutable attributes of an order.
type Details struct {
	PackageName string
	DistanceKm  float64
	WeightKg    float64
	Price       kernel.Money
	Commission  kernel.Money
	CustomerID  string
}

// State is the full persisted state of an order, used by RestoreOrder.
type State struct {
	ID          kernel.UUID
	Pickup      Place
	Drop        Place
	Details     Details
	Status      Status
	PartnerID   *kernel.UUID
	IsAvailable *bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AcceptedAt  *time.Time
}

// Order is the aggregate root for a delivery job. It moves from pending, through the
// partner-held statuses, to delivered or cancelled.
//
// Invariants:
//   - A pending order has no partner; accepted, picked up, in transit and delivered orders have one
//   - Once claimed the order is no longer available, and the claim is never transferred
//   - Delivered and cancelled are terminal
//
// The availability flag is nullable for legacy rows. A nil flag counts as available.
type Order struct {
	id          kernel.UUID
	pickup      Place
	drop        Place
	details     Details
	status      Status
	partnerID   *kernel.UUID
	isAvailable *bool
	createdAt   time.Time
	updatedAt   time.Time
	acceptedAt  *time.Time

	isConstructed bool
}

// NewOrder creates a pending, available, unclaimed order.
//
// Example:
//
//	pickup, _ := order.NewPlace("Anna Nagar, Chennai", &point)
//	drop, _ := order.NewPlace("T. Nagar, Chennai", nil)
//	o, err := order.NewOrder(kernel.NewUUID(), pickup, drop, order.Details{
//	    PackageName: "Documents",
//	    DistanceKm:  5,
//	    WeightKg:    1,
//	    Price:       price,
//	    CustomerID:  "customer-42",
//	}, time.Now())
func NewOrder(id kernel.UUID, pickup, drop Place, details Details, now time.Time) (*Order, error) {
	available := true
	o := &Order{
		status:        Pending,
		isAvailable:   &available,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPlaces(pickup, drop),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. It validates structure but tolerates
// legacy shapes such as a missing availability flag.
func RestoreOrder(state State) (*Order, error) {
	o := &Order{
		isAvailable:   state.IsAvailable,
		createdAt:     state.CreatedAt,
		updatedAt:     state.UpdatedAt,
		acceptedAt:    state.AcceptedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(state.ID),
		o.setPlaces(state.Pickup, state.Drop),
		o.setDetails(state.Details),
		o.setStatus(state.Status, state.PartnerID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID      { return o.id }
func (o *Order) Pickup() Place        { return o.pickup }
func (o *Order) Drop() Place          { return o.drop }
func (o *Order) Details() Details     { return o.details }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Partner returns the claiming partner's ID, or nil while unclaimed.
func (o *Order) Partner() *kernel.UUID {
	if o.partnerID == nil {
		return nil
	}
	id := *o.partnerID
	return &id
}

// AvailabilityFlag returns the stored availability flag, nil for legacy rows.
func (o *Order) AvailabilityFlag() *bool {
	if o.isAvailable == nil {
		return nil
	}
	v := *o.isAvailable
	return &v
}

func (o *Order) AcceptedAt() *time.Time {
	if o.acceptedAt == nil {
		return nil
	}
	t := *o.acceptedAt
	return &t
}

// IsAvailable reports whether the order can still be claimed: pending, not flagged
// unavailable and without a partner.
func (o *Order) IsAvailable() bool {
	return o.status == Pending &&
		(o.isAvailable == nil || *o.isAvailable) &&
		o.partnerID == nil
}

// IsOwnedBy reports whether partnerID holds the claim on this order.
func (o *Order) IsOwnedBy(partnerID kernel.UUID) bool {
	return o.partnerID != nil && o.partnerID.IsEqual(partnerID)
}

// Accept claims the order for partnerID.
//
// The order must still be available, otherwise ErrOrderUnavailable is returned and
// nothing changes. On success the status becomes Accepted, the partner is recorded,
// the availability flag is cleared and the acceptance time is stamped.
//
// Accept is not a concurrency guard on its own: callers must hold a row lock on the
// order for the duration of the check and the write.
func (o *Order) Accept(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if !o.IsAvailable() {
		return ErrOrderUnavailable
	}

	unavailable := false
	acceptedAt := now.UTC()
	o.status = Accepted
	o.partnerID = &partnerID
	o.isAvailable = &unavailable
	o.acceptedAt = &acceptedAt
	o.updatedAt = acceptedAt
	return nil
}

// ChangeStatus moves the order to next.
//
// Rules, checked in order:
//   - a delivered order rejects every update with ErrOrderAlreadyCompleted
//   - a cancelled order rejects every update with ErrOrderIsTerminal
//   - next may not be pending once the order left pending
//   - cancelled is reachable only from pending or accepted
//   - next must be consistent with whether the order is claimed
//
// Forward ordering between picked up and in transit is not enforced;
// partners report these out of order in the field.
func (o *Order) ChangeStatus(next Status, now time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	switch o.status {
	case Delivered:
		return ErrOrderAlreadyCompleted
	case Cancelled:
		return ErrOrderIsTerminal
	}

	if next == Pending {
		return ErrOrderCannotBeReopened
	}
	if next == Cancelled && o.status != Pending && o.status != Accepted {
		return ErrOrderCannotBeCancelled
	}
	if next != Cancelled && o.partnerID == nil {
		return ErrOrderNotClaimed
	}

	o.status = next
	o.updatedAt = now.UTC()
	if next == Cancelled {
		unavailable := false
		o.isAvailable = &unavailable
	}
	return nil
}

// SettlementAmount is what a partner earns when this order is delivered: the explicit
// amount if given, else the commission, else the full price.
func (o *Order) SettlementAmount(explicit *kernel.Money) kernel.Money {
	switch {
	case explicit != nil:
		return *explicit
	case !o.details.Commission.IsZero():
		return o.details.Commission
	default:
		return o.details.Price
	}
}

// NormalizeLegacy fills the availability flag on legacy rows. It reports whether anything changed.
func (o *Order) NormalizeLegacy(now time.Time) bool {
	if o.isAvailable != nil {
		return false
	}
	available := o.status == Pending && o.partnerID == nil
	o.isAvailable = &available
	o.updatedAt = now.UTC()
	return true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPlaces(pickup, drop Place) error {
	if pickup.address == "" || drop.address == "" {
		return ErrAddressIsRequired
	}
	o.pickup = pickup
	o.drop = drop
	return nil
}

func (o *Order) setDetails(details Details) error {
	details.PackageName = strings.TrimSpace(details.PackageName)
	details.CustomerID = strings.TrimSpace(details.CustomerID)

	var problems []error
	if details.PackageName == "" {
		problems = append(problems, ErrPackageNameIsRequired)
	}
	if details.CustomerID == "" {
		problems = append(problems, ErrCustomerIsRequired)
	}
	if details.DistanceKm < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"distanceKm", fmt.Errorf("%v is negative", details.DistanceKm)))
	}
	if details.WeightKg <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weightKg", fmt.Errorf("%v is not greater than 0", details.WeightKg)))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	o.details = details
	return nil
}

func (o *Order) setStatus(status Status, partnerID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			return err
		}
		id := *partnerID
		partnerID = &id
	}
	if err := status.ValidateCanHavePartner(partnerID != nil); err != nil {
		return err
	}
	o.status = status
	o.partnerID = partnerID
	return nil
}
