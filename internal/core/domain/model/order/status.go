package order

import (
	"fmt"
	"strings"

	"partnerdelivery/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Accepted ──> PickedUp ──> InTransit ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Successor order between the active states
// is not enforced here; the engine only guards terminal states and claim consistency.
type Status int

const (
	// Unknown catches uninitialized or unparseable values.
	Unknown Status = iota
	Pending
	Accepted
	PickedUp
	InTransit
	Delivered
	Cancelled
)

// MaxActiveOrdersPerPartner is the advisory cap on orders a partner holds in an active status.
const MaxActiveOrdersPerPartner = 3

var statusNames = map[Status]string{
	Pending:   "pending",
	Accepted:  "accepted",
	PickedUp:  "picked_up",
	InTransit: "in_transit",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

// ActiveStatuses lists the statuses in which an order counts against the partner cap.
func ActiveStatuses() []Status {
	return []Status{Accepted, PickedUp, InTransit}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Accepted, PickedUp, InTransit, Delivered, Cancelled}
}

// ParseStatus maps a stored or submitted status string to the enumeration.
// Legacy spellings such as "Pending", "Picked Up" or "IN_TRANSIT" are accepted and
// normalized; anything else yields Unknown and an error.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	if normalized == "canceled" {
		normalized = "cancelled"
	}

	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a known order status", raw),
	)
}

// IsCanonical reports whether raw is already stored in the canonical spelling.
func IsCanonical(raw string) bool {
	status, err := ParseStatus(raw)
	return err == nil && status.String() == raw
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical snake_case name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsActive reports whether the order counts against the partner's active-order cap.
func (s Status) IsActive() bool {
	return s == Accepted || s == PickedUp || s == InTransit
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHavePartner checks the claim invariant: a pending order has no partner,
// accepted, picked up, in transit and delivered orders have one. A cancelled order may
// have been cancelled before or after it was claimed.
func (s Status) ValidateCanHavePartner(hasPartner bool) error {
	switch {
	case s == Pending && hasPartner:
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a partner", s),
		)
	case (s.IsActive() || s == Delivered) && !hasPartner:
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no partner", s),
		)
	}
	return nil
}

// MarshalText renders the canonical name.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts any spelling ParseStatus accepts.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
