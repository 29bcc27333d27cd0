package partner

import (
	"fmt"
	"strings"

	"partnerdelivery/internal/pkg/errs"
)

// AccountStatus is the verification and account state of a partner.
type AccountStatus string

const (
	PendingVerification AccountStatus = "pending_verification"
	Verified            AccountStatus = "verified"
	Active              AccountStatus = "active"
	Rejected            AccountStatus = "rejected"
	Suspended           AccountStatus = "suspended"
)

// legacyPending is the spelling older sign-up flows stored before verification existed.
const legacyPending = "pending"

// ParseAccountStatus reads a stored account status. The legacy "pending" value maps to
// PendingVerification.
func ParseAccountStatus(raw string) (AccountStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == legacyPending {
		return PendingVerification, nil
	}

	status := AccountStatus(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s AccountStatus) Validate() error {
	switch s {
	case PendingVerification, Verified, Active, Rejected, Suspended:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a partner status", string(s)))
}

// CanOperate reports whether a partner in this state may browse, claim and deliver orders.
func (s AccountStatus) CanOperate() bool {
	return s == Active || s == Verified
}

func (s AccountStatus) String() string {
	return string(s)
}
