package partner

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/pkg/errs"
	"partnerdelivery/internal/pkg/guard"
)

// Domain errors for partner operations.
var (
	ErrNameIsRequired        = errs.NewValueIsRequiredError("name")
	ErrEmailIsInvalid        = errs.NewValueIsInvalidError("email")
	ErrVehicleTypeIsRequired = errs.NewValueIsRequiredError("vehicleType")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized Partner.
	ErrPartnerIsNotConstructed = errors.New("partner must be created via NewPartner constructor")
	// ErrPartnerCannotOperate is returned when a partner that is not active or verified tries to work orders.
	ErrPartnerCannotOperate = errors.New("partner account is not active")
	// ErrSavedLocationNotFound is returned when removing a zone the partner does not have.
	ErrSavedLocationNotFound = errors.New("saved location not found")
	// ErrSavedLocationExists is returned when adding a zone whose id is already present.
	ErrSavedLocationExists = errors.New("saved location already exists")
)

// Profile holds the contact details a partner signs up with.
type Profile struct {
	Name        string
	Email       string
	Phone       string
	VehicleType string
}

// State is the full persisted state of a partner, used by RestorePartner.
type State struct {
	ID              kernel.UUID
	Profile         Profile
	Status          AccountStatus
	WalletBalance   kernel.Money
	TotalDeliveries int
	SavedLocations  []SavedLocation
	KYC             KYC
	JoinedAt        time.Time
}

// Partner is the aggregate root for a delivery partner account.
//
// The partner owns its wallet, its delivery counter and its saved zones. The wallet only
// grows through Settle, one credit per delivered order; withdrawals are handled elsewhere.
//
// Example:
//
//	p, err := partner.NewPartner(kernel.NewUUID(), partner.Profile{
//	    Name:        "Priya",
//	    Email:       "priya@example.com",
//	    Phone:       "+91 98400 00000",
//	    VehicleType: "bike",
//	}, false, time.Now())
type Partner struct {
	id              kernel.UUID
	profile         Profile
	status          AccountStatus
	walletBalance   kernel.Money
	totalDeliveries int
	savedLocations  []SavedLocation
	kyc             KYC
	joinedAt        time.Time

	guard guard.ConstructorGuard
}

// NewPartner registers a partner with an empty wallet. With requireVerification the
// account starts in PendingVerification, otherwise it is Active straight away.
func NewPartner(id kernel.UUID, profile Profile, requireVerification bool, now time.Time) (*Partner, error) {
	status := Active
	if requireVerification {
		status = PendingVerification
	}

	return RestorePartner(State{
		ID:       id,
		Profile:  profile,
		Status:   status,
		JoinedAt: now.UTC(),
	})
}

// RestorePartner rebuilds a partner from persistence.
func RestorePartner(state State) (*Partner, error) {
	p := &Partner{
		status:          state.Status,
		walletBalance:   state.WalletBalance,
		totalDeliveries: state.TotalDeliveries,
		savedLocations:  append([]SavedLocation(nil), state.SavedLocations...),
		kyc:             state.KYC,
		joinedAt:        state.JoinedAt,
		guard:           guard.NewConstructorGuard(),
	}

	var deliveriesErr error
	if state.TotalDeliveries < 0 {
		deliveriesErr = errs.NewValueIsInvalidErrorWithCause(
			"totalDeliveries", fmt.Errorf("%d is negative", state.TotalDeliveries))
	}

	if err := errors.Join(
		p.setID(state.ID),
		p.setProfile(state.Profile),
		state.Status.Validate(),
		deliveriesErr,
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

func (p *Partner) ID() kernel.UUID             { return p.id }
func (p *Partner) Profile() Profile            { return p.profile }
func (p *Partner) Status() AccountStatus       { return p.status }
func (p *Partner) WalletBalance() kernel.Money { return p.walletBalance }
func (p *Partner) TotalDeliveries() int        { return p.totalDeliveries }
func (p *Partner) KYC() KYC                    { return p.kyc }
func (p *Partner) JoinedAt() time.Time         { return p.joinedAt }

// SavedLocations returns a copy of the partner's zones.
func (p *Partner) SavedLocations() []SavedLocation {
	return append([]SavedLocation(nil), p.savedLocations...)
}

// EnsureCanOperate fails with ErrPartnerCannotOperate, naming the current status, unless
// the account is active or verified.
func (p *Partner) EnsureCanOperate() error {
	if p.status.CanOperate() {
		return nil
	}
	return fmt.Errorf("%w: status is %s", ErrPartnerCannotOperate, p.status)
}

// AddSavedLocation appends a zone.
func (p *Partner) AddSavedLocation(location SavedLocation) error {
	if err := location.ID().Validate(); err != nil {
		return err
	}
	for _, existing := range p.savedLocations {
		if existing.ID().IsEqual(location.ID()) {
			return ErrSavedLocationExists
		}
	}
	p.savedLocations = append(p.savedLocations, location)
	return nil
}

// RemoveSavedLocation deletes the zone with the given id.
func (p *Partner) RemoveSavedLocation(id kernel.UUID) error {
	for i, existing := range p.savedLocations {
		if existing.ID().IsEqual(id) {
			p.savedLocations = append(p.savedLocations[:i], p.savedLocations[i+1:]...)
			return nil
		}
	}
	return ErrSavedLocationNotFound
}

// Settle credits the wallet for one delivered order and counts the delivery. It returns
// the ledger entry that must be persisted in the same transaction.
func (p *Partner) Settle(orderID kernel.UUID, amount kernel.Money, now time.Time) (Transaction, error) {
	entry, err := NewCreditTransaction(p.id, orderID, amount, now)
	if err != nil {
		return Transaction{}, err
	}

	p.walletBalance = p.walletBalance.Add(amount)
	p.totalDeliveries++
	return entry, nil
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setProfile(profile Profile) error {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.VehicleType = strings.TrimSpace(profile.VehicleType)

	var problems []error
	if profile.Name == "" {
		problems = append(problems, ErrNameIsRequired)
	}
	if _, err := mail.ParseAddress(profile.Email); err != nil || profile.Email == "" {
		problems = append(problems, ErrEmailIsInvalid)
	}
	if profile.VehicleType == "" {
		problems = append(problems, ErrVehicleTypeIsRequired)
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	p.profile = profile
	return nil
}
