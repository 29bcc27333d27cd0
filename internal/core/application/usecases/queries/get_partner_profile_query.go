package queries

import (
	"errors"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/pkg/guard"
)

var ErrGetPartnerProfileQueryIsNotConstructed = errors.New(
	"GetPartnerProfileQuery must be created via NewGetPartnerProfileQuery constructor",
)

type GetPartnerProfileQuery struct {
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPartnerProfileQuery(partnerID kernel.UUID) (GetPartnerProfileQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetPartnerProfileQuery{}, err
	}
	return GetPartnerProfileQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPartnerProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerProfileQueryIsNotConstructed)
}

func (q GetPartnerProfileQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

// PartnerProfileView is the signed-in partner's own profile. The identity number in KYC
// is masked.
type PartnerProfileView struct {
	ID              kernel.UUID
	Profile         partner.Profile
	Status          partner.AccountStatus
	WalletBalance   kernel.Money
	TotalDeliveries int
	JoinedAt        time.Time
	KYC             partner.KYC
	SavedLocations  []SavedLocationView
}

type SavedLocationView struct {
	ID       kernel.UUID
	Name     string
	Address  string
	Center   kernel.GeoPoint
	RadiusKm float64
}
