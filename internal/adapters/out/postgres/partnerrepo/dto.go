// Package partnerrepo persists partner aggregates and their saved zones with GORM.
package partnerrepo

import (
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

type PartnerDTO struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Name            string             `gorm:"type:varchar(255);not null"`
	Email           string             `gorm:"type:varchar(255);not null;index"`
	Phone           string             `gorm:"type:varchar(64)"`
	VehicleType     string             `gorm:"type:varchar(64);not null"`
	Status          string             `gorm:"type:varchar(32);not null;index"`
	WalletMinor     int64              `gorm:"not null;default:0"`
	TotalDeliveries int                `gorm:"not null;default:0"`
	KYC             KYCDTO             `gorm:"type:jsonb;serializer:json"`
	JoinedAt        time.Time          `gorm:"not null;autoCreateTime:false"`
	SavedLocations  []SavedLocationDTO `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE"`
}

func (PartnerDTO) TableName() string {
	return "partners"
}

type SavedLocationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   string    `gorm:"type:text"`
	Lat       float64   `gorm:"not null"`
	Lng       float64   `gorm:"not null"`
	RadiusKm  float64   `gorm:"not null"`
}

func (SavedLocationDTO) TableName() string {
	return "saved_locations"
}

// KYCDTO is stored as a single jsonb document.
type KYCDTO struct {
	Verified     bool             `json:"verified"`
	VerifiedAt   *time.Time       `json:"verified_at,omitempty"`
	Method       string           `json:"method,omitempty"`
	AadharNumber string           `json:"aadhar_number,omitempty"`
	Documents    []KYCDocumentDTO `json:"documents,omitempty"`
}

type KYCDocumentDTO struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	URL    string `json:"url,omitempty"`
}

func fromDomain(p *partner.Partner) PartnerDTO {
	profile := p.Profile()
	id := p.ID().Bytes()

	locations := make([]SavedLocationDTO, 0, len(p.SavedLocations()))
	for _, l := range p.SavedLocations() {
		locations = append(locations, SavedLocationDTO{
			ID:        l.ID().Bytes(),
			PartnerID: id,
			Name:      l.Name(),
			Address:   l.Address(),
			Lat:       l.Center().Lat(),
			Lng:       l.Center().Lng(),
			RadiusKm:  l.RadiusKm(),
		})
	}

	return PartnerDTO{
		ID:              id,
		Name:            profile.Name,
		Email:           profile.Email,
		Phone:           profile.Phone,
		VehicleType:     profile.VehicleType,
		Status:          p.Status().String(),
		WalletMinor:     p.WalletBalance().Minor(),
		TotalDeliveries: p.TotalDeliveries(),
		KYC:             kycFromDomain(p.KYC()),
		JoinedAt:        p.JoinedAt(),
		SavedLocations:  locations,
	}
}

func kycFromDomain(k partner.KYC) KYCDTO {
	dto := KYCDTO{
		Verified:     k.Verified,
		VerifiedAt:   k.VerifiedAt,
		Method:       string(k.Method),
		AadharNumber: k.AadharNumber,
	}
	for _, d := range k.Documents {
		dto.Documents = append(dto.Documents, KYCDocumentDTO(d))
	}
	return dto
}

func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := partner.ParseAccountStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	wallet, err := kernel.MoneyFromMinor(dto.WalletMinor)
	if err != nil {
		return nil, err
	}

	locations := make([]partner.SavedLocation, 0, len(dto.SavedLocations))
	for _, l := range dto.SavedLocations {
		location, err := savedLocationToDomain(l)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return partner.RestorePartner(partner.State{
		ID: id,
		Profile: partner.Profile{
			Name:        dto.Name,
			Email:       dto.Email,
			Phone:       dto.Phone,
			VehicleType: dto.VehicleType,
		},
		Status:          status,
		WalletBalance:   wallet,
		TotalDeliveries: dto.TotalDeliveries,
		SavedLocations:  locations,
		KYC:             kycToDomain(dto.KYC),
		JoinedAt:        dto.JoinedAt,
	})
}

func savedLocationToDomain(dto SavedLocationDTO) (partner.SavedLocation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return partner.SavedLocation{}, err
	}

	center, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return partner.SavedLocation{}, err
	}

	return partner.NewSavedLocation(id, dto.Name, dto.Address, center, dto.RadiusKm)
}

func kycToDomain(dto KYCDTO) partner.KYC {
	k := partner.KYC{
		Verified:     dto.Verified,
		VerifiedAt:   dto.VerifiedAt,
		Method:       partner.KYCMethod(dto.Method),
		AadharNumber: dto.AadharNumber,
	}
	for _, d := range dto.Documents {
		k.Documents = append(k.Documents, partner.KYCDocument(d))
	}
	return k
}
