package queries

import (
	"context"
	"encoding/json"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPartnerProfileQueryHandler struct {
	db *gorm.DB
}

func NewGetPartnerProfileQueryHandler(db *gorm.DB) GetPartnerProfileQueryHandler {
	return GetPartnerProfileQueryHandler{db: db}
}

// kycDocument mirrors the jsonb layout of partners.kyc.
type kycDocument struct {
	Verified     bool       `json:"verified"`
	VerifiedAt   *time.Time `json:"verified_at"`
	Method       string     `json:"method"`
	AadharNumber string     `json:"aadhar_number"`
	Documents    []struct {
		Type   string `json:"type"`
		Status string `json:"status"`
		ID     string `json:"id"`
		URL    string `json:"url"`
	} `json:"documents"`
}

func (h GetPartnerProfileQueryHandler) Handle(ctx context.Context, query GetPartnerProfileQuery) (PartnerProfileView, error) {
	if err := query.Validate(); err != nil {
		return PartnerProfileView{}, err
	}

	db := h.db.WithContext(ctx)
	partnerID := query.PartnerID().Bytes()

	var row struct {
		Name            string
		Email           string
		Phone           string
		VehicleType     string
		Status          string
		WalletMinor     int64
		TotalDeliveries int
		JoinedAt        time.Time
		KYC             []byte `gorm:"column:kyc"`
	}
	result := db.Raw(`
		SELECT name, email, phone, vehicle_type, status, wallet_minor, total_deliveries, joined_at, kyc
		FROM partners
		WHERE id = ?
	`, partnerID).Scan(&row)
	if result.Error != nil {
		return PartnerProfileView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return PartnerProfileView{}, errs.NewObjectNotFoundError("partner", query.PartnerID().String())
	}

	status, err := partner.ParseAccountStatus(row.Status)
	if err != nil {
		return PartnerProfileView{}, err
	}
	wallet, err := kernel.MoneyFromMinor(row.WalletMinor)
	if err != nil {
		return PartnerProfileView{}, err
	}
	kyc, err := decodeKYC(row.KYC)
	if err != nil {
		return PartnerProfileView{}, err
	}
	zones, err := h.savedLocations(ctx, partnerID)
	if err != nil {
		return PartnerProfileView{}, err
	}

	return PartnerProfileView{
		ID: query.PartnerID(),
		Profile: partner.Profile{
			Name:        row.Name,
			Email:       row.Email,
			Phone:       row.Phone,
			VehicleType: row.VehicleType,
		},
		Status:          status,
		WalletBalance:   wallet,
		TotalDeliveries: row.TotalDeliveries,
		JoinedAt:        row.JoinedAt,
		KYC:             kyc.Masked(),
		SavedLocations:  zones,
	}, nil
}

func (h GetPartnerProfileQueryHandler) savedLocations(ctx context.Context, partnerID uuid.UUID) ([]SavedLocationView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, address, lat, lng, radius_km
		FROM saved_locations
		WHERE partner_id = ?
		ORDER BY name
	`, partnerID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]SavedLocationView, 0)
	for rows.Next() {
		var (
			zone     SavedLocationView
			id       uuid.UUID
			lat, lng float64
		)
		if err = rows.Scan(&id, &zone.Name, &zone.Address, &lat, &lng, &zone.RadiusKm); err != nil {
			return nil, err
		}
		if zone.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if zone.Center, err = kernel.NewGeoPoint(lat, lng); err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}

	return zones, rows.Err()
}

func decodeKYC(raw []byte) (partner.KYC, error) {
	if len(raw) == 0 {
		return partner.KYC{}, nil
	}

	var doc kycDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return partner.KYC{}, err
	}

	kyc := partner.KYC{
		Verified:     doc.Verified,
		VerifiedAt:   doc.VerifiedAt,
		Method:       partner.KYCMethod(doc.Method),
		AadharNumber: doc.AadharNumber,
	}
	for _, d := range doc.Documents {
		kyc.Documents = append(kyc.Documents, partner.KYCDocument{
			Type:   d.Type,
			Status: d.Status,
			ID:     d.ID,
			URL:    d.URL,
		})
	}
	return kyc, nil
}
