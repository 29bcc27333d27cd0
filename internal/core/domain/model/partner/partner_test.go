package partner_test

import (
	"testing"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func validProfile() partner.Profile {
	return partner.Profile{
		Name:        "Priya Raman",
		Email:       " Priya@Example.com ",
		Phone:       "+91 98400 00000",
		VehicleType: "bike",
	}
}

func newActivePartner(t *testing.T) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner(kernel.NewUUID(), validProfile(), false, testNow)
	require.NoError(t, err)
	return p
}

func newZone(t *testing.T, lat, lng, radius float64) partner.SavedLocation {
	t.Helper()
	center, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	zone, err := partner.NewSavedLocation(kernel.NewUUID(), "Home", "Chennai Central", center, radius)
	require.NoError(t, err)
	return zone
}

func TestNewPartner(t *testing.T) {
	t.Run("should create active partner with empty wallet", func(t *testing.T) {
		p, err := partner.NewPartner(kernel.NewUUID(), validProfile(), false, testNow)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, partner.Active, p.Status())
		assert.True(t, p.WalletBalance().IsZero())
		assert.Equal(t, 0, p.TotalDeliveries())
		assert.Empty(t, p.SavedLocations())
		assert.Equal(t, "priya@example.com", p.Profile().Email)
		assert.Equal(t, testNow, p.JoinedAt())
		require.NoError(t, p.EnsureCanOperate())
	})

	t.Run("should start pending verification when required", func(t *testing.T) {
		p, err := partner.NewPartner(kernel.NewUUID(), validProfile(), true, testNow)

		require.NoError(t, err)
		assert.Equal(t, partner.PendingVerification, p.Status())
		err = p.EnsureCanOperate()
		require.ErrorIs(t, err, partner.ErrPartnerCannotOperate)
		assert.Contains(t, err.Error(), "pending_verification")
	})

	t.Run("should join profile validation errors", func(t *testing.T) {
		p, err := partner.NewPartner(kernel.NewUUID(), partner.Profile{Email: "not-an-email"}, false, testNow)

		require.Error(t, err)
		assert.Nil(t, p)
		require.ErrorIs(t, err, partner.ErrNameIsRequired)
		require.ErrorIs(t, err, partner.ErrEmailIsInvalid)
		require.ErrorIs(t, err, partner.ErrVehicleTypeIsRequired)
	})
}

func TestRestorePartner(t *testing.T) {
	t.Run("should reject negative delivery count", func(t *testing.T) {
		_, err := partner.RestorePartner(partner.State{
			ID: kernel.NewUUID(), Profile: validProfile(), Status: partner.Active, TotalDeliveries: -1,
		})

		require.Error(t, err)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := partner.RestorePartner(partner.State{
			ID: kernel.NewUUID(), Profile: validProfile(), Status: "on_holiday",
		})

		require.Error(t, err)
	})
}

func TestPartner_Validate(t *testing.T) {
	var nilPartner *partner.Partner
	require.ErrorIs(t, nilPartner.Validate(), partner.ErrPartnerIsNotConstructed)
	require.ErrorIs(t, (&partner.Partner{}).Validate(), partner.ErrPartnerIsNotConstructed)
}

func TestPartner_Settle(t *testing.T) {
	p := newActivePartner(t)
	orderID := kernel.NewUUID()
	amount, err := kernel.NewMoney(42.5)
	require.NoError(t, err)

	entry, err := p.Settle(orderID, amount, testNow)

	require.NoError(t, err)
	assert.Equal(t, amount, p.WalletBalance())
	assert.Equal(t, 1, p.TotalDeliveries())
	require.NoError(t, entry.Validate())
	assert.Equal(t, partner.Credit, entry.Type())
	assert.Equal(t, amount, entry.Amount())
	assert.True(t, entry.OrderID().IsEqual(orderID))
	assert.True(t, entry.PartnerID().IsEqual(p.ID()))
	assert.Equal(t, partner.SettlementDescription, entry.Description())
	assert.Equal(t, testNow, entry.Date())

	_, err = p.Settle(kernel.NewUUID(), amount, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), p.WalletBalance().Minor())
	assert.Equal(t, 2, p.TotalDeliveries())
}

func TestPartner_SavedLocations(t *testing.T) {
	t.Run("should add and remove zones", func(t *testing.T) {
		p := newActivePartner(t)
		home := newZone(t, 13.0827, 80.2707, 3)
		office := newZone(t, 12.9716, 77.5946, 0)

		require.NoError(t, p.AddSavedLocation(home))
		require.NoError(t, p.AddSavedLocation(office))
		assert.Len(t, p.SavedLocations(), 2)

		require.NoError(t, p.RemoveSavedLocation(home.ID()))
		require.Len(t, p.SavedLocations(), 1)
		assert.True(t, p.SavedLocations()[0].ID().IsEqual(office.ID()))
	})

	t.Run("should reject duplicate zone", func(t *testing.T) {
		p := newActivePartner(t)
		home := newZone(t, 13.0827, 80.2707, 3)

		require.NoError(t, p.AddSavedLocation(home))
		require.ErrorIs(t, p.AddSavedLocation(home), partner.ErrSavedLocationExists)
	})

	t.Run("should fail removing unknown zone", func(t *testing.T) {
		p := newActivePartner(t)

		require.ErrorIs(t, p.RemoveSavedLocation(kernel.NewUUID()), partner.ErrSavedLocationNotFound)
	})

	t.Run("should not leak internal slice", func(t *testing.T) {
		p := newActivePartner(t)
		require.NoError(t, p.AddSavedLocation(newZone(t, 13.0827, 80.2707, 3)))

		zones := p.SavedLocations()
		zones[0] = partner.SavedLocation{}

		assert.Equal(t, "Home", p.SavedLocations()[0].Name())
	})
}

func TestNewSavedLocation(t *testing.T) {
	center, err := kernel.NewGeoPoint(13.0827, 80.2707)
	require.NoError(t, err)

	t.Run("should default radius", func(t *testing.T) {
		zone, err := partner.NewSavedLocation(kernel.NewUUID(), "Home", "", center, 0)

		require.NoError(t, err)
		assert.InDelta(t, partner.DefaultZoneRadiusKm, zone.RadiusKm(), 1e-9)
	})

	t.Run("should require name", func(t *testing.T) {
		_, err := partner.NewSavedLocation(kernel.NewUUID(), " ", "", center, 2)

		require.ErrorIs(t, err, partner.ErrZoneNameIsRequired)
	})

	t.Run("should require valid center", func(t *testing.T) {
		_, err := partner.NewSavedLocation(kernel.NewUUID(), "Home", "", kernel.GeoPoint{}, 2)

		require.Error(t, err)
	})

	t.Run("should contain points within radius", func(t *testing.T) {
		zone, err := partner.NewSavedLocation(kernel.NewUUID(), "Home", "", center, 5)
		require.NoError(t, err)
		near, _ := kernel.NewGeoPoint(13.1007, 80.2707) // ~2 km north
		far, _ := kernel.NewGeoPoint(13.5327, 80.2707)  // ~50 km north

		assert.True(t, zone.Contains(center))
		assert.True(t, zone.Contains(near))
		assert.False(t, zone.Contains(far))
	})
}

func TestParseAccountStatus(t *testing.T) {
	status, err := partner.ParseAccountStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, partner.PendingVerification, status)

	status, err = partner.ParseAccountStatus("Verified")
	require.NoError(t, err)
	assert.Equal(t, partner.Verified, status)
	assert.True(t, status.CanOperate())

	for _, blocked := range []partner.AccountStatus{partner.PendingVerification, partner.Rejected, partner.Suspended} {
		assert.False(t, blocked.CanOperate(), blocked.String())
	}

	_, err = partner.ParseAccountStatus("retired")
	require.Error(t, err)
}

func TestKYC_Masked(t *testing.T) {
	kyc := partner.KYC{
		Verified:     true,
		Method:       partner.KYCDigiLockerDemo,
		AadharNumber: "1234 5678 9012",
		Documents:    []partner.KYCDocument{{Type: "aadhaar", Status: "verified"}},
	}

	masked := kyc.Masked()

	assert.Equal(t, "XXXXXXXX9012", masked.AadharNumber)
	assert.Equal(t, "1234 5678 9012", kyc.AadharNumber)
	assert.Len(t, masked.Documents, 1)
	assert.Equal(t, "12", partner.MaskAadhar("12"))
}
