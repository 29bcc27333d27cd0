package http

import (
	"time"

	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/feed"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"
)

type signUpRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	VehicleType string `json:"vehicle_type" validate:"required,oneof=bike scooter car truck"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type addZoneRequest struct {
	Name     string   `json:"name" validate:"required,max=120"`
	Address  string   `json:"address" validate:"max=500"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lng      *float64 `json:"lng" validate:"required,longitude"`
	RadiusKm float64  `json:"radius_km" validate:"gte=0,lte=100"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	// Amount overrides the settlement amount on delivery. The order's commission is used
	// when it is omitted.
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

type createOrderRequest struct {
	PickupAddress string   `json:"pickup_address" validate:"required,max=500"`
	PickupLat     *float64 `json:"pickup_lat,omitempty" validate:"omitempty,latitude"`
	PickupLng     *float64 `json:"pickup_lng,omitempty" validate:"omitempty,longitude"`
	DropAddress   string   `json:"drop_address" validate:"required,max=500"`
	DropLat       *float64 `json:"drop_lat,omitempty" validate:"omitempty,latitude"`
	DropLng       *float64 `json:"drop_lng,omitempty" validate:"omitempty,longitude"`
	PackageName   string   `json:"package_name" validate:"max=120"`
	Price         float64  `json:"price" validate:"gte=0"`
	WeightKg      float64  `json:"weight_kg" validate:"gte=0"`
	DistanceKm    float64  `json:"distance_km" validate:"gte=0"`
	Commission    float64  `json:"commission" validate:"gte=0"`
	CustomerID    string   `json:"customer_id" validate:"max=120"`
}

// SessionResponse is returned by sign-up and sign-in.
type SessionResponse struct {
	Token     string    `json:"token"`
	PartnerID string    `json:"partner_id" format:"uuid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toSessionResponse(in auth.SignedIn) SessionResponse {
	return SessionResponse{
		Token:     in.Token,
		PartnerID: in.Session.PartnerID.String(),
		Email:     in.Session.Email,
		ExpiresAt: in.Session.ExpiresAt,
	}
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toPoint(p kernel.GeoPoint) Point {
	return Point{Lat: p.Lat(), Lng: p.Lng()}
}

func toOptionalPoint(p *kernel.GeoPoint) *Point {
	if p == nil {
		return nil
	}
	point := toPoint(*p)
	return &point
}

type Order struct {
	ID            string     `json:"id" format:"uuid"`
	PickupAddress string     `json:"pickup_address"`
	Pickup        *Point     `json:"pickup,omitempty"`
	DropAddress   string     `json:"drop_address"`
	Drop          *Point     `json:"drop,omitempty"`
	PackageName   string     `json:"package_name"`
	DistanceKm    float64    `json:"distance_km"`
	WeightKg      float64    `json:"weight_kg"`
	Price         float64    `json:"price"`
	Commission    float64    `json:"commission"`
	Status        string     `json:"status"`
	CustomerID    string     `json:"customer_id"`
	PartnerID     *string    `json:"partner_id,omitempty" format:"uuid"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`
}

func toOrders(views []queries.OrderView) []Order {
	out := make([]Order, len(views))
	for i, v := range views {
		var partnerID *string
		if v.PartnerID != nil {
			id := v.PartnerID.String()
			partnerID = &id
		}
		out[i] = Order{
			ID:            v.ID.String(),
			PickupAddress: v.PickupAddress,
			Pickup:        toOptionalPoint(v.Pickup),
			DropAddress:   v.DropAddress,
			Drop:          toOptionalPoint(v.Drop),
			PackageName:   v.PackageName,
			DistanceKm:    v.DistanceKm,
			WeightKg:      v.WeightKg,
			Price:         v.Price.Float64(),
			Commission:    v.Commission.Float64(),
			Status:        v.Status.String(),
			CustomerID:    v.CustomerID,
			PartnerID:     partnerID,
			CreatedAt:     v.CreatedAt,
			UpdatedAt:     v.UpdatedAt,
			AcceptedAt:    v.AcceptedAt,
		}
	}
	return out
}

type Zone struct {
	ID       string  `json:"id" format:"uuid"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Center   Point   `json:"center"`
	RadiusKm float64 `json:"radius_km"`
}

type KYCDocument struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
}

type KYC struct {
	Verified     bool          `json:"verified"`
	VerifiedAt   *time.Time    `json:"verified_at,omitempty"`
	Method       string        `json:"method,omitempty"`
	AadharNumber string        `json:"aadhar_number,omitempty"`
	Documents    []KYCDocument `json:"documents"`
}

type Profile struct {
	ID              string    `json:"id" format:"uuid"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	VehicleType     string    `json:"vehicle_type"`
	Status          string    `json:"status"`
	WalletBalance   float64   `json:"wallet_balance"`
	TotalDeliveries int       `json:"total_deliveries"`
	JoinedAt        time.Time `json:"joined_at"`
	KYC             KYC       `json:"kyc"`
	SavedLocations  []Zone    `json:"saved_locations"`
}

func toProfile(v queries.PartnerProfileView) Profile {
	zones := make([]Zone, len(v.SavedLocations))
	for i, z := range v.SavedLocations {
		zones[i] = Zone{
			ID:       z.ID.String(),
			Name:     z.Name,
			Address:  z.Address,
			Center:   toPoint(z.Center),
			RadiusKm: z.RadiusKm,
		}
	}
	docs := make([]KYCDocument, len(v.KYC.Documents))
	for i, d := range v.KYC.Documents {
		docs[i] = KYCDocument{Type: d.Type, Status: d.Status, ID: d.ID, URL: d.URL}
	}
	return Profile{
		ID:              v.ID.String(),
		Name:            v.Profile.Name,
		Email:           v.Profile.Email,
		Phone:           v.Profile.Phone,
		VehicleType:     v.Profile.VehicleType,
		Status:          v.Status.String(),
		WalletBalance:   v.WalletBalance.Float64(),
		TotalDeliveries: v.TotalDeliveries,
		JoinedAt:        v.JoinedAt,
		KYC: KYC{
			Verified:     v.KYC.Verified,
			VerifiedAt:   v.KYC.VerifiedAt,
			Method:       string(v.KYC.Method),
			AadharNumber: v.KYC.AadharNumber,
			Documents:    docs,
		},
		SavedLocations: zones,
	}
}

type Dashboard struct {
	ActiveOrders      int     `json:"active_orders"`
	AvailableOrders   int     `json:"available_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CompletedEarnings float64 `json:"completed_earnings"`
	WalletBalance     float64 `json:"wallet_balance"`
	TotalDeliveries   int     `json:"total_deliveries"`
	CanAcceptMore     bool    `json:"can_accept_more"`
}

type WalletTransaction struct {
	ID          string    `json:"id" format:"uuid"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	OrderID     string    `json:"order_id" format:"uuid"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func toWalletTransactions(views []queries.WalletTransactionView) []WalletTransaction {
	out := make([]WalletTransaction, len(views))
	for i, v := range views {
		out[i] = WalletTransaction{
			ID:          v.ID.String(),
			Type:        v.Type,
			Amount:      v.Amount.Float64(),
			OrderID:     v.OrderID.String(),
			Description: v.Description,
			Date:        v.Date,
		}
	}
	return out
}

type Route struct {
	Pickup         Point   `json:"pickup"`
	Drop           Point   `json:"drop"`
	DistanceMeters float64 `json:"distance_meters"`
	DurationMillis int64   `json:"duration_millis"`
	Points         []Point `json:"points"`
}

func toRoute(r queries.GetOrderRouteQueryResponse) Route {
	points := make([]Point, len(r.Points))
	for i, p := range r.Points {
		points[i] = toPoint(p)
	}
	return Route{
		Pickup:         toPoint(r.Pickup),
		Drop:           toPoint(r.Drop),
		DistanceMeters: r.DistanceMeters,
		DurationMillis: r.DurationMillis,
		Points:         points,
	}
}

type Place struct {
	Point    Point  `json:"point"`
	Name     string `json:"name"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

func toPlaces(places []ports.GeoPlace) []Place {
	out := make([]Place, len(places))
	for i, p := range places {
		out[i] = Place{
			Point:    toPoint(p.Point),
			Name:     p.Name,
			Street:   p.Street,
			City:     p.City,
			State:    p.State,
			Country:  p.Country,
			Postcode: p.Postcode,
		}
	}
	return out
}

type CanAccept struct {
	CanAccept bool `json:"can_accept"`
}

type Created struct {
	ID string `json:"id" format:"uuid"`
}

// FeedEvent is one server-sent snapshot. Orders is null for the profile view.
type FeedEvent struct {
	View    string    `json:"view"`
	Orders  []Order   `json:"orders"`
	Profile *Profile  `json:"profile,omitempty"`
	At      time.Time `json:"at"`
}

func toFeedEvent(snap feed.Snapshot) FeedEvent {
	event := FeedEvent{View: string(snap.View), At: snap.At}
	if snap.Profile != nil {
		profile := toProfile(*snap.Profile)
		event.Profile = &profile
	} else {
		event.Orders = toOrders(snap.Orders)
	}
	return event
}
