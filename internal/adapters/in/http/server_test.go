package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "partnerdelivery/internal/adapters/in/http"
	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/feed"
	"partnerdelivery/internal/core/application/lifecycle"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const token = "valid-token"

type MockAuth struct{ mock.Mock }

func (m *MockAuth) SignUp(ctx context.Context, in auth.SignUpInput) (auth.SignedIn, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(auth.SignedIn), args.Error(1)
}

func (m *MockAuth) SignIn(ctx context.Context, email, password string) (auth.SignedIn, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.SignedIn), args.Error(1)
}

func (m *MockAuth) Authenticate(ctx context.Context, tok string) (ports.Session, error) {
	args := m.Called(ctx, tok)
	return args.Get(0).(ports.Session), args.Error(1)
}

func (m *MockAuth) RequireOperational(ctx context.Context, session ports.Session) (*partner.Partner, error) {
	args := m.Called(ctx, session)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

type MockCanAccept struct{ mock.Mock }

func (m *MockCanAccept) Handle(ctx context.Context, q queries.CanAcceptOrderQuery) (queries.CanAcceptOrderQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.CanAcceptOrderQueryResponse), args.Error(1)
}

type MockAccept struct{ mock.Mock }

func (m *MockAccept) Handle(ctx context.Context, cmd commands.AcceptOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockStatus struct{ mock.Mock }

func (m *MockStatus) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockAvailable struct{ mock.Mock }

func (m *MockAvailable) Handle(ctx context.Context, q queries.GetAvailableOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.OrderView), args.Error(1)
}

type MockProfile struct{ mock.Mock }

func (m *MockProfile) Handle(ctx context.Context, q queries.GetPartnerProfileQuery) (queries.PartnerProfileView, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.PartnerProfileView), args.Error(1)
}

type MockAddZone struct{ mock.Mock }

func (m *MockAddZone) Handle(ctx context.Context, cmd commands.AddSavedLocationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, q string, limit int) ([]ports.GeoPlace, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]ports.GeoPlace), args.Error(1)
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, at kernel.GeoPoint) (ports.GeoPlace, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(ports.GeoPlace), args.Error(1)
}

type fakeStream struct {
	changes chan ports.Change
	closed  chan struct{}
}

func (s *fakeStream) Changes() <-chan ports.Change { return s.changes }

func (s *fakeStream) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}

type fakeSubscriber struct {
	stream *fakeStream
}

func (f *fakeSubscriber) Subscribe(context.Context, ...ports.Collection) (ports.ChangeStream, error) {
	return f.stream, nil
}

type fixture struct {
	auth      *MockAuth
	canAccept *MockCanAccept
	accept    *MockAccept
	status    *MockStatus
	available *MockAvailable
	profile   *MockProfile
	addZone   *MockAddZone
	geocoder  *MockGeocoder
	stream    *fakeStream
	session   ports.Session
	echo      *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		auth:      new(MockAuth),
		canAccept: new(MockCanAccept),
		accept:    new(MockAccept),
		status:    new(MockStatus),
		available: new(MockAvailable),
		profile:   new(MockProfile),
		addZone:   new(MockAddZone),
		geocoder:  new(MockGeocoder),
		stream:    &fakeStream{changes: make(chan ports.Change, 4), closed: make(chan struct{})},
		session: ports.Session{
			PartnerID: kernel.NewUUID(),
			Email:     "priya@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	f.auth.On("Authenticate", mock.Anything, token).Return(f.session, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything, mock.Anything).Return(ports.Session{}, ports.ErrInvalidSession).Maybe()

	engine := lifecycle.NewEngine(f.canAccept, f.accept, f.status, logger)
	liveFeed := feed.NewService(&fakeSubscriber{stream: f.stream}, f.available, nil, f.profile, logger)

	server := httpadapter.NewServer(httpadapter.Dependencies{
		Auth:            f.auth,
		Lifecycle:       engine,
		Feed:            liveFeed,
		Geocoder:        f.geocoder,
		AddZone:         f.addZone,
		AvailableOrders: f.available,
		Profile:         f.profile,
	}, logger)
	f.echo = server.NewEcho()
	return f
}

func (f *fixture) operational() {
	f.auth.On("RequireOperational", mock.Anything, f.session).Return(nil, nil)
}

func (f *fixture) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorized {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignUp_InvalidBody_IsBadRequest(t *testing.T) {
	// Given
	f := newFixture(t)

	// When
	rec := f.do(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Priya","email":"not-an-email","phone":"9876543210","password":"secret1","vehicle_type":"bike"}`, false)

	// Then
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[httpadapter.Error](t, rec).Message, "email")
	f.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_Succeeds(t *testing.T) {
	// Given
	f := newFixture(t)
	f.auth.On("SignUp", mock.Anything, auth.SignUpInput{
		Name: "Priya", Email: "priya@example.com", Phone: "9876543210", Password: "secret1", VehicleType: "bike",
	}).Return(auth.SignedIn{Token: "t", Session: f.session}, nil)

	// When
	rec := f.do(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Priya","email":"priya@example.com","phone":"9876543210","password":"secret1","vehicle_type":"bike"}`, false)

	// Then
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decode[httpadapter.SessionResponse](t, rec)
	assert.Equal(t, "t", res.Token)
	assert.Equal(t, f.session.PartnerID.String(), res.PartnerID)
}

func TestSignUp_EmailTaken_IsConflict(t *testing.T) {
	f := newFixture(t)
	f.auth.On("SignUp", mock.Anything, mock.Anything).Return(auth.SignedIn{}, ports.ErrEmailTaken)

	rec := f.do(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Priya","email":"priya@example.com","phone":"9876543210","password":"secret1","vehicle_type":"car"}`, false)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignIn_WrongPassword_IsUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.auth.On("SignIn", mock.Anything, "priya@example.com", "nope").Return(auth.SignedIn{}, auth.ErrInvalidCredentials)

	rec := f.do(http.MethodPost, "/api/v1/auth/signin", `{"email":"priya@example.com","password":"nope"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), decode[httpadapter.Error](t, rec).Message)
}

func TestProtectedRoute_WithoutToken_IsUnauthorized(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/orders/available", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderRoutes_PendingPartner_IsForbidden(t *testing.T) {
	// Given
	f := newFixture(t)
	f.auth.On("RequireOperational", mock.Anything, f.session).
		Return(nil, partner.ErrPartnerCannotOperate)

	// When
	rec := f.do(http.MethodGet, "/api/v1/orders/available", "", true)

	// Then
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.available.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetAvailableOrders_PassesMatchingFlag(t *testing.T) {
	// Given
	f := newFixture(t)
	f.operational()
	orderID := kernel.NewUUID()
	f.available.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetAvailableOrdersQuery) bool {
		return q.MatchingOnly() && q.PartnerID().IsEqual(f.session.PartnerID)
	})).Return([]queries.OrderView{{
		ID:            orderID,
		PickupAddress: "Anna Nagar",
		DropAddress:   "T. Nagar",
		Status:        order.Pending,
	}}, nil)

	// When
	rec := f.do(http.MethodGet, "/api/v1/orders/available?matching=true", "", true)

	// Then
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]httpadapter.Order](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID.String(), orders[0].ID)
	assert.Equal(t, "pending", orders[0].Status)
	assert.Nil(t, orders[0].PartnerID)
}

func TestAcceptOrder(t *testing.T) {
	orderID := kernel.NewUUID()
	cases := []struct {
		name       string
		activeNow  int
		acceptErr  error
		wantStatus int
		wantResult lifecycle.Result
	}{
		{"claimed", 0, nil, http.StatusOK, lifecycle.Result{Success: true}},
		{"taken by someone else", 1, order.ErrOrderUnavailable, http.StatusConflict,
			lifecycle.Result{Error: "Order is no longer available"}},
		{"missing", 0, errs.NewObjectNotFoundError("order", orderID), http.StatusNotFound,
			lifecycle.Result{Error: "Order does not exist"}},
		{"at the cap", order.MaxActiveOrdersPerPartner, nil, http.StatusConflict,
			lifecycle.Result{Error: "You already have the maximum number of active orders"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			f := newFixture(t)
			f.operational()
			f.canAccept.On("Handle", mock.Anything, mock.Anything).Return(queries.CanAcceptOrderQueryResponse{
				ActiveOrders: tc.activeNow,
				Cap:          order.MaxActiveOrdersPerPartner,
				CanAccept:    tc.activeNow < order.MaxActiveOrdersPerPartner,
			}, nil)
			f.accept.On("Handle", mock.Anything, mock.Anything).Return(tc.acceptErr).Maybe()

			// When
			rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/accept", "", true)

			// Then
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantResult, decode[lifecycle.Result](t, rec))
		})
	}
}

func TestAcceptOrder_InvalidID_IsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.operational()
	rec := f.do(http.MethodPost, "/api/v1/orders/not-a-uuid/accept", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_DeliveredSettlesSignedInPartner(t *testing.T) {
	// Given
	f := newFixture(t)
	f.operational()
	orderID := kernel.NewUUID()
	f.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
		return cmd.OrderID().IsEqual(orderID) &&
			cmd.Status() == order.Delivered &&
			cmd.PartnerID() != nil && cmd.PartnerID().IsEqual(f.session.PartnerID) &&
			cmd.Amount() == nil
	})).Return(nil)

	// When
	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", `{"status":"Delivered"}`, true)

	// Then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[lifecycle.Result](t, rec).Success)
	f.status.AssertExpectations(t)
}

func TestUpdateOrderStatus_PickedUpCarriesSignedInPartner(t *testing.T) {
	f := newFixture(t)
	f.operational()
	orderID := kernel.NewUUID()
	f.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
		return cmd.Status() == order.PickedUp &&
			cmd.PartnerID() != nil && cmd.PartnerID().IsEqual(f.session.PartnerID)
	})).Return(nil)

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", `{"status":"picked_up"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.status.AssertExpectations(t)
}

func TestUpdateOrderStatus_NonOwner_IsForbidden(t *testing.T) {
	for _, status := range []string{"picked_up", "in_transit", "cancelled"} {
		t.Run(status, func(t *testing.T) {
			// Given
			f := newFixture(t)
			f.operational()
			f.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
				return cmd.PartnerID() != nil && cmd.PartnerID().IsEqual(f.session.PartnerID)
			})).Return(order.ErrOrderOwnedByAnotherPartner)

			// When
			rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"`+status+`"}`, true)

			// Then
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.False(t, decode[lifecycle.Result](t, rec).Success)
			f.status.AssertExpectations(t)
		})
	}
}

func TestUpdateOrderStatus_CancelAfterPickup_IsConflict(t *testing.T) {
	f := newFixture(t)
	f.operational()
	f.status.On("Handle", mock.Anything, mock.Anything).Return(order.ErrOrderCannotBeCancelled)

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"cancelled"}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOrderStatus_AlreadyDelivered_IsConflict(t *testing.T) {
	f := newFixture(t)
	f.operational()
	f.status.On("Handle", mock.Anything, mock.Anything).Return(order.ErrOrderAlreadyCompleted)

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"delivered"}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, lifecycle.Result{Error: "Order is already completed"}, decode[lifecycle.Result](t, rec))
}

func TestUpdateOrderStatus_UnknownStatus_IsUnprocessable(t *testing.T) {
	f := newFixture(t)
	f.operational()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"teleported"}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	f.status.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAddZone(t *testing.T) {
	// Given
	f := newFixture(t)
	f.addZone.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AddSavedLocationCommand) bool {
		return cmd.PartnerID().IsEqual(f.session.PartnerID) && cmd.Name() == "Home" && cmd.RadiusKm() == 0
	})).Return(nil)

	// When
	rec := f.do(http.MethodPost, "/api/v1/me/zones", `{"name":"Home","address":"Anna Nagar","lat":13.085,"lng":80.2101}`, true)

	// Then
	require.Equal(t, http.StatusCreated, rec.Code)
	_, err := kernel.UUIDFromString(decode[httpadapter.Created](t, rec).ID)
	require.NoError(t, err)
}

func TestAddZone_LatitudeWithoutLongitude_IsBadRequest(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/me/zones", `{"name":"Home","lat":13.085}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.addZone.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestFeed_StreamsProfileSnapshots(t *testing.T) {
	// Given
	f := newFixture(t)
	first := queries.PartnerProfileView{ID: f.session.PartnerID, Status: partner.PendingVerification}
	second := first
	second.TotalDeliveries = 1
	f.profile.On("Handle", mock.Anything, mock.Anything).Return(first, nil).Once()
	f.profile.On("Handle", mock.Anything, mock.Anything).Return(second, nil)

	server := httptest.NewServer(f.echo)
	defer server.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/feed?view=profile&access_token="+token, nil)
	require.NoError(t, err)

	// When
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	events := make(chan httpadapter.FeedEvent, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var event httpadapter.FeedEvent
				if json.Unmarshal([]byte(data), &event) == nil {
					events <- event
				}
			}
		}
		close(events)
	}()

	got := <-events
	require.NotNil(t, got.Profile)
	assert.Equal(t, 0, got.Profile.TotalDeliveries)

	f.stream.changes <- ports.Change{
		Collection: ports.PartnersCollection,
		ID:         f.session.PartnerID.String(),
		PartnerID:  f.session.PartnerID.String(),
	}
	got = <-events
	require.NotNil(t, got.Profile)
	assert.Equal(t, 1, got.Profile.TotalDeliveries)
	f.auth.AssertNotCalled(t, "RequireOperational", mock.Anything, mock.Anything)
}

func TestReversePlace(t *testing.T) {
	t.Run("names_the_point", func(t *testing.T) {
		// Given
		f := newFixture(t)
		at, err := kernel.NewGeoPoint(13.0827, 80.2707)
		require.NoError(t, err)
		f.geocoder.On("ReverseGeocode", mock.Anything, at).
			Return(ports.GeoPlace{Point: at, Name: "Chennai Central", City: "Chennai"}, nil)

		// When
		rec := f.do(http.MethodGet, "/api/v1/places/reverse?lat=13.0827&lng=80.2707", "", true)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		place := decode[httpadapter.Place](t, rec)
		assert.Equal(t, "Chennai Central", place.Name)
		assert.InDelta(t, 80.2707, place.Point.Lng, 1e-9)
	})

	t.Run("rejects_out_of_range_point", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/api/v1/places/reverse?lat=95&lng=80.2707", "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})

	t.Run("provider_miss_is_not_found", func(t *testing.T) {
		f := newFixture(t)
		f.geocoder.On("ReverseGeocode", mock.Anything, mock.Anything).Return(ports.GeoPlace{}, errors.New("no hit"))
		rec := f.do(http.MethodGet, "/api/v1/places/reverse?lat=13&lng=80", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
