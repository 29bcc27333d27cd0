package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_Defaults(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(id, commands.OrderDraft{
		PickupAddress: " Anna Nagar ",
		DropAddress:   "T. Nagar",
	})

	require.NoError(t, err)
	draft := cmd.Draft()
	assert.True(t, cmd.OrderID().IsEqual(id))
	assert.Equal(t, "Anna Nagar", draft.PickupAddress)
	assert.Equal(t, commands.DefaultOrderPackageName, draft.PackageName)
	assert.Equal(t, commands.DefaultOrderCustomerID, draft.CustomerID)
	assert.InDelta(t, commands.DefaultOrderWeightKg, draft.WeightKg, 1e-9)
	assert.InDelta(t, commands.DefaultOrderDistanceKm, draft.DistanceKm, 1e-9)
	assert.Equal(t, int64(10000), cmd.Price().Minor())
	assert.True(t, cmd.Commission().IsZero())
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, commands.OrderDraft{Commission: -1})

	require.Error(t, err)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, commands.ErrPickupIsRequired)
	require.ErrorIs(t, err, commands.ErrDropIsRequired)
	assert.Contains(t, err.Error(), "amount")
}

func TestCreateOrderCommandHandler_Handle_GeocodesMissingCoordinates(t *testing.T) {
	ctx := t.Context()
	known, _ := kernel.NewGeoPoint(13.0850, 80.2101)
	resolved, _ := kernel.NewGeoPoint(13.0418, 80.2341)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), commands.OrderDraft{
		PickupAddress: "Anna Nagar",
		PickupPoint:   &known,
		DropAddress:   "T. Nagar",
		Commission:    25,
	})
	require.NoError(t, err)

	// Given
	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "T. Nagar", 1).Return([]ports.GeoPlace{{Point: resolved, Name: "T. Nagar"}}, nil).Once()

	orderRepo := new(MockOrderRepository)
	var stored *order.Order
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	// When
	err = commands.NewCreateOrderCommandHandler(factory, geocoder, slog.Default()).Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, order.Pending, stored.Status())
	assert.True(t, stored.IsAvailable())
	assert.Equal(t, known, *stored.Pickup().Point())
	assert.Equal(t, resolved, *stored.Drop().Point())
	assert.Equal(t, int64(2500), stored.Details().Commission.Minor())
	geocoder.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GeocodingFailureKeepsAddress(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), commands.OrderDraft{
		PickupAddress: "Nowhere 1",
		DropAddress:   "Nowhere 2",
	})

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "Nowhere 1", 1).Return(nil, errors.New("provider down")).Once()
	geocoder.On("Geocode", ctx, "Nowhere 2", 1).Return([]ports.GeoPlace{}, nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return !o.Pickup().HasPoint() && !o.Drop().HasPoint()
	})).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewCreateOrderCommandHandler(factory, geocoder, slog.Default()).Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), commands.OrderDraft{
		PickupAddress: "A", DropAddress: "B",
	})

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Add", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewCreateOrderCommandHandler(factory, nil, slog.Default()).Handle(ctx, cmd)

	require.EqualError(t, err, "insert failed")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
