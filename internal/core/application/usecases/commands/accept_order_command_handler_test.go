package commands_test

import (
	"errors"
	"testing"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptOrderCommand(t *testing.T) {
	orderID, partnerID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewAcceptOrderCommand(orderID, partnerID)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.OrderID().IsEqual(orderID))
	assert.True(t, cmd.PartnerID().IsEqual(partnerID))

	_, err = commands.NewAcceptOrderCommand(kernel.UUID{}, partnerID)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestAcceptOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	pending := newPendingOrder(t)
	cmd, _ := commands.NewAcceptOrderCommand(pending.ID(), partnerID)

	// Given
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("GetForUpdate", ctx, pending.ID()).Return(pending, nil).Once()
	orderRepo.On("Update", ctx, pending).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	// When
	err := commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.Equal(t, order.Accepted, pending.Status())
	assert.True(t, pending.IsOwnedBy(partnerID))
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_AlreadyClaimed(t *testing.T) {
	ctx := t.Context()
	first := kernel.NewUUID()
	claimed := newAcceptedOrder(t, first)
	cmd, _ := commands.NewAcceptOrderCommand(claimed.ID(), kernel.NewUUID())

	// Given
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("GetForUpdate", ctx, claimed.ID()).Return(claimed, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	// When
	err := commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	// Then
	require.ErrorIs(t, err, order.ErrOrderUnavailable)
	assert.True(t, claimed.IsOwnedBy(first))
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewAcceptOrderCommand(orderID, kernel.NewUUID())

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("GetForUpdate", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	err := commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	factory.AssertNumberOfCalls(t, "Create", 1)
}

func TestAcceptOrderCommandHandler_Handle_RetriesConflict(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	firstRead := newPendingOrder(t)
	cmd, _ := commands.NewAcceptOrderCommand(firstRead.ID(), partnerID)

	// Given the first commit is aborted by the store
	conflicted := new(MockUoW)
	conflictedRepo := new(MockOrderRepository)
	conflicted.On("Begin", ctx).Return(nil).Once()
	conflicted.On("OrderRepository").Return(conflictedRepo).Once()
	conflictedRepo.On("GetForUpdate", ctx, firstRead.ID()).Return(firstRead, nil).Once()
	conflictedRepo.On("Update", ctx, firstRead).Return(nil).Once()
	conflicted.On("Commit", ctx).Return(ports.ErrTransactionConflict).Once()
	conflicted.On("Rollback", ctx).Return(nil)

	secondRead, err := order.RestoreOrder(order.State{
		ID:      firstRead.ID(),
		Pickup:  firstRead.Pickup(),
		Drop:    firstRead.Drop(),
		Details: firstRead.Details(),
		Status:  order.Pending,
	})
	require.NoError(t, err)

	retried := new(MockUoW)
	retriedRepo := new(MockOrderRepository)
	retried.On("Begin", ctx).Return(nil).Once()
	retried.On("OrderRepository").Return(retriedRepo).Once()
	retriedRepo.On("GetForUpdate", ctx, firstRead.ID()).Return(secondRead, nil).Once()
	retriedRepo.On("Update", ctx, secondRead).Return(nil).Once()
	retried.On("Commit", ctx).Return(nil).Once()
	retried.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(conflicted).Once()
	factory.On("Create").Return(retried).Once()

	// When
	err = commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	// Then the whole unit ran again on a fresh read
	require.NoError(t, err)
	assert.True(t, secondRead.IsOwnedBy(partnerID))
	conflicted.AssertExpectations(t)
	retried.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)
	cmd, _ := commands.NewAcceptOrderCommand(o.ID(), kernel.NewUUID())

	repo := new(MockOrderRepository)
	repo.On("GetForUpdate", ctx, o.ID()).Return(nil, ports.ErrTransactionConflict)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	err := commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrTransactionConflict)
	factory.AssertNumberOfCalls(t, "Create", 3)
}

func TestAcceptOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewAcceptOrderCommand(kernel.NewUUID(), kernel.NewUUID())

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	err := commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	uow.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestAcceptOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)

	err := commands.NewAcceptOrderCommandHandler(factory).Handle(t.Context(), commands.AcceptOrderCommand{})

	require.ErrorIs(t, err, commands.ErrAcceptOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
