// Package lifecycle exposes the order lifecycle operations partners invoke: checking the
// active-order cap, claiming an order and advancing its status.
//
// Every mutation runs as one locked read-modify-write transaction inside the command
// handlers. The engine adds the caller-facing contract on top: one Result shape for every
// outcome, precondition failures included, and structured logging of each attempt.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/domain/services"
	"partnerdelivery/internal/pkg/errs"
)

// ErrActiveOrderCapReached is returned when a partner already holds
// order.MaxActiveOrdersPerPartner active orders.
var ErrActiveOrderCapReached = errors.New("active order cap reached")

// Result is the outcome of a lifecycle mutation. Error is a human-readable reason and is
// empty on success.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	err error
}

// Err returns the underlying error for callers that need to branch on its kind.
func (r Result) Err() error {
	return r.err
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Success: false, Error: Describe(err), err: err}
}

// CapReached is the Result of a claim refused by the CanAcceptOrder pre-check.
func CapReached() Result {
	return failed(ErrActiveOrderCapReached)
}

type (
	canAcceptHandler interface {
		Handle(ctx context.Context, query queries.CanAcceptOrderQuery) (queries.CanAcceptOrderQueryResponse, error)
	}

	acceptHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptOrderCommand) error
	}

	statusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error
	}
)

type Engine struct {
	canAccept canAcceptHandler
	accept    acceptHandler
	status    statusHandler
	zones     services.ZoneMatcher
	logger    *slog.Logger
}

func NewEngine(canAccept canAcceptHandler, accept acceptHandler, status statusHandler, logger *slog.Logger) *Engine {
	return &Engine{
		canAccept: canAccept,
		accept:    accept,
		status:    status,
		zones:     services.NewZoneMatcher(),
		logger:    logger.With("component", "order_lifecycle"),
	}
}

// CanAcceptOrder reports whether the partner holds fewer than
// order.MaxActiveOrdersPerPartner active orders. It is advisory and not atomic with
// AcceptOrder. A failed lookup reports false.
func (e *Engine) CanAcceptOrder(ctx context.Context, partnerID kernel.UUID) bool {
	query, err := queries.NewCanAcceptOrderQuery(partnerID)
	if err != nil {
		e.logger.WarnContext(ctx, "cap check rejected", "partner_id", partnerID, "error", err)
		return false
	}

	res, err := e.canAccept.Handle(ctx, query)
	if err != nil {
		e.logger.ErrorContext(ctx, "cap check failed", "partner_id", partnerID, "error", err)
		return false
	}

	e.logger.DebugContext(ctx, "cap checked",
		"partner_id", partnerID, "active_orders", res.ActiveOrders, "can_accept", res.CanAccept)
	return res.CanAccept
}

// IsOrderMatching reports whether pickup lies inside one of the partner's zones. An empty
// zone set matches everything.
func (e *Engine) IsOrderMatching(pickup kernel.GeoPoint, zones []partner.SavedLocation) bool {
	return e.zones.IsOrderMatching(pickup, zones)
}

// AcceptOrder claims a pending order for the partner. Of concurrent claims on one order
// exactly one succeeds.
func (e *Engine) AcceptOrder(ctx context.Context, orderID, partnerID kernel.UUID) Result {
	log := e.logger.With("order_id", orderID, "partner_id", partnerID)
	log.InfoContext(ctx, "accepting order")

	cmd, err := commands.NewAcceptOrderCommand(orderID, partnerID)
	if err == nil {
		err = e.accept.Handle(ctx, cmd)
	}
	if err != nil {
		e.logFailure(ctx, log, "accept order failed", err)
		return failed(err)
	}

	log.InfoContext(ctx, "order accepted")
	return succeeded()
}

// UpdateStatus moves an order to status. When status is delivered and partnerID is set,
// the partner's wallet is credited with amount, or the order's commission when amount is
// nil, in the same transaction. The successor status is not validated.
func (e *Engine) UpdateStatus(
	ctx context.Context,
	orderID kernel.UUID,
	status order.Status,
	partnerID *kernel.UUID,
	amount *kernel.Money,
) Result {
	log := e.logger.With("order_id", orderID, "status", status.String())
	if partnerID != nil {
		log = log.With("partner_id", *partnerID)
	}
	log.InfoContext(ctx, "updating order status")

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, partnerID, amount)
	if err == nil {
		err = e.status.Handle(ctx, cmd)
	}
	if err != nil {
		e.logFailure(ctx, log, "update order status failed", err)
		return failed(err)
	}

	log.InfoContext(ctx, "order status updated")
	return succeeded()
}

// logFailure keeps precondition failures out of the error log; they are expected under
// contention.
func (e *Engine) logFailure(ctx context.Context, log *slog.Logger, msg string, err error) {
	if isPreconditionFailure(err) {
		log.WarnContext(ctx, msg, "error", err)
		return
	}
	log.ErrorContext(ctx, msg, "error", err)
}

func isPreconditionFailure(err error) bool {
	return errors.Is(err, order.ErrOrderUnavailable) ||
		errors.Is(err, order.ErrOrderAlreadyCompleted) ||
		errors.Is(err, order.ErrOrderIsTerminal) ||
		errors.Is(err, order.ErrOrderCannotBeReopened) ||
		errors.Is(err, order.ErrOrderNotClaimed) ||
		errors.Is(err, order.ErrOrderOwnedByAnotherPartner) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired)
}

// Describe turns an engine error into the message shown to partners.
func Describe(err error) string {
	var notFound *errs.ObjectNotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound) && notFound.ParamName == "order":
		return "Order does not exist"
	case errors.As(err, &notFound) && notFound.ParamName == "partner":
		return "Partner not found"
	case errors.Is(err, order.ErrOrderUnavailable):
		return "Order is no longer available"
	case errors.Is(err, order.ErrOrderAlreadyCompleted):
		return "Order is already completed"
	case errors.Is(err, ErrActiveOrderCapReached):
		return "You already have the maximum number of active orders"
	default:
		return err.Error()
	}
}
