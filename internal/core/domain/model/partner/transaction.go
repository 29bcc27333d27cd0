package partner

import (
	"errors"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
)

// SettlementDescription labels every ledger entry created by a delivery.
const SettlementDescription = "Delivery Commission"

// TransactionType classifies a ledger entry. Only credits exist today; withdrawals
// are handled outside this service.
type TransactionType string

const Credit TransactionType = "credit"

var ErrTransactionIsNotConstructed = errors.New("transaction must be created via NewCreditTransaction")

// Transaction is an immutable wallet ledger entry belonging to one partner.
type Transaction struct {
	id          kernel.UUID
	partnerID   kernel.UUID
	kind        TransactionType
	amount      kernel.Money
	orderID     kernel.UUID
	description string
	date        time.Time

	isConstructed bool
}

// NewCreditTransaction records a delivery settlement.
func NewCreditTransaction(partnerID, orderID kernel.UUID, amount kernel.Money, date time.Time) (Transaction, error) {
	return RestoreTransaction(kernel.NewUUID(), partnerID, Credit, amount, orderID, SettlementDescription, date.UTC())
}

// RestoreTransaction rebuilds a ledger entry read from storage.
func RestoreTransaction(
	id, partnerID kernel.UUID,
	kind TransactionType,
	amount kernel.Money,
	orderID kernel.UUID,
	description string,
	date time.Time,
) (Transaction, error) {
	if err := errors.Join(id.Validate(), partnerID.Validate(), orderID.Validate()); err != nil {
		return Transaction{}, err
	}

	return Transaction{
		id:            id,
		partnerID:     partnerID,
		kind:          kind,
		amount:        amount,
		orderID:       orderID,
		description:   description,
		date:          date,
		isConstructed: true,
	}, nil
}

func (t Transaction) Validate() error {
	if !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

func (t Transaction) ID() kernel.UUID        { return t.id }
func (t Transaction) PartnerID() kernel.UUID { return t.partnerID }
func (t Transaction) Type() TransactionType  { return t.kind }
func (t Transaction) Amount() kernel.Money   { return t.amount }
func (t Transaction) OrderID() kernel.UUID   { return t.orderID }
func (t Transaction) Description() string    { return t.description }
func (t Transaction) Date() time.Time        { return t.date }
