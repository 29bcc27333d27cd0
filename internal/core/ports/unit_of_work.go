package ports

import (
	"context"
	"errors"
)

var (
	// ErrTransactionConflict is returned when the store aborted a transaction because of a
	// concurrent writer (serialization failure or deadlock). The whole unit of work may be
	// retried.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrEmailTaken is returned when registering an email that already has a credential.
	ErrEmailTaken = errors.New("email is already registered")
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then notifies commit observers.
	// Returns ErrTransactionConflict when the store aborted the transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PartnerRepository() PartnerRepository
	TransactionRepository() TransactionRepository
	CredentialRepository() CredentialRepository
}

// CommitObserver is told about the aggregates written by a unit of work once its
// transaction has committed. Observers must not fail the caller; they log instead.
type CommitObserver interface {
	AfterCommit(ctx context.Context, aggregates []any)
}
