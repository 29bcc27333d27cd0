// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"errors"
	"time"

	"partnerdelivery/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination of repositories it writes to.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	CredentialRepoFactory interface {
		CredentialRepository() ports.CredentialRepository
	}

	// OrderUoW manages transactions for order-only operations such as claiming.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PartnerUoW manages transactions for partner-only operations such as zone edits.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	PartnerUoWFactory interface {
		Create() PartnerUoW
	}

	// RegistrationUoW writes a partner and its credential together.
	RegistrationUoW interface {
		TxManager
		PartnerRepoFactory
		CredentialRepoFactory
	}

	RegistrationUoWFactory interface {
		Create() RegistrationUoW
	}

	// UoW spans orders, partners and the wallet ledger. Status updates use it because
	// delivery settles the partner's wallet in the same transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   p, err := uow.PartnerRepository().GetForUpdate(ctx, partnerID)
	//   // ... mutate, Update both, append the ledger entry
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		TransactionRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

const (
	conflictRetries         = 2
	conflictInitialInterval = 25 * time.Millisecond
	conflictMaxElapsedTime  = 2 * time.Second
)

// runInTransaction runs fn inside a fresh unit of work and commits it. When the store
// aborts the transaction with ports.ErrTransactionConflict the whole unit, reads
// included, is replayed with exponential backoff. Any other error ends it at once.
func runInTransaction[U TxManager](ctx context.Context, create func() U, fn func(uow U) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = conflictInitialInterval
	policy.MaxElapsedTime = conflictMaxElapsedTime

	attempt := func() error {
		uow := create()
		if err := uow.Begin(ctx); err != nil {
			return backoff.Permanent(err)
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := fn(uow); err != nil {
			return retryOnConflict(err)
		}
		return retryOnConflict(uow.Commit(ctx))
	}

	return backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, conflictRetries), ctx))
}

func retryOnConflict(err error) error {
	if err == nil || errors.Is(err, ports.ErrTransactionConflict) {
		return err
	}
	return backoff.Permanent(err)
}
