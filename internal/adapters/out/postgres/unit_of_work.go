// Package postgres provides the GORM-based Unit of Work used by every command handler.
// The Unit of Work keeps the aggregates written by one business transaction and
// coordinates writing them out atomically.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, dispatcher)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	if err != nil {
//	    _ = uow.Rollback(ctx)
//	    return err
//	}
//
//	if err := o.Accept(partnerID, time.Now()); err != nil {
//	    _ = uow.Rollback(ctx)
//	    return err
//	}
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    _ = uow.Rollback(ctx)
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency:
//   - Each UnitOfWork instance owns one transaction; goroutines must not share one.
//   - Row locks taken with GetForUpdate are held until Commit or Rollback.
//   - Serialization failures and deadlocks surface as ports.ErrTransactionConflict so the
//     caller can replay the whole unit of work.
package postgres

import (
	"context"

	"partnerdelivery/internal/adapters/out/postgres/credentialrepo"
	"partnerdelivery/internal/adapters/out/postgres/ledgerrepo"
	"partnerdelivery/internal/adapters/out/postgres/orderrepo"
	"partnerdelivery/internal/adapters/out/postgres/partnerrepo"
	"partnerdelivery/internal/adapters/out/postgres/pgerr"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	observers []ports.CommitObserver
}

// NewGormUnitOfWorkFactory creates a factory. Observers are told about the aggregates of
// every committed unit of work, in the order given.
func NewGormUnitOfWorkFactory(db *gorm.DB, observers ...ports.CommitObserver) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, observers: observers}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		observers:         f.observers,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates it touched.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	observers         []ports.CommitObserver
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pgerr.Translate(tx.Error)
	}

	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes the transaction and then hands the tracked aggregates to the commit
// observers. Observer failures never turn a successful commit into an error.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return pgerr.Translate(err)
	}

	aggregates := make([]any, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		aggregates = append(aggregates, tracked.Aggregate)
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]

	if len(aggregates) == 0 {
		return nil
	}
	for _, observer := range uow.observers {
		observer.AfterCommit(ctx, aggregates)
	}

	return nil
}

// Rollback discards the transaction and everything tracked in it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository runs inside the open transaction, or directly on the pool when none is
// open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TransactionRepository() ports.TransactionRepository {
	return ledgerrepo.NewGormTransactionRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CredentialRepository() ports.CredentialRepository {
	return credentialrepo.NewGormCredentialRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
