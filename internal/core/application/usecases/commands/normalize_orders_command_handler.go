package commands

import (
	"context"
	"time"
)

// NormalizeOrdersCommandHandler migrates legacy order rows in batches. Rows are
// re-written through the aggregate, so the repository stores the canonical status.
type NormalizeOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewNormalizeOrdersCommandHandler(uowFactory OrderUoWFactory) NormalizeOrdersCommandHandler {
	return NormalizeOrdersCommandHandler{uowFactory: uowFactory, now: time.Now}
}

// Handle returns the number of orders rewritten. Zero means nothing was left to migrate.
func (h NormalizeOrdersCommandHandler) Handle(ctx context.Context, cmd NormalizeOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	var normalized int
	err := runInTransaction(ctx, h.uowFactory.Create, func(uow OrderUoW) error {
		normalized = 0
		repo := uow.OrderRepository()

		orders, err := repo.ListWithLegacyFields(ctx, cmd.BatchSize())
		if err != nil {
			return err
		}

		now := h.now()
		for _, o := range orders {
			o.NormalizeLegacy(now)
			if err = repo.Update(ctx, o); err != nil {
				return err
			}
			normalized++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return normalized, nil
}
