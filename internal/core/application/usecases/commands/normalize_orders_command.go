package commands

import (
	"errors"
	"fmt"

	"partnerdelivery/internal/pkg/errs"
	"partnerdelivery/internal/pkg/guard"
)

var ErrNormalizeOrdersCommandIsNotConstructed = errors.New(
	"NormalizeOrdersCommand must be created via NewNormalizeOrdersCommand constructor",
)

// NormalizeOrdersCommand rewrites up to BatchSize legacy order rows: status spellings
// such as "Picked Up" become the canonical form and missing availability flags are
// filled in.
type NormalizeOrdersCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewNormalizeOrdersCommand(batchSize int) (NormalizeOrdersCommand, error) {
	if batchSize <= 0 {
		return NormalizeOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batchSize", fmt.Errorf("%d is not greater than 0", batchSize))
	}
	return NormalizeOrdersCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c NormalizeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrNormalizeOrdersCommandIsNotConstructed)
}

func (c NormalizeOrdersCommand) BatchSize() int {
	return c.batchSize
}
