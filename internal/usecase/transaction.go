package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction é uma saga simples: executa as operações em ordem e, se uma falhar,
// roda as compensações das que já tinham passado, da última para a primeira.
type Transaction struct {
	operations []Operation
	logger     *zap.Logger
}

type Operation struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error
}

func NewTransaction(logger *zap.Logger) *Transaction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transaction{logger: logger}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn})
}

// AddCompensation associa a compensação à última operação adicionada.
func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	if len(t.operations) == 0 {
		return
	}
	t.operations[len(t.operations)-1].Compensate = fn
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	// compensações usam um ctx próprio: o do request pode já estar cancelado
	ctx = context.WithoutCancel(ctx)
	for i := failedAtIndex - 1; i >= 0; i-- {
		op := t.operations[i]
		if op.Compensate == nil {
			continue
		}
		if err := op.Compensate(ctx); err != nil {
			t.logger.Error("⚠️ WARNING: Compensation failed (inconsistency risk!)",
				zap.String("operation", op.Name), zap.Error(err))
		}
	}
}
