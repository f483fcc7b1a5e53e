package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransaction_RollbackInReverseOrder(t *testing.T) {
	var trail []string
	step := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			trail = append(trail, name)
			return err
		}
	}

	tx := NewTransaction(zap.NewNop())
	tx.AddOperation("a", step("a", nil))
	tx.AddCompensation("undo a", step("undo a", nil))
	tx.AddOperation("b", step("b", nil))
	tx.AddCompensation("undo b", step("undo b", errors.New("falhou")))
	tx.AddOperation("c", step("c", errors.New("boom")))
	tx.AddCompensation("undo c", step("undo c", nil))

	err := tx.Execute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'c' failed")
	// compensação com erro não interrompe as demais
	assert.Equal(t, []string{"a", "b", "c", "undo b", "undo a"}, trail)
}

func TestTransaction_CompensationSurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var compensated bool

	tx := NewTransaction(nil)
	tx.AddOperation("reserve", func(context.Context) error { return nil })
	tx.AddCompensation("release", func(ctx context.Context) error {
		compensated = ctx.Err() == nil
		return nil
	})
	tx.AddOperation("pay", func(context.Context) error {
		cancel()
		return context.Canceled
	})

	err := tx.Execute(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, compensated)
}
