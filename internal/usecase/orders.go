package usecase

import (
	"context"

	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

type OrderUseCase struct {
	Repo     entity.OrderRepositoryInterface
	Payments *PaymentUseCase
	logger   *zap.Logger
}

func NewOrderUseCase(repo entity.OrderRepositoryInterface, payments *PaymentUseCase, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{Repo: repo, Payments: payments, logger: logger}
}

func (uc *OrderUseCase) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	return uc.List(ctx, entity.OrderFilter{CustomerID: customerID, Limit: limit, Offset: offset})
}

func (uc *OrderUseCase) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidInput("status inválido: " + string(filter.Status))
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	orders, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, dbError(err)
	}
	if orders == nil {
		orders = []*entity.Order{}
	}
	return orders, nil
}

// Get devolve o pedido; customerID vazio (admin) dispensa a checagem de dono.
func (uc *OrderUseCase) Get(ctx context.Context, id, customerID string) (*entity.Order, error) {
	o, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	// pedido de outro cliente responde como inexistente
	if customerID != "" && o.CustomerID != customerID {
		return nil, notFound("pedido")
	}
	return o, nil
}

// UpdateStatus é a ação manual do admin. Cancelar devolve estoque e cupom.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, invalidInput("status inválido: " + string(status))
	}
	o, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	from := o.Status
	if err := o.TransitionTo(status); err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidState,
			Message: "transição inválida: " + string(from) + " -> " + string(status),
			Err:     err,
		}
	}
	moved, err := uc.Repo.UpdateStatus(ctx, o.ID, from, o.Status)
	if err != nil {
		return nil, translate(err)
	}
	if !moved {
		return nil, &DomainError{Code: CodeConflict, Message: "o pedido foi alterado por outro processo, recarregue e tente de novo"}
	}
	if status == entity.OrderCancelled && uc.Payments != nil {
		uc.Payments.restore(ctx, o)
	}
	uc.logger.Info("📦 status do pedido alterado",
		zap.String("order_id", o.ID), zap.String("from", string(from)), zap.String("to", string(status)))
	return o, nil
}
