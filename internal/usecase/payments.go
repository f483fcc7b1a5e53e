package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"go.uber.org/zap"
)

// webhooks repetidos do Asaas chegam em até alguns dias
const webhookDedupTTL = 72 * time.Hour

// PaymentUseCase reage aos webhooks do gateway e expira pedidos não pagos.
type PaymentUseCase struct {
	Orders     entity.OrderRepositoryInterface
	Products   entity.ProductRepositoryInterface
	Vouchers   entity.VoucherRepositoryInterface
	Customers  entity.CustomerRepositoryInterface
	Processed  IdempotencyStore
	Queue      EventPublisher
	Expiration time.Duration
	logger     *zap.Logger
}

func NewPaymentUseCase(orders entity.OrderRepositoryInterface, products entity.ProductRepositoryInterface,
	vouchers entity.VoucherRepositoryInterface, customers entity.CustomerRepositoryInterface,
	processed IdempotencyStore, queue EventPublisher, expiration time.Duration, logger *zap.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		Orders:     orders,
		Products:   products,
		Vouchers:   vouchers,
		Customers:  customers,
		Processed:  processed,
		Queue:      queue,
		Expiration: expiration,
		logger:     logger,
	}
}

// HandleWebhook aplica um evento de pagamento ao pedido referenciado em externalReference.
// Eventos já processados (mesmo ID) são ignorados.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, event asaas.WebhookEvent) error {
	orderID := event.Payment.ExternalReference
	log := uc.logger.With(zap.String("event", event.Event), zap.String("order_id", orderID), zap.String("payment_id", event.Payment.ID))

	if orderID == "" {
		log.Warn("webhook sem externalReference, ignorando")
		return nil
	}

	dedupKey := event.ID
	if dedupKey == "" {
		dedupKey = event.Event + ":" + event.Payment.ID
	}
	if uc.Processed != nil {
		first, err := uc.Processed.MarkProcessed(ctx, dedupKey, webhookDedupTTL)
		if err != nil {
			// sem redis seguimos: as transições de status já são idempotentes
			log.Warn("falha ao checar idempotência", zap.Error(err))
		} else if !first {
			log.Info("🔁 webhook repetido, ignorando")
			return nil
		}
	}

	err := uc.apply(ctx, event.Event, orderID, log)
	if err != nil && uc.Processed != nil {
		if ferr := uc.Processed.Forget(ctx, dedupKey); ferr != nil {
			log.Warn("falha ao liberar chave de idempotência", zap.Error(ferr))
		}
	}
	return err
}

func (uc *PaymentUseCase) apply(ctx context.Context, kind, orderID string, log *zap.Logger) error {
	switch kind {
	case asaas.EventPaymentConfirmed, asaas.EventPaymentReceived:
		return uc.markPaid(ctx, orderID, log)
	case asaas.EventPaymentOverdue, asaas.EventPaymentDeleted, asaas.EventPaymentRefunded:
		return uc.cancel(ctx, orderID, log)
	default:
		log.Debug("evento de pagamento sem ação")
		return nil
	}
}

func (uc *PaymentUseCase) markPaid(ctx context.Context, orderID string, log *zap.Logger) error {
	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return translate(err)
	}
	if order.Status != entity.OrderPending {
		log.Info("pedido já saiu de pending, nada a fazer", zap.String("status", string(order.Status)))
		return nil
	}
	if err := order.TransitionTo(entity.OrderProcessing); err != nil {
		return translate(err)
	}
	moved, err := uc.Orders.UpdateStatus(ctx, order.ID, entity.OrderPending, order.Status)
	if err != nil {
		return dbError(err)
	}
	if !moved {
		log.Info("pedido mudou de status antes da confirmação, nada a fazer")
		return nil
	}
	log.Info("💰 pagamento confirmado")

	if uc.Queue != nil {
		customer, err := uc.Customers.FindByID(ctx, order.CustomerID)
		if err != nil {
			log.Warn("cliente do pedido não encontrado", zap.Error(err))
			customer = nil
		}
		if err := uc.Queue.Publish(ctx, orderEvent(entity.TriggerOrderPaid, order, customer)); err != nil {
			log.Error("❌ falha ao publicar order.paid", zap.Error(err))
		}
	}
	return nil
}

func (uc *PaymentUseCase) cancel(ctx context.Context, orderID string, log *zap.Logger) error {
	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return translate(err)
	}
	if !order.CanTransitionTo(entity.OrderCancelled) {
		log.Info("pedido não pode ser cancelado", zap.String("status", string(order.Status)))
		return nil
	}
	from := order.Status
	if err := order.TransitionTo(entity.OrderCancelled); err != nil {
		return translate(err)
	}
	moved, err := uc.Orders.UpdateStatus(ctx, order.ID, from, order.Status)
	if err != nil {
		return dbError(err)
	}
	if !moved {
		log.Info("pedido já foi alterado por outro processo, estoque não é devolvido de novo")
		return nil
	}
	uc.restore(ctx, order)
	log.Info("🚫 pedido cancelado pelo gateway")
	return nil
}

// ExpireStaleOrders cancela pedidos pending mais velhos que Expiration e devolve estoque e cupom.
func (uc *PaymentUseCase) ExpireStaleOrders(ctx context.Context) (int, error) {
	expired, err := uc.Orders.ExpirePending(ctx, uc.Expiration)
	if err != nil {
		return 0, dbError(err)
	}
	for _, o := range expired {
		uc.restore(ctx, o)
	}
	return len(expired), nil
}

// restore é best effort: uma falha aqui não desfaz o cancelamento.
func (uc *PaymentUseCase) restore(ctx context.Context, o *entity.Order) {
	for _, it := range o.Items {
		if err := uc.Products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			uc.logger.Error("❌ falha ao devolver estoque", zap.String("order_id", o.ID), zap.String("product_id", it.ProductID), zap.Error(err))
		}
	}
	if o.VoucherCode == "" {
		return
	}
	v, err := uc.Vouchers.FindByCode(ctx, o.VoucherCode)
	if err != nil {
		if !errors.Is(err, entity.ErrVoucherNotFound) {
			uc.logger.Error("❌ falha ao buscar cupom", zap.String("order_id", o.ID), zap.Error(err))
		}
		return
	}
	if err := uc.Vouchers.DecrementUses(ctx, v.ID); err != nil {
		uc.logger.Error("❌ falha ao devolver uso do cupom", zap.String("order_id", o.ID), zap.Error(err))
	}
}
