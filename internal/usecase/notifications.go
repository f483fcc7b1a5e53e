package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"go.uber.org/zap"
)

// cobre a janela de reentrega da fila (requeue + DLQ)
const eventDedupTTL = 24 * time.Hour

// EventProcessor consome os eventos da fila: e-mails transacionais dos pedidos e depois as automações.
// Cada parte roda uma vez por evento, então a reentrega após uma falha só refaz a parte que falhou.
type EventProcessor struct {
	Orders     entity.OrderRepositoryInterface
	Customers  entity.CustomerRepositoryInterface
	Mail       EmailService
	Automation *AutomationUseCase
	Processed  IdempotencyStore
	logger     *zap.Logger
}

func NewEventProcessor(orders entity.OrderRepositoryInterface, customers entity.CustomerRepositoryInterface,
	mailer EmailService, automation *AutomationUseCase, processed IdempotencyStore, logger *zap.Logger) *EventProcessor {
	return &EventProcessor{Orders: orders, Customers: customers, Mail: mailer, Automation: automation, Processed: processed, logger: logger}
}

func (p *EventProcessor) Handle(ctx context.Context, event entity.Event) error {
	var errs []error
	switch event.Type {
	case entity.TriggerOrderCreated, entity.TriggerOrderPaid:
		if err := p.once(ctx, "mail:", event, p.orderEmail); err != nil {
			errs = append(errs, err)
		}
	}
	if p.Automation != nil {
		if err := p.once(ctx, "flows:", event, p.Automation.Run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// once roda fn no máximo uma vez por evento; se fn falha a marca é removida para a reentrega tentar de novo.
func (p *EventProcessor) once(ctx context.Context, part string, event entity.Event, fn func(context.Context, entity.Event) error) error {
	if p.Processed == nil || event.ID == "" {
		return fn(ctx, event)
	}
	key := part + event.ID
	first, err := p.Processed.MarkProcessed(ctx, key, eventDedupTTL)
	if err != nil {
		p.logger.Warn("falha ao checar idempotência do evento", zap.String("key", key), zap.Error(err))
		return fn(ctx, event)
	}
	if !first {
		p.logger.Info("🔁 parte do evento já executada, pulando", zap.String("key", key))
		return nil
	}
	if err := fn(ctx, event); err != nil {
		if ferr := p.Processed.Forget(ctx, key); ferr != nil {
			p.logger.Warn("falha ao liberar chave do evento", zap.String("key", key), zap.Error(ferr))
		}
		return err
	}
	return nil
}

func (p *EventProcessor) orderEmail(ctx context.Context, event entity.Event) error {
	if p.Mail == nil {
		return nil
	}
	order, err := p.Orders.FindByID(ctx, event.Get("order_id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			// pedido desfeito depois do evento; nada a avisar
			p.logger.Warn("pedido do evento não existe mais", zap.String("order_id", event.Get("order_id")))
			return nil
		}
		return err
	}
	customer, err := p.Customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	data := orderEmailData(customer, order)
	if event.Type == entity.TriggerOrderPaid {
		err = p.Mail.SendPaymentConfirmed(customer.Email, data)
	} else {
		err = p.Mail.SendOrderConfirmation(customer.Email, data)
	}
	if err != nil {
		p.logger.Error("❌ falha ao enviar e-mail do pedido", zap.String("order_id", order.ID), zap.String("event", event.Type), zap.Error(err))
		return err
	}
	p.logger.Info("📧 e-mail do pedido enviado", zap.String("order_id", order.ID), zap.String("event", event.Type))
	return nil
}

func orderEmailData(c *entity.Customer, o *entity.Order) mail.OrderEmailData {
	data := mail.OrderEmailData{
		Name:         c.Name,
		OrderID:      o.ID,
		Subtotal:     o.Subtotal.StringFixed(2),
		Discount:     o.Discount.StringFixed(2),
		ShippingFee:  o.ShippingFee.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		PaymentURL:   o.PaymentURL,
		ShippingName: o.ShippingService,
		ShippingDays: o.ShippingDays,
	}
	for _, it := range o.Items {
		data.Items = append(data.Items, mail.OrderEmailItem{Name: it.Name, Quantity: it.Quantity, Total: it.LineTotal().StringFixed(2)})
	}
	return data
}
