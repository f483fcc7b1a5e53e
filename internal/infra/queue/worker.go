package queue

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

// EventHandler processa um evento consumido da fila.
type EventHandler interface {
	Handle(ctx context.Context, event entity.Event) error
}

type Worker struct {
	Channel *amqp.Channel
	Handler EventHandler
	logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, handler EventHandler, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Handler: handler, logger: logger}
}

// Start consome até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return err
	}

	w.logger.Info(" [*] Worker rodando e aguardando na fila", zap.String("queue", queueName))
	return w.consume(ctx, msgs)
}

func (w *Worker) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ Worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal do RabbitMQ fechado")
			}
			w.handle(ctx, d)
		}
	}
}

// handle: JSON inválido vai direto pra DLQ; erro no handler é reenfileirado uma vez
// e, se falhar de novo, segue pra DLQ.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Error("❌ [WORKER] JSON Inválido", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log := w.logger.With(zap.String("event_id", event.ID), zap.String("type", event.Type))
	log.Info("📥 [WORKER] Evento recebido")

	if err := w.Handler.Handle(ctx, event); err != nil {
		log.Error("❌ [WORKER] Erro ao processar evento", zap.Error(err), zap.Bool("redelivered", d.Redelivered))
		d.Nack(false, !d.Redelivered)
		return
	}

	log.Info("✅ [WORKER] Evento processado")
	d.Ack(false)
}
