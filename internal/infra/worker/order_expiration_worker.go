package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OrderExpirer cancela pedidos pendentes vencidos e devolve quantos foram cancelados.
type OrderExpirer interface {
	ExpireStaleOrders(ctx context.Context) (int, error)
}

type OrderExpirationWorker struct {
	expirer      OrderExpirer
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewOrderExpirationWorker(expirer OrderExpirer, tickInterval time.Duration, logger *zap.Logger) *OrderExpirationWorker {
	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	return &OrderExpirationWorker{
		expirer:      expirer,
		tickInterval: tickInterval,
		logger:       logger,
	}
}

func (w *OrderExpirationWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 Order Expiration Worker iniciado", zap.Duration("tick", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ Order Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *OrderExpirationWorker) run(ctx context.Context) {
	n, err := w.expirer.ExpireStaleOrders(ctx)
	if err != nil {
		w.logger.Error("❌ Erro ao expirar pedidos", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("✅ pedidos pendentes cancelados por expiração", zap.Int("count", n))
	}
}
