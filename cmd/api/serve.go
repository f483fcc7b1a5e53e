package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/infra/http/router"
	"github.com/xavierca1/rog-store/internal/infra/queue"
	"github.com/xavierca1/rog-store/internal/infra/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	expirationTick time.Duration
	leadRate       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sobe a API HTTP, o consumidor da fila e o worker de expiração",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&expirationTick, "expiration-tick", 5*time.Minute, "intervalo entre as varreduras de pedidos vencidos")
	serveCmd.Flags().IntVar(&leadRate, "lead-rate", 10, "captações de lead por IP por minuto")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	consumerCh, err := a.rabbit.Conn.Channel()
	if err != nil {
		return fmt.Errorf("falha ao abrir canal do consumidor: %w", err)
	}
	consumer := queue.NewWorker(consumerCh, a.events, log)
	expiration := worker.NewOrderExpirationWorker(a.payments, expirationTick, log)

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(a.handlers, router.Options{
			CORSOrigins:    cfg.CORSOrigins,
			Tokens:         a.tokens,
			Logger:         log,
			LeadRate:       leadRate,
			TrustedProxies: proxies,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("🔥 Server ROG rodando", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("⚠️ encerrando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := consumer.Start(gctx, queue.QueueName); err != nil && gctx.Err() == nil {
			return fmt.Errorf("consumidor da fila: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		expiration.Start(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("❌ serviço encerrado com erro", zap.Error(err))
		return err
	}
	log.Info("✅ serviço encerrado")
	return nil
}
