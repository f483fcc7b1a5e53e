package main

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xavierca1/rog-store/internal/auth"
	"github.com/xavierca1/rog-store/internal/infra/cache"
	"github.com/xavierca1/rog-store/internal/infra/database"
	"github.com/xavierca1/rog-store/internal/infra/http/handlers"
	"github.com/xavierca1/rog-store/internal/infra/http/router"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"github.com/xavierca1/rog-store/internal/infra/integration/carrier"
	"github.com/xavierca1/rog-store/internal/infra/integration/whatsapp"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"github.com/xavierca1/rog-store/internal/infra/queue"
	"github.com/xavierca1/rog-store/internal/infra/storage"
	"github.com/xavierca1/rog-store/internal/shipping"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

const version = "1.0.0"

// app guarda as conexões abertas e os usecases montados para o serve.
type app struct {
	db       *sql.DB
	rdb      *redis.Client
	rabbit   *queue.RabbitMQ
	tokens   *auth.TokenService
	payments *usecase.PaymentUseCase
	events   *usecase.EventProcessor
	handlers router.Handlers
}

func openDB() (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL não configurada")
	}
	return database.NewDBConnection(cfg.DatabaseURL)
}

func newApp() (*app, error) {
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET não configurado")
	}

	db, err := openDB()
	if err != nil {
		return nil, err
	}
	rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		db.Close()
		return nil, err
	}
	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		rdb.Close()
		db.Close()
		return nil, err
	}
	a := &app{db: db, rdb: rdb, rabbit: rabbit, tokens: auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)}

	// 1. Repositórios
	customers := database.NewCustomerRepository(db)
	products := database.NewProductRepository(db)
	orders := database.NewOrderRepository(db)
	vouchers := database.NewVoucherRepository(db)
	conditions := database.NewCommercialConditionRepository(db)
	rates := database.NewShippingRateRepository(db)
	quotations := database.NewQuotationRepository(db)
	tickets := database.NewTicketRepository(db)
	leads := database.NewLeadRepository(db)
	crmRepo := database.NewCRMRepository(db)
	waRepo := database.NewWhatsAppRepository(db)
	flows := database.NewAutomationRepository(db)

	// 2. Caches
	favorites := cache.NewFavoritesStore(rdb)
	history := cache.NewHistoryStore(rdb)
	processed := cache.NewIdempotencyStore(rdb, cache.ScopeWebhook)
	eventRuns := cache.NewIdempotencyStore(rdb, cache.ScopeEvents)
	quoteCache := cache.NewQuoteCache(rdb)

	// 3. Gateways
	gateway := asaas.NewClient(cfg.Asaas.APIKey, cfg.Asaas.URL, log)
	carrierClient := carrier.NewClient(cfg.Carrier.URL, cfg.Carrier.Token, cfg.Carrier.Retries, cfg.Carrier.Timeout, log)
	waClient := whatsapp.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.APIKey, log)
	mailer := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	producer := queue.NewProducer(rabbit.Ch)
	quoter := shipping.NewQuoter(carrierClient, quoteCache, rates, cfg.Carrier.CacheTTL, log)

	var images usecase.ImageStorage
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewImageStore(cfg.Storage, log)
		if err != nil {
			a.close()
			return nil, err
		}
		images = store
	} else {
		log.Warn("⚠️ S3_BUCKET vazio: upload de imagens desativado")
	}

	// 4. UseCases
	pricer := usecase.NewPricer(products, vouchers, conditions, quoter, cfg.MaxInstallments, log)
	authUC := usecase.NewAuthUseCase(customers, a.tokens, log)
	catalogUC := usecase.NewCatalogUseCase(products, images, history, log)
	cartUC := usecase.NewCartUseCase(pricer)
	checkoutUC := usecase.NewCheckoutUseCase(customers, products, orders, vouchers, pricer, gateway, producer, log)
	a.payments = usecase.NewPaymentUseCase(orders, products, vouchers, customers, processed, producer, cfg.OrderExpiration, log)
	orderUC := usecase.NewOrderUseCase(orders, a.payments, log)
	voucherUC := usecase.NewVoucherUseCase(vouchers)
	conditionUC := usecase.NewConditionUseCase(conditions)
	rateUC := usecase.NewShippingRateUseCase(rates)
	quotationUC := usecase.NewQuotationUseCase(quotations, products, customers, checkoutUC, mailer, log)
	supportUC := usecase.NewSupportUseCase(tickets, customers, mailer, producer, log)
	crmUC := usecase.NewCRMUseCase(crmRepo, leads, producer, log)
	waUC := usecase.NewWhatsAppUseCase(waRepo, waClient, log)
	automationUC := usecase.NewAutomationUseCase(flows, waUC, crmUC, mailer, log)
	shelfUC := usecase.NewShelfUseCase(products, favorites, history, log)
	a.events = usecase.NewEventProcessor(orders, customers, mailer, automationUC, eventRuns, log)

	// 5. Handlers
	a.handlers = router.Handlers{
		Health: handlers.NewHealthHandler(db, rabbit.Conn, rdb, map[string]bool{
			"asaas":    cfg.Asaas.APIKey != "",
			"carrier":  cfg.Carrier.URL != "",
			"whatsapp": cfg.WhatsApp.APIURL != "",
			"mail":     cfg.Mail.Host != "",
			"storage":  images != nil,
		}, version),
		Customer:   handlers.NewCustomerHandler(authUC, log),
		Validation: handlers.NewValidationHandler(authUC, voucherUC, log),
		Catalog:    handlers.NewCatalogHandler(catalogUC, log),
		Cart:       handlers.NewCartHandler(cartUC, log),
		Checkout:   handlers.NewCheckoutHandler(checkoutUC, log),
		Webhook:    handlers.NewWebhookHandler(a.payments, cfg.Asaas.WebhookSecret, log),
		Orders:     handlers.NewOrderHandler(orderUC, log),
		Shelf:      handlers.NewShelfHandler(shelfUC, log),
		Support:    handlers.NewSupportHandler(supportUC, log),
		Leads:      handlers.NewLeadHandler(crmUC, log),
		Commercial: handlers.NewCommercialHandler(voucherUC, conditionUC, rateUC, log),
		Quotations: handlers.NewQuotationHandler(quotationUC, log),
		CRM:        handlers.NewCRMHandler(crmUC, log),
		WhatsApp:   handlers.NewWhatsAppHandler(waUC, log),
		Automation: handlers.NewAutomationHandler(automationUC, log),
	}
	return a, nil
}

func (a *app) close() {
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			log.Warn("erro ao fechar RabbitMQ", zap.Error(err))
		}
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
