// Package router monta as rotas HTTP da loja e do back-office.
package router

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/rog-store/internal/infra/http/handlers"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Customer   *handlers.CustomerHandler
	Validation *handlers.ValidationHandler
	Catalog    *handlers.CatalogHandler
	Cart       *handlers.CartHandler
	Checkout   *handlers.CheckoutHandler
	Webhook    *handlers.WebhookHandler
	Orders     *handlers.OrderHandler
	Shelf      *handlers.ShelfHandler
	Support    *handlers.SupportHandler
	Leads      *handlers.LeadHandler
	Commercial *handlers.CommercialHandler
	Quotations *handlers.QuotationHandler
	CRM        *handlers.CRMHandler
	WhatsApp   *handlers.WhatsAppHandler
	Automation *handlers.AutomationHandler
}

type Options struct {
	CORSOrigins []string
	Tokens      middleware.TokenParser
	Logger      *zap.Logger
	// LeadRate limita POST /leads por IP, por minuto.
	LeadRate int
	// TrustedProxies são os únicos pares cujo X-Forwarded-For é aceito.
	TrustedProxies []netip.Prefix
}

func New(h Handlers, opts Options) http.Handler {
	if opts.LeadRate <= 0 {
		opts.LeadRate = 10
	}
	auth := middleware.Authenticate(opts.Tokens)
	leadLimiter := middleware.NewRateLimiter(opts.LeadRate, time.Minute)
	authLimiter := middleware.NewRateLimiter(20, time.Minute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(opts.TrustedProxies))
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook/asaas", h.Webhook.Handle)

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Handler)
		r.Post("/auth/register", h.Customer.Register)
		r.Post("/auth/login", h.Customer.Login)
		r.Post("/validate/customer", h.Validation.Availability)
	})

	r.With(leadLimiter.Handler).Post("/leads", h.Leads.CaptureLead)

	// loja: anônimo ou logado
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(opts.Tokens))
		r.Get("/products", h.Catalog.List)
		r.Get("/products/{idOrSlug}", h.Catalog.Get)
		r.Post("/cart/price", h.Cart.Price)
		r.Post("/shipping/quote", h.Cart.QuoteShipping)
		r.Post("/vouchers/validate", h.Validation.Voucher)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/checkout", h.Checkout.Handle)
		r.Get("/orders", h.Orders.Mine)
		r.Get("/orders/{id}", h.Orders.GetMine)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.Customer.Me)
			r.Put("/", h.Customer.UpdateMe)

			r.Get("/favorites", h.Shelf.Favorites)
			r.Delete("/favorites", h.Shelf.ClearFavorites)
			r.Put("/favorites/{productID}", h.Shelf.AddFavorite)
			r.Delete("/favorites/{productID}", h.Shelf.RemoveFavorite)
			r.Get("/history", h.Shelf.History)
			r.Delete("/history", h.Shelf.ClearHistory)

			r.Get("/tickets", h.Support.Mine)
			r.Post("/tickets", h.Support.Open)
			r.Get("/tickets/{id}", h.Support.GetMine)
			r.Post("/tickets/{id}/messages", h.Support.ReplyMine)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListAll)
			r.Post("/", h.Catalog.Create)
			r.Put("/{id}", h.Catalog.Update)
			r.Delete("/{id}", h.Catalog.Delete)
			r.Post("/{id}/image", h.Catalog.UploadImage)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.Get)
			r.Patch("/{id}/status", h.Orders.UpdateStatus)
		})

		r.Route("/vouchers", func(r chi.Router) {
			r.Get("/", h.Commercial.ListVouchers)
			r.Post("/", h.Commercial.CreateVoucher)
			r.Put("/{id}", h.Commercial.UpdateVoucher)
			r.Delete("/{id}", h.Commercial.DeleteVoucher)
		})

		r.Route("/conditions", func(r chi.Router) {
			r.Get("/", h.Commercial.ListConditions)
			r.Post("/", h.Commercial.CreateCondition)
			r.Put("/{id}", h.Commercial.UpdateCondition)
			r.Delete("/{id}", h.Commercial.DeleteCondition)
		})

		r.Route("/shipping-rates", func(r chi.Router) {
			r.Get("/", h.Commercial.ListRates)
			r.Post("/", h.Commercial.CreateRate)
			r.Put("/{id}", h.Commercial.UpdateRate)
			r.Delete("/{id}", h.Commercial.DeleteRate)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", h.Quotations.List)
			r.Post("/", h.Quotations.Create)
			r.Get("/{id}", h.Quotations.Get)
			r.Post("/{id}/send", h.Quotations.Send)
			r.Post("/{id}/reject", h.Quotations.Reject)
			r.Post("/{id}/convert", h.Quotations.Convert)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.Support.List)
			r.Get("/{id}", h.Support.Get)
			r.Post("/{id}/messages", h.Support.Reply)
			r.Patch("/{id}/status", h.Support.UpdateStatus)
		})

		r.Get("/leads", h.Leads.List)
		r.Post("/leads/{id}/convert", h.Leads.Convert)

		r.Route("/crm", func(r chi.Router) {
			r.Get("/pipelines", h.CRM.ListPipelines)
			r.Post("/pipelines", h.CRM.CreatePipeline)
			r.Get("/pipelines/{id}/board", h.CRM.Board)
			r.Post("/contacts", h.CRM.CreateContact)
			r.Put("/contacts/{id}", h.CRM.UpdateContact)
			r.Delete("/contacts/{id}", h.CRM.DeleteContact)
			r.Post("/contacts/{id}/move", h.CRM.MoveContact)
		})

		r.Route("/whatsapp", func(r chi.Router) {
			r.Get("/instances", h.WhatsApp.ListInstances)
			r.Post("/instances", h.WhatsApp.CreateInstance)
			r.Post("/instances/{id}/refresh", h.WhatsApp.RefreshStatus)
			r.Delete("/instances/{id}", h.WhatsApp.DeleteInstance)
			r.Post("/messages", h.WhatsApp.Send)
			r.Get("/messages", h.WhatsApp.Messages)
		})

		r.Route("/automations", func(r chi.Router) {
			r.Get("/", h.Automation.List)
			r.Post("/", h.Automation.Create)
			r.Post("/import", h.Automation.Import)
			r.Get("/{id}", h.Automation.Get)
			r.Put("/{id}", h.Automation.Update)
			r.Patch("/{id}/active", h.Automation.SetActive)
			r.Delete("/{id}", h.Automation.Delete)
		})
	})

	return r
}
