package usecase

import (
	"context"
	"io"
	"time"

	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"github.com/xavierca1/rog-store/internal/infra/integration/whatsapp"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"github.com/xavierca1/rog-store/internal/shipping"
)

type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input asaas.CreateCustomerInput) (string, error)
	CreatePayment(ctx context.Context, input asaas.PaymentInput) (*asaas.PaymentResult, error)
	DeletePayment(ctx context.Context, paymentID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

type EmailService interface {
	SendOrderConfirmation(to string, data mail.OrderEmailData) error
	SendPaymentConfirmed(to string, data mail.OrderEmailData) error
	SendTicketReply(to string, data mail.TicketReplyData) error
	SendQuotation(to string, data mail.QuotationEmailData) error
	Send(to, subject, htmlBody string) error
}

type WhatsAppGateway interface {
	SendText(ctx context.Context, instance string, input whatsapp.SendMessageInput) (*whatsapp.SendMessageResponse, error)
	CreateInstance(ctx context.Context, instance string) (*whatsapp.CreateInstanceResponse, error)
	ConnectionState(ctx context.Context, instance string) (string, error)
	Logout(ctx context.Context, instance string) error
}

type ShippingQuoter interface {
	Quote(ctx context.Context, zip string, items []entity.CartItem) (*shipping.Result, error)
}

type TokenIssuer interface {
	Issue(customerID, email string, isAdmin bool) (string, time.Time, error)
}

type ImageStorage interface {
	UploadProductImage(ctx context.Context, productID, contentType string, body io.Reader) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

type ProductIDStore interface {
	List(ctx context.Context, customerID string) ([]string, error)
	Clear(ctx context.Context, customerID string) error
}

type FavoritesStore interface {
	ProductIDStore
	Add(ctx context.Context, customerID, productID string) error
	Remove(ctx context.Context, customerID, productID string) error
}

type HistoryStore interface {
	ProductIDStore
	Push(ctx context.Context, customerID, productID string) error
}

type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, eventID string) error
}
