package asaas

import "github.com/shopspring/decimal"

const (
	BillingPix        = "PIX"
	BillingBoleto     = "BOLETO"
	BillingCreditCard = "CREDIT_CARD"
)

type CreateCustomerInput struct {
	Name          string
	Email         string
	CpfCnpj       string
	Phone         string
	PostalCode    string
	AddressNumber string
}

type PaymentInput struct {
	CustomerID   string
	OrderID      string
	BillingType  string
	Value        decimal.Decimal
	Installments int
	DueInDays    int
	Description  string
	Card         *CardInput
}

type CardInput struct {
	HolderName  string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CCV         string

	// Dados do Titular (Necessários para evitar erro 400)
	HolderEmail      string
	HolderCpfCnpj    string
	HolderPostalCode string
	HolderAddressNum string
	HolderPhone      string
}

type PaymentResult struct {
	ID         string
	Status     string
	InvoiceURL string
}

// --- PAYLOADS: O que o Client manda para o Asaas (Interno) ---

type createCustomerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	CpfCnpj              string `json:"cpfCnpj"`
	Phone                string `json:"phone"`
	MobilePhone          string `json:"mobilePhone"`
	PostalCode           string `json:"postalCode"`
	AddressNumber        string `json:"addressNumber"`
	NotificationDisabled bool   `json:"notificationDisabled"`
}

type createPaymentRequest struct {
	Customer             string                `json:"customer"`
	BillingType          string                `json:"billingType"`
	Value                float64               `json:"value,omitempty"`
	TotalValue           float64               `json:"totalValue,omitempty"`
	InstallmentCount     int                   `json:"installmentCount,omitempty"`
	DueDate              string                `json:"dueDate"`
	Description          string                `json:"description"`
	ExternalReference    string                `json:"externalReference"`
	CreditCard           *creditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *creditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

// Dados do cartão
type creditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

// Dados do titular (Anti-fraude)
type creditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
	MobilePhone   string `json:"mobilePhone"`
}

// --- RESPONSE: O que o Asaas devolve ---

type customerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type paymentResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	InvoiceURL string `json:"invoiceUrl"`
}

// WebhookEvent é o corpo que o Asaas envia para /webhook/asaas.
type WebhookEvent struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payment struct {
		ID                string  `json:"id"`
		Customer          string  `json:"customer"`
		Status            string  `json:"status"`
		Value             float64 `json:"value"`
		ExternalReference string  `json:"externalReference"`
	} `json:"payment"`
}

const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentOverdue   = "PAYMENT_OVERDUE"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
	EventPaymentDeleted   = "PAYMENT_DELETED"
)
