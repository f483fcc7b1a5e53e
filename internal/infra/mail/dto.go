package mail

type OrderEmailData struct {
	Name         string
	OrderID      string
	Items        []OrderEmailItem
	Subtotal     string
	Discount     string
	ShippingFee  string
	Total        string
	PaymentURL   string
	ShippingName string
	ShippingDays int
}

type OrderEmailItem struct {
	Name     string
	Quantity int
	Total    string
}

type QuotationEmailData struct {
	Name        string
	QuotationID string
	Items       []OrderEmailItem
	Subtotal    string
	Discount    string
	ShippingFee string
	Total       string
	Notes       string
	ValidUntil  string
}

type TicketReplyData struct {
	Name     string
	TicketID string
	Subject  string
	Body     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer dialer
}
