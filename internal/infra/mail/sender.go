package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendOrderConfirmation(to string, data OrderEmailData) error {
	return s.render(to, fmt.Sprintf("Recebemos seu pedido #%s", shortID(data.OrderID)), "order_confirmation.html", data)
}

func (s *EmailSender) SendPaymentConfirmed(to string, data OrderEmailData) error {
	return s.render(to, fmt.Sprintf("Pagamento confirmado: pedido #%s ✅", shortID(data.OrderID)), "payment_confirmed.html", data)
}

func (s *EmailSender) SendTicketReply(to string, data TicketReplyData) error {
	return s.render(to, fmt.Sprintf("Re: %s [chamado #%s]", data.Subject, shortID(data.TicketID)), "ticket_reply.html", data)
}

func (s *EmailSender) SendQuotation(to string, data QuotationEmailData) error {
	return s.render(to, fmt.Sprintf("Seu orçamento ROG Membranas #%s", shortID(data.QuotationID)), "quotation.html", data)
}

// Send envia um corpo HTML já pronto (usado pelas automações).
func (s *EmailSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) render(to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}
	return s.Send(to, subject, body.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
