package mail

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func body(t *testing.T, m *gomail.Message) string {
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendOrderConfirmation(t *testing.T) {
	d := &fakeDialer{}
	s := &EmailSender{From: "loja@rog.com.br", dialer: d}

	err := s.SendOrderConfirmation("ana@clinica.com", OrderEmailData{
		Name:       "Ana",
		OrderID:    "1234567890abcdef",
		Items:      []OrderEmailItem{{Name: "Membrana", Quantity: 2, Total: "900.00"}},
		Total:      "920.00",
		PaymentURL: "https://pay/1",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"Recebemos seu pedido #12345678"}, d.sent[0].GetHeader("Subject"))
	raw := body(t, d.sent[0])
	assert.True(t, strings.Contains(raw, "2x Membrana"))
	assert.True(t, strings.Contains(raw, "https://pay/1"))
}

func TestSendTicketReply_EscapesBody(t *testing.T) {
	d := &fakeDialer{}
	s := &EmailSender{From: "loja@rog.com.br", dialer: d}

	require.NoError(t, s.SendTicketReply("ana@clinica.com", TicketReplyData{Name: "Ana", Subject: "Prazo", Body: "<script>x</script>"}))
	assert.NotContains(t, body(t, d.sent[0]), "<script>")
}

func TestSend_WrapsSMTPError(t *testing.T) {
	s := &EmailSender{From: "x", dialer: &fakeDialer{err: errors.New("conn refused")}}
	err := s.Send("a@b.com", "oi", "<p>oi</p>")
	assert.ErrorContains(t, err, "SMTP")
}

func TestSendQuotation_EscapesCustomerData(t *testing.T) {
	d := &fakeDialer{}
	s := &EmailSender{From: "loja@rog.com.br", dialer: d}

	err := s.SendQuotation("ana@clinica.com", QuotationEmailData{
		Name:        "Ana <b>",
		QuotationID: "abcdef1234567890",
		Items:       []OrderEmailItem{{Name: "Membrana & Cia", Quantity: 3, Total: "1350.00"}},
		Total:       "1350.00",
		ValidUntil:  "30/10/2026",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"Seu orçamento ROG Membranas #abcdef12"}, d.sent[0].GetHeader("Subject"))
	raw := body(t, d.sent[0])
	assert.NotContains(t, raw, "Ana <b>")
	assert.Contains(t, raw, "Membrana &amp; Cia")
	assert.Contains(t, raw, "30/10/2026")
}
