package main

import (
	"fmt"
	"log"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/imrishuroy/go-storefront/internal/notify"
)

// Sender delivers one rendered confirmation email.
type Sender interface {
	Send(email notify.OrderEmail) error
}

// GomailSender sends through SMTP.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender configures an SMTP sender.
func NewGomailSender(host string, port int, user, password, from string) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *GomailSender) Send(email notify.OrderEmail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.CustomerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Order %s confirmed", email.OrderNumber))
	m.SetBody("text/html", renderBody(email))
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email for order %s: %w", email.OrderNumber, err)
	}
	return nil
}

// LogSender is the degraded mode used when SMTP is not configured: the
// confirmation is written to the log instead of being delivered.
type LogSender struct{}

func (LogSender) Send(email notify.OrderEmail) error {
	log.Printf("[email disabled] order %s confirmation for %s: total %.2f, %d items",
		email.OrderNumber, email.CustomerEmail, email.Total, len(email.Items))
	return nil
}

func renderBody(email notify.OrderEmail) string {
	var b strings.Builder
	name := email.CustomerName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "<p>Hi %s,</p>", name)
	fmt.Fprintf(&b, "<p>Your order <strong>%s</strong> is confirmed.</p>", email.OrderNumber)
	b.WriteString("<table><tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	for _, item := range email.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", item.Name, item.Quantity, item.Price)
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Total paid: <strong>₹%.2f</strong></p>", email.Total)
	if email.PointsUsed > 0 {
		fmt.Fprintf(&b, "<p>Points redeemed: %d</p>", email.PointsUsed)
	}
	if email.PointsEarned > 0 {
		fmt.Fprintf(&b, "<p>Points earned: %d</p>", email.PointsEarned)
	}
	b.WriteString("<p>See you soon!</p>")
	return b.String()
}
