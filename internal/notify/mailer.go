// Package notify builds and delivers the per-cycle alert mail.
package notify

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"propwatch/internal/domain"
)

// ErrNotConfigured is returned when a send is attempted without a complete
// transport configuration. Callers treat this as "keep listings pending".
var ErrNotConfigured = errors.New("mail settings incomplete")

// Message is the opaque payload handed to the transport.
type Message struct {
	Subject  string
	HTMLBody string
}

// Sender is the outbound transport capability.
type Sender interface {
	Send(cfg domain.MailSettings, m Message) error
}

// SMTPSender delivers via SMTP using the operator's mail account.
type SMTPSender struct{}

func (SMTPSender) Send(cfg domain.MailSettings, m Message) error {
	if !cfg.Complete() {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", cfg.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTMLBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password)
	d.SSL = cfg.Port == 465

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// BuildDigest renders one message covering every pending listing.
func BuildDigest(listings []domain.Listing) Message {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif;">`)
	fmt.Fprintf(&b, "<h2>Er zijn %d nieuwe panden gevonden!</h2>", len(listings))

	for _, l := range listings {
		fmt.Fprintf(&b, `
<div style="border: 1px solid #ddd; padding: 15px; margin: 10px 0; border-radius: 8px;">
  <h3>%s</h3>
  <p><strong>Prijs:</strong> %s</p>
  <p><strong>Locatie:</strong> %s</p>
  <p><strong>Type verkoper:</strong> %s</p>
  <a href="%s">Bekijk pand</a>
</div>`,
			html.EscapeString(l.Title),
			html.EscapeString(l.PriceText),
			html.EscapeString(l.Location),
			html.EscapeString(l.SellerType),
			html.EscapeString(l.URL))
	}

	b.WriteString("</body></html>")

	return Message{
		Subject:  fmt.Sprintf("%d nieuwe panden gevonden op Immoweb", len(listings)),
		HTMLBody: b.String(),
	}
}
