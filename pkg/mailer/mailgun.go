package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const defaultSendTimeout = 10 * time.Second

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through one Mailgun domain. Messages are tagged so account mail can be filtered in the dashboard.
type Mailgun struct {
	client  *mg.MailgunImpl
	from    string
	tag     string
	timeout time.Duration
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{
		client:  mg.NewMailgun(domain, apiKey),
		from:    from,
		tag:     "account",
		timeout: defaultSendTimeout,
	}
}

// Send posts the message; html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if m.tag != "" {
		if err := msg.AddTag(m.tag); err != nil {
			return err
		}
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
