// Package notify emails the sales team when a customer submits an inquiry.
package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/polestar/storefront/config"
	"github.com/polestar/storefront/internal/domain"
)

// SendFunc delivers a prepared message.
type SendFunc func(m *gomail.Message) error

// InquiryNotifier sends one email per inquiry on a bounded worker pool so
// request handlers never wait on SMTP.
type InquiryNotifier struct {
	pool *ants.Pool
	send SendFunc
	from string
	to   []string
}

// NewInquiryNotifier builds a notifier delivering through the configured SMTP server.
func NewInquiryNotifier(cfg config.SmtpConfig) (*InquiryNotifier, error) {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newInquiryNotifier(cfg, func(m *gomail.Message) error {
		return dialer.DialAndSend(m)
	})
}

func newInquiryNotifier(cfg config.SmtpConfig, send SendFunc) (*InquiryNotifier, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create notification pool: %w", err)
	}
	return &InquiryNotifier{
		pool: pool,
		send: send,
		from: cfg.From,
		to:   append([]string(nil), cfg.To...),
	}, nil
}

// InquiryCreated queues the notification for inq. Failures are logged, never returned.
func (n *InquiryNotifier) InquiryCreated(inq domain.Inquiry) {
	msg := n.message(inq)
	err := n.pool.Submit(func() {
		if err := n.send(msg); err != nil {
			zap.L().Error("failed to send inquiry notification",
				zap.Int64("inquiry_id", inq.ID), zap.Error(err))
			return
		}
		zap.L().Info("inquiry notification sent", zap.Int64("inquiry_id", inq.ID))
	})
	if err != nil {
		zap.L().Warn("notification pool rejected task", zap.Int64("inquiry_id", inq.ID), zap.Error(err))
	}
}

// Close waits for nothing; queued tasks are dropped with the pool.
func (n *InquiryNotifier) Close() {
	n.pool.Release()
}

func (n *InquiryNotifier) message(inq domain.Inquiry) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Reply-To", inq.Email)
	m.SetHeader("Subject", fmt.Sprintf("New inquiry #%d from %s", inq.ID, inq.FullName))
	m.SetBody("text/plain", inquiryText(inq))
	m.AddAlternative("text/html", "<pre>"+html.EscapeString(inquiryText(inq))+"</pre>")
	return m
}

func inquiryText(inq domain.Inquiry) string {
	var b strings.Builder
	line := func(label string, v *string) {
		if v != nil && *v != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, *v)
		}
	}
	fmt.Fprintf(&b, "Name: %s\n", inq.FullName)
	fmt.Fprintf(&b, "Email: %s\n", inq.Email)
	line("Phone", inq.Phone)
	line("Company", inq.Company)
	line("Interest", inq.Interest)
	fmt.Fprintf(&b, "Received: %s\n\n", inq.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString(inq.Message)
	b.WriteString("\n")
	return b.String()
}
