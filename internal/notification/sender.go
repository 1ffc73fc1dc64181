package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
)

// Sender delivers one queued notification. Implementations must be safe for
// concurrent use; the worker may drain jobs in parallel some day.
type Sender interface {
	Send(ctx context.Context, topic string, payload []byte) error
}

// NewSender picks SMTP when configured and falls back to log-only delivery,
// which keeps local development working without a mail relay.
func NewSender(cfg config.EmailConfig) Sender {
	if cfg.SMTPHost == "" {
		return &LogSender{}
	}
	return &SMTPSender{cfg: cfg}
}

type confirmationPayload struct {
	BookingID   string   `json:"booking_id"`
	CustomerRef string   `json:"customer_ref"`
	AmountCents int64    `json:"amount_cents"`
	Slots       []string `json:"slots"`
}

type SMTPSender struct {
	cfg config.EmailConfig
}

func (s *SMTPSender) Send(ctx context.Context, topic string, payload []byte) error {
	var p confirmationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return errs.Wrap(err, "notification payload is not valid JSON")
	}

	body := buildMessage(s.cfg.From, p)
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{p.CustomerRef}, body); err != nil {
		return errs.Wrap(err, "smtp delivery failed")
	}
	return nil
}

func buildMessage(from string, p confirmationPayload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", p.CustomerRef)
	fmt.Fprintf(&b, "Subject: Booking confirmed\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your booking %s is confirmed.\r\n\r\n", p.BookingID)
	for _, s := range p.Slots {
		fmt.Fprintf(&b, "  - %s\r\n", s)
	}
	fmt.Fprintf(&b, "\r\nTotal: $%.2f\r\n", float64(p.AmountCents)/100)
	return []byte(b.String())
}

type LogSender struct{}

func (s *LogSender) Send(_ context.Context, topic string, payload []byte) error {
	slog.Info("notification delivered to log", "topic", topic, "payload", string(payload))
	return nil
}
