package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/iliyamo/coworking-space/internal/config"
	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/metrics"
)

// ErrNoRecipient is returned for messages without any To address.
var ErrNoRecipient = errors.New("mail: no recipient")

// Sender delivers messages through the configured SMTP relay. With an
// empty host it only logs what would have been sent.
type Sender struct {
	cfg  config.MailConfig
	log  *slog.Logger
	send func(*mailyak.MailYak) error
}

func NewSender(cfg config.MailConfig, log *slog.Logger) *Sender {
	return &Sender{cfg: cfg, log: log, send: (*mailyak.MailYak).Send}
}

// Send builds the MIME message and hands it to the relay.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	log := logging.FromContextOr(ctx, s.log)
	if s.cfg.Host == "" {
		log.Info("mail delivery disabled, dropping message", "to", msg.To, "subject", msg.Subject)
		return nil
	}
	err := s.send(s.build(msg))
	metrics.TrackMail(err)
	if err != nil {
		log.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "err", err)
		return fmt.Errorf("send mail: %w", err)
	}
	log.Info("mail sent", "to", msg.To, "subject", msg.Subject, "attachments", len(msg.Attachments))
	return nil
}

func (s *Sender) build(msg Message) *mailyak.MailYak {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	m := mailyak.New(s.cfg.Addr(), auth)
	m.From(s.cfg.From)
	m.FromName(s.cfg.FromName)
	m.To(msg.To...)
	if msg.ReplyTo != "" {
		m.ReplyTo(msg.ReplyTo)
	}
	m.Subject(msg.Subject)
	if msg.HTML != "" {
		m.HTML().Set(msg.HTML)
	}
	if msg.Text != "" {
		m.Plain().Set(msg.Text)
	}
	for _, a := range msg.Attachments {
		if a.ContentType != "" {
			m.AttachWithMimeType(a.Name, bytes.NewReader(a.Data), a.ContentType)
			continue
		}
		m.Attach(a.Name, bytes.NewReader(a.Data))
	}
	return m
}
