package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/coworking-space/internal/mail"
)

// ErrDisabled is returned when no broker URL is configured.
var ErrDisabled = errors.New("queue: broker disabled")

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends JSON messages to durable queues on the default exchange.
// It dials per publish; volumes are a few messages per request at most.
type Publisher struct {
	url       string
	mailQueue string
	log       *slog.Logger
	open      func(url string) (channel, func(), error)
}

func NewPublisher(url, mailQueue string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, mailQueue: mailQueue, log: log, open: dialChannel}
}

func dialChannel(url string) (channel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	return ch, func() { _ = conn.Close() }, nil
}

// Publish marshals v and publishes it as a persistent message to queue.
func (p *Publisher) Publish(ctx context.Context, queue string, v any) error {
	if p.url == "" {
		return ErrDisabled
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", queue, err)
	}
	ch, closeConn, err := p.open(p.url)
	if err != nil {
		p.log.Error("rabbitmq connect failed", "queue", queue, "err", err)
		return err
	}
	defer closeConn()
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare %s: %w", queue, err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Error("rabbitmq publish failed", "queue", queue, "err", err)
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	return nil
}

// PublishReservationCreated feeds the activity log.
func (p *Publisher) PublishReservationCreated(ctx context.Context, ev ReservationCreatedEvent) error {
	return p.Publish(ctx, ReservationQueue, ev)
}

// Send queues msg for the mail worker. It satisfies the same contract as
// mail.Sender so callers do not know whether delivery is deferred.
func (p *Publisher) Send(ctx context.Context, msg mail.Message) error {
	if len(msg.To) == 0 {
		return mail.ErrNoRecipient
	}
	return p.Publish(ctx, p.mailQueue, msg)
}
