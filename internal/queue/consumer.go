package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/coworking-space/internal/mail"
)

// HandlerFunc processes one delivery body. A returned error rejects the
// message without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer drains one durable queue, reconnecting with exponential backoff
// whenever the broker connection drops.
type Consumer struct {
	URL      string
	Queue    string
	Prefetch int
	Handle   HandlerFunc
	Log      *slog.Logger
}

const maxBackoff = 30 * time.Second

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	log := c.Log.With("queue", c.Queue)
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("consumer dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			log.Info("consumer stopped")
			return
		}
		log.Warn("consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	prefetch := c.Prefetch
	if prefetch <= 0 {
		prefetch = 50
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Log.Warn("consumer set qos failed", "queue", c.Queue, "err", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.deliver(ctx, d)
		}
	}
}

// acknowledger is the part of amqp.Delivery deliver needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	c.process(ctx, d.Body, d)
}

func (c *Consumer) process(ctx context.Context, body []byte, ack acknowledger) {
	if err := c.Handle(ctx, body); err != nil {
		c.Log.Error("consumer handle message failed", "queue", c.Queue, "err", err)
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// mailSender is satisfied by *mail.Sender.
type mailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// MailHandler decodes queued mail jobs and delivers them.
func MailHandler(s mailSender) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var msg mail.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("unmarshal mail job: %w", err)
		}
		return s.Send(ctx, msg)
	}
}

// ActivityLog appends one line per reservation event to a file.
type ActivityLog struct {
	Path string
	mu   sync.Mutex
}

// NewActivityLog writes to dir/activity.log.
func NewActivityLog(dir string) *ActivityLog {
	return &ActivityLog{Path: filepath.Join(dir, "activity.log")}
}

// Handle is a HandlerFunc for ReservationQueue.
func (a *ActivityLog) Handle(_ context.Context, body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Reservation created | reservation_id=%d | user_id=%d | email=%q | space_id=%d | space=%q | type=%s | from=%s | to=%s | amount=%s TND | payment=%s\n",
		ev.CreatedAt, ev.ReservationID, ev.UserID, ev.UserEmail, ev.SpaceID, ev.SpaceName, ev.SpaceType,
		ev.Start, ev.End, ev.Amount, ev.PaymentStatus)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
