package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coworking-space/internal/mail"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
	err       error
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { f.closed = true; return nil }

func newTestPublisher(ch *fakeChannel) *Publisher {
	p := NewPublisher("amqp://test", "mail.outbound", quietLogger())
	p.open = func(string) (channel, func(), error) { return ch, func() {}, nil }
	return p
}

func TestPublisherSendsPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.PublishReservationCreated(context.Background(), ReservationCreatedEvent{ReservationID: 12, SpaceName: "Salle A"})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{ReservationQueue}, ch.declared)
	assert.Equal(t, ReservationQueue, ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var ev ReservationCreatedEvent
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &ev))
	assert.Equal(t, uint64(12), ev.ReservationID)
	assert.True(t, ch.closed)
}

func TestPublisherMailGoesToMailQueue(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.Send(context.Background(), mail.Message{To: []string{"a@b.c"}, Subject: "s",
		Attachments: []mail.Attachment{{Name: "f.pdf", Data: []byte{0x25, 0x50}}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"mail.outbound"}, ch.keys)

	var msg mail.Message
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &msg))
	assert.Equal(t, []byte{0x25, 0x50}, msg.Attachments[0].Data)

	assert.ErrorIs(t, p.Send(context.Background(), mail.Message{}), mail.ErrNoRecipient)
}

func TestPublisherDisabledAndErrors(t *testing.T) {
	p := NewPublisher("", "mail.outbound", quietLogger())
	assert.ErrorIs(t, p.Publish(context.Background(), "q", 1), ErrDisabled)

	ch := &fakeChannel{err: errors.New("channel closed")}
	assert.ErrorContains(t, newTestPublisher(ch).Publish(context.Background(), "q", 1), "channel closed")
}

type ackMock struct{ mock.Mock }

func (m *ackMock) Ack(multiple bool) error { return m.Called(multiple).Error(0) }

func (m *ackMock) Nack(multiple, requeue bool) error { return m.Called(multiple, requeue).Error(0) }

func TestConsumerAcksAndRejects(t *testing.T) {
	c := &Consumer{Queue: "q", Log: quietLogger(), Handle: func(_ context.Context, body []byte) error {
		if string(body) == "bad" {
			return errors.New("bad body")
		}
		return nil
	}}

	ok := &ackMock{}
	ok.On("Ack", false).Return(nil).Once()
	c.process(context.Background(), []byte("good"), ok)
	ok.AssertExpectations(t)

	bad := &ackMock{}
	bad.On("Nack", false, false).Return(nil).Once()
	c.process(context.Background(), []byte("bad"), bad)
	bad.AssertExpectations(t)
}

type recordingSender struct{ got []mail.Message }

func (r *recordingSender) Send(_ context.Context, m mail.Message) error {
	r.got = append(r.got, m)
	return nil
}

func TestMailHandler(t *testing.T) {
	s := &recordingSender{}
	h := MailHandler(s)

	body, _ := json.Marshal(mail.Message{To: []string{"x@y.z"}, Subject: "Votre facture Coworking Space"})
	require.NoError(t, h(context.Background(), body))
	require.Len(t, s.got, 1)
	assert.Equal(t, "Votre facture Coworking Space", s.got[0].Subject)

	assert.Error(t, h(context.Background(), []byte("{")))
}

func TestActivityLogAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	a := NewActivityLog(dir)
	for _, id := range []uint64{1, 2} {
		body, _ := json.Marshal(ReservationCreatedEvent{ReservationID: id, SpaceName: "Open", Amount: "650", PaymentStatus: "VALIDE"})
		require.NoError(t, a.Handle(context.Background(), body))
	}
	data, err := os.ReadFile(filepath.Join(dir, "activity.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "reservation_id=1")
	assert.Contains(t, string(data), "reservation_id=2")
	assert.Contains(t, string(data), "amount=650 TND")
}

func TestSleepHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}
