package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coworking-space/internal/model"
)

type eventFixture struct {
	db    *memDB
	svc   *EventService
	space model.Space
	event model.Event
	alice model.User
	bob   model.User
}

func newEventFixture(t *testing.T, capacity int) eventFixture {
	t.Helper()
	db := newMemDB()
	svc := NewEventService(db.stores())
	svc.now = fixedClock(now)
	space := db.addSpace(model.Space{Name: "Salle B", Type: model.SpacePrivate})
	return eventFixture{
		db:    db,
		svc:   svc,
		space: space,
		event: db.addEvent(model.Event{Title: "Meetup Go", MaxParticipants: capacity, Active: true,
			Price: decimal.NewFromInt(15), SpaceID: space.ID, StartDate: day(20, 18), EndDate: day(20, 21)}),
		alice: db.addUser(model.User{Username: "alice", Email: "alice@example.com"}),
		bob:   db.addUser(model.User{Username: "bob", Email: "bob@example.com"}),
	}
}

func TestEventRegisterCreatesPayment(t *testing.T) {
	f := newEventFixture(t, 10)

	ev, err := f.svc.Register(context.Background(), f.event.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, ev.Participants, 1)
	assert.Equal(t, f.alice.ID, ev.Participants[0].UserID)

	require.Len(t, f.db.payments, 1)
	for _, p := range f.db.payments {
		assert.Equal(t, model.PaymentEvent, p.Type)
		assert.Equal(t, model.PaymentPending, p.Status)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, f.event.ID, *p.EventID)
		assert.Equal(t, f.alice.ID, *p.UserID)
	}
}

func TestEventRegisterTwiceIsIllegal(t *testing.T) {
	f := newEventFixture(t, 10)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, f.event.ID, f.alice.ID)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.event.ID, f.alice.ID)
	assert.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, "User already registered", Message(err))
	assert.Len(t, f.db.payments, 1)
}

func TestEventRegisterBeyondCapacity(t *testing.T) {
	f := newEventFixture(t, 1)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, f.event.ID, f.alice.ID)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.event.ID, f.bob.ID)
	assert.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, "Event is full", Message(err))
}

func TestEventRegisterIgnoresActiveFlag(t *testing.T) {
	f := newEventFixture(t, 5)
	e := f.db.events[f.event.ID]
	e.Active = false
	f.db.events[e.ID] = e

	ev, err := f.svc.Register(context.Background(), f.event.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, ev.Participants, 1)
}

func TestEventCancelRemovesOnlyThatUser(t *testing.T) {
	f := newEventFixture(t, 5)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, f.event.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, f.event.ID, f.bob.ID)
	require.NoError(t, err)
	var alicePay uint64
	for id, p := range f.db.payments {
		if *p.UserID == f.alice.ID {
			alicePay = id
		}
	}
	f.db.invoices[500] = model.Invoice{ID: 500, PaymentID: alicePay}

	ev, err := f.svc.Cancel(ctx, f.event.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, ev.Participants, 1)
	assert.Equal(t, f.bob.ID, ev.Participants[0].UserID)
	assert.Len(t, f.db.payments, 1)
	assert.Empty(t, f.db.invoices)

	_, err = f.svc.Cancel(ctx, f.event.ID, f.alice.ID)
	assert.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, "User not registered", Message(err))
}

func TestEventCancelUnknownUser(t *testing.T) {
	f := newEventFixture(t, 5)
	_, err := f.svc.Cancel(context.Background(), f.event.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", Message(err))
}

func TestEventCreateValidation(t *testing.T) {
	f := newEventFixture(t, 5)
	ctx := context.Background()
	title := "Atelier"
	start, end := day(21, 9), day(21, 12)
	seats := 20

	ev, err := f.svc.Create(ctx, EventInput{Title: &title, StartDate: &start, EndDate: &end, MaxParticipants: &seats, SpaceID: &f.space.ID})
	require.NoError(t, err)
	assert.True(t, ev.Active)
	assert.Equal(t, "Salle B", ev.SpaceName)

	open := f.db.addSpace(model.Space{Name: "Open", Type: model.SpaceOpen})
	_, err = f.svc.Create(ctx, EventInput{Title: &title, StartDate: &start, EndDate: &end, MaxParticipants: &seats, SpaceID: &open.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	before := start.Add(-time.Hour)
	_, err = f.svc.Create(ctx, EventInput{Title: &title, StartDate: &start, EndDate: &before, MaxParticipants: &seats, SpaceID: &f.space.ID})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestEventUpdateKeepsUnsetFields(t *testing.T) {
	f := newEventFixture(t, 5)
	title := "Meetup Go #2"

	ev, err := f.svc.Update(context.Background(), f.event.ID, EventInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, ev.Title)
	assert.Equal(t, 5, ev.MaxParticipants)
	assert.True(t, ev.Price.Equal(decimal.NewFromInt(15)))
}
