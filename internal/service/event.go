package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/metrics"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// EventService manages events hosted in private spaces and their
// registrations.
type EventService struct {
	tx       Transactor
	users    UserStore
	spaces   SpaceStore
	events   EventStore
	payments PaymentStore
	cascade  Cascader
	now      clock
}

func NewEventService(st Stores) *EventService {
	return &EventService{
		tx:       st.Tx,
		users:    st.Users,
		spaces:   st.Spaces,
		events:   st.Events,
		payments: st.Payments,
		cascade:  st.Cascade,
		now:      utcNow,
	}
}

// Register adds the user to the event and opens a pending EVENEMENT
// payment for the event price. The event row stays locked until commit,
// so the capacity check cannot be raced.
func (s *EventService) Register(ctx context.Context, eventID, userID uint64) (model.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Event{}, lookup(err, "User not found")
	}
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		ev, err := s.events.LockTx(ctx, tx, eventID)
		if err != nil {
			return lookup(err, "Event not found")
		}
		switch {
		case ev.HasParticipant(userID):
			return illegalState("User already registered")
		case ev.Full():
			return illegalState("Event is full")
		}
		if err := s.events.AddParticipantTx(ctx, tx, eventID, userID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrConflict) {
				return illegalState("Registration failed: %v", err)
			}
			return err
		}
		pay := model.Payment{
			Type:    model.PaymentEvent,
			Amount:  ev.Price,
			Date:    s.now(),
			Status:  model.PaymentPending,
			UserID:  &userID,
			EventID: &eventID,
		}
		if err := s.payments.CreateTx(ctx, tx, &pay); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}
	metrics.TrackEventRegistration("register")
	return s.events.GetByID(ctx, eventID)
}

// Cancel removes the user's registration together with that user's
// payments and invoices for the event.
func (s *EventService) Cancel(ctx context.Context, eventID, userID uint64) (model.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Event{}, lookup(err, "User not found")
	}
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.events.LockTx(ctx, tx, eventID); err != nil {
			return lookup(err, "Event not found")
		}
		removed, err := s.cascade.DeleteEventParticipationTx(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return illegalState("User not registered")
		}
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}
	metrics.TrackEventRegistration("cancel")
	return s.events.GetByID(ctx, eventID)
}

// EventInput carries create and update payloads. On update nil fields
// keep their stored value.
type EventInput struct {
	Title           *string
	Description     *string
	StartDate       *time.Time
	EndDate         *time.Time
	Price           *decimal.Decimal
	MaxParticipants *int
	Active          *bool
	SpaceID         *uint64
}

func (in EventInput) merge(e *model.Event) {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		e.EndDate = *in.EndDate
	}
	if in.Price != nil {
		e.Price = *in.Price
	}
	if in.MaxParticipants != nil {
		e.MaxParticipants = *in.MaxParticipants
	}
	if in.Active != nil {
		e.Active = *in.Active
	}
	if in.SpaceID != nil {
		e.SpaceID = *in.SpaceID
	}
}

func validateEvent(e model.Event) error {
	switch {
	case e.Title == "":
		return badRequest("Title is required")
	case e.StartDate.IsZero() || e.EndDate.IsZero():
		return badRequest("Start and end dates are required")
	case e.EndDate.Before(e.StartDate):
		return badRequest("End date must be after start date")
	case e.MaxParticipants <= 0:
		return badRequest("Max participants must be positive")
	case e.Price.IsNegative():
		return badRequest("Price must not be negative")
	case e.SpaceID == 0:
		return badRequest("Space ID is required")
	}
	return nil
}

func (s *EventService) privateSpace(ctx context.Context, id uint64) error {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return lookup(err, "Private space not found")
	}
	if !space.IsPrivate() {
		return notFound("Private space not found")
	}
	return nil
}

// Create stores a new event. Events are active unless stated otherwise.
func (s *EventService) Create(ctx context.Context, in EventInput) (model.Event, error) {
	ev := model.Event{Active: true}
	in.merge(&ev)
	if err := validateEvent(ev); err != nil {
		return model.Event{}, err
	}
	if err := s.privateSpace(ctx, ev.SpaceID); err != nil {
		return model.Event{}, err
	}
	if err := s.events.Create(ctx, &ev); err != nil {
		return model.Event{}, err
	}
	return s.events.GetByID(ctx, ev.ID)
}

func (s *EventService) Update(ctx context.Context, id uint64, in EventInput) (model.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, lookup(err, "Event not found")
	}
	oldSpace := ev.SpaceID
	in.merge(&ev)
	if err := validateEvent(ev); err != nil {
		return model.Event{}, err
	}
	if ev.SpaceID != oldSpace {
		if err := s.privateSpace(ctx, ev.SpaceID); err != nil {
			return model.Event{}, err
		}
	}
	if err := s.events.Update(ctx, ev); err != nil {
		return model.Event{}, lookup(err, "Event not found")
	}
	return s.events.GetByID(ctx, id)
}

// Delete removes the event with its payments, invoices and participants.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeleteEventTx(ctx, tx, id), "Event not found")
	})
}

func (s *EventService) Get(ctx context.Context, id uint64) (model.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	return ev, lookup(err, "Event not found")
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}
