package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
)

// PaymentService is the back-office view on payments.
type PaymentService struct {
	tx            Transactor
	users         UserStore
	reservations  ReservationStore
	subscriptions SubscriptionStore
	events        EventStore
	payments      PaymentStore
	cascade       Cascader
	now           clock
}

func NewPaymentService(st Stores) *PaymentService {
	return &PaymentService{
		tx:            st.Tx,
		users:         st.Users,
		reservations:  st.Reservations,
		subscriptions: st.Subscriptions,
		events:        st.Events,
		payments:      st.Payments,
		cascade:       st.Cascade,
		now:           utcNow,
	}
}

// PaymentInput is the create and update payload. Only the id matching
// Type is used, the two others are ignored.
type PaymentInput struct {
	Type           model.PaymentType
	Amount         decimal.Decimal
	Date           *time.Time
	Status         model.PaymentStatus
	UserID         *uint64
	ReservationID  *uint64
	SubscriptionID *uint64
	EventID        *uint64
}

func (in PaymentInput) validate() error {
	switch {
	case in.Type == "":
		return badRequest("Payment type is required")
	case !in.Type.Valid():
		return badRequest("Invalid payment type")
	case in.Status == "":
		return badRequest("Payment status is required")
	case !in.Status.Valid():
		return badRequest("Invalid payment status")
	case in.Amount.IsNegative():
		return badRequest("Amount must not be negative")
	}
	return nil
}

// apply copies in onto p, resolving exactly one link from the type.
func (s *PaymentService) apply(ctx context.Context, tx *sql.Tx, in PaymentInput, p *model.Payment) error {
	p.Type = in.Type
	p.Amount = in.Amount
	p.Status = in.Status
	if in.Date != nil {
		p.Date = *in.Date
	} else if p.Date.IsZero() {
		p.Date = s.now()
	}
	if in.UserID != nil {
		if _, err := s.users.GetByID(ctx, *in.UserID); err != nil {
			return lookup(err, "User not found")
		}
		p.UserID = in.UserID
	}

	p.ReservationID, p.SubscriptionID, p.EventID = nil, nil, nil
	switch in.Type {
	case model.PaymentReservation:
		if in.ReservationID != nil {
			if _, err := s.reservations.GetByIDTx(ctx, tx, *in.ReservationID); err != nil {
				return lookup(err, "Reservation not found")
			}
			p.ReservationID = in.ReservationID
		}
	case model.PaymentSubscription:
		if in.SubscriptionID != nil {
			if _, err := s.subscriptions.GetByIDTx(ctx, tx, *in.SubscriptionID); err != nil {
				return lookup(err, "Subscription not found")
			}
			p.SubscriptionID = in.SubscriptionID
		}
	case model.PaymentEvent:
		if in.EventID != nil {
			if _, err := s.events.GetByID(ctx, *in.EventID); err != nil {
				return lookup(err, "Event not found")
			}
			p.EventID = in.EventID
		}
	}
	return nil
}

// backLink points an unpaid reservation or subscription at p.
func (s *PaymentService) backLink(ctx context.Context, tx *sql.Tx, p model.Payment) error {
	switch {
	case p.ReservationID != nil:
		res, err := s.reservations.GetByIDTx(ctx, tx, *p.ReservationID)
		if err != nil {
			return err
		}
		if res.PaymentID == nil {
			res.PaymentID = &p.ID
			return s.reservations.UpdateTx(ctx, tx, res)
		}
	case p.SubscriptionID != nil:
		sub, err := s.subscriptions.GetByIDTx(ctx, tx, *p.SubscriptionID)
		if err != nil {
			return err
		}
		if sub.PaymentID == nil {
			return s.subscriptions.SetPaymentTx(ctx, tx, sub.ID, p.ID)
		}
	}
	return nil
}

func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (model.Payment, error) {
	if err := in.validate(); err != nil {
		return model.Payment{}, err
	}
	var p model.Payment
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.apply(ctx, tx, in, &p); err != nil {
			return err
		}
		if err := s.payments.CreateTx(ctx, tx, &p); err != nil {
			return err
		}
		return s.backLink(ctx, tx, p)
	})
	return p, err
}

func (s *PaymentService) Update(ctx context.Context, id uint64, in PaymentInput) (model.Payment, error) {
	if err := in.validate(); err != nil {
		return model.Payment{}, err
	}
	var p model.Payment
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if p, err = s.payments.GetByIDTx(ctx, tx, id); err != nil {
			return lookup(err, "Payment not found")
		}
		if err := s.apply(ctx, tx, in, &p); err != nil {
			return err
		}
		if err := s.payments.UpdateTx(ctx, tx, p); err != nil {
			return err
		}
		return s.backLink(ctx, tx, p)
	})
	return p, err
}

// Delete removes the payment and its invoice.
func (s *PaymentService) Delete(ctx context.Context, id uint64) error {
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeletePaymentTx(ctx, tx, id), "Payment not found")
	})
}

func (s *PaymentService) Get(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	return p, lookup(err, "Payment not found")
}

func (s *PaymentService) List(ctx context.Context) ([]model.Payment, error) {
	return s.payments.List(ctx)
}
