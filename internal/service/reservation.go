package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/metrics"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/queue"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// ReservationService books spaces. Private spaces are paid per booking,
// open spaces require a running subscription.
type ReservationService struct {
	tx            Transactor
	users         UserStore
	spaces        SpaceStore
	reservations  ReservationStore
	subscriptions SubscriptionStore
	payments      PaymentStore
	cascade       Cascader
	availability  *Availability
	activity      ActivityPublisher
	now           clock
}

// NewReservationService wires the service. activity may be nil.
func NewReservationService(st Stores, activity ActivityPublisher) *ReservationService {
	return &ReservationService{
		tx:            st.Tx,
		users:         st.Users,
		spaces:        st.Spaces,
		reservations:  st.Reservations,
		subscriptions: st.Subscriptions,
		payments:      st.Payments,
		cascade:       st.Cascade,
		availability:  NewAvailability(st),
		activity:      activity,
		now:           utcNow,
	}
}

// CreateReservationInput is a booking request. Amount and PaymentValid
// only apply to private spaces.
type CreateReservationInput struct {
	UserID       uint64
	SpaceID      uint64
	Start        time.Time
	End          time.Time
	Amount       *decimal.Decimal
	PaymentValid *bool
}

// Create validates and books a reservation in one transaction. The space
// row is locked first so concurrent bookings of one space are serialized
// around the availability check.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (model.ReservationDetail, error) {
	if in.UserID == 0 || in.SpaceID == 0 {
		return model.ReservationDetail{}, badRequest("User ID and Space ID are required")
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return model.ReservationDetail{}, badRequest("Start and end dates are required")
	}
	if !in.End.After(in.Start) {
		return model.ReservationDetail{}, badRequest("End date must be after start date")
	}

	var (
		res   model.Reservation
		user  model.User
		space model.Space
		pay   model.Payment
	)
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if user, err = s.users.GetByID(ctx, in.UserID); err != nil {
			return lookup(err, "User not found")
		}
		if space, err = s.spaces.LockTx(ctx, tx, in.SpaceID); err != nil {
			return lookup(err, "Space not found")
		}

		if space.IsOpen() {
			sub, err := s.subscriptions.FindActiveTx(ctx, tx, user.ID, space.ID, model.NewDate(s.now()))
			if errors.Is(err, repository.ErrNotFound) {
				return newError(ErrSubscriptionRequired, "Active subscription required")
			}
			if err != nil {
				return err
			}
			if sub.PaymentID != nil {
				pay, err = s.payments.GetByIDTx(ctx, tx, *sub.PaymentID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}
		} else if in.Amount == nil || !in.Amount.IsPositive() {
			return badRequest("Payment amount must be positive")
		}

		ok, err := s.availability.IsAvailableTx(ctx, tx, space.ID, in.Start, in.End)
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrUnavailable, "Space not available for selected dates")
		}

		if space.IsPrivate() {
			pay = model.Payment{
				Type:   model.PaymentReservation,
				Amount: *in.Amount,
				Date:   s.now(),
				Status: model.StatusFromFlag(in.PaymentValid != nil && *in.PaymentValid),
				UserID: &user.ID,
			}
			if err := s.payments.CreateTx(ctx, tx, &pay); err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
		}

		res = model.Reservation{
			UserID:  user.ID,
			SpaceID: space.ID,
			Start:   in.Start,
			End:     in.End,
			Status:  model.ReservationPending,
		}
		if pay.ID != 0 {
			res.PaymentID = &pay.ID
		}
		if err := s.reservations.CreateTx(ctx, tx, &res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		if space.IsPrivate() {
			pay.ReservationID = &res.ID
			if err := s.payments.UpdateTx(ctx, tx, pay); err != nil {
				return fmt.Errorf("link payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return model.ReservationDetail{}, err
	}

	metrics.TrackReservationCreated(string(space.Type))
	s.publishCreated(ctx, res, user, space, pay)
	return s.reservations.GetDetail(ctx, res.ID)
}

func (s *ReservationService) publishCreated(ctx context.Context, res model.Reservation, user model.User, space model.Space, pay model.Payment) {
	if s.activity == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		SpaceID:       space.ID,
		SpaceName:     space.Name,
		SpaceType:     string(space.Type),
		Start:         res.Start.UTC().Format(time.RFC3339),
		End:           res.End.UTC().Format(time.RFC3339),
		Amount:        pay.Amount.String(),
		PaymentStatus: string(pay.Status),
		CreatedAt:     s.now().Format(time.RFC3339),
	}
	if err := s.activity.PublishReservationCreated(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish reservation.created failed",
			slog.Uint64("reservation_id", res.ID), slog.Any("err", err))
	}
}

// ReservationUpdate is a partial update. Nil fields are left unchanged.
type ReservationUpdate struct {
	Status       *model.ReservationStatus
	Start        *time.Time
	End          *time.Time
	Amount       *decimal.Decimal
	PaymentValid *bool
}

func (u ReservationUpdate) merge(r *model.Reservation) {
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Start != nil {
		r.Start = *u.Start
	}
	if u.End != nil {
		r.End = *u.End
	}
}

// Update applies u. A new amount updates the linked payment, or creates
// and links a RESERVATION payment when none exists. Availability is not
// re-checked.
func (s *ReservationService) Update(ctx context.Context, id uint64, u ReservationUpdate) (model.ReservationDetail, error) {
	if u.Status != nil && !u.Status.Valid() {
		return model.ReservationDetail{}, badRequest("Invalid reservation status")
	}
	if u.Amount != nil && u.Amount.IsNegative() {
		return model.ReservationDetail{}, badRequest("Payment amount must not be negative")
	}
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		res, err := s.reservations.GetByIDTx(ctx, tx, id)
		if err != nil {
			return lookup(err, "Reservation not found")
		}
		u.merge(&res)
		if !res.End.After(res.Start) {
			return badRequest("End date must be after start date")
		}

		if u.Amount != nil {
			if res.PaymentID != nil {
				pay, err := s.payments.GetByIDTx(ctx, tx, *res.PaymentID)
				if err != nil {
					return lookup(err, "Payment not found")
				}
				pay.Amount = *u.Amount
				if u.PaymentValid != nil {
					pay.Status = model.StatusFromFlag(*u.PaymentValid)
				}
				if err := s.payments.UpdateTx(ctx, tx, pay); err != nil {
					return err
				}
			} else {
				pay := model.Payment{
					Type:          model.PaymentReservation,
					Amount:        *u.Amount,
					Date:          s.now(),
					Status:        model.StatusFromFlag(u.PaymentValid != nil && *u.PaymentValid),
					UserID:        &res.UserID,
					ReservationID: &res.ID,
				}
				if err := s.payments.CreateTx(ctx, tx, &pay); err != nil {
					return err
				}
				res.PaymentID = &pay.ID
			}
		}
		return s.reservations.UpdateTx(ctx, tx, res)
	})
	if err != nil {
		return model.ReservationDetail{}, err
	}
	return s.reservations.GetDetail(ctx, id)
}

// Delete removes the reservation, its own payment and that payment's
// invoice.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeleteReservationTx(ctx, tx, id), "Reservation not found")
	})
}

func (s *ReservationService) Get(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	d, err := s.reservations.GetDetail(ctx, id)
	return d, lookup(err, "Reservation not found")
}

func (s *ReservationService) List(ctx context.Context) ([]model.ReservationDetail, error) {
	return s.reservations.List(ctx, repository.ReservationFilter{})
}

func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	return s.reservations.List(ctx, repository.ReservationFilter{UserID: &userID})
}

func (s *ReservationService) ListBySpace(ctx context.Context, spaceID uint64) ([]model.ReservationDetail, error) {
	return s.reservations.List(ctx, repository.ReservationFilter{SpaceID: &spaceID})
}
