package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// SubscriptionService manages open-space plans and their payments.
type SubscriptionService struct {
	tx            Transactor
	users         UserStore
	spaces        SpaceStore
	subscriptions SubscriptionStore
	payments      PaymentStore
	cascade       Cascader
	now           clock
}

func NewSubscriptionService(st Stores) *SubscriptionService {
	return &SubscriptionService{
		tx:            st.Tx,
		users:         st.Users,
		spaces:        st.Spaces,
		subscriptions: st.Subscriptions,
		payments:      st.Payments,
		cascade:       st.Cascade,
		now:           utcNow,
	}
}

// SubscriptionInput describes a new plan. A nil or non-positive Price
// uses the plan's list price, a zero Start means today.
type SubscriptionInput struct {
	UserID  uint64
	SpaceID uint64
	Type    model.SubscriptionType
	Price   *decimal.Decimal
	Start   model.Date
}

func (s *SubscriptionService) openSpace(ctx context.Context, id uint64) (model.Space, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return model.Space{}, lookup(err, "Open space not found")
	}
	if !space.IsOpen() {
		return model.Space{}, notFound("Open space not found")
	}
	return space, nil
}

// Create stores the plan with a pending ABONNEMENT payment linked both
// ways.
func (s *SubscriptionService) Create(ctx context.Context, in SubscriptionInput) (model.SubscriptionDetail, error) {
	if in.UserID == 0 || in.SpaceID == 0 {
		return model.SubscriptionDetail{}, badRequest("User ID and Space ID are required")
	}
	if !in.Type.Valid() {
		return model.SubscriptionDetail{}, badRequest("Invalid subscription type")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return model.SubscriptionDetail{}, lookup(err, "User not found")
	}
	if _, err := s.openSpace(ctx, in.SpaceID); err != nil {
		return model.SubscriptionDetail{}, err
	}

	var sub model.Subscription
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		sub, err = s.createTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return model.SubscriptionDetail{}, err
	}
	return s.subscriptions.GetDetail(ctx, sub.ID)
}

func (s *SubscriptionService) createTx(ctx context.Context, tx *sql.Tx, in SubscriptionInput) (model.Subscription, error) {
	price := in.Type.DefaultPrice()
	if in.Price != nil && in.Price.IsPositive() {
		price = *in.Price
	}
	start := in.Start
	if start.IsZero() {
		start = model.NewDate(s.now())
	}
	sub := model.Subscription{
		UserID:  in.UserID,
		SpaceID: in.SpaceID,
		Type:    in.Type,
		Price:   price,
		Start:   start,
		End:     in.Type.EndDate(start),
	}
	if err := s.subscriptions.CreateTx(ctx, tx, &sub); err != nil {
		return model.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	pay := model.Payment{
		Type:           model.PaymentSubscription,
		Amount:         price,
		Date:           s.now(),
		Status:         model.PaymentPending,
		UserID:         &sub.UserID,
		SubscriptionID: &sub.ID,
	}
	if err := s.payments.CreateTx(ctx, tx, &pay); err != nil {
		return model.Subscription{}, fmt.Errorf("create payment: %w", err)
	}
	if err := s.subscriptions.SetPaymentTx(ctx, tx, sub.ID, pay.ID); err != nil {
		return model.Subscription{}, fmt.Errorf("link payment: %w", err)
	}
	sub.PaymentID = &pay.ID
	return sub, nil
}

// CreateForAllCoworkers subscribes every COWORKER user to one open space
// in a single transaction.
func (s *SubscriptionService) CreateForAllCoworkers(ctx context.Context, in SubscriptionInput) ([]model.SubscriptionDetail, error) {
	if !in.Type.Valid() {
		return nil, badRequest("Invalid subscription type")
	}
	if _, err := s.openSpace(ctx, in.SpaceID); err != nil {
		return nil, err
	}
	coworkers, err := s.users.ListByRole(ctx, model.RoleCoworker)
	if err != nil {
		return nil, err
	}
	if len(coworkers) == 0 {
		return nil, notFound("No coworkers found")
	}

	ids := make([]uint64, 0, len(coworkers))
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		for _, u := range coworkers {
			one := in
			one.UserID = u.ID
			sub, err := s.createTx(ctx, tx, one)
			if err != nil {
				return fmt.Errorf("subscribe user %d: %w", u.ID, err)
			}
			ids = append(ids, sub.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.SubscriptionDetail, 0, len(ids))
	for _, id := range ids {
		d, err := s.subscriptions.GetDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// HasValid reports whether the user holds a subscription on the space
// covering today.
func (s *SubscriptionService) HasValid(ctx context.Context, userID, spaceID uint64) (bool, error) {
	return s.subscriptions.HasActive(ctx, userID, spaceID, model.NewDate(s.now()))
}

func (s *SubscriptionService) Get(ctx context.Context, id uint64) (model.SubscriptionDetail, error) {
	d, err := s.subscriptions.GetDetail(ctx, id)
	return d, lookup(err, "Subscription not found")
}

func (s *SubscriptionService) List(ctx context.Context) ([]model.SubscriptionDetail, error) {
	return s.subscriptions.List(ctx, nil)
}

// ListByUser returns NotFound when the user has no subscription.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID uint64) ([]model.SubscriptionDetail, error) {
	list, err := s.subscriptions.List(ctx, &userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound("No subscriptions found for user")
	}
	return list, nil
}

// SubscriptionUpdate is a partial update. Changing Type or Start
// recomputes the end date, changing Price also reprices the payment.
type SubscriptionUpdate struct {
	Type  *model.SubscriptionType
	Price *decimal.Decimal
	Start *model.Date
}

func (u SubscriptionUpdate) merge(sub *model.Subscription) (reperiod, reprice bool) {
	if u.Type != nil && *u.Type != sub.Type {
		sub.Type = *u.Type
		reperiod = true
	}
	if u.Start != nil && !u.Start.IsZero() && !u.Start.Equal(sub.Start.Time) {
		sub.Start = *u.Start
		reperiod = true
	}
	if u.Price != nil && !u.Price.Equal(sub.Price) {
		sub.Price = *u.Price
		reprice = true
	}
	if reperiod {
		sub.End = sub.Type.EndDate(sub.Start)
	}
	return reperiod, reprice
}

func (s *SubscriptionService) Update(ctx context.Context, id uint64, u SubscriptionUpdate) (model.SubscriptionDetail, error) {
	if u.Type != nil && !u.Type.Valid() {
		return model.SubscriptionDetail{}, badRequest("Invalid subscription type")
	}
	if u.Price != nil && u.Price.IsNegative() {
		return model.SubscriptionDetail{}, badRequest("Price must not be negative")
	}
	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		sub, err := s.subscriptions.GetByIDTx(ctx, tx, id)
		if err != nil {
			return lookup(err, "Subscription not found")
		}
		_, reprice := u.merge(&sub)
		if reprice && sub.PaymentID != nil {
			pay, err := s.payments.GetByIDTx(ctx, tx, *sub.PaymentID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			default:
				pay.Amount = sub.Price
				if err := s.payments.UpdateTx(ctx, tx, pay); err != nil {
					return err
				}
			}
		}
		return s.subscriptions.UpdateTx(ctx, tx, sub)
	})
	if err != nil {
		return model.SubscriptionDetail{}, err
	}
	return s.subscriptions.GetDetail(ctx, id)
}

// Delete removes the subscription with its payments and invoices.
func (s *SubscriptionService) Delete(ctx context.Context, id uint64) error {
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeleteSubscriptionTx(ctx, tx, id), "Subscription not found")
	})
}

// Price returns the list price of a plan.
func (s *SubscriptionService) Price(typ model.SubscriptionType) (decimal.Decimal, error) {
	if !typ.Valid() {
		return decimal.Zero, badRequest("Invalid subscription type")
	}
	return typ.DefaultPrice(), nil
}
