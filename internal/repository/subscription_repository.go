package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-space/internal/model"
)

// SubscriptionRepo persists open-space plans (abonnements).
type SubscriptionRepo struct{ db *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const subscriptionSelect = `SELECT a.id, a.user_id, a.space_id, a.type, a.prix, a.date_debut, a.date_fin,
		a.paiement_id, a.created_at, u.email, s.name
	FROM subscriptions a
	JOIN users u  ON u.id = a.user_id
	JOIN spaces s ON s.id = a.space_id`

func scanSubscription(row interface{ Scan(...any) error }) (model.SubscriptionDetail, error) {
	var (
		d       model.SubscriptionDetail
		typ     string
		payment sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.UserID, &d.SpaceID, &typ, &d.Price, &d.Start, &d.End,
		&payment, &d.CreatedAt, &d.UserEmail, &d.SpaceName)
	if err != nil {
		return model.SubscriptionDetail{}, mapErr(err)
	}
	d.Type = model.SubscriptionType(typ)
	d.PaymentID = idPtr(payment)
	return d, nil
}

func scanSubscriptions(rows *sql.Rows) ([]model.SubscriptionDetail, error) {
	defer rows.Close()
	out := []model.SubscriptionDetail{}
	for rows.Next() {
		d, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateTx inserts s within tx and sets its ID.
func (r *SubscriptionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Subscription) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, space_id, type, prix, date_debut, date_fin, paiement_id)
		 VALUES (?,?,?,?,?,?,?)`,
		s.UserID, s.SpaceID, string(s.Type), s.Price, s.Start, s.End, nullableID(s.PaymentID))
	if err != nil {
		return mapErr(err)
	}
	s.ID, err = insertID(res)
	return err
}

// SetPaymentTx records the subscription side of the payment link.
func (r *SubscriptionRepo) SetPaymentTx(ctx context.Context, tx *sql.Tx, id, paymentID uint64) error {
	return affected(tx.ExecContext(ctx, "UPDATE subscriptions SET paiement_id=? WHERE id=?", paymentID, id))
}

func (r *SubscriptionRepo) GetDetail(ctx context.Context, id uint64) (model.SubscriptionDetail, error) {
	return scanSubscription(r.db.QueryRowContext(ctx, subscriptionSelect+" WHERE a.id=?", id))
}

// GetByIDTx reads a subscription inside tx.
func (r *SubscriptionRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Subscription, error) {
	d, err := scanSubscription(tx.QueryRowContext(ctx, subscriptionSelect+" WHERE a.id=?", id))
	return d.Subscription, err
}

// List returns all subscriptions, or those of one user when userID is set.
func (r *SubscriptionRepo) List(ctx context.Context, userID *uint64) ([]model.SubscriptionDetail, error) {
	q, args := subscriptionSelect, []any{}
	if userID != nil {
		q += " WHERE a.user_id=?"
		args = append(args, *userID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY a.date_debut DESC, a.id DESC", args...)
	if err != nil {
		return nil, err
	}
	return scanSubscriptions(rows)
}

const activeSubscriptionWhere = " WHERE a.user_id=? AND a.space_id=? AND a.date_debut<=? AND a.date_fin>=?"

// FindActiveTx returns the latest subscription of the user on the space
// covering day.
func (r *SubscriptionRepo) FindActiveTx(ctx context.Context, tx *sql.Tx, userID, spaceID uint64, day model.Date) (model.Subscription, error) {
	d, err := scanSubscription(tx.QueryRowContext(ctx,
		subscriptionSelect+activeSubscriptionWhere+" ORDER BY a.date_fin DESC, a.id DESC LIMIT 1",
		userID, spaceID, day, day))
	return d.Subscription, err
}

// HasActive reports whether any subscription of the user on the space
// covers day.
func (r *SubscriptionRepo) HasActive(ctx context.Context, userID, spaceID uint64, day model.Date) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions a`+activeSubscriptionWhere+`)`,
		userID, spaceID, day, day).Scan(&exists)
	return exists, err
}

// UpdateTx writes the plan, price and period of s.
func (r *SubscriptionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s model.Subscription) error {
	return affected(tx.ExecContext(ctx,
		"UPDATE subscriptions SET type=?, prix=?, date_debut=?, date_fin=? WHERE id=?",
		string(s.Type), s.Price, s.Start, s.End, s.ID))
}
