package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-space/internal/model"
)

// PaymentRepo persists payments. The link to the settled entity lives in
// exactly one of reservation_id, subscription_id and event_id.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentSelect = `SELECT id, type, montant, date, statut, user_id, reservation_id, subscription_id, event_id
	FROM payments`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var (
		p                   model.Payment
		typ, status         string
		user, res, sub, evt sql.NullInt64
	)
	err := row.Scan(&p.ID, &typ, &p.Amount, &p.Date, &status, &user, &res, &sub, &evt)
	if err != nil {
		return model.Payment{}, mapErr(err)
	}
	p.Type = model.PaymentType(typ)
	p.Status = model.PaymentStatus(status)
	p.UserID = idPtr(user)
	p.ReservationID = idPtr(res)
	p.SubscriptionID = idPtr(sub)
	p.EventID = idPtr(evt)
	return p, nil
}

// CreateTx inserts p within tx and sets its ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (type, montant, date, statut, user_id, reservation_id, subscription_id, event_id)
		 VALUES (?,?,?,?,?,?,?,?)`,
		string(p.Type), p.Amount, p.Date.UTC(), string(p.Status), nullableID(p.UserID),
		nullableID(p.ReservationID), nullableID(p.SubscriptionID), nullableID(p.EventID))
	if err != nil {
		return mapErr(err)
	}
	p.ID, err = insertID(res)
	return err
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx, paymentSelect+" WHERE id=?", id))
}

func (r *PaymentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Payment, error) {
	return scanPayment(tx.QueryRowContext(ctx, paymentSelect+" WHERE id=?", id))
}

// List returns payments newest first.
func (r *PaymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, paymentSelect+" ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateTx rewrites every column of p, links included.
func (r *PaymentRepo) UpdateTx(ctx context.Context, tx *sql.Tx, p model.Payment) error {
	return affected(tx.ExecContext(ctx,
		`UPDATE payments SET type=?, montant=?, date=?, statut=?, user_id=?, reservation_id=?, subscription_id=?, event_id=?
		 WHERE id=?`,
		string(p.Type), p.Amount, p.Date.UTC(), string(p.Status), nullableID(p.UserID),
		nullableID(p.ReservationID), nullableID(p.SubscriptionID), nullableID(p.EventID), p.ID))
}
