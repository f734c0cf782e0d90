package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
)

// ReservationRepo persists reservations. Timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to db.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationFilter narrows List. Nil fields are ignored.
type ReservationFilter struct {
	UserID  *uint64
	SpaceID *uint64
}

// CreateTx inserts res within tx and populates its ID and timestamps.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, space_id, date_debut, date_fin, statut, paiement_id) VALUES (?,?,?,?,?,?)`,
		res.UserID, res.SpaceID, res.Start.UTC(), res.End.UTC(), string(res.Status), nullableID(res.PaymentID))
	if err != nil {
		return mapErr(err)
	}
	id, err := insertID(result)
	if err != nil {
		return err
	}
	created, err := r.get(ctx, tx, id)
	if err != nil {
		return err
	}
	*res = created
	return nil
}

// GetByIDTx reads the bare reservation row within tx.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	return r.get(ctx, tx, id)
}

func (r *ReservationRepo) get(ctx context.Context, q DBTX, id uint64) (model.Reservation, error) {
	var (
		res     model.Reservation
		status  string
		payment sql.NullInt64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, space_id, date_debut, date_fin, statut, paiement_id, created_at, updated_at
		 FROM reservations WHERE id=?`, id).
		Scan(&res.ID, &res.UserID, &res.SpaceID, &res.Start, &res.End, &status, &payment, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, mapErr(err)
	}
	res.Status = model.ReservationStatus(status)
	res.PaymentID = idPtr(payment)
	return res, nil
}

const reservationDetailSelect = `SELECT r.id, r.user_id, r.space_id, r.date_debut, r.date_fin, r.statut, r.paiement_id,
		r.created_at, r.updated_at,
		u.first_name, u.last_name, u.email, u.phone,
		s.name, s.type,
		p.montant, p.statut
	FROM reservations r
	JOIN users u  ON u.id = r.user_id
	JOIN spaces s ON s.id = r.space_id
	LEFT JOIN payments p ON p.id = r.paiement_id`

func scanReservationDetail(row interface{ Scan(...any) error }) (model.ReservationDetail, error) {
	var (
		d         model.ReservationDetail
		status    string
		payment   sql.NullInt64
		phone     sql.NullString
		spaceType string
		amount    decimal.NullDecimal
		payStatus sql.NullString
	)
	err := row.Scan(&d.ID, &d.UserID, &d.SpaceID, &d.Start, &d.End, &status, &payment, &d.CreatedAt, &d.UpdatedAt,
		&d.UserFirstName, &d.UserLastName, &d.UserEmail, &phone,
		&d.SpaceName, &spaceType,
		&amount, &payStatus)
	if err != nil {
		return model.ReservationDetail{}, mapErr(err)
	}
	d.Status = model.ReservationStatus(status)
	d.PaymentID = idPtr(payment)
	d.UserPhone = strPtr(phone)
	d.SpaceType = model.SpaceType(spaceType)
	if amount.Valid {
		a := amount.Decimal
		d.PaymentAmount = &a
	}
	if payStatus.Valid {
		ps := model.PaymentStatus(payStatus.String)
		d.PaymentStatus = &ps
	}
	return d, nil
}

// GetDetail returns one reservation joined with its user, space and payment.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	return scanReservationDetail(r.db.QueryRowContext(ctx, reservationDetailSelect+" WHERE r.id=?", id))
}

// List returns reservation details ordered by start date.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.ReservationDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "r.user_id=?")
		args = append(args, *f.UserID)
	}
	if f.SpaceID != nil {
		where = append(where, "r.space_id=?")
		args = append(args, *f.SpaceID)
	}
	q := reservationDetailSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY r.date_debut, r.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateTx writes the status, window and payment link of res.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res model.Reservation) error {
	return affected(tx.ExecContext(ctx,
		`UPDATE reservations SET statut=?, date_debut=?, date_fin=?, paiement_id=? WHERE id=?`,
		string(res.Status), res.Start.UTC(), res.End.UTC(), nullableID(res.PaymentID), res.ID))
}

// CountOverlappingTx counts non-cancelled reservations of a space whose
// inclusive window [date_debut, date_fin] intersects [start, end].
func (r *ReservationRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE space_id=? AND statut<>'ANNULEE' AND date_debut<=? AND date_fin>=?`,
		spaceID, end.UTC(), start.UTC()).Scan(&n)
	return n, err
}
