package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/coworking-space/internal/model"
)

// UnavailabilityRepo persists blackout windows of spaces.
type UnavailabilityRepo struct{ db *sql.DB }

func NewUnavailabilityRepo(db *sql.DB) *UnavailabilityRepo { return &UnavailabilityRepo{db: db} }

const unavailabilitySelect = `SELECT i.id, i.space_id, s.name, i.date_debut, i.date_fin, i.raison
	FROM unavailabilities i JOIN spaces s ON s.id = i.space_id`

func scanUnavailability(row interface{ Scan(...any) error }) (model.Unavailability, error) {
	var u model.Unavailability
	err := row.Scan(&u.ID, &u.SpaceID, &u.SpaceName, &u.Start, &u.End, &u.Reason)
	return u, mapErr(err)
}

func (r *UnavailabilityRepo) Create(ctx context.Context, u *model.Unavailability) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO unavailabilities (space_id, date_debut, date_fin, raison) VALUES (?,?,?,?)",
		u.SpaceID, u.Start.UTC(), u.End.UTC(), u.Reason)
	if err != nil {
		return mapErr(err)
	}
	u.ID, err = insertID(res)
	return err
}

func (r *UnavailabilityRepo) GetByID(ctx context.Context, id uint64) (model.Unavailability, error) {
	return scanUnavailability(r.db.QueryRowContext(ctx, unavailabilitySelect+" WHERE i.id=?", id))
}

func (r *UnavailabilityRepo) List(ctx context.Context) ([]model.Unavailability, error) {
	rows, err := r.db.QueryContext(ctx, unavailabilitySelect+" ORDER BY i.date_debut, i.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Unavailability{}
	for rows.Next() {
		u, err := scanUnavailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnavailabilityRepo) Update(ctx context.Context, u model.Unavailability) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE unavailabilities SET space_id=?, date_debut=?, date_fin=?, raison=? WHERE id=?",
		u.SpaceID, u.Start.UTC(), u.End.UTC(), u.Reason, u.ID))
}

func (r *UnavailabilityRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM unavailabilities WHERE id=?", id))
}

// CountOverlappingTx counts windows on the space with
// date_debut <= end AND date_fin >= start.
func (r *UnavailabilityRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM unavailabilities WHERE space_id=? AND date_debut<=? AND date_fin>=?",
		spaceID, end.UTC(), start.UTC()).Scan(&n)
	return n, err
}
