package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-space/internal/model"
)

type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewSelect = `SELECT a.id, a.user_id, a.space_id, a.rating, a.commentaire, a.date,
		u.username, u.first_name, u.last_name, s.name, s.type
	FROM reviews a
	JOIN users u  ON u.id = a.user_id
	JOIN spaces s ON s.id = a.space_id`

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var (
		rv      model.Review
		comment sql.NullString
		typ     string
	)
	err := row.Scan(&rv.ID, &rv.UserID, &rv.SpaceID, &rv.Rating, &comment, &rv.Date,
		&rv.UserUsername, &rv.UserFirstName, &rv.UserLastName, &rv.SpaceName, &typ)
	if err != nil {
		return model.Review{}, mapErr(err)
	}
	rv.Comment = comment.String
	rv.SpaceType = model.SpaceType(typ)
	return rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, space_id, rating, commentaire, date) VALUES (?,?,?,?,?)",
		rv.UserID, rv.SpaceID, rv.Rating, rv.Comment, rv.Date)
	if err != nil {
		return mapErr(err)
	}
	rv.ID, err = insertID(res)
	return err
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	return scanReview(r.db.QueryRowContext(ctx, reviewSelect+" WHERE a.id=?", id))
}

// List returns reviews newest first, optionally for one space.
func (r *ReviewRepo) List(ctx context.Context, spaceID *uint64) ([]model.Review, error) {
	q, args := reviewSelect, []any{}
	if spaceID != nil {
		q += " WHERE a.space_id=?"
		args = append(args, *spaceID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY a.date DESC, a.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id))
}
