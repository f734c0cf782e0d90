package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
)

// SpaceRepo persists open and private spaces in the spaces table. The type
// column discriminates the variants; prix_par_jour and amenities are only
// populated for PRIVE rows.
type SpaceRepo struct{ db *sql.DB }

func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceColumns = `id, name, description, capacity, photo_principal, gallery, is_active, type,
	prix_par_jour, amenities, created_at, updated_at`

func scanSpace(row interface{ Scan(...any) error }) (model.Space, error) {
	var (
		s         model.Space
		desc      sql.NullString
		gallery   sql.NullString
		typ       string
		price     decimal.NullDecimal
		amenities sql.NullString
	)
	err := row.Scan(&s.ID, &s.Name, &desc, &s.Capacity, &s.PhotoPrincipal, &gallery, &s.Active, &typ,
		&price, &amenities, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Space{}, mapErr(err)
	}
	s.Description = desc.String
	s.Type = model.SpaceType(typ)
	if s.Gallery, err = decodeList(gallery); err != nil {
		return model.Space{}, err
	}
	if s.Type == model.SpacePrivate {
		list, err := decodeList(amenities)
		if err != nil {
			return model.Space{}, err
		}
		s.Private = &model.PrivateDetails{PricePerDay: price.Decimal, Amenities: list}
	}
	return s, nil
}

// spaceArgs returns the column values shared by insert and update.
func spaceArgs(s model.Space) ([]any, error) {
	gallery, err := encodeList(s.Gallery)
	if err != nil {
		return nil, err
	}
	var price, amenities any
	if s.Type == model.SpacePrivate && s.Private != nil {
		price = s.Private.PricePerDay
		if amenities, err = encodeList(s.Private.Amenities); err != nil {
			return nil, err
		}
	}
	return []any{s.Name, s.Description, s.Capacity, s.PhotoPrincipal, gallery, s.Active, string(s.Type), price, amenities}, nil
}

// Create inserts s and sets its ID.
func (r *SpaceRepo) Create(ctx context.Context, s *model.Space) error {
	args, err := spaceArgs(*s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO spaces (name, description, capacity, photo_principal, gallery, is_active, type, prix_par_jour, amenities)
		 VALUES (?,?,?,?,?,?,?,?,?)`, args...)
	if err != nil {
		return mapErr(err)
	}
	s.ID, err = insertID(res)
	return err
}

// GetByID fetches one space of any type.
func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (model.Space, error) {
	return scanSpace(r.db.QueryRowContext(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE id=?", id))
}

// LockTx reads a space and holds its row lock until the transaction ends.
// Reservation creation takes this lock so that concurrent bookings of one
// space run their availability check one after the other.
func (r *SpaceRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Space, error) {
	return scanSpace(tx.QueryRowContext(ctx, "SELECT "+spaceColumns+" FROM spaces WHERE id=? FOR UPDATE", id))
}

// List returns spaces ordered by id, optionally restricted to one type.
func (r *SpaceRepo) List(ctx context.Context, typ *model.SpaceType) ([]model.Space, error) {
	q := "SELECT " + spaceColumns + " FROM spaces"
	var args []any
	if typ != nil {
		q += " WHERE type=?"
		args = append(args, string(*typ))
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Space{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns of s. The type never changes.
func (r *SpaceRepo) Update(ctx context.Context, s model.Space) error {
	args, err := spaceArgs(s)
	if err != nil {
		return err
	}
	// drop the type value, keep the rest in column order
	args = append(args[:6:6], args[7:]...)
	args = append(args, s.ID)
	return affected(r.db.ExecContext(ctx,
		`UPDATE spaces SET name=?, description=?, capacity=?, photo_principal=?, gallery=?, is_active=?,
		 prix_par_jour=?, amenities=? WHERE id=?`, args...))
}
