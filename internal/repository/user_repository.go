package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/coworking-space/internal/model"
)

// UserField names a unique column usable with UserRepo.Exists.
type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
	UserFieldPhone    UserField = "phone"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, first_name, last_name, email, password_hash, phone,
	enabled, profile_image_path, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u     model.User
		phone sql.NullString
		image sql.NullString
		role  string
	)
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&phone, &u.Enabled, &image, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	u.Phone = strPtr(phone)
	u.ProfileImagePath = strPtr(image)
	u.Role = model.Role(role)
	return u, nil
}

// Create inserts u (email normalized to lower case) and sets its ID.
// Unique violations on username, email or phone return ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, first_name, last_name, email, password_hash, phone, enabled, profile_image_path, role)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash, nullableStr(u.Phone),
		u.Enabled, nullableStr(u.ProfileImagePath), string(u.Role))
	if err != nil {
		return mapErr(err)
	}
	u.ID, err = insertID(res)
	return err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// Exists reports whether a user other than exceptID already uses value in
// the given unique column. Pass exceptID=0 when creating.
func (r *UserRepo) Exists(ctx context.Context, field UserField, value string, exceptID uint64) (bool, error) {
	switch field {
	case UserFieldUsername, UserFieldPhone:
	case UserFieldEmail:
		value = normalizeEmail(value)
	default:
		return false, nil
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+string(field)+"=? AND id<>?", value, exceptID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
}

// ListByRole returns the users having role.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users WHERE role=? ORDER BY id", string(role))
}

func (r *UserRepo) list(ctx context.Context, q string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update writes every mutable profile column of u.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username=?, first_name=?, last_name=?, email=?, password_hash=?, phone=?,
		 enabled=?, profile_image_path=?, role=? WHERE id=?`,
		u.Username, u.FirstName, u.LastName, normalizeEmail(u.Email), u.PasswordHash, nullableStr(u.Phone),
		u.Enabled, nullableStr(u.ProfileImagePath), string(u.Role), u.ID)
	return mapErr(err)
}

// UpdatePasswordTx replaces the bcrypt hash of a user inside tx.
func (r *UserRepo) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, hash string) error {
	return affected(tx.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id))
}

// SetEnabled toggles the enabled flag.
func (r *UserRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET enabled=? WHERE id=?", enabled, id)
	return mapErr(err)
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
