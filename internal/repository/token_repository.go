package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/coworking-space/internal/model"
)

// TokenRepo persists refresh token hashes.
type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return mapErr(err)
}

// ValidateRefresh returns the owner of a non-revoked, non-expired token.
// Unknown, revoked and expired tokens all yield ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, mapErr(err)
	}
	if revokedAt.Valid || !time.Now().UTC().Before(expiresAt) {
		return 0, ErrNotFound
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked. It returns ErrNotFound when no
// active row matched, so of two concurrent revocations only one succeeds.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash))
}

// RevokeAllForUser revokes every active token of a user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// ResetTokenRepo stores password reset tokens.
type ResetTokenRepo struct{ db *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{db: db} }

// Create inserts t and sets its ID.
func (r *ResetTokenRepo) Create(ctx context.Context, t *model.PasswordResetToken) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (token, user_id, expiry_date) VALUES (?,?,?)",
		t.Token, t.UserID, t.ExpiryDate)
	if err != nil {
		return mapErr(err)
	}
	t.ID, err = insertID(res)
	return err
}

// GetByToken returns the token row regardless of expiry.
func (r *ResetTokenRepo) GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.db.QueryRowContext(ctx,
		"SELECT id, token, user_id, expiry_date FROM password_reset_tokens WHERE token=? LIMIT 1", token).
		Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiryDate)
	return t, mapErr(err)
}

// Delete removes one token, or returns ErrNotFound when it is already gone.
func (r *ResetTokenRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE id=?", id))
}

// DeleteTx consumes a token inside tx. ErrNotFound means another request
// consumed it first.
func (r *ResetTokenRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return affected(tx.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE id=?", id))
}

// DeleteByUser removes all tokens of a user.
func (r *ResetTokenRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE user_id=?", userID)
	return err
}

// DeleteExpired removes tokens whose expiry is not after now and returns
// how many were removed.
func (r *ResetTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE expiry_date<=?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
