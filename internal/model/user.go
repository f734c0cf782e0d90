package model

import "time"

// Role is the user type stored in users.role and carried in JWTs.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleCoworker     Role = "COWORKER"
	RoleReceptionist Role = "RECEPTIONISTE"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoworker, RoleReceptionist:
		return true
	}
	return false
}

// User mirrors the users table.
type User struct {
	ID               uint64    // users.id
	Username         string    // users.username (unique)
	FirstName        string    // users.first_name
	LastName         string    // users.last_name
	Email            string    // users.email (unique)
	PasswordHash     string    // users.password_hash, bcrypt
	Phone            *string   // users.phone (unique, nullable)
	Enabled          bool      // users.enabled
	ProfileImagePath *string   // users.profile_image_path (nullable)
	Role             Role      // users.role
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}

// RefreshToken models refresh_tokens. Only the SHA-256 hash of the raw
// token is persisted.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// PasswordResetToken models password_reset_tokens.
type PasswordResetToken struct {
	ID         uint64
	Token      string // 36 character UUID
	UserID     uint64
	ExpiryDate time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}
