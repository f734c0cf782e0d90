package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/repository"
	"github.com/iliyamo/coworking-space/internal/utils"
)

// UserService administers accounts and serves the caller's own profile.
type UserService struct {
	tx         Transactor
	users      UserStore
	cascade    Cascader
	bcryptCost int
}

func NewUserService(st Stores, bcryptCost int) *UserService {
	return &UserService{tx: st.Tx, users: st.Users, cascade: st.Cascade, bcryptCost: bcryptCost}
}

// UserInput is the admin create/update payload. Nil fields are unchanged
// on update. Password is re-hashed only when non-empty.
type UserInput struct {
	Username         *string
	FirstName        *string
	LastName         *string
	Email            *string
	Password         *string
	Phone            *string
	ProfileImagePath *string
	Role             *model.Role
	Enabled          *bool
}

func (in UserInput) merge(u *model.User) {
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		u.Phone = optional(*in.Phone)
	}
	if in.ProfileImagePath != nil {
		u.ProfileImagePath = optional(*in.ProfileImagePath)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Enabled != nil {
		u.Enabled = *in.Enabled
	}
}

// optional maps "" to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *UserService) hash(plain string) (string, error) {
	if err := utils.CheckPassword(plain); err != nil {
		return "", badRequest("Password must be at least %d characters", utils.MinPasswordLength)
	}
	h, err := utils.HashPassword(plain, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func (s *UserService) save(ctx context.Context, u *model.User, create bool) error {
	if u.Username == "" || u.Email == "" {
		return badRequest("Username and email are required")
	}
	if !u.Role.Valid() {
		return badRequest("Invalid user type")
	}
	if err := checkUnique(ctx, s.users, u.ID, u.Username, u.Email, deref(u.Phone)); err != nil {
		return err
	}
	var err error
	if create {
		err = s.users.Create(ctx, u)
	} else {
		err = s.users.Update(ctx, *u)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return badRequest("Username, email or phone is already in use")
	}
	return err
}

// Create adds an enabled account. Role defaults to COWORKER.
func (s *UserService) Create(ctx context.Context, in UserInput) (model.User, error) {
	u := model.User{Role: model.RoleCoworker, Enabled: true}
	in.merge(&u)
	if in.Password == nil || *in.Password == "" {
		return model.User{}, badRequest("Password is required")
	}
	var err error
	if u.PasswordHash, err = s.hash(*in.Password); err != nil {
		return model.User{}, err
	}
	if err := s.save(ctx, &u, true); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, u.ID)
}

func (s *UserService) Update(ctx context.Context, id uint64, in UserInput) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, lookup(err, "User not found")
	}
	in.merge(&u)
	if in.Password != nil && *in.Password != "" {
		if u.PasswordHash, err = s.hash(*in.Password); err != nil {
			return model.User{}, err
		}
	}
	if err := s.save(ctx, &u, false); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, lookup(err, "User not found")
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// ToggleStatus flips the enabled flag.
func (s *UserService) ToggleStatus(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, lookup(err, "User not found")
	}
	u.Enabled = !u.Enabled
	if err := s.users.SetEnabled(ctx, id, u.Enabled); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete removes the user with reservations, subscriptions, reviews,
// event registrations and the payments and invoices attached to them.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeleteUserTx(ctx, tx, id), "User not found")
	})
}

// ProfileUpdate lists the fields a user may change on their own account.
type ProfileUpdate struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	ProfileImagePath *string
}

// Profile returns the caller's account.
func (s *UserService) Profile(ctx context.Context, userID uint64) (model.User, error) {
	return s.Get(ctx, userID)
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, p ProfileUpdate) (model.User, error) {
	return s.Update(ctx, userID, UserInput{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		ProfileImagePath: p.ProfileImagePath,
	})
}

// StaffAccount is an account ensured at startup.
type StaffAccount struct {
	Email    string
	Password string
	Role     model.Role
}

// EnsureStaff creates each account whose email is not registered yet.
// Accounts with an empty email are skipped.
func (s *UserService) EnsureStaff(ctx context.Context, accounts ...StaffAccount) error {
	log := logging.FromContext(ctx)
	for _, a := range accounts {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" {
			continue
		}
		_, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		username := email
		if i := strings.IndexByte(email, '@'); i > 0 {
			username = email[:i]
		}
		pass := a.Password
		_, err = s.Create(ctx, UserInput{
			Username:  &username,
			FirstName: ptr(staffName(a.Role)),
			Email:     &email,
			Password:  &pass,
			Role:      &a.Role,
		})
		if err != nil {
			return fmt.Errorf("seed %s account: %w", a.Role, err)
		}
		log.Info("seeded staff account", "email", email, "role", a.Role)
	}
	return nil
}

func staffName(r model.Role) string {
	if r == model.RoleAdmin {
		return "Admin"
	}
	return "Reception"
}

func ptr[T any](v T) *T { return &v }
