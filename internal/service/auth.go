package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/mail"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/repository"
	"github.com/iliyamo/coworking-space/internal/utils"
)

// AuthConfig holds token lifetimes and links used by AuthService.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
	ResetTTLHours  int
	FrontendURL    string
}

// ResetPasswordSubject is the subject of password reset emails.
const ResetPasswordSubject = "Réinitialisation de votre mot de passe"

// AuthService signs users in and out and runs the password reset flow.
type AuthService struct {
	tx          Transactor
	users       UserStore
	tokens      TokenStore
	resetTokens ResetTokenStore
	mailer      Mailer
	cfg         AuthConfig
	now         clock
}

func NewAuthService(st Stores, mailer Mailer, cfg AuthConfig) *AuthService {
	return &AuthService{
		tx:          st.Tx,
		users:       st.Users,
		tokens:      st.Tokens,
		resetTokens: st.ResetTokens,
		mailer:      mailer,
		cfg:         cfg,
		now:         utcNow,
	}
}

// Session is the result of a sign in or refresh.
type Session struct {
	User           model.User
	AccessToken    string
	AccessExpires  time.Time
	RefreshToken   string
	RefreshExpires time.Time
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, string(u.Role), u.Email, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, fmt.Errorf("store refresh token: %w", err)
	}
	return Session{
		User:           u,
		AccessToken:    access.Token,
		AccessExpires:  access.Exp,
		RefreshToken:   refresh.Raw,
		RefreshExpires: refresh.Exp,
	}, nil
}

// SignIn checks credentials. Unknown emails, wrong passwords and disabled
// accounts all yield Unauthorized.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, badRequest("Email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, newError(ErrUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, newError(ErrUnauthorized, "Invalid credentials")
	}
	if !u.Enabled {
		return Session{}, newError(ErrUnauthorized, "Account is disabled")
	}
	return s.issue(ctx, u)
}

// SignupInput is the self-registration payload.
type SignupInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// SignUp registers an enabled COWORKER.
func (s *AuthService) SignUp(ctx context.Context, in SignupInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return model.User{}, badRequest("Username, email and password are required")
	}
	if err := utils.CheckPassword(in.Password); err != nil {
		return model.User{}, badRequest("Password must be at least %d characters", utils.MinPasswordLength)
	}
	if err := checkUnique(ctx, s.users, 0, in.Username, in.Email, in.Phone); err != nil {
		return model.User{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Enabled:      true,
		Role:         model.RoleCoworker,
	}
	if in.Phone != "" {
		u.Phone = &in.Phone
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, badRequest("Username, email or phone is already in use")
		}
		return model.User{}, err
	}
	return u, nil
}

// checkUnique reports the first unique column already used by another
// user. Empty values are skipped.
func checkUnique(ctx context.Context, users UserStore, exceptID uint64, username, email, phone string) error {
	checks := []struct {
		field repository.UserField
		value string
		msg   string
	}{
		{repository.UserFieldUsername, username, "Username is already taken"},
		{repository.UserFieldEmail, email, "Email is already in use"},
		{repository.UserFieldPhone, phone, "Phone is already in use"},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		taken, err := users.Exists(ctx, c.field, c.value, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return badRequest("%s", c.msg)
		}
	}
	return nil
}

// Refresh rotates a refresh token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, badRequest("Refresh token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, newError(ErrInvalidToken, "Invalid refresh token")
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.revoke(ctx, hash); err != nil {
		return Session{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, lookup(err, "User not found")
	}
	if !u.Enabled {
		return Session{}, newError(ErrUnauthorized, "Account is disabled")
	}
	return s.issue(ctx, u)
}

// revoke consumes a validated refresh token. Losing the race to a
// concurrent request with the same token is reported as already used.
func (s *AuthService) revoke(ctx context.Context, hash string) error {
	err := s.tokens.RevokeByHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrTokenAlreadyUsed, "Refresh token already used")
	}
	return err
}

// Logout revokes one refresh token, or every token of userID when raw is
// empty.
func (s *AuthService) Logout(ctx context.Context, raw string, userID uint64) error {
	raw = strings.TrimSpace(raw)
	switch {
	case raw != "":
		hash := utils.HashRefreshRaw(raw)
		if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(ErrInvalidToken, "Invalid refresh token")
			}
			return err
		}
		return s.revoke(ctx, hash)
	case userID != 0:
		return s.tokens.RevokeAllForUser(ctx, userID)
	default:
		return badRequest("Provide an Authorization header or a refresh token")
	}
}

// ForgotPassword mails a reset link. Unknown emails succeed silently so
// the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logging.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return badRequest("Email is required")
	}
	if n, err := s.resetTokens.DeleteExpired(ctx, s.now()); err != nil {
		log.Warn("sweep expired reset tokens failed", "err", err)
	} else if n > 0 {
		log.Debug("swept expired reset tokens", "count", n)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.resetTokens.DeleteByUser(ctx, u.ID); err != nil {
		return err
	}
	tok := model.PasswordResetToken{
		Token:      utils.NewResetToken(),
		UserID:     u.ID,
		ExpiryDate: s.now().Add(time.Duration(s.cfg.ResetTTLHours) * time.Hour),
	}
	if err := s.resetTokens.Create(ctx, &tok); err != nil {
		return err
	}

	link := strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(tok.Token)
	html, err := mail.Render(mail.TemplateResetPassword, mail.ResetPasswordData{
		FirstName: u.FirstName,
		Link:      link,
		TTLHours:  s.cfg.ResetTTLHours,
	})
	if err == nil {
		err = s.mailer.Send(ctx, mail.Message{To: []string{u.Email}, Subject: ResetPasswordSubject, HTML: html})
	}
	if err != nil {
		log.Error("send reset password email failed", "user_id", u.ID, "err", err)
	}
	return nil
}

// ResetPassword sets a new password from a reset token. The token is
// single use.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	log := logging.FromContext(ctx)
	token = strings.TrimSpace(token)
	if token == "" {
		return badRequest("Token invalide ou expiré")
	}
	if err := utils.CheckPassword(password); err != nil {
		return badRequest("Password must be at least %d characters", utils.MinPasswordLength)
	}
	t, err := s.resetTokens.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return badRequest("Token invalide ou expiré")
	}
	if err != nil {
		return err
	}
	if t.Expired(s.now()) {
		if err := s.resetTokens.Delete(ctx, t.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Warn("delete expired reset token failed", "err", err)
		}
		return badRequest("Token expiré")
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// The token row is consumed before the password changes, in one
	// transaction, so a replayed token cannot set a second password.
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.resetTokens.DeleteTx(ctx, tx, t.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(ErrTokenAlreadyUsed, "Token déjà utilisé")
			}
			return err
		}
		return lookup(s.users.UpdatePasswordTx(ctx, tx, t.UserID, hash), "User not found")
	})
	if err != nil {
		return err
	}
	if err := s.tokens.RevokeAllForUser(ctx, t.UserID); err != nil {
		log.Warn("revoke sessions after password reset failed", "user_id", t.UserID, "err", err)
	}
	if _, err := s.resetTokens.DeleteExpired(ctx, s.now()); err != nil {
		log.Warn("sweep expired reset tokens failed", "err", err)
	}
	return nil
}
