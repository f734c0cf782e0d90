package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(a AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupReq struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type forgotReq struct {
	Email string `json:"email"`
}

type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type authResp struct {
	Token          string     `json:"token"`
	Email          string     `json:"email"`
	Role           model.Role `json:"role"`
	UserID         uint64     `json:"userId"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	RefreshToken   string     `json:"refreshToken"`
	RefreshExpires time.Time  `json:"refreshExpiresAt"`
}

func toAuth(s service.Session) authResp {
	return authResp{
		Token:          s.AccessToken,
		Email:          s.User.Email,
		Role:           s.User.Role,
		UserID:         s.User.ID,
		ExpiresAt:      s.AccessExpires,
		RefreshToken:   s.RefreshToken,
		RefreshExpires: s.RefreshExpires,
	}
}

// SignIn checks the credentials and returns a token pair.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toAuth(sess))
}

// SignUp registers a COWORKER account. The client signs in afterwards.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.SignUp(ctx, service.SignupInput{
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  req.Password,
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully!",
		"user":    toUser(u),
	})
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refreshToken required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toAuth(sess))
}

// Logout revokes the given refresh token, or all of the caller's tokens
// when the body is empty and a bearer token is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken, uid); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return badRequest(c, "email required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, email); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Si un compte existe pour cet email, un lien de réinitialisation a été envoyé.",
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		return badRequest(c, "token/newPassword required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, strings.TrimSpace(req.Token), req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Mot de passe réinitialisé avec succès"})
}
