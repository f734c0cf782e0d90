package handler

import (
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// maxImageBytes caps profile picture uploads.
const maxImageBytes = 5 << 20

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// UserHandler serves /api/users and /api/profile.
type UserHandler struct {
	Users     UserService
	UploadDir string
}

func NewUserHandler(u UserService, uploadDir string) *UserHandler {
	return &UserHandler{Users: u, UploadDir: uploadDir}
}

type userReq struct {
	Username         *string     `json:"username"`
	FirstName        *string     `json:"firstName"`
	LastName         *string     `json:"lastName"`
	Email            *string     `json:"email"`
	Password         *string     `json:"password"`
	Phone            *string     `json:"phone"`
	Enabled          *bool       `json:"enabled"`
	ProfileImagePath *string     `json:"profileImagePath"`
	Type             *model.Role `json:"type"`
}

func (r userReq) input() service.UserInput {
	return service.UserInput{
		Username:         r.Username,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Password:         r.Password,
		Phone:            r.Phone,
		ProfileImagePath: r.ProfileImagePath,
		Role:             r.Type,
		Enabled:          r.Enabled,
	}
}

type profileReq struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Phone            *string `json:"phone"`
	ProfileImagePath *string `json:"profileImagePath"`
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mapList(users, toUser))
}

func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toUser(u))
}

// Get returns one user. Non-admins may only read themselves.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !sameUserOrStaff(c, id) {
		return forbidden(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

// Update applies a partial update. Only an ADMIN may change the role or
// the enabled flag.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !sameUserOrStaff(c, id) {
		return forbidden(c)
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if middleware.Role(c) != model.RoleAdmin {
		req.Type, req.Enabled = nil, nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Update(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

func (h *UserHandler) ToggleStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.ToggleStatus(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the caller's own account.
func (h *UserHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Profile(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, service.ProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		ProfileImagePath: req.ProfileImagePath,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

// UploadImage stores the multipart "file" under UploadDir/profiles and
// points the caller's profileImagePath at its public /uploads URL.
func (h *UserHandler) UploadImage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required")
	}
	if fh.Size > maxImageBytes {
		return badRequest(c, "file too large")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return badRequest(c, "unsupported image type")
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer src.Close()

	dir := filepath.Join(h.UploadDir, "profiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(c, err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fail(c, err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, maxImageBytes)); err != nil {
		dst.Close()
		return fail(c, err)
	}
	if err := dst.Close(); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	public := path.Join("/uploads", "profiles", name)
	u, err := h.Users.UpdateProfile(ctx, uid, service.ProfileUpdate{ProfileImagePath: &public})
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}
