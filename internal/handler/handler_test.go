package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// newCtx builds an echo context for a JSON request, optionally as an
// authenticated user.
func newCtx(method, target, body string, uid uint64, role model.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set(middleware.KeyUserID, uid)
		c.Set(middleware.KeyRole, role)
	}
	return c, rec
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrBadRequest, http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrTokenAlreadyUsed, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrSubscriptionRequired, http.StatusUnprocessableEntity},
		{service.ErrUnavailable, http.StatusConflict},
		{service.ErrIllegalState, http.StatusConflict},
		{service.ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &service.Error{Kind: tc.kind, Message: "x"})
		assert.Equal(t, tc.want, statusOf(err), tc.kind.Error())
	}
	assert.Equal(t, http.StatusGatewayTimeout, statusOf(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("boom")))
}

func TestFailHidesUnexpectedErrors(t *testing.T) {
	c, rec := newCtx(http.MethodGet, "/", "", 0, "")
	require.NoError(t, fail(c, errors.New("dial tcp: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	c, rec = newCtx(http.MethodGet, "/", "", 0, "")
	require.NoError(t, fail(c, &service.Error{Kind: service.ErrUnavailable, Message: "Space not available for selected dates"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Space not available for selected dates"}`, rec.Body.String())
}

func TestReservationCreate(t *testing.T) {
	svc := new(mockReservations)
	h := NewReservationHandler(svc)

	amount := decimal.NewFromInt(120)
	start := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)
	status := model.PaymentValid
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateReservationInput) bool {
		return in.UserID == 5 && in.SpaceID == 3 && in.Start.Equal(start) && in.End.Equal(end) &&
			in.Amount != nil && in.Amount.Equal(amount) && in.PaymentValid != nil && *in.PaymentValid
	})).Return(model.ReservationDetail{
		Reservation: model.Reservation{
			ID: 9, UserID: 5, SpaceID: 3, Start: start, End: end, Status: model.ReservationPending,
		},
		UserFirstName: "Lina",
		SpaceName:     "Salle C",
		SpaceType:     model.SpacePrivate,
		PaymentAmount: &amount,
		PaymentStatus: &status,
	}, nil)

	body := `{"espaceId":3,"dateDebut":"2024-03-12T09:00:00","dateFin":"2024-03-12T18:00:00","paiementMontant":120,"paiementValide":true}`
	c, rec := newCtx(http.MethodPost, "/api/reservations", body, 5, model.RoleCoworker)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dateDebut":"2024-03-12T09:00:00"`)
	assert.Contains(t, rec.Body.String(), `"paiementMontant":120`)
	assert.Contains(t, rec.Body.String(), `"paiementValide":true`)
	assert.Contains(t, rec.Body.String(), `"statut":"EN_ATTENTE"`)
	svc.AssertExpectations(t)
}

func TestReservationCreateErrors(t *testing.T) {
	svc := new(mockReservations)
	h := NewReservationHandler(svc)

	c, rec := newCtx(http.MethodPost, "/api/reservations", `{"userId":6,"espaceId":3}`, 5, model.RoleCoworker)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.On("Create", mock.Anything, mock.Anything).Return(model.ReservationDetail{},
		&service.Error{Kind: service.ErrSubscriptionRequired, Message: "Active subscription required"}).Once()
	c, rec = newCtx(http.MethodPost, "/api/reservations", `{"espaceId":1,"dateDebut":"2024-03-12T09:00","dateFin":"2024-03-12T10:00"}`, 5, model.RoleCoworker)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Active subscription required"}`, rec.Body.String())
}

func TestReservationOwnership(t *testing.T) {
	svc := new(mockReservations)
	h := NewReservationHandler(svc)
	svc.On("Get", mock.Anything, uint64(9)).Return(model.ReservationDetail{
		Reservation: model.Reservation{ID: 9, UserID: 5},
	}, nil)

	get := func(uid uint64, role model.Role) int {
		c, rec := newCtx(http.MethodGet, "/api/reservations/9", "", uid, role)
		c.SetParamNames("id")
		c.SetParamValues("9")
		require.NoError(t, h.Get(c))
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, get(5, model.RoleCoworker))
	assert.Equal(t, http.StatusForbidden, get(6, model.RoleCoworker))
	assert.Equal(t, http.StatusOK, get(1, model.RoleReceptionist))

	c, rec := newCtx(http.MethodGet, "/api/reservations/user/6", "", 5, model.RoleCoworker)
	c.SetParamNames("userId")
	c.SetParamValues("6")
	require.NoError(t, h.ListByUser(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInvoicePDF(t *testing.T) {
	svc := new(mockInvoices)
	h := NewInvoiceHandler(svc)
	svc.On("DownloadPDF", mock.Anything, uint64(400)).Return([]byte("%PDF-1.3 test"), "facture_400.pdf", nil)
	svc.On("DownloadPDF", mock.Anything, uint64(401)).Return(nil, "",
		&service.Error{Kind: service.ErrNotFound, Message: "Invoice not found"})

	c, rec := newCtx(http.MethodGet, "/api/factures/400/pdf", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("400")
	require.NoError(t, h.PDF(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=facture_400.pdf", rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	c, rec = newCtx(http.MethodGet, "/api/factures/401/pdf", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("401")
	require.NoError(t, h.PDF(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newCtx(http.MethodGet, "/api/factures/abc/pdf", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.PDF(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthSignIn(t *testing.T) {
	svc := new(mockAuth)
	h := NewAuthHandler(svc)
	exp := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.On("SignIn", mock.Anything, "ana@example.com", "secret1").Return(service.Session{
		User:           model.User{ID: 4, Email: "ana@example.com", Role: model.RoleCoworker},
		AccessToken:    "access",
		AccessExpires:  exp,
		RefreshToken:   "refresh",
		RefreshExpires: exp.AddDate(0, 0, 7),
	}, nil)
	svc.On("SignIn", mock.Anything, "ana@example.com", "wrong").Return(service.Session{},
		&service.Error{Kind: service.ErrUnauthorized, Message: "Invalid email or password"})

	c, rec := newCtx(http.MethodPost, "/api/auth/signin", `{"email":" Ana@Example.com ","password":"secret1"}`, 0, "")
	require.NoError(t, h.SignIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"access"`)
	assert.Contains(t, rec.Body.String(), `"role":"COWORKER"`)
	assert.Contains(t, rec.Body.String(), `"userId":4`)
	assert.Contains(t, rec.Body.String(), `"refreshToken":"refresh"`)

	c, rec = newCtx(http.MethodPost, "/api/auth/signin", `{"email":"ana@example.com","password":"wrong"}`, 0, "")
	require.NoError(t, h.SignIn(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newCtx(http.MethodPost, "/api/auth/signin", `{"email":""}`, 0, "")
	require.NoError(t, h.SignIn(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthLogoutUsesCaller(t *testing.T) {
	svc := new(mockAuth)
	h := NewAuthHandler(svc)
	svc.On("Logout", mock.Anything, "", uint64(4)).Return(nil)

	c, rec := newCtx(http.MethodPost, "/api/auth/logout", `{}`, 4, model.RoleCoworker)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthResetPassword(t *testing.T) {
	svc := new(mockAuth)
	h := NewAuthHandler(svc)
	svc.On("ResetPassword", mock.Anything, "tok", "newpass").Return(
		&service.Error{Kind: service.ErrBadRequest, Message: "Token expiré"})

	c, rec := newCtx(http.MethodPost, "/api/auth/reset-password", `{"token":"tok","newPassword":"newpass"}`, 0, "")
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Token expiré"}`, rec.Body.String())
}

func TestSubscriptionCheckValid(t *testing.T) {
	svc := new(mockSubscriptions)
	h := NewSubscriptionHandler(svc)
	svc.On("HasValid", mock.Anything, uint64(5), uint64(2)).Return(true, nil)

	c, rec := newCtx(http.MethodGet, "/api/abonnements/check-valid/5/2", "", 5, model.RoleCoworker)
	c.SetParamNames("userId", "espaceOuvertId")
	c.SetParamValues("5", "2")
	require.NoError(t, h.CheckValid(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
}

func TestToSpaceShapes(t *testing.T) {
	open := toSpace(model.Space{ID: 1, Name: "Open", Type: model.SpaceOpen, Active: true})
	assert.Nil(t, open.PricePerDay)
	assert.Equal(t, []string{}, open.Gallery)

	private := toSpace(model.Space{ID: 2, Name: "Salle C", Type: model.SpacePrivate,
		Private: &model.PrivateDetails{PricePerDay: decimal.NewFromInt(80)}})
	require.NotNil(t, private.PricePerDay)
	assert.True(t, private.PricePerDay.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, []string{}, private.Amenities)
}
