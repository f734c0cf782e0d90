package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *mockAuth) SignUp(ctx context.Context, in service.SignupInput) (model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, raw string) (service.Session, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, raw string, userID uint64) error {
	return m.Called(ctx, raw, userID).Error(0)
}

func (m *mockAuth) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

type mockReservations struct{ mock.Mock }

func (m *mockReservations) Create(ctx context.Context, in service.CreateReservationInput) (model.ReservationDetail, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) Get(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) List(ctx context.Context) ([]model.ReservationDetail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) ListBySpace(ctx context.Context, spaceID uint64) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).([]model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) Update(ctx context.Context, id uint64, u service.ReservationUpdate) (model.ReservationDetail, error) {
	args := m.Called(ctx, id, u)
	return args.Get(0).(model.ReservationDetail), args.Error(1)
}

func (m *mockReservations) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockInvoices struct{ mock.Mock }

func (m *mockInvoices) Create(ctx context.Context, in service.InvoiceInput) (model.Invoice, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Invoice), args.Error(1)
}

func (m *mockInvoices) Get(ctx context.Context, id uint64) (model.Invoice, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Invoice), args.Error(1)
}

func (m *mockInvoices) List(ctx context.Context) ([]model.Invoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *mockInvoices) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoices) DownloadPDF(ctx context.Context, paymentID uint64) ([]byte, string, error) {
	args := m.Called(ctx, paymentID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type mockSubscriptions struct {
	mock.Mock
	SubscriptionService
}

func (m *mockSubscriptions) HasValid(ctx context.Context, userID, spaceID uint64) (bool, error) {
	args := m.Called(ctx, userID, spaceID)
	return args.Bool(0), args.Error(1)
}
