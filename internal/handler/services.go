package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/service"
)

// The interfaces below are the subset of each service used over HTTP.
// The *service.XxxService types satisfy them.

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (service.Session, error)
	SignUp(ctx context.Context, in service.SignupInput) (model.User, error)
	Refresh(ctx context.Context, raw string) (service.Session, error)
	Logout(ctx context.Context, raw string, userID uint64) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type UserService interface {
	Create(ctx context.Context, in service.UserInput) (model.User, error)
	Get(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, in service.UserInput) (model.User, error)
	ToggleStatus(ctx context.Context, id uint64) (model.User, error)
	Delete(ctx context.Context, id uint64) error
	Profile(ctx context.Context, userID uint64) (model.User, error)
	UpdateProfile(ctx context.Context, userID uint64, p service.ProfileUpdate) (model.User, error)
}

type SpaceService interface {
	Create(ctx context.Context, typ model.SpaceType, in service.SpaceInput) (model.Space, error)
	Get(ctx context.Context, id uint64, typ *model.SpaceType) (model.Space, error)
	List(ctx context.Context, typ *model.SpaceType) ([]model.Space, error)
	Update(ctx context.Context, id uint64, typ *model.SpaceType, in service.SpaceInput) (model.Space, error)
	Delete(ctx context.Context, id uint64, typ *model.SpaceType) error
}

type ReservationService interface {
	Create(ctx context.Context, in service.CreateReservationInput) (model.ReservationDetail, error)
	Get(ctx context.Context, id uint64) (model.ReservationDetail, error)
	List(ctx context.Context) ([]model.ReservationDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error)
	ListBySpace(ctx context.Context, spaceID uint64) ([]model.ReservationDetail, error)
	Update(ctx context.Context, id uint64, u service.ReservationUpdate) (model.ReservationDetail, error)
	Delete(ctx context.Context, id uint64) error
}

type SubscriptionService interface {
	Create(ctx context.Context, in service.SubscriptionInput) (model.SubscriptionDetail, error)
	CreateForAllCoworkers(ctx context.Context, in service.SubscriptionInput) ([]model.SubscriptionDetail, error)
	HasValid(ctx context.Context, userID, spaceID uint64) (bool, error)
	Get(ctx context.Context, id uint64) (model.SubscriptionDetail, error)
	List(ctx context.Context) ([]model.SubscriptionDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.SubscriptionDetail, error)
	Update(ctx context.Context, id uint64, u service.SubscriptionUpdate) (model.SubscriptionDetail, error)
	Delete(ctx context.Context, id uint64) error
	Price(typ model.SubscriptionType) (decimal.Decimal, error)
}

type EventService interface {
	Create(ctx context.Context, in service.EventInput) (model.Event, error)
	Get(ctx context.Context, id uint64) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, id uint64, in service.EventInput) (model.Event, error)
	Delete(ctx context.Context, id uint64) error
	Register(ctx context.Context, eventID, userID uint64) (model.Event, error)
	Cancel(ctx context.Context, eventID, userID uint64) (model.Event, error)
}

type PaymentService interface {
	Create(ctx context.Context, in service.PaymentInput) (model.Payment, error)
	Get(ctx context.Context, id uint64) (model.Payment, error)
	List(ctx context.Context) ([]model.Payment, error)
	Update(ctx context.Context, id uint64, in service.PaymentInput) (model.Payment, error)
	Delete(ctx context.Context, id uint64) error
}

type InvoiceService interface {
	Create(ctx context.Context, in service.InvoiceInput) (model.Invoice, error)
	Get(ctx context.Context, id uint64) (model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	Delete(ctx context.Context, id uint64) error
	DownloadPDF(ctx context.Context, paymentID uint64) ([]byte, string, error)
}

type UnavailabilityService interface {
	Create(ctx context.Context, in service.UnavailabilityInput) (model.Unavailability, error)
	Get(ctx context.Context, id uint64) (model.Unavailability, error)
	List(ctx context.Context) ([]model.Unavailability, error)
	Update(ctx context.Context, id uint64, in service.UnavailabilityInput) (model.Unavailability, error)
	Delete(ctx context.Context, id uint64) error
}

type ReviewService interface {
	Create(ctx context.Context, in service.ReviewInput) (model.Review, error)
	Get(ctx context.Context, id uint64) (model.Review, error)
	List(ctx context.Context, spaceID *uint64) ([]model.Review, error)
	Delete(ctx context.Context, id uint64) error
}

type ContactService interface {
	Send(ctx context.Context, in service.ContactInput) error
}
