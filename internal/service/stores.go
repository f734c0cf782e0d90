package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/coworking-space/internal/mail"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/queue"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// Transactor runs fn in one database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Exists(ctx context.Context, field repository.UserField, value string, exceptID uint64) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
	UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, hash string) error
	SetEnabled(ctx context.Context, id uint64, enabled bool) error
}

type SpaceStore interface {
	Create(ctx context.Context, s *model.Space) error
	GetByID(ctx context.Context, id uint64) (model.Space, error)
	LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Space, error)
	List(ctx context.Context, typ *model.SpaceType) ([]model.Space, error)
	Update(ctx context.Context, s model.Space) error
}

type ReservationStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, r *model.Reservation) error
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error)
	GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]model.ReservationDetail, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, r model.Reservation) error
	CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error)
}

type UnavailabilityStore interface {
	Create(ctx context.Context, u *model.Unavailability) error
	GetByID(ctx context.Context, id uint64) (model.Unavailability, error)
	List(ctx context.Context) ([]model.Unavailability, error)
	Update(ctx context.Context, u model.Unavailability) error
	Delete(ctx context.Context, id uint64) error
	CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error)
}

type SubscriptionStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.Subscription) error
	SetPaymentTx(ctx context.Context, tx *sql.Tx, id, paymentID uint64) error
	GetDetail(ctx context.Context, id uint64) (model.SubscriptionDetail, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Subscription, error)
	List(ctx context.Context, userID *uint64) ([]model.SubscriptionDetail, error)
	FindActiveTx(ctx context.Context, tx *sql.Tx, userID, spaceID uint64, day model.Date) (model.Subscription, error)
	HasActive(ctx context.Context, userID, spaceID uint64, day model.Date) (bool, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, s model.Subscription) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, e model.Event) error
	AddParticipantTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) error
}

type PaymentStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (model.Payment, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Payment, error)
	List(ctx context.Context) ([]model.Payment, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, p model.Payment) error
}

type InvoiceStore interface {
	Create(ctx context.Context, inv *model.Invoice) error
	GetByID(ctx context.Context, id uint64) (model.Invoice, error)
	GetByPaymentID(ctx context.Context, paymentID uint64) (model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	Delete(ctx context.Context, id uint64) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *model.Review) error
	GetByID(ctx context.Context, id uint64) (model.Review, error)
	List(ctx context.Context, spaceID *uint64) ([]model.Review, error)
	Delete(ctx context.Context, id uint64) error
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, t *model.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error)
	Delete(ctx context.Context, id uint64) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteByUser(ctx context.Context, userID uint64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Cascader deletes entities with their dependents inside a transaction.
type Cascader interface {
	DeleteReservationTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteSubscriptionTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteEventTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteEventParticipationTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) (bool, error)
	DeletePaymentTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteUserTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteSpaceTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// Mailer delivers or queues an email. Both *mail.Sender and
// *queue.Publisher satisfy it.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// ActivityPublisher announces committed reservations.
type ActivityPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}
