package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus values of reservations.statut.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "EN_ATTENTE"
	ReservationValidated ReservationStatus = "VALIDEE"
	ReservationCancelled ReservationStatus = "ANNULEE"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationValidated, ReservationCancelled:
		return true
	}
	return false
}

// Reservation mirrors the reservations table.
type Reservation struct {
	ID        uint64            // reservations.id
	UserID    uint64            // reservations.user_id
	SpaceID   uint64            // reservations.space_id
	Start     time.Time         // reservations.date_debut
	End       time.Time         // reservations.date_fin
	Status    ReservationStatus // reservations.statut
	PaymentID *uint64           // reservations.paiement_id (nullable)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationDetail is a reservation joined with the user, space and
// payment columns shown to clients.
type ReservationDetail struct {
	Reservation
	UserFirstName string
	UserLastName  string
	UserEmail     string
	UserPhone     *string
	SpaceName     string
	SpaceType     SpaceType
	PaymentAmount *decimal.Decimal
	PaymentStatus *PaymentStatus
}

// PaymentValid reports whether the linked payment is VALIDE, or nil when
// the reservation has no payment.
func (d ReservationDetail) PaymentValid() *bool {
	if d.PaymentStatus == nil {
		return nil
	}
	v := *d.PaymentStatus == PaymentValid
	return &v
}
