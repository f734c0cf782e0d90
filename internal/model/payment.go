package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType tells which entity a payment settles.
type PaymentType string

const (
	PaymentReservation  PaymentType = "RESERVATION"
	PaymentSubscription PaymentType = "ABONNEMENT"
	PaymentEvent        PaymentType = "EVENEMENT"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentReservation, PaymentSubscription, PaymentEvent:
		return true
	}
	return false
}

// PaymentStatus values of payments.statut.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "EN_ATTENTE"
	PaymentValid     PaymentStatus = "VALIDE"
	PaymentCancelled PaymentStatus = "ANNULE"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentValid, PaymentCancelled:
		return true
	}
	return false
}

// StatusFromFlag maps the "paiementValide" flag of reservation requests.
func StatusFromFlag(valid bool) PaymentStatus {
	if valid {
		return PaymentValid
	}
	return PaymentPending
}

// Payment mirrors the payments table. At most one of ReservationID,
// SubscriptionID and EventID is set and it matches Type.
type Payment struct {
	ID             uint64
	Type           PaymentType
	Amount         decimal.Decimal
	Date           time.Time
	Status         PaymentStatus
	UserID         *uint64
	ReservationID  *uint64
	SubscriptionID *uint64
	EventID        *uint64
}

// Invoice mirrors the invoices table (factures).
type Invoice struct {
	ID             uint64
	PaymentID      uint64
	PDFURL         string
	SentAt         time.Time
	RecipientEmail string
}
