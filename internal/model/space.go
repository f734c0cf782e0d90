package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpaceType discriminates the two space variants.
type SpaceType string

const (
	SpaceOpen    SpaceType = "OUVERT"
	SpacePrivate SpaceType = "PRIVE"
)

// Space is a row of the spaces table. Open spaces are reached through
// subscriptions; private spaces are booked per reservation and carry the
// Private payload.
type Space struct {
	ID             uint64
	Name           string
	Description    string
	Capacity       int
	PhotoPrincipal string
	Gallery        []string // spaces.gallery, JSON array
	Active         bool
	Type           SpaceType
	Private        *PrivateDetails // nil for open spaces
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PrivateDetails holds the columns only meaningful for PRIVE spaces.
type PrivateDetails struct {
	PricePerDay decimal.Decimal // spaces.prix_par_jour
	Amenities   []string        // spaces.amenities, JSON array
}

// IsOpen reports whether the space is an open (subscription) space.
func (s Space) IsOpen() bool { return s.Type == SpaceOpen }

// IsPrivate reports whether the space is bookable per reservation.
func (s Space) IsPrivate() bool { return s.Type == SpacePrivate }
