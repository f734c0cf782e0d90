package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event mirrors the events table. Events are hosted in a private space.
type Event struct {
	ID              uint64
	Title           string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	Price           decimal.Decimal
	MaxParticipants int
	Active          bool
	SpaceID         uint64
	SpaceName       string // joined, read only
	Participants    []Participant
}

// Full reports whether no seat is left for another participant.
func (e Event) Full() bool { return len(e.Participants) >= e.MaxParticipants }

// HasParticipant reports whether userID is registered.
func (e Event) HasParticipant(userID uint64) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Participant is an event_participants row joined with the user.
type Participant struct {
	UserID       uint64
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	RegisteredAt time.Time
}
