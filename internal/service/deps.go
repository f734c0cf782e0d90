package service

import (
	"time"
)

// Stores bundles the persistence dependencies shared by the services.
// Each service keeps only the stores it uses.
type Stores struct {
	Tx               Transactor
	Users            UserStore
	Spaces           SpaceStore
	Reservations     ReservationStore
	Unavailabilities UnavailabilityStore
	Subscriptions    SubscriptionStore
	Events           EventStore
	Payments         PaymentStore
	Invoices         InvoiceStore
	Reviews          ReviewStore
	Tokens           TokenStore
	ResetTokens      ResetTokenStore
	Cascade          Cascader
}

// clock returns the current time in UTC. Tests replace it.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
