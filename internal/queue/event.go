// Package queue moves work off the request path through RabbitMQ: queued
// outbound mail and the reservation activity log.
package queue

// ReservationQueue carries ReservationCreatedEvent messages.
const ReservationQueue = "reservation.created"

// ReservationCreatedEvent is published after a reservation commits. It
// carries enough context for the activity log without a database lookup.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserEmail     string `json:"user_email"`
	SpaceID       uint64 `json:"space_id"`
	SpaceName     string `json:"space_name"`
	SpaceType     string `json:"space_type"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Amount        string `json:"amount"`
	PaymentStatus string `json:"payment_status"`
	CreatedAt     string `json:"created_at"`
}
