package service

import (
	"context"
	"database/sql"
	"time"
)

// Availability decides whether a space can be booked for a window.
type Availability struct {
	reservations     ReservationStore
	unavailabilities UnavailabilityStore
}

func NewAvailability(st Stores) *Availability {
	return &Availability{reservations: st.Reservations, unavailabilities: st.Unavailabilities}
}

// IsAvailableTx reports whether [start, end] intersects neither a live
// reservation nor a declared unavailability of the space. Bounds are
// inclusive, so back-to-back windows sharing an instant conflict.
func (a *Availability) IsAvailableTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (bool, error) {
	n, err := a.reservations.CountOverlappingTx(ctx, tx, spaceID, start, end)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	n, err = a.unavailabilities.CountOverlappingTx(ctx, tx, spaceID, start, end)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
