package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Cascade deletes an entity together with the rows that depend on it, in
// foreign key safe order: invoices, then payments, then children, then the
// entity itself. Every method runs inside the caller's transaction and
// returns ErrNotFound when the root row does not exist.
type Cascade struct{}

func NewCascade() *Cascade { return &Cascade{} }

type step struct {
	query string
	args  []any
}

// run executes steps in order. The last step deletes the root row and
// must affect at least one row.
func (c *Cascade) run(ctx context.Context, tx *sql.Tx, steps []step) error {
	for i, s := range steps {
		res, err := tx.ExecContext(ctx, s.query, s.args...)
		if i == len(steps)-1 {
			return affected(res, err)
		}
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

// DeleteReservationTx removes the reservation's own payment and its
// invoice. A subscription payment referenced by an open space
// reservation is kept.
func (c *Cascade) DeleteReservationTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return c.run(ctx, tx, []step{
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id WHERE p.reservation_id=?`, []any{id}},
		{`DELETE FROM payments WHERE reservation_id=?`, []any{id}},
		{`DELETE FROM reservations WHERE id=?`, []any{id}},
	})
}

// DeleteSubscriptionTx removes the subscription, its payments and their
// invoices. Reservations that borrowed the payment lose the link.
func (c *Cascade) DeleteSubscriptionTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return c.run(ctx, tx, []step{
		{`UPDATE reservations r JOIN payments p ON p.id = r.paiement_id SET r.paiement_id=NULL WHERE p.subscription_id=?`, []any{id}},
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id WHERE p.subscription_id=?`, []any{id}},
		{`DELETE FROM payments WHERE subscription_id=?`, []any{id}},
		{`DELETE FROM subscriptions WHERE id=?`, []any{id}},
	})
}

// DeleteEventTx removes the event, its payments, their invoices and the
// participant rows.
func (c *Cascade) DeleteEventTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return c.run(ctx, tx, []step{
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id WHERE p.event_id=?`, []any{id}},
		{`DELETE FROM payments WHERE event_id=?`, []any{id}},
		{`DELETE FROM event_participants WHERE event_id=?`, []any{id}},
		{`DELETE FROM events WHERE id=?`, []any{id}},
	})
}

// DeleteEventParticipationTx removes one user's registration to an event
// with that user's event payments and invoices. It reports false, without
// error, when the user was not registered.
func (c *Cascade) DeleteEventParticipationTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) (bool, error) {
	err := c.run(ctx, tx, []step{
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id WHERE p.event_id=? AND p.user_id=?`, []any{eventID, userID}},
		{`DELETE FROM payments WHERE event_id=? AND user_id=?`, []any{eventID, userID}},
		{`DELETE FROM event_participants WHERE event_id=? AND user_id=?`, []any{eventID, userID}},
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// DeletePaymentTx removes the payment and its invoice and clears the
// back-references held by reservations and subscriptions.
func (c *Cascade) DeletePaymentTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return c.run(ctx, tx, []step{
		{`UPDATE reservations SET paiement_id=NULL WHERE paiement_id=?`, []any{id}},
		{`UPDATE subscriptions SET paiement_id=NULL WHERE paiement_id=?`, []any{id}},
		{`DELETE FROM invoices WHERE paiement_id=?`, []any{id}},
		{`DELETE FROM payments WHERE id=?`, []any{id}},
	})
}

// userPayments matches the payments made by a user or attached to the
// user's reservations and subscriptions.
const userPayments = `FROM payments p
	LEFT JOIN reservations r  ON r.id = p.reservation_id
	LEFT JOIN subscriptions a ON a.id = p.subscription_id
	WHERE p.user_id=? OR r.user_id=? OR a.user_id=?`

// DeleteUserTx removes the user and everything the user owns. Tokens go
// with the ON DELETE CASCADE constraints.
func (c *Cascade) DeleteUserTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	three := []any{id, id, id}
	return c.run(ctx, tx, []step{
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id
			LEFT JOIN reservations r  ON r.id = p.reservation_id
			LEFT JOIN subscriptions a ON a.id = p.subscription_id
			WHERE p.user_id=? OR r.user_id=? OR a.user_id=?`, three},
		{`DELETE p ` + userPayments, three},
		{`DELETE FROM reservations WHERE user_id=?`, []any{id}},
		{`DELETE FROM subscriptions WHERE user_id=?`, []any{id}},
		{`DELETE FROM reviews WHERE user_id=?`, []any{id}},
		{`DELETE FROM event_participants WHERE user_id=?`, []any{id}},
		{`DELETE FROM users WHERE id=?`, []any{id}},
	})
}

// spacePayments matches payments attached to anything hosted by a space.
const spacePayments = `FROM payments p
	LEFT JOIN reservations r  ON r.id = p.reservation_id
	LEFT JOIN subscriptions a ON a.id = p.subscription_id
	LEFT JOIN events e        ON e.id = p.event_id
	WHERE r.space_id=? OR a.space_id=? OR e.space_id=?`

// DeleteSpaceTx removes the space with its reservations, subscriptions,
// events, unavailabilities and reviews.
func (c *Cascade) DeleteSpaceTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	three := []any{id, id, id}
	return c.run(ctx, tx, []step{
		{`DELETE i FROM invoices i JOIN payments p ON p.id = i.paiement_id
			LEFT JOIN reservations r  ON r.id = p.reservation_id
			LEFT JOIN subscriptions a ON a.id = p.subscription_id
			LEFT JOIN events e        ON e.id = p.event_id
			WHERE r.space_id=? OR a.space_id=? OR e.space_id=?`, three},
		{`DELETE p ` + spacePayments, three},
		{`DELETE FROM reservations WHERE space_id=?`, []any{id}},
		{`DELETE FROM subscriptions WHERE space_id=?`, []any{id}},
		{`DELETE ep FROM event_participants ep JOIN events e ON e.id = ep.event_id WHERE e.space_id=?`, []any{id}},
		{`DELETE FROM events WHERE space_id=?`, []any{id}},
		{`DELETE FROM unavailabilities WHERE space_id=?`, []any{id}},
		{`DELETE FROM reviews WHERE space_id=?`, []any{id}},
		{`DELETE FROM spaces WHERE id=?`, []any{id}},
	})
}
