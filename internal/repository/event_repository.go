package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-space/internal/model"
)

// EventRepo persists events and their participant rows.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventSelect = `SELECT e.id, e.titre, e.description, e.start_date, e.end_date, e.price,
		e.max_participants, e.is_active, e.space_id, s.name
	FROM events e JOIN spaces s ON s.id = e.space_id`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var (
		e    model.Event
		desc sql.NullString
	)
	err := row.Scan(&e.ID, &e.Title, &desc, &e.StartDate, &e.EndDate, &e.Price,
		&e.MaxParticipants, &e.Active, &e.SpaceID, &e.SpaceName)
	if err != nil {
		return model.Event{}, mapErr(err)
	}
	e.Description = desc.String
	e.Participants = []model.Participant{}
	return e, nil
}

func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (titre, description, start_date, end_date, price, max_participants, is_active, space_id)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.Title, e.Description, e.StartDate.UTC(), e.EndDate.UTC(), e.Price, e.MaxParticipants, e.Active, e.SpaceID)
	if err != nil {
		return mapErr(err)
	}
	e.ID, err = insertID(res)
	return err
}

// GetByID returns the event with its participants.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+" WHERE e.id=?", id))
	if err != nil {
		return model.Event{}, err
	}
	e.Participants, err = r.participants(ctx, r.db, id)
	return e, err
}

// LockTx reads the event row FOR UPDATE together with its participants.
func (r *EventRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Event, error) {
	e, err := scanEvent(tx.QueryRowContext(ctx, eventSelect+" WHERE e.id=? FOR UPDATE", id))
	if err != nil {
		return model.Event{}, err
	}
	e.Participants, err = r.participants(ctx, tx, id)
	return e, err
}

func (r *EventRepo) participants(ctx context.Context, q DBTX, eventID uint64) ([]model.Participant, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.email, u.phone, ep.registered_at
		 FROM event_participants ep JOIN users u ON u.id = ep.user_id
		 WHERE ep.event_id=? ORDER BY ep.registered_at, u.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Participant{}
	for rows.Next() {
		var (
			p     model.Participant
			phone sql.NullString
		)
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Email, &phone, &p.RegisteredAt); err != nil {
			return nil, err
		}
		p.Phone = strPtr(phone)
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns all events ordered by start date, with participants.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, eventSelect+" ORDER BY e.start_date, e.id")
	if err != nil {
		return nil, err
	}
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.Participants, err = r.participants(ctx, r.db, e.ID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	return affected(r.db.ExecContext(ctx,
		`UPDATE events SET titre=?, description=?, start_date=?, end_date=?, price=?, max_participants=?,
		 is_active=?, space_id=? WHERE id=?`,
		e.Title, e.Description, e.StartDate.UTC(), e.EndDate.UTC(), e.Price, e.MaxParticipants,
		e.Active, e.SpaceID, e.ID))
}

// AddParticipantTx inserts the (event, user) pair. A second registration
// fails with ErrDuplicate.
func (r *EventRepo) AddParticipantTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO event_participants (event_id, user_id) VALUES (?,?)", eventID, userID)
	return mapErr(err)
}
