package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/coworking-space/internal/mail"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/queue"
	"github.com/iliyamo/coworking-space/internal/repository"
)

// memDB is an in-memory stand-in for MySQL. Transactions are not
// isolated; fakeTx runs the callback with a nil *sql.Tx.
type memDB struct {
	mu           sync.Mutex
	seq          uint64
	users        map[uint64]model.User
	spaces       map[uint64]model.Space
	reservations map[uint64]model.Reservation
	unavail      map[uint64]model.Unavailability
	subs         map[uint64]model.Subscription
	events       map[uint64]model.Event
	payments     map[uint64]model.Payment
	invoices     map[uint64]model.Invoice
	reviews      map[uint64]model.Review
	refresh      map[string]refreshRow
	resets       map[uint64]model.PasswordResetToken
	cascades     []string
	txCount      int
}

type refreshRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[uint64]model.User{},
		spaces:       map[uint64]model.Space{},
		reservations: map[uint64]model.Reservation{},
		unavail:      map[uint64]model.Unavailability{},
		subs:         map[uint64]model.Subscription{},
		events:       map[uint64]model.Event{},
		payments:     map[uint64]model.Payment{},
		invoices:     map[uint64]model.Invoice{},
		reviews:      map[uint64]model.Review{},
		refresh:      map[string]refreshRow{},
		resets:       map[uint64]model.PasswordResetToken{},
	}
}

func (db *memDB) next() uint64 {
	db.seq++
	return db.seq
}

func (db *memDB) stores() Stores {
	return Stores{
		Tx:               fakeTx{db},
		Users:            memUsers{db},
		Spaces:           memSpaces{db},
		Reservations:     memReservations{db},
		Unavailabilities: memUnavailabilities{db},
		Subscriptions:    memSubscriptions{db},
		Events:           memEvents{db},
		Payments:         memPayments{db},
		Invoices:         memInvoices{db},
		Reviews:          memReviews{db},
		Tokens:           memTokens{db},
		ResetTokens:      memResetTokens{db},
		Cascade:          memCascade{db},
	}
}

// seed helpers

func (db *memDB) addUser(u model.User) model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.next()
	if u.Role == "" {
		u.Role = model.RoleCoworker
	}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addSpace(s model.Space) model.Space {
	db.mu.Lock()
	defer db.mu.Unlock()
	s.ID = db.next()
	db.spaces[s.ID] = s
	return s
}

func (db *memDB) addEvent(e model.Event) model.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	e.ID = db.next()
	db.events[e.ID] = e
	return e
}

type fakeTx struct{ db *memDB }

func (f fakeTx) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.db.mu.Lock()
	f.db.txCount++
	f.db.mu.Unlock()
	return fn(nil)
}

// users

type memUsers struct{ db *memDB }

func (m memUsers) Create(ctx context.Context, u *model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, x := range m.db.users {
		if x.Email == u.Email || x.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = m.db.next()
	m.db.users[u.ID] = *u
	return nil
}

func (m memUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m memUsers) Exists(ctx context.Context, field repository.UserField, value string, exceptID uint64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if u.ID == exceptID {
			continue
		}
		switch field {
		case repository.UserFieldUsername:
			if u.Username == value {
				return true, nil
			}
		case repository.UserFieldEmail:
			if strings.EqualFold(u.Email, value) {
				return true, nil
			}
		case repository.UserFieldPhone:
			if u.Phone != nil && *u.Phone == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m memUsers) List(ctx context.Context) ([]model.User, error) {
	return m.ListByRole(ctx, "")
}

func (m memUsers) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.User
	for _, u := range m.db.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memUsers) Update(ctx context.Context, u model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.users[u.ID] = u
	return nil
}

func (m memUsers) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, hash string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	m.db.users[id] = u
	return nil
}

func (m memUsers) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Enabled = enabled
	m.db.users[id] = u
	return nil
}

// spaces

type memSpaces struct{ db *memDB }

func (m memSpaces) Create(ctx context.Context, s *model.Space) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s.ID = m.db.next()
	m.db.spaces[s.ID] = *s
	return nil
}

func (m memSpaces) GetByID(ctx context.Context, id uint64) (model.Space, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.spaces[id]
	if !ok {
		return model.Space{}, repository.ErrNotFound
	}
	return s, nil
}

func (m memSpaces) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Space, error) {
	return m.GetByID(ctx, id)
}

func (m memSpaces) List(ctx context.Context, typ *model.SpaceType) ([]model.Space, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Space
	for _, s := range m.db.spaces {
		if typ == nil || s.Type == *typ {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memSpaces) Update(ctx context.Context, s model.Space) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.spaces[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.spaces[s.ID] = s
	return nil
}

// reservations

type memReservations struct{ db *memDB }

func (m memReservations) CreateTx(ctx context.Context, tx *sql.Tx, r *model.Reservation) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r.ID = m.db.next()
	m.db.reservations[r.ID] = *r
	return nil
}

func (m memReservations) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (m memReservations) detail(r model.Reservation) model.ReservationDetail {
	d := model.ReservationDetail{Reservation: r}
	u := m.db.users[r.UserID]
	d.UserFirstName, d.UserLastName, d.UserEmail, d.UserPhone = u.FirstName, u.LastName, u.Email, u.Phone
	s := m.db.spaces[r.SpaceID]
	d.SpaceName, d.SpaceType = s.Name, s.Type
	if r.PaymentID != nil {
		if p, ok := m.db.payments[*r.PaymentID]; ok {
			d.PaymentAmount, d.PaymentStatus = &p.Amount, &p.Status
		}
	}
	return d
}

func (m memReservations) GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.reservations[id]
	if !ok {
		return model.ReservationDetail{}, repository.ErrNotFound
	}
	return m.detail(r), nil
}

func (m memReservations) List(ctx context.Context, f repository.ReservationFilter) ([]model.ReservationDetail, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.ReservationDetail
	for _, r := range m.db.reservations {
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.SpaceID != nil && r.SpaceID != *f.SpaceID {
			continue
		}
		out = append(out, m.detail(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memReservations) UpdateTx(ctx context.Context, tx *sql.Tx, r model.Reservation) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.reservations[r.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.reservations[r.ID] = r
	return nil
}

func (m memReservations) CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	n := 0
	for _, r := range m.db.reservations {
		if r.SpaceID == spaceID && r.Status != model.ReservationCancelled &&
			!r.Start.After(end) && !r.End.Before(start) {
			n++
		}
	}
	return n, nil
}

// unavailabilities

type memUnavailabilities struct{ db *memDB }

func (m memUnavailabilities) Create(ctx context.Context, u *model.Unavailability) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u.ID = m.db.next()
	m.db.unavail[u.ID] = *u
	return nil
}

func (m memUnavailabilities) GetByID(ctx context.Context, id uint64) (model.Unavailability, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.unavail[id]
	if !ok {
		return model.Unavailability{}, repository.ErrNotFound
	}
	u.SpaceName = m.db.spaces[u.SpaceID].Name
	return u, nil
}

func (m memUnavailabilities) List(ctx context.Context) ([]model.Unavailability, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Unavailability
	for _, u := range m.db.unavail {
		out = append(out, u)
	}
	return out, nil
}

func (m memUnavailabilities) Update(ctx context.Context, u model.Unavailability) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.unavail[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.unavail[u.ID] = u
	return nil
}

func (m memUnavailabilities) Delete(ctx context.Context, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.unavail[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.unavail, id)
	return nil
}

func (m memUnavailabilities) CountOverlappingTx(ctx context.Context, tx *sql.Tx, spaceID uint64, start, end time.Time) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	n := 0
	for _, u := range m.db.unavail {
		if u.SpaceID == spaceID && !u.Start.After(end) && !u.End.Before(start) {
			n++
		}
	}
	return n, nil
}

// subscriptions

type memSubscriptions struct{ db *memDB }

func (m memSubscriptions) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Subscription) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s.ID = m.db.next()
	m.db.subs[s.ID] = *s
	return nil
}

func (m memSubscriptions) SetPaymentTx(ctx context.Context, tx *sql.Tx, id, paymentID uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subs[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.PaymentID = &paymentID
	m.db.subs[id] = s
	return nil
}

func (m memSubscriptions) GetDetail(ctx context.Context, id uint64) (model.SubscriptionDetail, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subs[id]
	if !ok {
		return model.SubscriptionDetail{}, repository.ErrNotFound
	}
	return model.SubscriptionDetail{
		Subscription: s,
		UserEmail:    m.db.users[s.UserID].Email,
		SpaceName:    m.db.spaces[s.SpaceID].Name,
	}, nil
}

func (m memSubscriptions) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Subscription, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subs[id]
	if !ok {
		return model.Subscription{}, repository.ErrNotFound
	}
	return s, nil
}

func (m memSubscriptions) List(ctx context.Context, userID *uint64) ([]model.SubscriptionDetail, error) {
	m.db.mu.Lock()
	var ids []uint64
	for id, s := range m.db.subs {
		if userID == nil || s.UserID == *userID {
			ids = append(ids, id)
		}
	}
	m.db.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.SubscriptionDetail
	for _, id := range ids {
		d, _ := m.GetDetail(ctx, id)
		out = append(out, d)
	}
	return out, nil
}

func (m memSubscriptions) FindActiveTx(ctx context.Context, tx *sql.Tx, userID, spaceID uint64, day model.Date) (model.Subscription, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var best *model.Subscription
	for _, s := range m.db.subs {
		if s.UserID == userID && s.SpaceID == spaceID && s.ActiveOn(day) {
			if best == nil || s.End.After(best.End.Time) {
				c := s
				best = &c
			}
		}
	}
	if best == nil {
		return model.Subscription{}, repository.ErrNotFound
	}
	return *best, nil
}

func (m memSubscriptions) HasActive(ctx context.Context, userID, spaceID uint64, day model.Date) (bool, error) {
	_, err := m.FindActiveTx(ctx, nil, userID, spaceID, day)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m memSubscriptions) UpdateTx(ctx context.Context, tx *sql.Tx, s model.Subscription) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.subs[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.subs[s.ID] = s
	return nil
}

// events

type memEvents struct{ db *memDB }

func (m memEvents) Create(ctx context.Context, e *model.Event) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e.ID = m.db.next()
	m.db.events[e.ID] = *e
	return nil
}

func (m memEvents) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	e.SpaceName = m.db.spaces[e.SpaceID].Name
	e.Participants = append([]model.Participant(nil), e.Participants...)
	return e, nil
}

func (m memEvents) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Event, error) {
	return m.GetByID(ctx, id)
}

func (m memEvents) List(ctx context.Context) ([]model.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Event
	for _, e := range m.db.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memEvents) Update(ctx context.Context, e model.Event) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	old, ok := m.db.events[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.Participants = old.Participants
	m.db.events[e.ID] = e
	return nil
}

func (m memEvents) AddParticipantTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[eventID]
	if !ok {
		return repository.ErrConflict
	}
	if e.HasParticipant(userID) {
		return repository.ErrDuplicate
	}
	u := m.db.users[userID]
	e.Participants = append(e.Participants, model.Participant{
		UserID: userID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email,
	})
	m.db.events[eventID] = e
	return nil
}

// payments

type memPayments struct{ db *memDB }

func (m memPayments) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p.ID = m.db.next()
	m.db.payments[p.ID] = *p
	return nil
}

func (m memPayments) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.payments[id]
	if !ok {
		return model.Payment{}, repository.ErrNotFound
	}
	return p, nil
}

func (m memPayments) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Payment, error) {
	return m.GetByID(ctx, id)
}

func (m memPayments) List(ctx context.Context) ([]model.Payment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Payment
	for _, p := range m.db.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memPayments) UpdateTx(ctx context.Context, tx *sql.Tx, p model.Payment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.payments[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.payments[p.ID] = p
	return nil
}

// invoices

type memInvoices struct{ db *memDB }

func (m memInvoices) Create(ctx context.Context, inv *model.Invoice) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, x := range m.db.invoices {
		if x.PaymentID == inv.PaymentID {
			return repository.ErrDuplicate
		}
	}
	inv.ID = m.db.next()
	m.db.invoices[inv.ID] = *inv
	return nil
}

func (m memInvoices) GetByID(ctx context.Context, id uint64) (model.Invoice, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	inv, ok := m.db.invoices[id]
	if !ok {
		return model.Invoice{}, repository.ErrNotFound
	}
	return inv, nil
}

func (m memInvoices) GetByPaymentID(ctx context.Context, paymentID uint64) (model.Invoice, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, inv := range m.db.invoices {
		if inv.PaymentID == paymentID {
			return inv, nil
		}
	}
	return model.Invoice{}, repository.ErrNotFound
}

func (m memInvoices) List(ctx context.Context) ([]model.Invoice, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Invoice
	for _, inv := range m.db.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (m memInvoices) Delete(ctx context.Context, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.invoices, id)
	return nil
}

// reviews

type memReviews struct{ db *memDB }

func (m memReviews) Create(ctx context.Context, r *model.Review) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r.ID = m.db.next()
	m.db.reviews[r.ID] = *r
	return nil
}

func (m memReviews) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.reviews[id]
	if !ok {
		return model.Review{}, repository.ErrNotFound
	}
	r.SpaceName = m.db.spaces[r.SpaceID].Name
	r.UserUsername = m.db.users[r.UserID].Username
	return r, nil
}

func (m memReviews) List(ctx context.Context, spaceID *uint64) ([]model.Review, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []model.Review
	for _, r := range m.db.reviews {
		if spaceID == nil || r.SpaceID == *spaceID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memReviews) Delete(ctx context.Context, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.reviews, id)
	return nil
}

// tokens

type memTokens struct{ db *memDB }

func (m memTokens) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.refresh[tokenHash] = refreshRow{userID: userID, exp: exp}
	return nil
}

func (m memTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.refresh[tokenHash]
	if !ok || r.revoked || time.Now().After(r.exp) {
		return 0, repository.ErrNotFound
	}
	return r.userID, nil
}

func (m memTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.refresh[tokenHash]
	if !ok || r.revoked {
		return repository.ErrNotFound
	}
	r.revoked = true
	m.db.refresh[tokenHash] = r
	return nil
}

func (m memTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for h, r := range m.db.refresh {
		if r.userID == userID {
			r.revoked = true
			m.db.refresh[h] = r
		}
	}
	return nil
}

type memResetTokens struct{ db *memDB }

func (m memResetTokens) Create(ctx context.Context, t *model.PasswordResetToken) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	t.ID = m.db.next()
	m.db.resets[t.ID] = *t
	return nil
}

func (m memResetTokens) GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, t := range m.db.resets {
		if t.Token == token {
			return t, nil
		}
	}
	return model.PasswordResetToken{}, repository.ErrNotFound
}

func (m memResetTokens) Delete(ctx context.Context, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.resets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.resets, id)
	return nil
}

func (m memResetTokens) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return m.Delete(ctx, id)
}

func (m memResetTokens) DeleteByUser(ctx context.Context, userID uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for id, t := range m.db.resets {
		if t.UserID == userID {
			delete(m.db.resets, id)
		}
	}
	return nil
}

func (m memResetTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for id, t := range m.db.resets {
		if t.Expired(now) {
			delete(m.db.resets, id)
			n++
		}
	}
	return n, nil
}

// cascade

type memCascade struct{ db *memDB }

func (m memCascade) record(op string) {
	m.db.cascades = append(m.db.cascades, op)
}

// dropPayments removes payments matching keep==false and their invoices.
func (m memCascade) dropPayments(match func(model.Payment) bool) {
	for id, p := range m.db.payments {
		if !match(p) {
			continue
		}
		for iid, inv := range m.db.invoices {
			if inv.PaymentID == id {
				delete(m.db.invoices, iid)
				m.record("invoice")
			}
		}
		delete(m.db.payments, id)
		m.record("payment")
	}
}

func (m memCascade) DeleteReservationTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.reservations[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.dropPayments(func(p model.Payment) bool {
		return p.Type == model.PaymentReservation && p.ReservationID != nil && *p.ReservationID == r.ID
	})
	delete(m.db.reservations, id)
	m.record("reservation")
	return nil
}

func (m memCascade) DeleteSubscriptionTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.subs[id]; !ok {
		return repository.ErrNotFound
	}
	m.dropPayments(func(p model.Payment) bool { return p.SubscriptionID != nil && *p.SubscriptionID == id })
	delete(m.db.subs, id)
	m.record("subscription")
	return nil
}

func (m memCascade) DeleteEventTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.events[id]; !ok {
		return repository.ErrNotFound
	}
	m.dropPayments(func(p model.Payment) bool { return p.EventID != nil && *p.EventID == id })
	delete(m.db.events, id)
	m.record("event")
	return nil
}

func (m memCascade) DeleteEventParticipationTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[eventID]
	if !ok || !e.HasParticipant(userID) {
		return false, nil
	}
	m.dropPayments(func(p model.Payment) bool {
		return p.EventID != nil && *p.EventID == eventID && p.UserID != nil && *p.UserID == userID
	})
	kept := e.Participants[:0:0]
	for _, p := range e.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	m.db.events[eventID] = e
	m.record("participant")
	return true, nil
}

func (m memCascade) DeletePaymentTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.payments[id]; !ok {
		return repository.ErrNotFound
	}
	m.dropPayments(func(p model.Payment) bool { return p.ID == id })
	return nil
}

func (m memCascade) DeleteUserTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	m.dropPayments(func(p model.Payment) bool { return p.UserID != nil && *p.UserID == id })
	for rid, r := range m.db.reservations {
		if r.UserID == id {
			delete(m.db.reservations, rid)
		}
	}
	delete(m.db.users, id)
	m.record("user")
	return nil
}

func (m memCascade) DeleteSpaceTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.spaces[id]; !ok {
		return repository.ErrNotFound
	}
	for rid, r := range m.db.reservations {
		if r.SpaceID == id {
			delete(m.db.reservations, rid)
		}
	}
	delete(m.db.spaces, id)
	m.record("space")
	return nil
}

// fakeMailer records messages and fails with err when set.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeActivity struct {
	events []queue.ReservationCreatedEvent
	err    error
}

func (f *fakeActivity) PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func fixedClock(t time.Time) clock { return func() time.Time { return t } }
