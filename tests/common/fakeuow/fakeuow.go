//go:build unit || e2e

// Package fakeuow is an in-memory shared.UnitOfWork. Each Within call works on a copy of
// the store and only publishes it when fn returns nil, so rollback behaves like Postgres.
package fakeuow

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"villa-reservation/internal/domain/booking"
	"villa-reservation/internal/infra"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type state struct {
	bookings map[uuid.UUID]booking.Snapshot
	events   []booking.Event
	webhooks map[string]string
	admins   map[string]*shared.AdminAccount
	logins   map[uuid.UUID]time.Time
}

func (s state) clone() state {
	admins := make(map[string]*shared.AdminAccount, len(s.admins))
	for k, v := range s.admins {
		cp := *v
		admins[k] = &cp
	}
	return state{
		bookings: maps.Clone(s.bookings),
		events:   slices.Clone(s.events),
		webhooks: maps.Clone(s.webhooks),
		admins:   admins,
		logins:   maps.Clone(s.logins),
	}
}

type UoW struct {
	mu    sync.Mutex
	state state

	// FailCreate, when set, is returned by the next Bookings().Create call.
	FailCreate []error
	Commits    int
}

func New() *UoW {
	return &UoW{state: state{
		bookings: map[uuid.UUID]booking.Snapshot{},
		webhooks: map[string]string{},
		admins:   map[string]*shared.AdminAccount{},
		logins:   map[uuid.UUID]time.Time{},
	}}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	tx := &fakeTx{uow: u, state: u.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	u.state = tx.state
	u.Commits++
	return nil
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &reads{uow: u}
}

// Put stores b as if it had been committed earlier.
func (u *UoW) Put(b *booking.Booking) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.bookings[b.ID()] = b.Snapshot()
}

func (u *UoW) PutAdmin(a shared.AdminAccount) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.admins[a.Email] = &a
}

func (u *UoW) Get(id uuid.UUID) (*booking.Booking, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.state.bookings[id]
	if !ok {
		return nil, false
	}
	return booking.Reconstruct(s), true
}

func (u *UoW) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.state.bookings)
}

func (u *UoW) Events() []booking.Event {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.state.events)
}

func (u *UoW) EventKinds() []booking.EventKind {
	out := []booking.EventKind{}
	for _, e := range u.Events() {
		out = append(out, e.Kind)
	}
	return out
}

func (u *UoW) WebhookSeen(eventID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.state.webhooks[eventID]
	return ok
}

func (u *UoW) LastLogin(adminID uuid.UUID) (time.Time, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t, ok := u.state.logins[adminID]
	return t, ok
}

type fakeTx struct {
	uow   *UoW
	state state
}

func (t *fakeTx) Bookings() shared.BookingRepository          { return (*bookingRepo)(t) }
func (t *fakeTx) Profiles() shared.ProfileRepository          { return profileRepo{} }
func (t *fakeTx) Outbox() shared.OutboxRepository             { return (*outboxRepo)(t) }
func (t *fakeTx) WebhookEvents() shared.WebhookEventRepository { return (*webhookRepo)(t) }
func (t *fakeTx) Admins() shared.AdminRepository              { return (*adminRepo)(t) }
func (t *fakeTx) DB() db.DBTX                                 { return nil }

type bookingRepo fakeTx

func (r *bookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if len(r.uow.FailCreate) > 0 {
		err := r.uow.FailCreate[0]
		r.uow.FailCreate = r.uow.FailCreate[1:]
		if err != nil {
			return err
		}
	}
	for _, s := range r.state.bookings {
		if s.ConfirmationCode == b.ConfirmationCode() {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "confirmation code already exists", nil)
		}
		if s.Status.OccupiesDates() && s.Range.Overlaps(b.Range()) {
			return infra.WrapRepoErr(infra.KindConflict, "booking overlaps an occupying booking", nil)
		}
	}
	r.state.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r *bookingRepo) LockByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	s, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return booking.Reconstruct(s), nil
}

func (r *bookingRepo) Update(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if _, ok := r.state.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	r.state.bookings[b.ID()] = b.Snapshot()
	return nil
}

type profileRepo struct{}

func (profileRepo) UpsertForBooking(context.Context, db.DBTX, *booking.Booking) error { return nil }

type outboxRepo fakeTx

func (r *outboxRepo) Enqueue(_ context.Context, _ db.DBTX, events []booking.Event, _ time.Time) error {
	r.state.events = append(r.state.events, events...)
	return nil
}

type webhookRepo fakeTx

func (r *webhookRepo) Record(_ context.Context, _ db.DBTX, eventID, eventType string, _ time.Time) (bool, error) {
	if _, ok := r.state.webhooks[eventID]; ok {
		return false, nil
	}
	r.state.webhooks[eventID] = eventType
	return true, nil
}

type adminRepo fakeTx

func (r *adminRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, adminID uuid.UUID, at time.Time) error {
	r.state.logins[adminID] = at
	return nil
}

type reads struct {
	uow *UoW
}

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if b, ok := r.uow.Get(id); ok {
		return b, nil
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

func (r *reads) AdminByEmail(_ context.Context, email string) (*shared.AdminAccount, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	a, ok := r.uow.state.admins[email]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "admin not found", nil)
	}
	cp := *a
	return &cp, nil
}
