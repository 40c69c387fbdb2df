// Package memstore is the in-process storage driver. It implements the same unit of
// work and repository ports as the Postgres driver: keyed locks stand in for row
// locks and every write is staged on the transaction until commit.
package memstore

import (
	"context"
	"log/slog"
	"sync"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/domain/trip"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	trips       map[uuid.UUID]*trip.Trip
	seats       map[uuid.UUID]map[string]*seat.Record
	bookings    map[uuid.UUID]*booking.Booking
	validations map[uuid.UUID]*payment.ValidationRecord
	outbox      []*shared.OutboxEvent

	locks  *keyedLocks
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		trips:       make(map[uuid.UUID]*trip.Trip),
		seats:       make(map[uuid.UUID]map[string]*seat.Record),
		bookings:    make(map[uuid.UUID]*booking.Booking),
		validations: make(map[uuid.UUID]*payment.ValidationRecord),
		locks:       newKeyedLocks(),
		logger:      logger,
	}
}

type UoW struct {
	store *Store
}

func NewUoW(store *Store) shared.UnitOfWork {
	return &UoW{store: store}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newTx(u.store, false)
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newTx(u.store, true)
	defer tx.release()

	return fn(ctx, tx)
}

// keyedLocks hands out one exclusive lock per key. Waiting honours ctx.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[string]*lockEntry)}
}

func (k *keyedLocks) lock(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.drop(key, e)
		return ctx.Err()
	}
}

func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	e := k.entries[key]
	k.mu.Unlock()
	<-e.ch
	k.drop(key, e)
}

func (k *keyedLocks) drop(key string, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}
