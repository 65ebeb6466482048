package shared

import (
	"context"
	"time"

	"lab-booking/internal/domain/reservation"
)

// ReservationStore owns the authoritative reservation collection. At most
// one live reservation exists per (dayKey, slot), including under
// concurrent Book calls. Returned reservations are copies. Reads and Book
// ignore records the policy considers stale at now, whether or not a purge
// has removed them yet.
//
//go:generate mockgen -source=store.go -destination=../../../tests/mock/shared/store.go -package=sharedmock
type ReservationStore interface {
	ListByDay(ctx context.Context, dayKey string, now time.Time) ([]reservation.Reservation, error)
	Exists(ctx context.Context, dayKey, slot string, now time.Time) (bool, error)
	// Book returns reservation.ErrSlotTaken, ErrInvalidSlot, ErrDayNotVisible
	// or ErrMissingField for caller-correctable failures.
	Book(ctx context.Context, dayKey, slot, occupantName string, now time.Time) (reservation.Reservation, error)
	// Cancel reports false both when nothing occupies the pair and when the
	// occupant name does not match.
	Cancel(ctx context.Context, dayKey, slot, occupantName string) (bool, error)
	// Purge removes stale reservations and returns how many it removed.
	Purge(ctx context.Context, now time.Time) (int, error)
	MaybePurge(ctx context.Context, now time.Time) error
	Close() error
}
