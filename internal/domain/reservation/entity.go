package reservation

import (
	"strings"
	"time"

	"lab-booking/internal/domain/slot"
	"lab-booking/internal/domain/window"

	"github.com/google/uuid"
)

// Reservation is immutable once created. It is destroyed by a matching
// cancellation or by a purge sweep.
type Reservation struct {
	id           uuid.UUID
	dayKey       string
	slot         string
	occupantName string
	createdAt    time.Time
}

// NewReservation validates the request against the slot catalog and the
// policy's visible window at now, then assigns a fresh identity.
// Uniqueness of (dayKey, slot) is the store's concern.
func NewReservation(policy window.Policy, dayKey, slotLabel, occupantName string, now time.Time) (Reservation, error) {
	dayKey = strings.TrimSpace(dayKey)
	slotLabel = strings.TrimSpace(slotLabel)
	occupantName = strings.TrimSpace(occupantName)

	if occupantName == "" || dayKey == "" || slotLabel == "" {
		return Reservation{}, ErrMissingField
	}
	if !slot.IsValid(slotLabel) {
		return Reservation{}, ErrInvalidSlot
	}
	if !policy.IsVisible(dayKey, now) {
		return Reservation{}, ErrDayNotVisible
	}

	return Reservation{
		id:           uuid.New(),
		dayKey:       dayKey,
		slot:         slotLabel,
		occupantName: occupantName,
		createdAt:    now.UTC(),
	}, nil
}

func Reconstruct(id uuid.UUID, dayKey, slotLabel, occupantName string, createdAt time.Time) Reservation {
	return Reservation{
		id:           id,
		dayKey:       dayKey,
		slot:         slotLabel,
		occupantName: occupantName,
		createdAt:    createdAt.UTC(),
	}
}

// MatchesOccupant compares names after trimming, ignoring case.
func (r Reservation) MatchesOccupant(name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.occupantName), strings.TrimSpace(name))
}

func (r Reservation) Occupies(dayKey, slotLabel string) bool {
	return r.dayKey == dayKey && r.slot == slotLabel
}

func (r Reservation) IsStale(policy window.Policy, now time.Time) bool {
	return policy.IsStale(r.dayKey, r.createdAt, now)
}

func (r Reservation) ID() uuid.UUID        { return r.id }
func (r Reservation) DayKey() string       { return r.dayKey }
func (r Reservation) Slot() string         { return r.slot }
func (r Reservation) OccupantName() string { return r.occupantName }
func (r Reservation) CreatedAt() time.Time { return r.createdAt }
