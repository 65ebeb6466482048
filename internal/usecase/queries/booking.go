package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/domain/slot"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/pkg/clock"
	"lab-booking/internal/pkg/errs"
	"lab-booking/internal/pkg/ptr"
	"lab-booking/internal/usecase/shared"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock
type BookingQueries interface {
	Days(ctx context.Context) []string
	DaySlots(ctx context.Context, dayKey string) (*DaySlotsView, error)
	Weekly(ctx context.Context) ([]*DayView, error)
}

type bookingQueriesImpl struct {
	store  shared.ReservationStore
	policy window.Policy
	clock  clock.Clock
}

func NewBookingQueries(store shared.ReservationStore, policy window.Policy, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{
		store:  store,
		policy: policy,
		clock:  clock,
	}
}

func (q *bookingQueriesImpl) Days(ctx context.Context) []string {
	now := q.clock.Now()
	MaybePurge(ctx, q.store, now)
	return q.policy.VisibleDays(now)
}

func (q *bookingQueriesImpl) DaySlots(ctx context.Context, dayKey string) (*DaySlotsView, error) {
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return nil, reservation.ErrMissingField
	}

	now := q.clock.Now()
	MaybePurge(ctx, q.store, now)

	detail, err := q.daySlots(ctx, dayKey, now)
	if err != nil {
		return nil, err
	}

	view := &DaySlotsView{
		Date:        dayKey,
		Detail:      detail,
		TakenDetail: []SlotView{},
		Available:   []string{},
	}
	for _, s := range detail {
		if s.IsTaken() {
			view.TakenDetail = append(view.TakenDetail, s)
		} else {
			view.Available = append(view.Available, s.Slot)
		}
	}
	return view, nil
}

func (q *bookingQueriesImpl) Weekly(ctx context.Context) ([]*DayView, error) {
	now := q.clock.Now()
	MaybePurge(ctx, q.store, now)

	days := q.policy.VisibleDays(now)
	out := make([]*DayView, 0, len(days))
	for _, day := range days {
		slots, err := q.daySlots(ctx, day, now)
		if err != nil {
			return nil, err
		}
		out = append(out, &DayView{Date: day, Slots: slots})
	}
	return out, nil
}

// daySlots lists every catalog slot in catalog order with its occupant.
func (q *bookingQueriesImpl) daySlots(ctx context.Context, dayKey string, now time.Time) ([]SlotView, error) {
	items, err := q.store.ListByDay(ctx, dayKey, now)
	if err != nil {
		return nil, errs.Mark(err, shared.ErrDatabaseOperationFailed)
	}

	occupants := make(map[string]string, len(items))
	for _, r := range items {
		occupants[r.Slot()] = r.OccupantName()
	}

	labels := slot.All()
	out := make([]SlotView, len(labels))
	for i, label := range labels {
		out[i] = SlotView{Slot: label}
		if name, ok := occupants[label]; ok {
			out[i].Name = ptr.Of(name)
		}
	}
	return out, nil
}

// MaybePurge runs the store's rate-limited sweep. A failed sweep must not
// fail the request that triggered it.
func MaybePurge(ctx context.Context, store shared.ReservationStore, now time.Time) {
	if err := store.MaybePurge(ctx, now); err != nil {
		slog.WarnContext(ctx, "purge failed", "error", err.Error())
	}
}

func ToReservationView(r reservation.Reservation) *ReservationView {
	return &ReservationView{
		ID:        r.ID(),
		Date:      r.DayKey(),
		Slot:      r.Slot(),
		Name:      r.OccupantName(),
		CreatedAt: r.CreatedAt(),
	}
}
