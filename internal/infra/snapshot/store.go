package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/domain/slot"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/infra"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/usecase/shared"
)

var _ shared.ReservationStore = (*Store)(nil)

// Store keeps the live collection in memory and mirrors every mutation to
// its Persister. One mutex serializes reads, mutations, purges and the
// snapshot write itself. The in-memory collection is replaced only after the
// write succeeds, so it always equals the last persisted state.
type Store struct {
	mu        sync.Mutex
	items     []reservation.Reservation
	persister Persister
	policy    window.Policy
	gate      purge.Gate
	logger    *slog.Logger
}

// Open loads the persisted collection and runs a startup purge. A malformed
// snapshot is logged and treated as empty.
func Open(persister Persister, policy window.Policy, gate purge.Gate, logger *slog.Logger, now time.Time) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	records, err := persister.Load()
	if err != nil {
		if !errors.Is(err, ErrMalformed) {
			return nil, infra.WrapRepoErr("failed to load snapshot", err)
		}
		logger.Warn("snapshot is malformed, starting empty", "error", err.Error())
		records = nil
	}

	s := &Store{
		items:     fromRecords(records, logger),
		persister: persister,
		policy:    policy,
		gate:      gate,
		logger:    logger,
	}

	if _, err := s.Purge(context.Background(), now); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ListByDay(_ context.Context, dayKey string, now time.Time) ([]reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []reservation.Reservation{}
	for _, r := range s.items {
		if r.DayKey() == dayKey && !r.IsStale(s.policy, now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) Exists(_ context.Context, dayKey, slotLabel string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(dayKey, slotLabel)
	return idx >= 0 && !s.items[idx].IsStale(s.policy, now), nil
}

func (s *Store) Book(ctx context.Context, dayKey, slotLabel, occupantName string, now time.Time) (reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return reservation.Reservation{}, err
	}

	res, err := reservation.NewReservation(s.policy, dayKey, slotLabel, occupantName, now)
	if err != nil {
		return reservation.Reservation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(res.DayKey(), res.Slot())
	if idx >= 0 && !s.items[idx].IsStale(s.policy, now) {
		return reservation.Reservation{}, reservation.ErrSlotTaken
	}

	next := slices.Clone(s.items)
	if idx >= 0 {
		// An expired occupant the sweep has not reached yet is replaced.
		next = slices.Delete(next, idx, idx+1)
	}
	next = append(next, res)

	if err := s.commitLocked(next); err != nil {
		return reservation.Reservation{}, err
	}
	return res, nil
}

func (s *Store) Cancel(ctx context.Context, dayKey, slotLabel, occupantName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(dayKey, slotLabel)
	if idx < 0 || !s.items[idx].MatchesOccupant(occupantName) {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	if err := s.commitLocked(next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]reservation.Reservation, 0, len(s.items))
	for _, r := range s.items {
		if !r.IsStale(s.policy, now) {
			next = append(next, r)
		}
	}

	removed := len(s.items) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commitLocked(next); err != nil {
		return 0, err
	}
	s.logger.Info("purged stale reservations", "removed", removed, "remaining", len(next))
	return removed, nil
}

func (s *Store) MaybePurge(ctx context.Context, now time.Time) error {
	if !s.gate.Due(now) {
		return nil
	}
	if _, err := s.Purge(ctx, now); err != nil {
		s.gate.Reset()
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) indexLocked(dayKey, slotLabel string) int {
	return slices.IndexFunc(s.items, func(r reservation.Reservation) bool {
		return r.Occupies(dayKey, slotLabel)
	})
}

func (s *Store) commitLocked(next []reservation.Reservation) error {
	if err := s.persister.Save(toRecords(next)); err != nil {
		return infra.WrapRepoErr("failed to write snapshot", err)
	}
	s.items = next
	return nil
}

func toRecords(items []reservation.Reservation) []Record {
	records := make([]Record, len(items))
	for i, r := range items {
		records[i] = Record{
			ID:        r.ID(),
			DayKey:    r.DayKey(),
			Slot:      r.Slot(),
			Name:      r.OccupantName(),
			CreatedAt: r.CreatedAt(),
		}
	}
	return records
}

// fromRecords drops records that could never have been created: unknown
// slots and second claims on an occupied pair.
func fromRecords(records []Record, logger *slog.Logger) []reservation.Reservation {
	items := make([]reservation.Reservation, 0, len(records))
	seen := make(map[[2]string]struct{}, len(records))
	for _, rec := range records {
		if !slot.IsValid(rec.Slot) {
			logger.Warn("dropping snapshot record with unknown slot", "id", rec.ID.String(), "slot", rec.Slot)
			continue
		}
		key := [2]string{rec.DayKey, rec.Slot}
		if _, dup := seen[key]; dup {
			logger.Warn("dropping duplicate snapshot record", "id", rec.ID.String(), "day", rec.DayKey, "slot", rec.Slot)
			continue
		}
		seen[key] = struct{}{}
		items = append(items, reservation.Reconstruct(rec.ID, rec.DayKey, rec.Slot, rec.Name, rec.CreatedAt))
	}
	return items
}
