package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/infra"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/infra/repository/converter"
	"lab-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

var _ shared.ReservationStore = (*PostgresStore)(nil)

//go:generate mockgen -source=postgres.go -destination=../../../tests/mock/repository/postgres.go -package=repositorymock
type ReservationQueries interface {
	InsertReservation(ctx context.Context, db DBTX, row converter.ReservationRow) error
	ListReservationsByDay(ctx context.Context, db DBTX, dayKey string) ([]converter.ReservationRow, error)
	ListReservationsAt(ctx context.Context, db DBTX, dayKey, slot string) ([]converter.ReservationRow, error)
	DeleteReservation(ctx context.Context, db DBTX, id uuid.UUID) (int64, error)
	DeleteReservationsOutsideDays(ctx context.Context, db DBTX, dayFrom, dayTo string) (int64, error)
	DeleteReservationsCreatedBefore(ctx context.Context, db DBTX, cutoff time.Time) (int64, error)
}

// PostgresStore relies on the (day_key, slot) unique constraint for
// booking exclusivity, so any number of processes may share one database.
type PostgresStore struct {
	queries ReservationQueries
	db      DBTX
	policy  window.Policy
	gate    purge.Gate
	logger  *slog.Logger
}

func NewPostgresStore(queries ReservationQueries, db DBTX, policy window.Policy, gate purge.Gate, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostgresStore{
		queries: queries,
		db:      db,
		policy:  policy,
		gate:    gate,
		logger:  logger,
	}
}

func (s *PostgresStore) ListByDay(ctx context.Context, dayKey string, now time.Time) ([]reservation.Reservation, error) {
	rows, err := s.queries.ListReservationsByDay(ctx, s.db, dayKey)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by day", err)
	}
	return liveReservations(rows, s.policy, now), nil
}

func (s *PostgresStore) Exists(ctx context.Context, dayKey, slot string, now time.Time) (bool, error) {
	rows, err := s.queries.ListReservationsAt(ctx, s.db, dayKey, slot)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check reservation", err)
	}
	return len(liveReservations(rows, s.policy, now)) > 0, nil
}

func (s *PostgresStore) Book(ctx context.Context, dayKey, slot, occupantName string, now time.Time) (reservation.Reservation, error) {
	res, err := reservation.NewReservation(s.policy, dayKey, slot, occupantName, now)
	if err != nil {
		return reservation.Reservation{}, err
	}

	occupants, err := s.queries.ListReservationsAt(ctx, s.db, res.DayKey(), res.Slot())
	if err != nil {
		return reservation.Reservation{}, infra.WrapRepoErr("failed to check reservation", err)
	}
	for _, occupant := range occupants {
		if !converter.ReservationFromRow(occupant).IsStale(s.policy, now) {
			return reservation.Reservation{}, errSlotTaken()
		}
		// An expired occupant the sweep has not reached yet is replaced.
		if _, err := s.queries.DeleteReservation(ctx, s.db, occupant.ID); err != nil {
			return reservation.Reservation{}, infra.WrapRepoErr("failed to delete stale reservation", err)
		}
	}

	// The check above is advisory; the unique constraint settles races.
	if err := s.queries.InsertReservation(ctx, s.db, converter.ReservationToRow(res)); err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug("insert lost the race for slot", "day", res.DayKey(), "slot", res.Slot())
			return reservation.Reservation{}, errSlotTaken()
		}
		return reservation.Reservation{}, infra.WrapRepoErr("failed to insert reservation", err)
	}
	return res, nil
}

// Cancel deletes by id after matching the name, so a concurrent cancel
// that already removed the row reports false.
func (s *PostgresStore) Cancel(ctx context.Context, dayKey, slot, occupantName string) (bool, error) {
	rows, err := s.queries.ListReservationsAt(ctx, s.db, dayKey, slot)
	if err != nil {
		return false, infra.WrapRepoErr("failed to find reservation", err)
	}

	for _, row := range rows {
		if !converter.ReservationFromRow(row).MatchesOccupant(occupantName) {
			continue
		}
		n, err := s.queries.DeleteReservation(ctx, s.db, row.ID)
		if err != nil {
			return false, infra.WrapRepoErr("failed to delete reservation", err)
		}
		return n > 0, nil
	}
	return false, nil
}

func (s *PostgresStore) Purge(ctx context.Context, now time.Time) (int, error) {
	r := s.policy.PurgeRange(now)

	var (
		n   int64
		err error
	)
	switch {
	case r.IsDayBounded():
		n, err = s.queries.DeleteReservationsOutsideDays(ctx, s.db, r.DayFrom, r.DayTo)
	case !r.CreatedBefore.IsZero():
		n, err = s.queries.DeleteReservationsCreatedBefore(ctx, s.db, r.CreatedBefore)
	default:
		return 0, nil
	}
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge reservations", err)
	}
	if n > 0 {
		s.logger.Info("purged stale reservations", "removed", n)
	}
	return int(n), nil
}

func (s *PostgresStore) MaybePurge(ctx context.Context, now time.Time) error {
	if !s.gate.Due(now) {
		return nil
	}
	if _, err := s.Purge(ctx, now); err != nil {
		s.gate.Reset()
		return err
	}
	return nil
}

// Close is a no-op; the pool belongs to the db module.
func (s *PostgresStore) Close() error {
	return nil
}

// liveReservations drops rows the policy already considers stale, so reads
// agree with Book before the gated purge has run.
func liveReservations(rows []converter.ReservationRow, policy window.Policy, now time.Time) []reservation.Reservation {
	out := make([]reservation.Reservation, 0, len(rows))
	for _, res := range converter.ReservationsFromRows(rows) {
		if !res.IsStale(policy, now) {
			out = append(out, res)
		}
	}
	return out
}

func errSlotTaken() error {
	return infra.WrapRepoErr("slot already reserved", reservation.ErrSlotTaken, infra.KindDuplicateKey)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}
