package repository

import (
	"context"
	"log/slog"
	"time"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/infra"
	"lab-booking/internal/infra/db"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/infra/repository/converter"
	"lab-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var _ shared.ReservationStore = (*SQLiteStore)(nil)

const (
	sqliteInsertReservation = `INSERT INTO reservations (id, day_key, slot, name, created_at)
VALUES (?, ?, ?, ?, ?)`

	sqliteSelectColumns = `SELECT id, day_key, slot, name, created_at FROM reservations`

	sqliteDeleteOutsideDays = `DELETE FROM reservations
WHERE day_key < ? OR day_key >= ? OR length(day_key) <> 10`
)

// SQLiteStore keeps reservations in a single local database file. The
// UNIQUE (day_key, slot) constraint provides booking exclusivity.
type SQLiteStore struct {
	pool   *db.SQLitePool
	policy window.Policy
	gate   purge.Gate
	logger *slog.Logger
}

func NewSQLiteStore(pool *db.SQLitePool, policy window.Policy, gate purge.Gate, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{pool: pool, policy: policy, gate: gate, logger: logger}
}

func (s *SQLiteStore) ListByDay(ctx context.Context, dayKey string, now time.Time) ([]reservation.Reservation, error) {
	rows, err := s.selectRows(ctx, sqliteSelectColumns+" WHERE day_key = ? ORDER BY created_at, id", dayKey)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by day", err)
	}
	return liveReservations(rows, s.policy, now), nil
}

func (s *SQLiteStore) Exists(ctx context.Context, dayKey, slot string, now time.Time) (bool, error) {
	rows, err := s.selectRows(ctx, sqliteSelectColumns+" WHERE day_key = ? AND slot = ?", dayKey, slot)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check reservation", err)
	}
	return len(liveReservations(rows, s.policy, now)) > 0, nil
}

func (s *SQLiteStore) Book(ctx context.Context, dayKey, slot, occupantName string, now time.Time) (reservation.Reservation, error) {
	res, err := reservation.NewReservation(s.policy, dayKey, slot, occupantName, now)
	if err != nil {
		return reservation.Reservation{}, err
	}

	row := converter.ReservationToRow(res)
	var taken bool
	err = s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endTransaction, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endTransaction(&err)

		occupants, err := scanRows(conn, sqliteSelectColumns+" WHERE day_key = ? AND slot = ?", row.DayKey, row.Slot)
		if err != nil {
			return err
		}
		for _, occupant := range occupants {
			if !converter.ReservationFromRow(occupant).IsStale(s.policy, now) {
				taken = true
				return nil
			}
			if err := sqlitex.Execute(conn, "DELETE FROM reservations WHERE id = ?", &sqlitex.ExecOptions{
				Args: []any{occupant.ID.String()},
			}); err != nil {
				return err
			}
		}

		return sqlitex.Execute(conn, sqliteInsertReservation, &sqlitex.ExecOptions{
			Args: []any{row.ID.String(), row.DayKey, row.Slot, row.Name, row.CreatedAt.UnixNano()},
		})
	})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique || sqlite.ErrCode(err) == sqlite.ResultConstraintPrimaryKey {
			taken = true
		} else {
			return reservation.Reservation{}, infra.WrapRepoErr("failed to insert reservation", err)
		}
	}
	if taken {
		s.logger.Debug("slot already reserved", "day", row.DayKey, "slot", row.Slot)
		return reservation.Reservation{}, errSlotTaken()
	}
	return res, nil
}

func (s *SQLiteStore) Cancel(ctx context.Context, dayKey, slot, occupantName string) (bool, error) {
	var removed bool
	err := s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endTransaction, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endTransaction(&err)

		rows, err := scanRows(conn, sqliteSelectColumns+" WHERE day_key = ? AND slot = ?", dayKey, slot)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if !converter.ReservationFromRow(row).MatchesOccupant(occupantName) {
				continue
			}
			if err := sqlitex.Execute(conn, "DELETE FROM reservations WHERE id = ?", &sqlitex.ExecOptions{
				Args: []any{row.ID.String()},
			}); err != nil {
				return err
			}
			removed = conn.Changes() > 0
			return nil
		}
		return nil
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel reservation", err)
	}
	return removed, nil
}

func (s *SQLiteStore) Purge(ctx context.Context, now time.Time) (int, error) {
	r := s.policy.PurgeRange(now)

	var (
		query string
		args  []any
	)
	switch {
	case r.IsDayBounded():
		query, args = sqliteDeleteOutsideDays, []any{r.DayFrom, r.DayTo}
	case !r.CreatedBefore.IsZero():
		query, args = "DELETE FROM reservations WHERE created_at < ?", []any{r.CreatedBefore.UnixNano()}
	default:
		return 0, nil
	}

	var n int
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
			return err
		}
		n = conn.Changes()
		return nil
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge reservations", err)
	}
	if n > 0 {
		s.logger.Info("purged stale reservations", "removed", n)
	}
	return n, nil
}

func (s *SQLiteStore) MaybePurge(ctx context.Context, now time.Time) error {
	if !s.gate.Due(now) {
		return nil
	}
	if _, err := s.Purge(ctx, now); err != nil {
		s.gate.Reset()
		return err
	}
	return nil
}

// Close is a no-op; the pool belongs to the persistence module.
func (s *SQLiteStore) Close() error {
	return nil
}

func (s *SQLiteStore) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)
	return fn(conn)
}

func (s *SQLiteStore) selectRows(ctx context.Context, query string, args ...any) ([]converter.ReservationRow, error) {
	var rows []converter.ReservationRow
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		var err error
		rows, err = scanRows(conn, query, args...)
		return err
	})
	return rows, err
}

func scanRows(conn *sqlite.Conn, query string, args ...any) ([]converter.ReservationRow, error) {
	rows := []converter.ReservationRow{}
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id, err := uuid.Parse(stmt.ColumnText(0))
			if err != nil {
				return err
			}
			rows = append(rows, converter.ReservationRow{
				ID:        id,
				DayKey:    stmt.ColumnText(1),
				Slot:      stmt.ColumnText(2),
				Name:      stmt.ColumnText(3),
				CreatedAt: time.Unix(0, stmt.ColumnInt64(4)).UTC(),
			})
			return nil
		},
	})
	return rows, err
}
