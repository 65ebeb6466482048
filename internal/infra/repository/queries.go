package repository

import (
	"context"
	"time"

	"lab-booking/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertReservation = `INSERT INTO reservations (id, day_key, slot, name, created_at)
VALUES ($1, $2, $3, $4, $5)`

	listReservationsByDay = `SELECT id, day_key, slot, name, created_at
FROM reservations
WHERE day_key = $1
ORDER BY created_at, id`

	listReservationsAt = `SELECT id, day_key, slot, name, created_at
FROM reservations
WHERE day_key = $1 AND slot = $2`

	deleteReservation = `DELETE FROM reservations WHERE id = $1`

	// Day keys that are not ISO dates can never be inside a calendar window.
	deleteReservationsOutsideDays = `DELETE FROM reservations
WHERE day_key < $1 OR day_key >= $2 OR length(day_key) <> 10`

	deleteReservationsCreatedBefore = `DELETE FROM reservations WHERE created_at < $1`
)

// Queries holds the SQL for the PostgreSQL store. Every method takes the
// DBTX explicitly so the same queries run on the pool or inside a tx.
type Queries struct{}

func NewQueries() *Queries {
	return &Queries{}
}

func (q *Queries) InsertReservation(ctx context.Context, db DBTX, row converter.ReservationRow) error {
	_, err := db.Exec(ctx, insertReservation, row.ID, row.DayKey, row.Slot, row.Name, row.CreatedAt)
	return err
}

func (q *Queries) ListReservationsByDay(ctx context.Context, db DBTX, dayKey string) ([]converter.ReservationRow, error) {
	rows, err := db.Query(ctx, listReservationsByDay, dayKey)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[converter.ReservationRow])
}

func (q *Queries) ListReservationsAt(ctx context.Context, db DBTX, dayKey, slot string) ([]converter.ReservationRow, error) {
	rows, err := db.Query(ctx, listReservationsAt, dayKey, slot)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[converter.ReservationRow])
}

func (q *Queries) DeleteReservation(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteReservation, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) DeleteReservationsOutsideDays(ctx context.Context, db DBTX, dayFrom, dayTo string) (int64, error) {
	tag, err := db.Exec(ctx, deleteReservationsOutsideDays, dayFrom, dayTo)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) DeleteReservationsCreatedBefore(ctx context.Context, db DBTX, cutoff time.Time) (int64, error) {
	tag, err := db.Exec(ctx, deleteReservationsCreatedBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
