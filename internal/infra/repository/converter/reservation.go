package converter

import (
	"time"

	"lab-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

// ReservationRow mirrors the reservations table. CreatedAt is always UTC.
type ReservationRow struct {
	ID        uuid.UUID `db:"id"`
	DayKey    string    `db:"day_key"`
	Slot      string    `db:"slot"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func ReservationToRow(res reservation.Reservation) ReservationRow {
	return ReservationRow{
		ID:        res.ID(),
		DayKey:    res.DayKey(),
		Slot:      res.Slot(),
		Name:      res.OccupantName(),
		CreatedAt: res.CreatedAt().UTC(),
	}
}

func ReservationFromRow(row ReservationRow) reservation.Reservation {
	return reservation.Reconstruct(row.ID, row.DayKey, row.Slot, row.Name, row.CreatedAt)
}

func ReservationsFromRows(rows []ReservationRow) []reservation.Reservation {
	out := make([]reservation.Reservation, len(rows))
	for i, row := range rows {
		out[i] = ReservationFromRow(row)
	}
	return out
}
