package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read model of one booking.
type ReservationView struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Slot      string    `json:"slot"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SlotView is one catalog slot of a day. Name is nil while the slot is free.
type SlotView struct {
	Slot string  `json:"slot"`
	Name *string `json:"name,omitempty"`
}

func (v SlotView) IsTaken() bool {
	return v.Name != nil
}

type DaySlotsView struct {
	Date        string     `json:"date"`
	Detail      []SlotView `json:"detail"`
	TakenDetail []SlotView `json:"takenDetail"`
	Available   []string   `json:"available"`
}

type DayView struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}
