//go:build unit || e2e

package builder

import (
	"time"

	reqdto "lab-booking/internal/handler/dto/request"
	"lab-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID        uuid.UUID
	Date      string
	Slot      string
	Name      string
	CreatedAt time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:        uuid.New(),
		Date:      "2024-06-03",
		Slot:      "08~12",
		Name:      "王小明",
		CreatedAt: time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildRequestDTO() reqdto.BookingRequest {
	return reqdto.BookingRequest{Date: b.Date, Slot: b.Slot, Name: b.Name}
}

func (b *BookingBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:        b.ID,
		Date:      b.Date,
		Slot:      b.Slot,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}
