package commands

import (
	"context"
	"errors"
	"strings"

	"lab-booking/internal/domain/reservation"
	"lab-booking/internal/pkg/clock"
	"lab-booking/internal/pkg/errs"
	"lab-booking/internal/usecase/queries"
	"lab-booking/internal/usecase/shared"
)

var ErrReservationNotFound = errs.New("reservation not found")

type BookParams struct {
	Date string
	Slot string
	Name string
}

type CancelParams struct {
	Date string
	Slot string
	Name string
}

// CancelResult echoes the cancelled pair and the trimmed caller name.
type CancelResult struct {
	Date string
	Slot string
	Name string
}

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock
type BookingCommands interface {
	Book(ctx context.Context, params BookParams) (*queries.ReservationView, error)
	Cancel(ctx context.Context, params CancelParams) (*CancelResult, error)
}

type bookingCommandsImpl struct {
	store shared.ReservationStore
	clock clock.Clock
}

func NewBookingCommands(store shared.ReservationStore, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		store: store,
		clock: clock,
	}
}

func (c *bookingCommandsImpl) Book(ctx context.Context, params BookParams) (*queries.ReservationView, error) {
	now := c.clock.Now()
	queries.MaybePurge(ctx, c.store, now)

	res, err := c.store.Book(ctx, params.Date, params.Slot, params.Name, now)
	if err != nil {
		if isCorrectable(err) {
			return nil, err
		}
		return nil, errs.Mark(err, shared.ErrDatabaseOperationFailed)
	}
	return queries.ToReservationView(res), nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, params CancelParams) (*CancelResult, error) {
	date := strings.TrimSpace(params.Date)
	slotLabel := strings.TrimSpace(params.Slot)
	name := strings.TrimSpace(params.Name)
	if date == "" || slotLabel == "" || name == "" {
		return nil, reservation.ErrMissingField
	}

	queries.MaybePurge(ctx, c.store, c.clock.Now())

	removed, err := c.store.Cancel(ctx, date, slotLabel, name)
	if err != nil {
		return nil, errs.Mark(err, shared.ErrDatabaseOperationFailed)
	}
	if !removed {
		return nil, ErrReservationNotFound
	}
	return &CancelResult{Date: date, Slot: slotLabel, Name: name}, nil
}

func isCorrectable(err error) bool {
	return errors.Is(err, reservation.ErrMissingField) ||
		errors.Is(err, reservation.ErrInvalidSlot) ||
		errors.Is(err, reservation.ErrDayNotVisible) ||
		errors.Is(err, reservation.ErrSlotTaken)
}
