package reservation

import "lab-booking/internal/pkg/errs"

var (
	ErrMissingField  = errs.New("missing required field")
	ErrInvalidSlot   = errs.New("slot is not in the catalog")
	ErrDayNotVisible = errs.New("day is not in the visible window")
	ErrSlotTaken     = errs.New("slot already taken")
)
