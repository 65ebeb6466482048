package request

import (
	"strings"

	"lab-booking/internal/usecase/commands"
)

const (
	msgNameRequired        = "姓名必填"
	msgDateAndSlotRequired = "請選擇日期與時段"
	msgDateRequired        = "請選擇日期"
)

// BookingRequest is the body of both /api/book and /api/cancel.
type BookingRequest struct {
	Date string `json:"date" example:"2024-06-03"`
	Slot string `json:"slot" example:"08~12"`
	Name string `json:"name" example:"王小明"`
}

func (r *BookingRequest) ToBookParams() commands.BookParams {
	return commands.BookParams{Date: r.Date, Slot: r.Slot, Name: r.Name}
}

func (r *BookingRequest) ToCancelParams() commands.CancelParams {
	return commands.CancelParams{Date: r.Date, Slot: r.Slot, Name: r.Name}
}

// MissingFieldMessage names the first blank field: the name, then the pair.
func (r *BookingRequest) MissingFieldMessage() string {
	if strings.TrimSpace(r.Name) == "" {
		return msgNameRequired
	}
	return msgDateAndSlotRequired
}

type SlotsQuery struct {
	Date string `form:"date"`
}

func (q *SlotsQuery) MissingFieldMessage() string {
	return msgDateRequired
}
