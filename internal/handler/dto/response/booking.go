package response

import (
	"time"

	"lab-booking/internal/usecase/commands"
	"lab-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Slot      string    `json:"slot"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type CancelResponse struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
	Name string `json:"name"`
}

type SlotResponse struct {
	Slot string  `json:"slot"`
	Name *string `json:"name,omitempty"`
}

type DaySlotsResponse struct {
	Detail      []SlotResponse `json:"detail"`
	TakenDetail []SlotResponse `json:"takenDetail"`
	Available   []string       `json:"available"`
}

type DayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(uuid.UUID).String(), nil
			},
		},
	},
}

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	var res ReservationResponse
	if err := copier.CopyWithOption(&res, v, copyOption); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromCancelResult(r *commands.CancelResult) *CancelResponse {
	return &CancelResponse{Date: r.Date, Slot: r.Slot, Name: r.Name}
}

func FromDaySlotsView(v *queries.DaySlotsView) (*DaySlotsResponse, error) {
	var res DaySlotsResponse
	if err := copier.CopyWithOption(&res, v, copyOption); err != nil {
		return nil, err
	}
	res.Detail = nonNil(res.Detail)
	res.TakenDetail = nonNil(res.TakenDetail)
	res.Available = nonNil(res.Available)
	return &res, nil
}

func FromWeekly(days []*queries.DayView) ([]DayResponse, error) {
	res := make([]DayResponse, 0, len(days))
	for _, day := range days {
		var d DayResponse
		if err := copier.CopyWithOption(&d, day, copyOption); err != nil {
			return nil, err
		}
		d.Slots = nonNil(d.Slots)
		res = append(res, d)
	}
	return res, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
