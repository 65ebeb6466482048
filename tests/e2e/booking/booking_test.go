//go:build e2e

package booking_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lab-booking/internal/domain/slot"
	"lab-booking/internal/domain/window"
	"lab-booking/internal/handler/dto/request"
	"lab-booking/internal/handler/dto/response"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/infra/repository"
	"lab-booking/tests/common/dbtest"
	"lab-booking/tests/common/httptest"
	"lab-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	daysURL   = "/api/days"
	slotsURL  = "/api/slots"
	bookURL   = "/api/book"
	cancelURL = "/api/cancel"
	weeklyURL = "/api/weekly"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) visibleDays(t *testing.T) []string {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, daysURL, nil)
	var days []string
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &days)
	require.Len(t, days, 7)
	return days
}

// =============================================================================
// TestBookAndCancel - full booking lifecycle through the HTTP surface
// =============================================================================

func (s *BookingSuite) TestBookAndCancel() {
	s.Run("Normal case: book, list, cancel", func() {
		t := s.T()
		day := s.visibleDays(t)[0]

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL,
			request.BookingRequest{Date: day, Slot: "08~12", Name: "  Alice  "})
		var created response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotEmpty(t, created.ID)
		require.Equal(t, "Alice", created.Name)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, slotsURL+"?date="+day, nil)
		var slots response.DaySlotsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &slots)
		require.Len(t, slots.Detail, len(slot.All()))
		require.Len(t, slots.TakenDetail, 1)
		require.Equal(t, "08~12", slots.TakenDetail[0].Slot)
		require.Equal(t, []string{"13~17", "18~22", "22以後"}, slots.Available)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL,
			request.BookingRequest{Date: day, Slot: "08~12", Name: "alice"})
		var cancelled response.CancelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		require.Equal(t, response.CancelResponse{Date: day, Slot: "08~12", Name: "alice"}, cancelled)

		require.Equal(t, 0, dbtest.CountReservations(t, s.DB, day, "08~12"))
	})

	s.Run("Error case: second booking of the same pair is rejected", func() {
		t := s.T()
		day := s.visibleDays(t)[1]
		body := request.BookingRequest{Date: day, Slot: "13~17", Name: "Alice"}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL, body)
		require.Equal(t, http.StatusCreated, w.Code)

		body.Name = "Bob"
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL, body)
		httptest.AssertErrorEnvelope(t, w, http.StatusConflict, "SLOT_TAKEN", "該時段已有人，請換一個："+day+" 13~17")
		require.Equal(t, 1, dbtest.CountReservations(t, s.DB, day, "13~17"))
	})

	s.Run("Error case: cancel with the wrong name keeps the booking", func() {
		t := s.T()
		day := s.visibleDays(t)[2]
		dbtest.InsertReservation(t, s.DB, day, "18~22", "Alice", time.Now().UTC())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL,
			request.BookingRequest{Date: day, Slot: "18~22", Name: "Bob"})
		httptest.AssertErrorEnvelope(t, w, http.StatusNotFound, "NOT_FOUND", "找不到對應的預約，或姓名不符")
		require.Equal(t, 1, dbtest.CountReservations(t, s.DB, day, "18~22"))
	})

	s.Run("Error case: day outside the window", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL,
			request.BookingRequest{Date: "1999-01-04", Slot: "08~12", Name: "Alice"})
		httptest.AssertErrorEnvelope(t, w, http.StatusBadRequest, "DAY_NOT_VISIBLE", "")
	})

	s.Run("Error case: slot outside the catalog", func() {
		t := s.T()
		day := s.visibleDays(t)[0]
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL,
			request.BookingRequest{Date: day, Slot: "07~08", Name: "Alice"})
		httptest.AssertErrorEnvelope(t, w, http.StatusBadRequest, "INVALID_SLOT", "")
	})
}

// =============================================================================
// TestWeekly - overview of the visible window
// =============================================================================

func (s *BookingSuite) TestWeekly() {
	s.Run("Normal case: every day carries every slot", func() {
		t := s.T()
		days := s.visibleDays(t)
		dbtest.InsertReservation(t, s.DB, days[3], "22以後", "Carol", time.Now().UTC())

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, weeklyURL, nil)
		var got []response.DayResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.Len(t, got, len(days))

		for i, d := range got {
			require.Equal(t, days[i], d.Date)
			require.Len(t, d.Slots, len(slot.All()))
		}
		taken := got[3].Slots[3]
		require.NotNil(t, taken.Name)
		require.Equal(t, "Carol", *taken.Name)
	})
}

// =============================================================================
// TestPurge - reservations outside the window are dropped
// =============================================================================

func (s *BookingSuite) TestPurge() {
	s.Run("Normal case: stale rows are removed on sweep", func() {
		t := s.T()
		day := s.visibleDays(t)[0]
		dbtest.InsertReservation(t, s.DB, "2000-01-03", "08~12", "Old", time.Now().UTC())
		dbtest.InsertReservation(t, s.DB, day, "08~12", "Current", time.Now().UTC())

		loc, err := window.LoadLocation(s.Config.Window.TimeZone, s.Config.Window.TimeZoneFallback)
		require.NoError(t, err)
		policy := window.NewCalendarWeek(loc)
		store := repository.NewPostgresStore(repository.NewQueries(), s.DB, policy, purge.NewAnchorGate(policy.Anchor), nil)

		n, err := store.Purge(context.Background(), time.Now())
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, 0, dbtest.CountReservations(t, s.DB, "2000-01-03", "08~12"))
		require.Equal(t, 1, dbtest.CountReservations(t, s.DB, day, "08~12"))
	})
}

// =============================================================================
// TestConcurrentBooking - the unique constraint admits one winner
// =============================================================================

func (s *BookingSuite) TestConcurrentBooking() {
	s.Run("Normal case: exactly one of K concurrent bookings succeeds", func() {
		t := s.T()
		day := s.visibleDays(t)[4]
		const k = 16

		var (
			wg       sync.WaitGroup
			created  atomic.Int32
			conflict atomic.Int32
			start    = make(chan struct{})
			codes    = make([]int, k)
		)
		for i := range k {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL,
					request.BookingRequest{Date: day, Slot: "08~12", Name: "racer"})
				codes[i] = w.Code
				switch w.Code {
				case http.StatusCreated:
					created.Add(1)
				case http.StatusConflict:
					conflict.Add(1)
				}
			}(i)
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), created.Load(), "codes: %v", codes)
		require.Equal(t, int32(k-1), conflict.Load(), "codes: %v", codes)
		require.Equal(t, 1, dbtest.CountReservations(t, s.DB, day, "08~12"))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, slotsURL+"?date="+day, nil)
		var slots response.DaySlotsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &slots)
		want := []response.SlotResponse{{Slot: "08~12"}}
		require.Empty(t, cmp.Diff(want, slots.TakenDetail, cmpopts.IgnoreFields(response.SlotResponse{}, "Name")))
	})
}
