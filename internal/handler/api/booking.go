package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"lab-booking/internal/domain/reservation"
	reqdto "lab-booking/internal/handler/dto/request"
	resdto "lab-booking/internal/handler/dto/response"
	"lab-booking/internal/handler/httperr"
	"lab-booking/internal/usecase/commands"
	"lab-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "請求格式錯誤"
	msgInvalidSlot    = "時段不在可預約清單中"
	msgDayNotVisible  = "日期不在本週顯示範圍內"
	msgSlotTakenFmt   = "該時段已有人，請換一個：%s %s"
	msgNotFound       = "找不到對應的預約，或姓名不符"
	msgInternal       = "伺服器發生錯誤，請稍後再試"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary List bookable days
// @Description Day identifiers of the current window, in display order
// @Tags booking
// @Produce json
// @Success 200 {array} string
// @Router /days [get]
func (h *BookingHandler) Days(c *gin.Context) {
	c.JSON(http.StatusOK, h.q.Days(c.Request.Context()))
}

// @Summary Slots of a day
// @Description Every catalog slot of the day with its occupant, if any
// @Tags booking
// @Produce json
// @Param date query string true "Day identifier"
// @Success 200 {object} resdto.DaySlotsResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /slots [get]
func (h *BookingHandler) DaySlots(c *gin.Context) {
	var query reqdto.SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidRequest, msgInvalidRequest, nil)
		return
	}

	view, err := h.q.DaySlots(c.Request.Context(), query.Date)
	if err != nil {
		if errors.Is(err, reservation.ErrMissingField) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeMissingField, query.MissingFieldMessage(), nil)
			return
		}
		h.abortInternal(c, err)
		return
	}

	res, err := resdto.FromDaySlotsView(view)
	if err != nil {
		h.abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Book a slot
// @Description Reserve a (day, slot) pair for a name. At most one reservation per pair.
// @Tags booking
// @Accept json
// @Produce json
// @Param request body reqdto.BookingRequest true "Booking request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /book [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req reqdto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidRequest, msgInvalidRequest, nil)
		return
	}

	view, err := h.cmds.Book(c.Request.Context(), req.ToBookParams())
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrMissingField):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeMissingField, req.MissingFieldMessage(), nil)
		case errors.Is(err, reservation.ErrInvalidSlot):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidSlot, msgInvalidSlot, nil)
		case errors.Is(err, reservation.ErrDayNotVisible):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeDayNotVisible, msgDayNotVisible, nil)
		case errors.Is(err, reservation.ErrSlotTaken):
			msg := fmt.Sprintf(msgSlotTakenFmt, strings.TrimSpace(req.Date), strings.TrimSpace(req.Slot))
			httperr.AbortWithError(c, http.StatusConflict, err, httperr.CodeSlotTaken, msg, nil)
		default:
			h.abortInternal(c, err)
		}
		return
	}

	res, err := resdto.FromReservationView(view)
	if err != nil {
		h.abortInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Cancel a booking
// @Description Remove the reservation of a (day, slot) pair when the name matches its occupant
// @Tags booking
// @Accept json
// @Produce json
// @Param request body reqdto.BookingRequest true "Cancel request"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req reqdto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.cmds.Cancel(c.Request.Context(), req.ToCancelParams())
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrMissingField):
			httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeMissingField, req.MissingFieldMessage(), nil)
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, msgNotFound, nil)
		default:
			h.abortInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// @Summary Weekly overview
// @Description Every visible day with all of its slots and occupants
// @Tags booking
// @Produce json
// @Success 200 {array} resdto.DayResponse
// @Failure 500 {object} httperr.Response
// @Router /weekly [get]
func (h *BookingHandler) Weekly(c *gin.Context) {
	days, err := h.q.Weekly(c.Request.Context())
	if err != nil {
		h.abortInternal(c, err)
		return
	}
	res, err := resdto.FromWeekly(days)
	if err != nil {
		h.abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) abortInternal(c *gin.Context, err error) {
	slog.Error("booking request failed",
		"path", c.Request.URL.Path,
		"error", err,
	)
	httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, msgInternal, nil)
}
