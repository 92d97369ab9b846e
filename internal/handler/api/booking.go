package api

import (
	"net/http"

	reqdto "villa-reservation/internal/handler/dto/request"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, qs queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: cmds,
		queries:  qs,
	}
}

// @Summary Create booking
// @Description Create a pending booking for the given dates
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	in, err := req.ToInput()
	if err != nil {
		badRequest(c, err, "Invalid request data")
		return
	}

	result, err := h.commands.Create(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromCreateResult(result)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Cancel booking
// @Description Cancel a booking as its guest; paid bookings are refunded by the cancellation tier
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Requester"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.commands.Cancel(c.Request.Context(), id, req.GuestEmail)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// @Summary List guest bookings
// @Description List every booking made with the given email, newest first, with the guest profile
// @Tags bookings
// @Produce json
// @Param guestEmail query string true "Guest email"
// @Success 200 {object} resdto.UserBookingsResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListForGuest(c *gin.Context) {
	var q reqdto.UserBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.queries.GetUserBookings(c.Request.Context(), q.GuestEmail)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromGuestBookings(result)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get booking
// @Description Get a single booking; the guest email must match the booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param guestEmail query string true "Guest email"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var q reqdto.UserBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	view, err := h.queries.GetForGuest(c.Request.Context(), id, q.GuestEmail)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
