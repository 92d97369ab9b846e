package api

import (
	"net/http"

	reqdto "villa-reservation/internal/handler/dto/request"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/handler/middleware"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	reports  queries.AdminQueries
	bookings commands.BookingCommands
}

func NewAdminHandler(reports queries.AdminQueries, bookings commands.BookingCommands) *AdminHandler {
	return &AdminHandler{
		reports:  reports,
		bookings: bookings,
	}
}

// @Summary List bookings
// @Description List bookings newest first with aggregate stats. Paged by an opaque cursor.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, completed, failed, cancelled or refunded"
// @Param from query string false "Check-in on or after (YYYY-MM-DD)"
// @Param to query string false "Check-in before (YYYY-MM-DD)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.AdminBookingsResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	var q reqdto.AdminBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	filter, err := q.ToFilter()
	if err != nil {
		badRequest(c, err, "Invalid request data")
		return
	}

	list, err := h.reports.ListBookings(c.Request.Context(), filter, q.After)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromAdminBookingList(list)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Booking stats
// @Description Revenue, occupancy rate and counts by status
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.AdminStatsResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromAdminStats(stats)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update booking status
// @Description Move a booking to a new status and optionally attach notes
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateStatusRequest true "Status change"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/bookings/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	actorID, _ := middleware.GetAdminID(c)
	view, err := h.bookings.UpdateStatus(c.Request.Context(), id, commands.UpdateStatusInput{
		Status:  req.Status,
		Notes:   req.Notes,
		ActorID: actorID,
	})
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
