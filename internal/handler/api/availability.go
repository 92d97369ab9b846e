package api

import (
	"net/http"

	reqdto "villa-reservation/internal/handler/dto/request"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary Check availability
// @Description Check whether the villa is free for the given dates and quote the price
// @Tags availability
// @Produce json
// @Param checkIn query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOut query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	r, err := q.ToRange()
	if err != nil {
		badRequest(c, err, "Invalid request data")
		return
	}

	quote, err := h.availability.Quote(c.Request.Context(), r)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}

// @Summary Occupied dates
// @Description List the calendar days held by pending or paid bookings, from today onwards
// @Tags availability
// @Produce json
// @Success 200 {object} resdto.OccupiedDatesResponse
// @Failure 503 {object} httperr.Response
// @Router /availability/occupied-dates [get]
func (h *AvailabilityHandler) OccupiedDates(c *gin.Context) {
	dates, err := h.availability.OccupiedDates(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, resdto.OccupiedDatesResponse{Dates: out})
}
