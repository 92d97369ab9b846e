package api

import (
	"net/http"

	reqdto "villa-reservation/internal/handler/dto/request"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments commands.PaymentCommands
}

func NewPaymentHandler(payments commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// @Summary Create payment intent
// @Description Create or reuse the gateway payment intent for a pending booking
// @Tags payments
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.IntentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	result, err := h.payments.CreateIntent(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromIntentResult(result))
}

// @Summary Confirm payment
// @Description Confirm a booking once the gateway reports the intent succeeded
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmPaymentRequest true "Intent reference"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/payment/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.payments.Confirm(c.Request.Context(), id, req.PaymentIntentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp, err := resdto.FromConfirmResult(result)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
