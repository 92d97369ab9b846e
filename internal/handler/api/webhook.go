package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"villa-reservation/internal/domain/payment"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/infra/gateway"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type SignatureVerifier interface {
	Verify(payload []byte, header string, now time.Time) error
}

type WebhookHandler struct {
	payments commands.PaymentCommands
	verifier SignatureVerifier
	clock    clock.Clock
}

func NewWebhookHandler(payments commands.PaymentCommands, verifier SignatureVerifier, clk clock.Clock) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		verifier: verifier,
		clock:    clk,
	}
}

// @Summary Payment gateway webhook
// @Description Receive a signed payment event. The signature is checked against the raw body before parsing.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Payment-Signature header string true "t=<unix>,v1=<hex hmac>"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Router /webhooks/payment [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		badRequest(c, err, "Unreadable body")
		return
	}
	if len(body) > maxWebhookBody {
		badRequest(c, nil, "Body too large")
		return
	}

	if err := h.verifier.Verify(body, c.GetHeader(gateway.SignatureHeader), h.clock.Now()); err != nil {
		slog.Warn("webhook signature rejected", "error", err.Error())
		httperr.Respond(c, errs.Mark(err, errs.ErrInvalidSignature))
		return
	}

	ev, err := payment.ParseEvent(body)
	if err != nil {
		badRequest(c, err, "Malformed event")
		return
	}

	outcome, err := h.payments.HandleWebhook(c.Request.Context(), ev)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.WebhookResponse{Received: true, Outcome: string(outcome)})
}
