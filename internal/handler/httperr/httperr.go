package httperr

import (
	"errors"
	"net/http"

	"villa-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type Detail struct {
	Kind errs.Kind `json:"kind"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Respond maps a usecase error to its status code through the error taxonomy.
func Respond(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	AbortWithError(c, StatusOf(kind), err, MessageOf(kind), Detail{Kind: kind})
}

func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidArgument, errs.KindInvalidSignature:
		return http.StatusBadRequest
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindPaymentNotComplete:
		return http.StatusPaymentRequired
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindUnavailable, errs.KindAlreadyTerminal, errs.KindAlreadyPaid:
		return http.StatusConflict
	case errs.KindGatewayUnavailable, errs.KindAvailabilityUnknown:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf returns the client-facing text. Business outcomes are stated plainly and
// transient failures ask for a retry; internals are never echoed.
func MessageOf(kind errs.Kind) string {
	switch kind {
	case errs.KindInvalidArgument:
		return "Invalid request"
	case errs.KindInvalidSignature:
		return "Invalid signature"
	case errs.KindUnauthenticated:
		return "Invalid email or password"
	case errs.KindUnavailable:
		return "The selected dates are not available"
	case errs.KindNotFound:
		return "Booking not found"
	case errs.KindForbidden:
		return "You do not have access to this booking"
	case errs.KindAlreadyTerminal:
		return "Booking is already closed"
	case errs.KindAlreadyPaid:
		return "Booking is already paid"
	case errs.KindPaymentNotComplete:
		return "Payment has not completed"
	case errs.KindGatewayUnavailable:
		return "Payment service is temporarily unavailable, please retry"
	case errs.KindAvailabilityUnknown:
		return "Availability could not be checked, please retry"
	default:
		return "Internal server error"
	}
}
