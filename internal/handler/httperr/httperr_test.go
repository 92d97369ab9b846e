//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := map[errs.Kind]int{
		errs.KindInvalidArgument:     http.StatusBadRequest,
		errs.KindInvalidSignature:    http.StatusBadRequest,
		errs.KindUnauthenticated:     http.StatusUnauthorized,
		errs.KindPaymentNotComplete:  http.StatusPaymentRequired,
		errs.KindForbidden:           http.StatusForbidden,
		errs.KindNotFound:            http.StatusNotFound,
		errs.KindUnavailable:         http.StatusConflict,
		errs.KindAlreadyTerminal:     http.StatusConflict,
		errs.KindAlreadyPaid:         http.StatusConflict,
		errs.KindGatewayUnavailable:  http.StatusServiceUnavailable,
		errs.KindAvailabilityUnknown: http.StatusServiceUnavailable,
		errs.KindInternal:            http.StatusInternalServerError,
	}
	for kind, want := range cases {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, want, httperr.StatusOf(kind))
			assert.NotEmpty(t, httperr.MessageOf(kind))
		})
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("marked errors carry their kind", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		httperr.Respond(c, errs.Mark(errors.New("overlap"), errs.ErrUnavailable))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t,
			`{"error":{"message":"The selected dates are not available"},"detail":{"kind":"Unavailable"}}`,
			rec.Body.String())
		require.Len(t, c.Errors, 1)
		assert.True(t, c.IsAborted())
	})

	t.Run("unmarked errors do not leak their text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		httperr.Respond(c, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}
