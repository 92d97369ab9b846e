package api

import (
	"net/http"

	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func badRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, httperr.Detail{Kind: errs.KindInvalidArgument})
}

func bookingIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}
