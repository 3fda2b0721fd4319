package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
)

// writeError maps the booking error taxonomy onto HTTP statuses.
// Validation errors carry the reason as message so clients can rebuild them.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		httperr.BadRequest(c, ve.Code(), ve.Reason)
	case httperr.IsBusiness(err, domain.ErrConflict.Code):
		httperr.Conflict(c, domain.ErrConflict.Code, "Slot already booked.")
	case httperr.IsBusiness(err, domain.ErrNotFound.Code):
		httperr.NotFound(c, domain.ErrNotFound.Code, "Booking not found.")
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}
