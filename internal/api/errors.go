package api

import (
	"errors"
	"net/http"

	"alcyxob/training-scheduler/internal/schedule"
	"alcyxob/training-scheduler/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps a service error to a status code. Unexpected
// errors are logged and answered with fallback.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, schedule.ErrInvalidFormat),
		errors.Is(err, schedule.ErrInvalidStatus):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, schedule.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, schedule.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrAmbiguousAssignment):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "AmbiguousAssignment", "message": err.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
