package controllers

import (
	"errors"
	"net/http"

	"salonsmart-backend/booking"
	"salonsmart-backend/repository"
	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusFor maps a service or repository error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidSlot),
		errors.Is(err, booking.ErrNotesTooLong),
		errors.Is(err, booking.ErrServiceInactive),
		errors.Is(err, booking.ErrStylistUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, booking.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSlotTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, booking.ErrWrongStep),
		errors.Is(err, booking.ErrIncomplete),
		errors.Is(err, booking.ErrAtFirstStep),
		errors.Is(err, booking.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope. Server-side failures get a generic
// message; the detail goes to the log.
func errorBody(err error) gin.H {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["error"] = "Validation failed"
		body["fields"] = verr.Fields
	}
	switch {
	case status == http.StatusServiceUnavailable:
		body["error"] = "Data is temporarily unavailable, please try again"
	case errors.Is(err, repository.ErrWrite):
		body["error"] = "Failed to save changes"
	case status == http.StatusInternalServerError:
		body["error"] = "Internal server error"
	}
	return body
}

func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorBody(err))
}

// actor reads the authenticated user set by utils.AuthMiddleware.
func actor(c *gin.Context) (services.Actor, bool) {
	id, role, ok := utils.CurrentUser(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return services.Actor{}, false
	}
	return services.Actor{UserID: id, Role: role}, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}
