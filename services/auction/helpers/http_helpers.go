package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-house/internal/auctionerrors"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, auctionerrors.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for listing"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "invalid form data"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid must be at least the starting bid and higher than the current bid"
	case errors.Is(err, auctionerrors.ErrListingClosed):
		return http.StatusConflict, "this auction has ended"
	case errors.Is(err, auctionerrors.ErrDuplicateUsername):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, auctionerrors.ErrNotSeller):
		return http.StatusForbidden, "only the seller can close this listing"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username and/or password"
	case errors.Is(err, auctionerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "login required"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HandleServiceError sends the mapped error response and logs it; 5xx are logged as errors
func HandleServiceError(c *gin.Context, handlerName, message string, err error, fields map[string]any) {
	status, userMessage := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", userMessage, err), userMessage)

	logFields := map[string]any{"handler": handlerName, "status": status, "error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, logFields)
		return
	}
	utils.Warn(handlerName+": "+message, logFields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ListingIDParam reads the :id path parameter; malformed IDs are reported as not found
func ListingIDParam(c *gin.Context, handlerName string) (string, bool) {
	id := c.Param("id")
	if !utils.IsValidID(id) {
		HandleServiceError(c, handlerName, "malformed listing id", fmt.Errorf("listing %q: %w", id, auctionerrors.ErrListingNotFound), nil)
		return "", false
	}
	return id, true
}

// RequireUser returns the logged in user's ID or replies 401
func RequireUser(c *gin.Context, handlerName string) (string, bool) {
	userID := utils.CurrentUserID(c)
	if userID == "" {
		HandleServiceError(c, handlerName, "anonymous request", auctionerrors.ErrUnauthenticated, map[string]any{"path": c.Request.URL.Path})
		return "", false
	}
	return userID, true
}
