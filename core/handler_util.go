package core

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondServiceError maps a service-layer error onto the HTTP failure
// envelope. Unrecognized errors are treated as internal faults; ownership
// mismatches arrive here already merged into the not-found errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "required fields are missing or malformed")
	case errors.Is(err, ErrNameTaken):
		respondError(c, http.StatusConflict, "CONFLICT", "name is already registered")
	case errors.Is(err, ErrUnknownCredentials):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "unknown name or password")
	case errors.Is(err, ErrNoSession):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "no active session")
	case errors.Is(err, ErrNoUser):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	case errors.Is(err, ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "task not found")
	case errors.Is(err, ErrStoreUnavailable):
		respondError(c, http.StatusInternalServerError, "STORE_UNAVAILABLE", "store unavailable")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}
