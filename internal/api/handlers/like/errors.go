package like

import (
	"errors"
	"log"
	"net/http"

	"Vibezone/internal/api/handlers"
	"Vibezone/internal/core/engagement"
	"Vibezone/internal/core/resilience"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engagement.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case errors.Is(err, engagement.ErrInvalidTarget):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid video id")
	case errors.Is(err, engagement.ErrActorNotFound):
		handlers.WriteError(w, http.StatusForbidden, "ProfileRequired", "Your account has no profile yet")
	case errors.Is(err, engagement.ErrTargetNotFound):
		handlers.WriteError(w, http.StatusNotFound, "VideoNotFound", "Video not found")
	case errors.Is(err, resilience.ErrTimeout):
		log.Printf("Like request timed out: %v", err)
		handlers.WriteError(w, http.StatusGatewayTimeout, "Timeout", "The record store did not respond in time")
	default:
		log.Printf("Like handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
