package subscription

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"Vibezone/internal/api/handlers"
	"Vibezone/internal/core/engagement"
)

// SubscriptionState is the response body of every subscription endpoint
type SubscriptionState struct {
	SubscriberCount *int `json:"subscriberCount,omitempty"`
	Subscribed      bool `json:"subscribed"`
}

// SubscriptionHandler serves channel subscribe, unsubscribe and status
type SubscriptionHandler struct {
	service engagement.Service
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(service engagement.Service) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// HandleSubscribe follows a channel
// POST /api/channels/{id}/subscription
func (h *SubscriptionHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.SubscribeToChannel)
}

// HandleUnsubscribe stops following a channel
// DELETE /api/channels/{id}/subscription
func (h *SubscriptionHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.UnsubscribeFromChannel)
}

// HandleGetSubscription reports whether the viewer follows the channel
// GET /api/channels/{id}/subscription
func (h *SubscriptionHandler) HandleGetSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, ok := channelIDParam(w, r)
	if !ok {
		return
	}

	subscribed, err := h.service.HasSubscribedToChannel(r.Context(), channelID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.writeState(w, r.Context(), channelID, subscribed)
}

func (h *SubscriptionHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	channelID, ok := channelIDParam(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), channelID); err != nil {
		handleServiceError(w, err)
		return
	}

	subscribed, err := h.service.HasSubscribedToChannel(r.Context(), channelID)
	if err != nil {
		log.Printf("Failed to read subscription status for %s: %v", channelID, err)
	}
	h.writeState(w, r.Context(), channelID, subscribed)
}

func (h *SubscriptionHandler) writeState(w http.ResponseWriter, ctx context.Context, channelID string, subscribed bool) {
	state := SubscriptionState{Subscribed: subscribed}
	if count, err := h.service.SubscriberCount(ctx, channelID); err == nil {
		state.SubscriberCount = &count
	} else {
		log.Printf("Failed to count subscribers for %s: %v", channelID, err)
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}

func channelIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "channel id must be a UUID")
		return "", false
	}
	return id.String(), true
}
