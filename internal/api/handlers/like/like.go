package like

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"Vibezone/internal/api/handlers"
	"Vibezone/internal/core/engagement"
)

// LikeState is the response body of every like endpoint
type LikeState struct {
	LikeCount *int `json:"likeCount,omitempty"`
	Liked     bool `json:"liked"`
}

// LikeHandler serves like, unlike and like status for a video
type LikeHandler struct {
	service engagement.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service engagement.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike likes a video
// POST /api/videos/{id}/like
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.LikeVideo(r.Context(), videoID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.afterMutation(w, r.Context(), videoID)
}

// HandleUnlike removes the viewer's like
// DELETE /api/videos/{id}/like
func (h *LikeHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.UnlikeVideo(r.Context(), videoID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.afterMutation(w, r.Context(), videoID)
}

// HandleGetLike reports whether the viewer liked the video
// GET /api/videos/{id}/like
//
// Anonymous viewers get liked=false.
func (h *LikeHandler) HandleGetLike(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	liked, err := h.service.HasLikedVideo(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.writeState(w, r.Context(), videoID, liked)
}

// afterMutation reports the post-mutation state. The mutation already
// succeeded, so a failed status read only degrades the body.
func (h *LikeHandler) afterMutation(w http.ResponseWriter, ctx context.Context, videoID string) {
	liked, err := h.service.HasLikedVideo(ctx, videoID)
	if err != nil {
		log.Printf("Failed to read like status for %s: %v", videoID, err)
	}
	h.writeState(w, ctx, videoID, liked)
}

func (h *LikeHandler) writeState(w http.ResponseWriter, ctx context.Context, videoID string, liked bool) {
	state := LikeState{Liked: liked}
	if count, err := h.service.LikeCount(ctx, videoID); err == nil {
		state.LikeCount = &count
	} else {
		log.Printf("Failed to count likes for %s: %v", videoID, err)
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}

func videoIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "video id must be a UUID")
		return "", false
	}
	return id.String(), true
}
