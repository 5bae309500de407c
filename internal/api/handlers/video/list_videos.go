package video

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"Vibezone/internal/api/handlers"
	"Vibezone/internal/core/videos"
)

// ListVideosHandler serves the paginated feed
type ListVideosHandler struct {
	feed videos.Feed
}

// NewListVideosHandler creates a new feed handler
func NewListVideosHandler(feed videos.Feed) *ListVideosHandler {
	return &ListVideosHandler{feed: feed}
}

// HandleListVideos returns one page of the feed
// GET /api/videos?limit=10&page=1
//
// Missing or out-of-range values are normalized by the feed service.
func (h *ListVideosHandler) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
		return
	}
	page, err := intParam(r, "page")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "page must be an integer")
		return
	}

	result, err := h.feed.FetchPage(r.Context(), limit, page)
	if err != nil {
		// FetchPage only fails when the client went away
		if errors.Is(err, context.Canceled) {
			return
		}
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "Failed to load feed")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// intParam reads an optional integer query parameter; absent means 0
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
