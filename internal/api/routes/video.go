package routes

import (
	"github.com/go-chi/chi/v5"

	"Vibezone/internal/api/handlers/video"
	"Vibezone/internal/core/videos"
)

// RegisterVideoRoutes registers feed endpoints
func RegisterVideoRoutes(r chi.Router, feed videos.Feed) {
	listVideosHandler := video.NewListVideosHandler(feed)

	// GET /api/videos?limit=&page=
	// Public - anonymous viewers can browse the feed
	r.Get("/api/videos", listVideosHandler.HandleListVideos)
}
