package routes

import (
	"github.com/go-chi/chi/v5"

	"Vibezone/internal/api/handlers/like"
	"Vibezone/internal/api/handlers/subscription"
	"Vibezone/internal/api/middleware"
	"Vibezone/internal/core/engagement"
)

// RegisterEngagementRoutes registers like and channel subscription endpoints
func RegisterEngagementRoutes(r chi.Router, service engagement.Service, sessions *middleware.SessionMiddleware) {
	likeHandler := like.NewLikeHandler(service)
	subscriptionHandler := subscription.NewSubscriptionHandler(service)

	// Status reads are public; anonymous viewers see liked=false / subscribed=false
	r.Get("/api/videos/{id}/like", likeHandler.HandleGetLike)
	r.Get("/api/channels/{id}/subscription", subscriptionHandler.HandleGetSubscription)

	// Mutations require a session viewer
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireActor)

		r.Post("/api/videos/{id}/like", likeHandler.HandleLike)
		r.Delete("/api/videos/{id}/like", likeHandler.HandleUnlike)

		r.Post("/api/channels/{id}/subscription", subscriptionHandler.HandleSubscribe)
		r.Delete("/api/channels/{id}/subscription", subscriptionHandler.HandleUnsubscribe)
	})
}
