package engagement

import "context"

// Service is the viewer-facing like / subscription API.
// The viewer is taken from the context (see session.WithActor).
type Service interface {
	// LikeVideo adds the viewer's like. A repeated call while one is in
	// flight, or a like that already exists, succeeds without error.
	LikeVideo(ctx context.Context, videoID string) error

	// UnlikeVideo removes the viewer's like; an absent like is success.
	UnlikeVideo(ctx context.Context, videoID string) error

	// HasLikedVideo answers from the status cache, falling back to the store.
	// Anonymous viewers have liked nothing.
	HasLikedVideo(ctx context.Context, videoID string) (bool, error)

	// LikeCount returns the number of likes recorded for a video.
	LikeCount(ctx context.Context, videoID string) (int, error)

	// SubscribeToChannel follows a channel (a video author's profile).
	SubscribeToChannel(ctx context.Context, channelID string) error

	// UnsubscribeFromChannel stops following a channel.
	UnsubscribeFromChannel(ctx context.Context, channelID string) error

	// HasSubscribedToChannel mirrors HasLikedVideo for subscriptions.
	HasSubscribedToChannel(ctx context.Context, channelID string) (bool, error)

	// SubscriberCount returns how many viewers follow a channel.
	SubscriberCount(ctx context.Context, channelID string) (int, error)
}

// Repository is the record store's view of relationship edges.
type Repository interface {
	// Create inserts the edge.
	// Returns ErrEdgeExists on a uniqueness conflict, ErrTargetNotFound
	// when the target row is missing and ErrActorNotFound when the actor's
	// profile is missing.
	Create(ctx context.Context, kind EdgeKind, actorID, targetID string) error

	// Delete removes the edge. Returns ErrEdgeNotFound when nothing was removed.
	Delete(ctx context.Context, kind EdgeKind, actorID, targetID string) error

	// Exists reports whether the edge is present.
	Exists(ctx context.Context, kind EdgeKind, actorID, targetID string) (bool, error)

	// Count returns the number of edges pointing at targetID.
	Count(ctx context.Context, kind EdgeKind, targetID string) (int, error)
}
