package engagement

import "fmt"

// EdgeKind identifies a relationship collection in the store.
type EdgeKind string

const (
	// EdgeLike is (viewer, video): the viewer liked the video.
	EdgeLike EdgeKind = "like"
	// EdgeSubscription is (viewer, channel): the viewer follows the channel.
	EdgeSubscription EdgeKind = "subscription"
)

// Valid reports whether k is a known kind.
func (k EdgeKind) Valid() bool {
	return k == EdgeLike || k == EdgeSubscription
}

// Edge is a relationship with no payload beyond its existence.
type Edge struct {
	Kind     EdgeKind
	ActorID  string
	TargetID string
}

// Change is a relationship insert or delete observed on the store's change
// feed, possibly made by another device or session.
type Change struct {
	Edge
	Present bool
}

// statusKey is the Status Cache key for an edge.
func statusKey(kind EdgeKind, actorID, targetID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, actorID, targetID)
}
