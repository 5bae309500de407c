package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"Vibezone/internal/core/pending"
	"Vibezone/internal/core/resilience"
	"Vibezone/internal/core/session"
	"Vibezone/internal/core/statuscache"
)

// mutation describes one set-membership toggle.
type mutation struct {
	kind     EdgeKind
	action   string // like, unlike, subscribe, unsubscribe
	targetID string
	present  bool // desired end state
}

// Coordinator applies like / subscription changes optimistically.
// It is the only writer of the status cache and pending tracker it is given.
type Coordinator struct {
	repo        Repository
	status      *statuscache.Cache
	tracker     *pending.Tracker
	logger      *slog.Logger
	readPolicy  resilience.Policy
	writePolicy resilience.Policy
}

var _ Service = (*Coordinator)(nil)

// NewCoordinator wires a coordinator. policy governs reads as given; writes use
// the same timeout and backoff and are tagged idempotent because duplicate
// inserts and missing deletes are absorbed (see mutate).
func NewCoordinator(repo Repository, status *statuscache.Cache, tracker *pending.Tracker, policy resilience.Policy, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = pending.NewTracker()
	}

	writePolicy := policy
	writePolicy.Idempotent = true

	return &Coordinator{
		repo:        repo,
		status:      status,
		tracker:     tracker,
		logger:      logger,
		readPolicy:  policy,
		writePolicy: writePolicy,
	}
}

// LikeVideo marks videoID liked by the viewer.
func (c *Coordinator) LikeVideo(ctx context.Context, videoID string) error {
	return c.mutate(ctx, mutation{kind: EdgeLike, action: "like", targetID: videoID, present: true})
}

// UnlikeVideo removes the viewer's like from videoID.
func (c *Coordinator) UnlikeVideo(ctx context.Context, videoID string) error {
	return c.mutate(ctx, mutation{kind: EdgeLike, action: "unlike", targetID: videoID, present: false})
}

// SubscribeToChannel makes the viewer follow channelID.
func (c *Coordinator) SubscribeToChannel(ctx context.Context, channelID string) error {
	if actorID, ok := session.ActorID(ctx); ok && actorID == strings.TrimSpace(channelID) {
		return ErrSelfSubscription
	}
	return c.mutate(ctx, mutation{kind: EdgeSubscription, action: "subscribe", targetID: channelID, present: true})
}

// UnsubscribeFromChannel makes the viewer stop following channelID.
func (c *Coordinator) UnsubscribeFromChannel(ctx context.Context, channelID string) error {
	return c.mutate(ctx, mutation{kind: EdgeSubscription, action: "unsubscribe", targetID: channelID, present: false})
}

// HasLikedVideo reports whether the viewer likes videoID.
func (c *Coordinator) HasLikedVideo(ctx context.Context, videoID string) (bool, error) {
	return c.hasEdge(ctx, EdgeLike, videoID)
}

// HasSubscribedToChannel reports whether the viewer follows channelID.
func (c *Coordinator) HasSubscribedToChannel(ctx context.Context, channelID string) (bool, error) {
	return c.hasEdge(ctx, EdgeSubscription, channelID)
}

// LikeCount returns the store's like count for videoID.
func (c *Coordinator) LikeCount(ctx context.Context, videoID string) (int, error) {
	return c.count(ctx, EdgeLike, videoID)
}

// SubscriberCount returns the store's subscriber count for channelID.
func (c *Coordinator) SubscriberCount(ctx context.Context, channelID string) (int, error) {
	return c.count(ctx, EdgeSubscription, channelID)
}

// ApplyRemoteChange invalidates the cached status for an edge changed
// elsewhere, so the next query re-reads the store instead of waiting out the
// freshness window. Edges with an in-flight local mutation are left alone;
// that mutation settles the entry itself.
func (c *Coordinator) ApplyRemoteChange(change Change) {
	if !change.Kind.Valid() || change.ActorID == "" || change.TargetID == "" {
		return
	}

	key := statusKey(change.Kind, change.ActorID, change.TargetID)
	for _, action := range actionsFor(change.Kind) {
		if c.tracker.InFlight(pending.OperationID(action, change.TargetID, change.ActorID)) {
			c.logger.Debug("remote change ignored while local mutation in flight",
				"key", key,
				"operation", action)
			return
		}
	}

	c.status.Invalidate(key)
	c.logger.Debug("status invalidated by remote change",
		"key", key,
		"present", change.Present)
}

// Reset drops all cached status and pending claims (session end, tests).
func (c *Coordinator) Reset() {
	c.status.Clear()
	c.tracker.Clear()
}

// mutate runs the shared optimistic template:
// authenticate, de-duplicate, write tentative status, call the store, then
// confirm or roll back.
func (c *Coordinator) mutate(ctx context.Context, m mutation) error {
	actorID, err := session.RequireActor(ctx)
	if err != nil {
		return err
	}

	m.targetID = strings.TrimSpace(m.targetID)
	if m.targetID == "" {
		return ErrInvalidTarget
	}

	operationID := pending.OperationID(m.action, m.targetID, actorID)
	release, ok := c.tracker.TryBegin(operationID)
	if !ok {
		c.logger.Debug("duplicate operation skipped",
			"operation", operationID,
			"actor", actorID)
		return nil
	}
	defer release()

	key := statusKey(m.kind, actorID, m.targetID)
	c.status.Tentative(key, m.present)

	err = resilience.Do(ctx, c.writePolicy, func(ctx context.Context) error {
		var opErr error
		if m.present {
			opErr = c.repo.Create(ctx, m.kind, actorID, m.targetID)
		} else {
			opErr = c.repo.Delete(ctx, m.kind, actorID, m.targetID)
		}
		if IsIdempotentOutcome(opErr) || isRejection(opErr) {
			return resilience.Permanent(opErr)
		}
		return opErr
	})

	switch {
	case err == nil:
		c.logger.Info("relationship updated",
			"operation", m.action,
			"actor", actorID,
			"target", m.targetID)
	case m.present && errors.Is(err, ErrEdgeExists), !m.present && errors.Is(err, ErrEdgeNotFound):
		c.logger.Debug("relationship already in requested state",
			"operation", m.action,
			"actor", actorID,
			"target", m.targetID)
	default:
		c.status.Invalidate(key)
		c.logger.Error("relationship update failed, optimistic status rolled back",
			"error", err,
			"operation", m.action,
			"actor", actorID,
			"target", m.targetID)
		return fmt.Errorf("failed to %s %s: %w", m.action, m.targetID, unwrapPermanent(err))
	}

	c.status.Confirm(key, m.present)
	return nil
}

// hasEdge consults the status cache first and reads through on a miss.
// The store answer is cached only if no mutation or invalidation of the key
// happened while the read was in flight; otherwise the newer entry wins.
func (c *Coordinator) hasEdge(ctx context.Context, kind EdgeKind, targetID string) (bool, error) {
	actorID, ok := session.ActorID(ctx)
	if !ok {
		return false, nil
	}

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return false, ErrInvalidTarget
	}

	key := statusKey(kind, actorID, targetID)
	mark := c.status.Mark()
	if entry, ok := c.status.Read(key); ok {
		return entry.Value, nil
	}

	exists, err := resilience.Call(ctx, c.readPolicy, func(ctx context.Context) (bool, error) {
		exists, err := c.repo.Exists(ctx, kind, actorID, targetID)
		if isRejection(err) {
			return false, resilience.Permanent(err)
		}
		return exists, err
	})
	if err != nil {
		c.logger.Warn("failed to read relationship status",
			"error", err,
			"kind", string(kind),
			"actor", actorID,
			"target", targetID)
		return false, fmt.Errorf("failed to check %s status: %w", kind, unwrapPermanent(err))
	}

	if c.status.ConfirmSince(key, exists, mark) {
		return exists, nil
	}
	if entry, ok := c.status.Read(key); ok {
		c.logger.Debug("read-through superseded by newer status",
			"key", key,
			"store", exists,
			"cached", entry.Value)
		return entry.Value, nil
	}
	return exists, nil
}

func (c *Coordinator) count(ctx context.Context, kind EdgeKind, targetID string) (int, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return 0, ErrInvalidTarget
	}

	n, err := resilience.Call(ctx, c.readPolicy, func(ctx context.Context) (int, error) {
		n, err := c.repo.Count(ctx, kind, targetID)
		if isRejection(err) {
			return 0, resilience.Permanent(err)
		}
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s edges: %w", kind, unwrapPermanent(err))
	}
	return n, nil
}

// isRejection reports store errors that no retry can fix.
func isRejection(err error) bool {
	return errors.Is(err, ErrTargetNotFound) ||
		errors.Is(err, ErrActorNotFound) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrSelfSubscription)
}

func actionsFor(kind EdgeKind) []string {
	switch kind {
	case EdgeLike:
		return []string{"like", "unlike"}
	case EdgeSubscription:
		return []string{"subscribe", "unsubscribe"}
	default:
		return nil
	}
}

// unwrapPermanent strips the retry marker so callers see the store's error.
func unwrapPermanent(err error) error {
	if resilience.IsPermanent(err) {
		if inner := errors.Unwrap(err); inner != nil {
			return inner
		}
	}
	return err
}
