package realtime

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"Vibezone/internal/core/engagement"
)

// ChangeApplier receives relationship changes observed on the feed
type ChangeApplier interface {
	ApplyRemoteChange(change engagement.Change)
}

type tableMapping struct {
	kind         engagement.EdgeKind
	actorColumn  string
	targetColumn string
}

var watchedTables = map[string]tableMapping{
	"video_likes":           {kind: engagement.EdgeLike, actorColumn: "user_id", targetColumn: "video_id"},
	"channel_subscriptions": {kind: engagement.EdgeSubscription, actorColumn: "subscriber_id", targetColumn: "channel_id"},
}

// Consumer turns change events into status invalidations
type Consumer struct {
	applier ChangeApplier
}

// NewConsumer creates a change feed consumer
func NewConsumer(applier ChangeApplier) *Consumer {
	return &Consumer{applier: applier}
}

// HandleEvent processes one change event. Events for other tables are ignored.
func (c *Consumer) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	if event == nil {
		return nil
	}

	mapping, ok := watchedTables[event.Table]
	if !ok {
		return nil
	}

	var present bool
	switch event.Type {
	case EventInsert:
		present = true
	case EventDelete:
		present = false
	default:
		// UPDATE never changes edge identity
		return nil
	}

	row := event.row()
	if row == nil {
		return fmt.Errorf("%s event %s on %s missing record", event.Type, event.ID, event.Table)
	}

	actorID, err := uuidColumn(row, mapping.actorColumn)
	if err != nil {
		return fmt.Errorf("invalid %s event %s: %w", event.Table, event.ID, err)
	}
	targetID, err := uuidColumn(row, mapping.targetColumn)
	if err != nil {
		return fmt.Errorf("invalid %s event %s: %w", event.Table, event.ID, err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.applier.ApplyRemoteChange(engagement.Change{
		Edge: engagement.Edge{
			Kind:     mapping.kind,
			ActorID:  actorID,
			TargetID: targetID,
		},
		Present: present,
	})

	log.Printf("[REALTIME] %s %s %s -> %s", event.Type, mapping.kind, actorID, targetID)
	return nil
}

// uuidColumn extracts a column and normalizes it to canonical UUID form
func uuidColumn(row map[string]interface{}, column string) (string, error) {
	raw, ok := row[column].(string)
	if !ok || raw == "" {
		return "", fmt.Errorf("missing %s", column)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s is not a uuid: %w", column, err)
	}
	return id.String(), nil
}
