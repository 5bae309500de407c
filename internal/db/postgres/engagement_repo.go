package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"Vibezone/internal/core/engagement"
)

// edgeTable maps an edge kind onto its relationship table. Only these fixed
// identifiers are ever interpolated into SQL.
type edgeTable struct {
	table        string
	actorColumn  string
	targetColumn string
	// actorConstraint is the foreign key from the actor column to profiles.
	actorConstraint string
	// Optional advisory counter maintained alongside the edge.
	incrementCounter string
	decrementCounter string
}

var edgeTables = map[engagement.EdgeKind]edgeTable{
	engagement.EdgeLike: {
		table:            "video_likes",
		actorColumn:      "user_id",
		targetColumn:     "video_id",
		actorConstraint:  "fk_video_likes_actor",
		incrementCounter: `UPDATE videos SET likes_count = likes_count + 1 WHERE id = $1`,
		decrementCounter: `UPDATE videos SET likes_count = GREATEST(0, likes_count - 1) WHERE id = $1`,
	},
	engagement.EdgeSubscription: {
		table:           "channel_subscriptions",
		actorColumn:     "subscriber_id",
		targetColumn:    "channel_id",
		actorConstraint: "fk_channel_subscriptions_actor",
	},
}

type postgresEngagementRepo struct {
	db *sql.DB
}

// NewEngagementRepository creates a PostgreSQL-backed relationship store
func NewEngagementRepository(db *sql.DB) engagement.Repository {
	return &postgresEngagementRepo{db: db}
}

func tableFor(kind engagement.EdgeKind) (edgeTable, error) {
	t, ok := edgeTables[kind]
	if !ok {
		return edgeTable{}, fmt.Errorf("unknown edge kind %q", kind)
	}
	return t, nil
}

// Create inserts the edge and bumps the advisory counter in one transaction
func (r *postgresEngagementRepo) Create(ctx context.Context, kind engagement.EdgeKind, actorID, targetID string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, t.table, t.actorColumn, t.targetColumn)
	if _, err := tx.ExecContext(ctx, query, actorID, targetID); err != nil {
		switch pqCode(err) {
		case pgUniqueViolation:
			return engagement.ErrEdgeExists
		case pgForeignKeyViolation:
			if pqConstraint(err) == t.actorConstraint {
				return engagement.ErrActorNotFound
			}
			return engagement.ErrTargetNotFound
		case pgCheckViolation:
			return engagement.ErrSelfSubscription
		case pgInvalidTextRepresentation:
			return engagement.ErrInvalidTarget
		}
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}

	if t.incrementCounter != "" {
		if _, err := tx.ExecContext(ctx, t.incrementCounter, targetID); err != nil {
			return fmt.Errorf("failed to increment %s count: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the edge and decrements the advisory counter
func (r *postgresEngagementRepo) Delete(ctx context.Context, kind engagement.EdgeKind, actorID, targetID string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, t.table, t.actorColumn, t.targetColumn)
	result, err := tx.ExecContext(ctx, query, actorID, targetID)
	if err != nil {
		if pqCode(err) == pgInvalidTextRepresentation {
			return engagement.ErrInvalidTarget
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return engagement.ErrEdgeNotFound
	}

	if t.decrementCounter != "" {
		if _, err := tx.ExecContext(ctx, t.decrementCounter, targetID); err != nil {
			return fmt.Errorf("failed to decrement %s count: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exists reports whether the edge is present
func (r *postgresEngagementRepo) Exists(ctx context.Context, kind engagement.EdgeKind, actorID, targetID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`, t.table, t.actorColumn, t.targetColumn)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, actorID, targetID).Scan(&exists); err != nil {
		if pqCode(err) == pgInvalidTextRepresentation {
			return false, engagement.ErrInvalidTarget
		}
		return false, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	return exists, nil
}

// Count returns the number of edges pointing at targetID
func (r *postgresEngagementRepo) Count(ctx context.Context, kind engagement.EdgeKind, targetID string) (int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t.table, t.targetColumn)

	var n int
	if err := r.db.QueryRowContext(ctx, query, targetID).Scan(&n); err != nil {
		if pqCode(err) == pgInvalidTextRepresentation {
			return 0, engagement.ErrInvalidTarget
		}
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return n, nil
}
