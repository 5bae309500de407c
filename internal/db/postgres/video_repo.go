package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"Vibezone/internal/core/videos"
)

type postgresVideoRepo struct {
	db *sql.DB
}

// NewVideoRepository creates a PostgreSQL-backed feed repository
func NewVideoRepository(db *sql.DB) videos.Repository {
	return &postgresVideoRepo{db: db}
}

// ListRecent returns videos newest first.
// id breaks ties so offsets stay stable across identical timestamps.
func (r *postgresVideoRepo) ListRecent(ctx context.Context, limit, offset int) ([]*videos.Video, error) {
	query := `
		SELECT
			id, user_id, video_url, thumbnail_url, caption,
			likes_count, comments_count, created_at
		FROM videos
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Printf("Failed to close rows: %v", closeErr)
		}
	}()

	result := make([]*videos.Video, 0, limit)
	for rows.Next() {
		var v videos.Video
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.VideoURL, &v.ThumbnailURL, &v.Caption,
			&v.LikesCount, &v.CommentsCount, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		result = append(result, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return result, nil
}

// Count returns the exact number of videos
func (r *postgresVideoRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return total, nil
}
