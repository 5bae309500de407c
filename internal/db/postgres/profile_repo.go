package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Vibezone/internal/core/videos"
)

type postgresProfileRepo struct {
	db *sql.DB
}

// NewProfileRepository creates a PostgreSQL-backed author lookup
func NewProfileRepository(db *sql.DB) videos.AuthorRepository {
	return &postgresProfileRepo{db: db}
}

// GetProfile returns the author summary for userID
func (r *postgresProfileRepo) GetProfile(ctx context.Context, userID string) (*videos.Author, error) {
	query := `SELECT id, username, avatar_url FROM profiles WHERE id = $1`

	var author videos.Author
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&author.ID, &author.Name, &author.Avatar)
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pgInvalidTextRepresentation {
		return nil, videos.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &author, nil
}
