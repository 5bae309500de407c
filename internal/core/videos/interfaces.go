package videos

import "context"

// Repository reads feed items from the record store.
type Repository interface {
	// ListRecent returns videos newest first, skipping offset rows.
	// Author is left zero; the pipeline resolves it separately.
	ListRecent(ctx context.Context, limit, offset int) ([]*Video, error)

	// Count returns the exact number of videos in the feed.
	Count(ctx context.Context) (int, error)
}

// AuthorRepository resolves profile summaries.
type AuthorRepository interface {
	// GetProfile returns the author summary for a user.
	// Returns ErrAuthorNotFound if no profile exists.
	GetProfile(ctx context.Context, userID string) (*Author, error)
}

// Feed is the read API the HTTP layer depends on. *Service implements it.
type Feed interface {
	FetchPage(ctx context.Context, limit, page int) (*Page, error)
}
