// Package videos serves the short-video feed: paged reads joined with author
// profiles, degrading to the last good first page when the store is unreachable.
package videos

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"Vibezone/internal/core/resilience"
)

const (
	DefaultLimit             = 10
	DefaultMaxLimit          = 50
	DefaultAuthorConcurrency = 8
)

// Config tunes the fetch pipeline. Zero values take the defaults.
type Config struct {
	Policy            resilience.Policy
	AuthorConcurrency int
	MaxLimit          int
}

var _ Feed = (*Service)(nil)

// Service is the paginated fetch pipeline.
type Service struct {
	repo              Repository
	authors           AuthorRepository
	cache             *ListCache
	logger            *slog.Logger
	policy            resilience.Policy
	authorConcurrency int
	maxLimit          int
}

// NewService creates the feed service. A nil cache gets a fresh ListCache.
func NewService(repo Repository, authors AuthorRepository, cache *ListCache, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewListCache()
	}
	if cfg.AuthorConcurrency <= 0 {
		cfg.AuthorConcurrency = DefaultAuthorConcurrency
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultMaxLimit
	}
	return &Service{
		repo:              repo,
		authors:           authors,
		cache:             cache,
		logger:            logger,
		policy:            cfg.Policy,
		authorConcurrency: cfg.AuthorConcurrency,
		maxLimit:          cfg.MaxLimit,
	}
}

// FetchPage returns page (1-based) of at most limit videos, newest first.
//
// Store failures never surface here: a failed or empty first page falls back
// to the list cache, any other failed page comes back empty, and both report
// HasMore=false. The only error is cancellation of ctx by the caller.
func (s *Service) FetchPage(ctx context.Context, limit, page int) (*Page, error) {
	limit, page = s.normalize(limit, page)
	offset := (page - 1) * limit

	rows, err := resilience.Call(ctx, s.policy, func(ctx context.Context) ([]*Video, error) {
		return s.repo.ListRecent(ctx, limit, offset)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("failed to fetch videos",
			"error", err,
			"page", page,
			"limit", limit)
		return s.fallback(page), nil
	}

	if len(rows) == 0 {
		return s.fallback(page), nil
	}

	hasMore := false
	if len(rows) == limit {
		total, err := resilience.Call(ctx, s.policy, func(ctx context.Context) (int, error) {
			return s.repo.Count(ctx)
		})
		if err != nil {
			s.logger.Warn("failed to count videos, reporting no further pages",
				"error", err,
				"page", page)
		} else {
			hasMore = offset+limit < total
		}
	}

	s.resolveAuthors(ctx, rows)

	// Lookups cut short by the caller would leave placeholder authors.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if page == 1 {
		s.cache.Set(rows)
	}

	result := &Page{Items: rows, HasMore: hasMore}
	if hasMore {
		result.NextPage = page + 1
	}
	return result, nil
}

// ClearCache drops the cached first page.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

func (s *Service) normalize(limit, page int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if page < 1 {
		page = 1
	}
	return limit, page
}

// fallback only smooths over first-page failures; deeper pages come back empty.
func (s *Service) fallback(page int) *Page {
	if page != 1 {
		return emptyPage()
	}

	items, updatedAt, ok := s.cache.Get()
	if !ok {
		return emptyPage()
	}

	s.logger.Info("serving cached first page",
		"items", len(items),
		"cached_at", updatedAt)
	return &Page{Items: items, HasMore: false, FromCache: true}
}

// resolveAuthors looks up each distinct author concurrently and waits for all
// of them. A failed lookup only affects its own items, which get UnknownAuthor.
func (s *Service) resolveAuthors(ctx context.Context, items []*Video) {
	seen := make(map[string]struct{}, len(items))
	var userIDs []string
	for _, v := range items {
		if v.UserID == "" {
			continue
		}
		if _, dup := seen[v.UserID]; dup {
			continue
		}
		seen[v.UserID] = struct{}{}
		userIDs = append(userIDs, v.UserID)
	}

	resolved := make(map[string]Author, len(userIDs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.authorConcurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			author, err := resilience.Call(ctx, s.policy, func(ctx context.Context) (*Author, error) {
				a, err := s.authors.GetProfile(ctx, userID)
				if errors.Is(err, ErrAuthorNotFound) {
					return nil, resilience.Permanent(err)
				}
				return a, err
			})
			if err != nil || author == nil {
				s.logger.Warn("failed to resolve video author",
					"error", err,
					"user", userID)
				return nil
			}

			mu.Lock()
			resolved[userID] = *author
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, v := range items {
		if author, ok := resolved[v.UserID]; ok {
			v.Author = author
		} else {
			v.Author = UnknownAuthor
		}
	}
}
