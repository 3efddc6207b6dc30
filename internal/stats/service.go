// AngelaMos | 2026
// service.go

package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
)

const (
	favoriteGenreLimit = 5
	defaultListLimit   = 10
	maxListLimit       = 50
	minQueryLength     = 2
)

// ErrQueryTooShort is an InvalidQuery failure.
var ErrQueryTooShort = errors.New("search query must be at least 2 characters")

type Service struct {
	repo  Repository
	cache LeaderboardCache
}

func NewService(repo Repository, cache LeaderboardCache) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{repo: repo, cache: cache}
}

// UserStats runs the independent aggregates concurrently. Averages are
// rounded to one decimal.
func (s *Service) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	var out UserStats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountBooks(gctx, userID)
		out.BooksAdded = n
		return err
	})
	g.Go(func() error {
		n, avg, err := s.repo.ReviewSummary(gctx, userID)
		out.ReviewsWritten = n
		out.AverageRatingGiven = rating.Round1(avg)
		return err
	})
	g.Go(func() error {
		avg, err := s.repo.AverageReceived(gctx, userID)
		out.AverageRatingReceived = rating.Round1(avg)
		return err
	})
	g.Go(func() error {
		activity, err := s.repo.Activity(gctx, userID)
		out.ReadingActivity = activity
		return err
	})
	g.Go(func() error {
		genres, err := s.repo.GenreAffinities(gctx, userID, favoriteGenreLimit)
		for i := range genres {
			genres[i].AverageRating = rating.Round1(genres[i].AverageRating)
		}
		out.FavoriteGenres = genres
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	if out.ReadingActivity == nil {
		out.ReadingActivity = []MonthlyActivity{}
	}
	if out.FavoriteGenres == nil {
		out.FavoriteGenres = []GenreAffinity{}
	}

	return &out, nil
}

// Counts returns the active books and reviews attributed to userID.
func (s *Service) Counts(ctx context.Context, userID string) (int, int, error) {
	var books, reviews int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountBooks(gctx, userID)
		books = n
		return err
	})
	g.Go(func() error {
		n, _, err := s.repo.ReviewSummary(gctx, userID)
		reviews = n
		return err
	})

	if err := g.Wait(); err != nil {
		return 0, 0, fmt.Errorf("user counts: %w", err)
	}

	return books, reviews, nil
}

// Leaderboard may serve results up to one cache TTL old.
func (s *Service) Leaderboard(
	ctx context.Context,
	kind string,
	limit int,
) ([]LeaderboardEntry, error) {
	if kind == "" {
		kind = LeaderboardBooks
	}
	if kind != LeaderboardBooks && kind != LeaderboardReviews {
		return nil, fmt.Errorf("leaderboard type %q: %w", kind, core.ErrInvalidQuery)
	}

	limit = clampLimit(limit)
	key := fmt.Sprintf("%s:%d", kind, limit)

	if entries, ok := s.cache.Get(ctx, key); ok {
		return entries, nil
	}

	entries, err := s.repo.Leaderboard(ctx, kind, limit)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, entries)
	return entries, nil
}

func (s *Service) SearchUsers(
	ctx context.Context,
	query string,
	limit int,
) ([]Member, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return nil, fmt.Errorf("%w: %w", ErrQueryTooShort, core.ErrInvalidQuery)
	}

	return s.repo.SearchUsers(ctx, query, clampLimit(limit))
}

func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	return s.repo.Totals(ctx)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
