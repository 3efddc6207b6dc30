// AngelaMos | 2026
// service_test.go

package stats

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

type fakeRepo struct {
	leaderboardCalls atomic.Int32
	searched         string
	searchLimit      int
}

func (f *fakeRepo) CountBooks(context.Context, string) (int, error) { return 2, nil }

func (f *fakeRepo) ReviewSummary(context.Context, string) (int, float64, error) {
	return 3, 11.0 / 3.0, nil
}

func (f *fakeRepo) AverageReceived(context.Context, string) (float64, error) {
	return 4.25, nil
}

func (f *fakeRepo) Activity(context.Context, string) ([]MonthlyActivity, error) {
	return nil, nil
}

func (f *fakeRepo) GenreAffinities(context.Context, string, int) ([]GenreAffinity, error) {
	return []GenreAffinity{{Genre: "Fiction", AverageRating: 3.666, Count: 3}}, nil
}

func (f *fakeRepo) Leaderboard(_ context.Context, kind string, _ int) ([]LeaderboardEntry, error) {
	f.leaderboardCalls.Add(1)
	return []LeaderboardEntry{{User: Member{ID: "u1", Name: kind}, Count: 1}}, nil
}

func (f *fakeRepo) SearchUsers(_ context.Context, query string, limit int) ([]Member, error) {
	f.searched = query
	f.searchLimit = limit
	return []Member{}, nil
}

func (f *fakeRepo) Totals(context.Context) (*Totals, error) {
	return &Totals{Users: 1}, nil
}

func TestUserStats_RoundsAndFillsEmptyLists(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	got, err := svc.UserStats(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, got.BooksAdded)
	assert.Equal(t, 3, got.ReviewsWritten)
	assert.InDelta(t, 3.7, got.AverageRatingGiven, 1e-9)
	assert.InDelta(t, 4.3, got.AverageRatingReceived, 1e-9)
	assert.NotNil(t, got.ReadingActivity)
	assert.Empty(t, got.ReadingActivity)
	require.Len(t, got.FavoriteGenres, 1)
	assert.InDelta(t, 3.7, got.FavoriteGenres[0].AverageRating, 1e-9)
}

func TestCounts(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	books, reviews, err := svc.Counts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, books)
	assert.Equal(t, 3, reviews)
}

func TestLeaderboard_Cached(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewLeaderboardCache(nil, time.Minute))
	ctx := context.Background()

	for range 3 {
		entries, err := svc.Leaderboard(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, LeaderboardBooks, entries[0].User.Name)
	}
	assert.EqualValues(t, 1, repo.leaderboardCalls.Load())

	_, err := svc.Leaderboard(ctx, LeaderboardReviews, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.leaderboardCalls.Load())
}

func TestLeaderboard_NoCacheWhenTTLDisabled(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, NewLeaderboardCache(nil, 0))

	for range 2 {
		_, err := svc.Leaderboard(context.Background(), LeaderboardBooks, 5)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, repo.leaderboardCalls.Load())
}

func TestLeaderboard_UnknownKind(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	_, err := svc.Leaderboard(context.Background(), "likes", 10)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestSearchUsers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		limit     int
		wantErr   bool
		wantQuery string
		wantLimit int
	}{
		{name: "too short", query: "a", wantErr: true},
		{name: "short after trim", query: "  b  ", wantErr: true},
		{name: "default limit", query: " ada ", wantQuery: "ada", wantLimit: 10},
		{name: "clamped limit", query: "ada", limit: 500, wantQuery: "ada", wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo, nil)

			_, err := svc.SearchUsers(context.Background(), tt.query, tt.limit)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrQueryTooShort))
				assert.True(t, errors.Is(err, core.ErrInvalidQuery))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, repo.searched)
			assert.Equal(t, tt.wantLimit, repo.searchLimit)
		})
	}
}
