// AngelaMos | 2026
// repository_test.go

package stats

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("reviews", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`FROM reviews r\s+JOIN users u ON u\.id = r\.user_id AND u\.is_active`).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "name", "bio", "avatar", "count"},
			).
				AddRow("u1", "Ada", nil, nil, 7).
				AddRow("u2", "Brin", "reader", nil, 3))

		entries, err := repo.Leaderboard(ctx, LeaderboardReviews, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Ada", entries[0].User.Name)
		assert.Equal(t, 7, entries[0].Count)
		require.NotNil(t, entries[1].User.Bio)
		assert.Equal(t, "reader", *entries[1].User.Bio)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown kind never reaches the database", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.Leaderboard(ctx, "likes", 10)
		assert.ErrorIs(t, err, core.ErrInvalidQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositorySearchUsers_EscapesPattern(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE is_active AND \(name ILIKE \$1 OR bio ILIKE \$1\)`).
		WithArgs(`%50\%%`, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "avatar"}))

	members, err := repo.SearchUsers(context.Background(), "50%", 5)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}

func TestRepositoryReviewSummary_NoReviews(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, AVG\(rating\)`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "average"}).AddRow(0, nil))

	count, avg, err := repo.ReviewSummary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, avg)
}

func TestRepositoryTotals(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`AS inactive_reviews`).
		WillReturnRows(sqlmock.NewRows([]string{
			"users", "active_books", "inactive_books", "active_reviews", "inactive_reviews",
		}).AddRow(4, 10, 1, 25, 3))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Totals{
		Users:           4,
		ActiveBooks:     10,
		InactiveBooks:   1,
		ActiveReviews:   25,
		InactiveReviews: 3,
	}, totals)
}
