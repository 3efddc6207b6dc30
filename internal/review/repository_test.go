// AngelaMos | 2026
// repository_test.go

package review_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

func newMockRepo(t *testing.T) (review.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return review.NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func newReview() *review.Review {
	return &review.Review{
		ID:         "r1",
		Book:       core.Reference[review.BookSummary]("b1"),
		User:       core.Reference[review.Author]("u1"),
		Rating:     4,
		ReviewText: "Worth the reread.",
	}
}

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("starts with no likes", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs("r1", "b1", "u1", 4, "Worth the reread.", nil).
			WillReturnRows(sqlmock.NewRows(
				[]string{"is_active", "created_at", "updated_at"},
			).AddRow(true, now, now))

		rev := newReview()
		require.NoError(t, repo.Create(ctx, rev))
		assert.True(t, rev.IsActive)
		assert.Empty(t, rev.Likes)
		assert.NotNil(t, rev.Likes)
	})

	t.Run("second active review for the pair", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`INSERT INTO reviews`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, newReview())
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})
}

func TestRepositoryToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("returns new count and membership", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE reviews r\s+SET liked_by = CASE`).
			WithArgs("r1", "u2").
			WillReturnRows(sqlmock.NewRows(
				[]string{"like_count", "is_liked"},
			).AddRow(3, true))

		count, liked, err := repo.ToggleLike(ctx, "r1", "u2")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.True(t, liked)
	})

	t.Run("review or book inactive", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE reviews r`).WillReturnError(sql.ErrNoRows)

		_, _, err := repo.ToggleLike(ctx, "r1", "u2")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestRepositorySoftDelete_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE reviews\s+SET is_active = FALSE`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "r1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
