// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

// Repository aggregates over active records only. Averages are returned
// unrounded; presentation rounding happens in the service.
type Repository interface {
	CountBooks(ctx context.Context, userID string) (int, error)
	ReviewSummary(ctx context.Context, userID string) (int, float64, error)
	AverageReceived(ctx context.Context, userID string) (float64, error)
	Activity(ctx context.Context, userID string) ([]MonthlyActivity, error)
	GenreAffinities(
		ctx context.Context,
		userID string,
		limit int,
	) ([]GenreAffinity, error)
	Leaderboard(
		ctx context.Context,
		kind string,
		limit int,
	) ([]LeaderboardEntry, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]Member, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CountBooks(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM books WHERE added_by = $1 AND is_active`, userID)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

func (r *repository) ReviewSummary(
	ctx context.Context,
	userID string,
) (int, float64, error) {
	query := `
		SELECT COUNT(*) AS count, AVG(rating)::float8 AS average
		FROM reviews
		WHERE user_id = $1 AND is_active`

	var row struct {
		Count   int             `db:"count"`
		Average sql.NullFloat64 `db:"average"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return 0, 0, fmt.Errorf("review summary: %w", err)
	}

	return row.Count, row.Average.Float64, nil
}

func (r *repository) AverageReceived(
	ctx context.Context,
	userID string,
) (float64, error) {
	query := `
		SELECT AVG(r.rating)::float8
		FROM reviews r
		JOIN books b ON b.id = r.book_id
		WHERE b.added_by = $1 AND b.is_active AND r.is_active`

	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg, query, userID); err != nil {
		return 0, fmt.Errorf("average received: %w", err)
	}

	return avg.Float64, nil
}

func (r *repository) Activity(
	ctx context.Context,
	userID string,
) ([]MonthlyActivity, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			COUNT(*) AS count
		FROM reviews
		WHERE user_id = $1 AND is_active
		GROUP BY 1, 2
		ORDER BY 1, 2`

	activity := []MonthlyActivity{}
	if err := r.db.SelectContext(ctx, &activity, query, userID); err != nil {
		return nil, fmt.Errorf("reading activity: %w", err)
	}

	return activity, nil
}

func (r *repository) GenreAffinities(
	ctx context.Context,
	userID string,
	limit int,
) ([]GenreAffinity, error) {
	query := `
		SELECT b.genre, AVG(r.rating)::float8 AS average_rating, COUNT(*) AS count
		FROM reviews r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1 AND r.is_active AND b.is_active
		GROUP BY b.genre
		ORDER BY AVG(r.rating) DESC, COUNT(*) DESC, b.genre
		LIMIT $2`

	genres := []GenreAffinity{}
	if err := r.db.SelectContext(ctx, &genres, query, userID, limit); err != nil {
		return nil, fmt.Errorf("genre affinities: %w", err)
	}

	return genres, nil
}

type leaderboardRow struct {
	Member
	Count int `db:"count"`
}

func (r *repository) Leaderboard(
	ctx context.Context,
	kind string,
	limit int,
) ([]LeaderboardEntry, error) {
	var query string

	switch kind {
	case LeaderboardBooks:
		query = `
			SELECT u.id, u.name, u.bio, u.avatar, COUNT(*) AS count
			FROM books b
			JOIN users u ON u.id = b.added_by AND u.is_active
			WHERE b.is_active
			GROUP BY u.id, u.name, u.bio, u.avatar
			ORDER BY count DESC, u.name
			LIMIT $1`
	case LeaderboardReviews:
		query = `
			SELECT u.id, u.name, u.bio, u.avatar, COUNT(*) AS count
			FROM reviews r
			JOIN users u ON u.id = r.user_id AND u.is_active
			WHERE r.is_active
			GROUP BY u.id, u.name, u.bio, u.avatar
			ORDER BY count DESC, u.name
			LIMIT $1`
	default:
		return nil, fmt.Errorf("leaderboard %q: %w", kind, core.ErrInvalidQuery)
	}

	var rows []leaderboardRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{User: row.Member, Count: row.Count})
	}

	return entries, nil
}

func (r *repository) SearchUsers(
	ctx context.Context,
	query string,
	limit int,
) ([]Member, error) {
	sqlQuery := `
		SELECT id, name, bio, avatar
		FROM users
		WHERE is_active AND (name ILIKE $1 OR bio ILIKE $1)
		ORDER BY name, id
		LIMIT $2`

	pattern := "%" + core.EscapeLike(query) + "%"

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, sqlQuery, pattern, limit); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return members, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active) AS users,
			(SELECT COUNT(*) FROM books WHERE is_active) AS active_books,
			(SELECT COUNT(*) FROM books WHERE NOT is_active) AS inactive_books,
			(SELECT COUNT(*) FROM reviews WHERE is_active) AS active_reviews,
			(SELECT COUNT(*) FROM reviews WHERE NOT is_active) AS inactive_reviews`

	var totals Totals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("platform totals: %w", err)
	}

	return &totals, nil
}
