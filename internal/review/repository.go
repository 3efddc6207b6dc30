// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
)

// Repository only surfaces active reviews whose book is also active.
type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ExistsActive(ctx context.Context, bookID, userID string) (bool, error)
	FindActive(ctx context.Context, bookID, userID string) (*Review, error)
	ListByBook(ctx context.Context, bookID string, params ListParams) ([]Review, int, error)
	ListByUser(ctx context.Context, userID string, params ListParams) ([]Review, int, error)
	Recent(ctx context.Context, limit int) ([]Review, error)
	Distribution(ctx context.Context, bookID string) (rating.Distribution, error)
	Update(ctx context.Context, review *Review) error
	SoftDelete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (int, bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type reviewRow struct {
	ID         string         `db:"id"`
	BookID     string         `db:"book_id"`
	UserID     string         `db:"user_id"`
	Rating     int            `db:"rating"`
	ReviewText string         `db:"review_text"`
	Title      *string        `db:"title"`
	LikedBy    pq.StringArray `db:"liked_by"`
	IsActive   bool           `db:"is_active"`
	EditedAt   *time.Time     `db:"edited_at"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
	UserName   sql.NullString `db:"user_name"`
	UserAvatar *string        `db:"user_avatar"`
	BookTitle  sql.NullString `db:"book_title"`
	BookAuthor sql.NullString `db:"book_author"`
	BookGenre  sql.NullString `db:"book_genre"`
	BookCover  *string        `db:"book_cover"`
}

// toReview expands each reference whose joined columns were selected.
func (r reviewRow) toReview() Review {
	likes := []string(r.LikedBy)
	if likes == nil {
		likes = []string{}
	}

	rev := Review{
		ID:         r.ID,
		Book:       core.Reference[BookSummary](r.BookID),
		User:       core.Reference[Author](r.UserID),
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		Title:      r.Title,
		Likes:      likes,
		IsActive:   r.IsActive,
		EditedAt:   r.EditedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.UserName.Valid {
		rev.User = core.Expand(r.UserID, Author{
			ID:     r.UserID,
			Name:   r.UserName.String,
			Avatar: r.UserAvatar,
		})
	}

	if r.BookTitle.Valid {
		rev.Book = core.Expand(r.BookID, BookSummary{
			ID:         r.BookID,
			Title:      r.BookTitle.String,
			Author:     r.BookAuthor.String,
			Genre:      r.BookGenre.String,
			CoverImage: r.BookCover,
		})
	}

	return rev
}

func toReviews(rows []reviewRow) []Review {
	reviews := make([]Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toReview())
	}
	return reviews
}

const (
	reviewColumns = `
		r.id, r.book_id, r.user_id, r.rating, r.review_text, r.title, r.liked_by,
		r.is_active, r.edited_at, r.created_at, r.updated_at`

	userColumns = `, u.name AS user_name, u.avatar AS user_avatar`

	bookColumns = `, b.title AS book_title, b.author AS book_author,
		b.genre AS book_genre, b.cover_image AS book_cover`

	visibleFrom = `
		FROM reviews r
		JOIN books b ON b.id = r.book_id AND b.is_active
		JOIN users u ON u.id = r.user_id`
)

var sortColumns = map[string]string{
	SortCreatedAt: "r.created_at",
	SortRating:    "r.rating",
	SortLikes:     "cardinality(r.liked_by)",
}

func orderBy(params ListParams) string {
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(
		" ORDER BY %s %s, r.created_at DESC, r.id",
		sortColumns[params.SortBy], direction,
	)
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, book_id, user_id, rating, review_text, title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_active, created_at, updated_at`

	var row struct {
		IsActive  bool      `db:"is_active"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	err := r.db.GetContext(ctx, &row, query,
		review.ID,
		review.Book.ID,
		review.User.ID,
		review.Rating,
		review.ReviewText,
		review.Title,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create review: %w", err)
	}

	review.IsActive = row.IsActive
	review.Likes = []string{}
	review.CreatedAt = row.CreatedAt
	review.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	query := `SELECT ` + reviewColumns + userColumns + visibleFrom + `
		WHERE r.id = $1 AND r.is_active`

	var row reviewRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	rev := row.toReview()
	return &rev, nil
}

func (r *repository) ExistsActive(
	ctx context.Context,
	bookID, userID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE book_id = $1 AND user_id = $2 AND is_active
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, bookID, userID); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *repository) FindActive(
	ctx context.Context,
	bookID, userID string,
) (*Review, error) {
	query := `SELECT ` + reviewColumns + userColumns + visibleFrom + `
		WHERE r.book_id = $1 AND r.user_id = $2 AND r.is_active`

	var row reviewRow
	err := r.db.GetContext(ctx, &row, query, bookID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}

	rev := row.toReview()
	return &rev, nil
}

func (r *repository) ListByBook(
	ctx context.Context,
	bookID string,
	params ListParams,
) ([]Review, int, error) {
	where := ` WHERE r.book_id = $1 AND r.is_active`

	var total int
	if err := r.db.GetContext(
		ctx, &total, `SELECT COUNT(*)`+visibleFrom+where, bookID,
	); err != nil {
		return nil, 0, fmt.Errorf("count book reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + userColumns + visibleFrom + where +
		orderBy(params) + ` LIMIT $2 OFFSET $3`

	var rows []reviewRow
	if err := r.db.SelectContext(
		ctx, &rows, query, bookID, params.PageSize, params.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list book reviews: %w", err)
	}

	return toReviews(rows), total, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Review, int, error) {
	where := ` WHERE r.user_id = $1 AND r.is_active`

	var total int
	if err := r.db.GetContext(
		ctx, &total, `SELECT COUNT(*)`+visibleFrom+where, userID,
	); err != nil {
		return nil, 0, fmt.Errorf("count user reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + bookColumns + visibleFrom + where +
		orderBy(params) + ` LIMIT $2 OFFSET $3`

	var rows []reviewRow
	if err := r.db.SelectContext(
		ctx, &rows, query, userID, params.PageSize, params.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list user reviews: %w", err)
	}

	return toReviews(rows), total, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Review, error) {
	query := `SELECT ` + reviewColumns + userColumns + bookColumns + visibleFrom + `
		WHERE r.is_active
		ORDER BY r.created_at DESC, r.id
		LIMIT $1`

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}

	return toReviews(rows), nil
}

func (r *repository) Distribution(
	ctx context.Context,
	bookID string,
) (rating.Distribution, error) {
	query := `
		SELECT r.rating, COUNT(*) AS count
		FROM reviews r
		JOIN books b ON b.id = r.book_id AND b.is_active
		WHERE r.book_id = $1 AND r.is_active
		GROUP BY r.rating`

	var rows []struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, bookID); err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}

	dist := rating.NewDistribution()
	for _, row := range rows {
		dist.Add(row.Rating, row.Count)
	}

	return dist, nil
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, review_text = $3, title = $4, edited_at = $5,
		    updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &review.UpdatedAt, query,
		review.ID,
		review.Rating,
		review.ReviewText,
		review.Title,
		review.EditedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE reviews
		SET is_active = FALSE, deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_active`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}

	return nil
}

// ToggleLike flips userID's membership in the liker set with a single
// UPDATE, so concurrent toggles serialize on the row lock.
func (r *repository) ToggleLike(
	ctx context.Context,
	id, userID string,
) (int, bool, error) {
	query := `
		UPDATE reviews r
		SET liked_by = CASE
		        WHEN $2::text = ANY(r.liked_by) THEN array_remove(r.liked_by, $2::text)
		        ELSE array_append(r.liked_by, $2::text)
		    END
		FROM books b
		WHERE r.id = $1
		  AND r.is_active
		  AND b.id = r.book_id
		  AND b.is_active
		RETURNING cardinality(r.liked_by) AS like_count,
		          $2::text = ANY(r.liked_by) AS is_liked`

	var result struct {
		LikeCount int  `db:"like_count"`
		IsLiked   bool `db:"is_liked"`
	}

	err := r.db.GetContext(ctx, &result, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("toggle like: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, false, fmt.Errorf("toggle like: %w", err)
	}

	return result.LikeCount, result.IsLiked, nil
}
