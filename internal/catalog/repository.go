// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

// Repository reads only active books unless a method says otherwise.
type Repository interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	GetByIDIncludingInactive(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, book *Book) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	Similar(ctx context.Context, book *Book, limit int) ([]Book, error)
	DistinctGenres(ctx context.Context) ([]string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Book, error)
	IsActive(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type bookRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Author        string         `db:"author"`
	Description   string         `db:"description"`
	Genre         string         `db:"genre"`
	PublishedYear int            `db:"published_year"`
	ISBN          *string        `db:"isbn"`
	CoverImage    *string        `db:"cover_image"`
	Pages         *int           `db:"pages"`
	Language      string         `db:"language"`
	Publisher     *string        `db:"publisher"`
	AddedBy       string         `db:"added_by"`
	Tags          pq.StringArray `db:"tags"`
	IsActive      bool           `db:"is_active"`
	DeactivatedAt *time.Time     `db:"deactivated_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	OwnerName     string         `db:"owner_name"`
	OwnerAvatar   *string        `db:"owner_avatar"`
	AverageRating float64        `db:"average_rating"`
	ReviewCount   int            `db:"review_count"`
}

func (r bookRow) toBook() Book {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}

	return Book{
		ID:            r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Description:   r.Description,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
		ISBN:          r.ISBN,
		CoverImage:    r.CoverImage,
		Pages:         r.Pages,
		Language:      r.Language,
		Publisher:     r.Publisher,
		AddedBy: core.Expand(r.AddedBy, Owner{
			ID:     r.AddedBy,
			Name:   r.OwnerName,
			Avatar: r.OwnerAvatar,
		}),
		Tags:          tags,
		IsActive:      r.IsActive,
		DeactivatedAt: r.DeactivatedAt,
		AverageRating: r.AverageRating,
		ReviewCount:   r.ReviewCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toBooks(rows []bookRow) []Book {
	books := make([]Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toBook())
	}
	return books
}

// bookSelect joins the owner and the live review aggregate. Only active
// reviews contribute to the rating.
const bookSelect = `
	WITH review_stats AS (
		SELECT book_id,
		       ROUND(AVG(rating)::numeric, 1)::float8 AS average_rating,
		       COUNT(*) AS review_count
		FROM reviews
		WHERE is_active
		GROUP BY book_id
	)
	SELECT b.id, b.title, b.author, b.description, b.genre, b.published_year,
	       b.isbn, b.cover_image, b.pages, b.language, b.publisher, b.added_by,
	       b.tags, b.is_active, b.deactivated_at, b.created_at, b.updated_at,
	       u.name AS owner_name, u.avatar AS owner_avatar,
	       COALESCE(s.average_rating, 0) AS average_rating,
	       COALESCE(s.review_count, 0) AS review_count
	FROM books b
	JOIN users u ON u.id = b.added_by
	LEFT JOIN review_stats s ON s.book_id = b.id`

var sortColumns = map[string]string{
	SortTitle:         "b.title",
	SortAuthor:        "b.author",
	SortPublishedYear: "b.published_year",
	SortAverageRating: "average_rating",
	SortCreatedAt:     "b.created_at",
}

func (r *repository) Create(ctx context.Context, book *Book) error {
	if book.Tags == nil {
		book.Tags = []string{}
	}

	query := `
		INSERT INTO books (
			id, title, author, description, genre, published_year, isbn,
			cover_image, pages, language, publisher, added_by, tags
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING is_active, created_at, updated_at`

	var row struct {
		IsActive  bool      `db:"is_active"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	err := r.db.GetContext(ctx, &row, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.PublishedYear,
		book.ISBN,
		book.CoverImage,
		book.Pages,
		book.Language,
		book.Publisher,
		book.AddedBy.ID,
		pq.StringArray(book.Tags),
	)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	book.IsActive = row.IsActive
	book.CreatedAt = row.CreatedAt
	book.UpdatedAt = row.UpdatedAt

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Book, error) {
	return r.getOne(ctx, bookSelect+` WHERE b.id = $1 AND b.is_active`, id)
}

func (r *repository) GetByIDIncludingInactive(
	ctx context.Context,
	id string,
) (*Book, error) {
	return r.getOne(ctx, bookSelect+` WHERE b.id = $1`, id)
}

func (r *repository) getOne(
	ctx context.Context,
	query, id string,
) (*Book, error) {
	var row bookRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	book := row.toBook()
	return &book, nil
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, description = $4, genre = $5,
		    published_year = $6, isbn = $7, cover_image = $8, pages = $9,
		    language = $10, publisher = $11, tags = $12, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &book.UpdatedAt, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.PublishedYear,
		book.ISBN,
		book.CoverImage,
		book.Pages,
		book.Language,
		book.Publisher,
		pq.StringArray(book.Tags),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	return nil
}

// SoftDelete deactivates the book and every active review of it in one
// transaction. The reviews share the book's deactivated_at so a restore can
// tell them apart from reviews their authors deleted earlier.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE books
			SET is_active = FALSE, deactivated_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND is_active`, id)
		if err != nil {
			return fmt.Errorf("deactivate book: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("deactivate book: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("deactivate book: %w", core.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reviews
			SET is_active = FALSE, deactivated_at = NOW(), updated_at = NOW()
			WHERE book_id = $1 AND is_active`, id); err != nil {
			return fmt.Errorf("deactivate book reviews: %w", err)
		}

		return nil
	})
}

// Restore reactivates a soft-deleted book and the reviews its deletion
// cascaded to. A review is skipped when its author has since written a new
// active review of the same book.
func (r *repository) Restore(ctx context.Context, id string) (int64, error) {
	var restored int64

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `
			SELECT EXISTS(SELECT 1 FROM books WHERE id = $1 AND NOT is_active)`,
			id); err != nil {
			return fmt.Errorf("find inactive book: %w", err)
		}
		if !exists {
			return fmt.Errorf("restore book: %w", core.ErrNotFound)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE reviews r
			SET is_active = TRUE, deactivated_at = NULL, updated_at = NOW()
			FROM books b
			WHERE b.id = r.book_id
			  AND r.book_id = $1
			  AND NOT r.is_active
			  AND r.deactivated_at = b.deactivated_at
			  AND NOT EXISTS (
			      SELECT 1 FROM reviews o
			      WHERE o.book_id = r.book_id AND o.user_id = r.user_id AND o.is_active
			  )`, id)
		if err != nil {
			return fmt.Errorf("restore reviews: %w", err)
		}

		restored, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("restore reviews: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE books
			SET is_active = TRUE, deactivated_at = NULL, updated_at = NOW()
			WHERE id = $1`, id); err != nil {
			return fmt.Errorf("restore book: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return restored, nil
}

func listConditions(params ListBooksParams) *core.Conditions {
	conds := core.NewConditions("b.is_active")

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		conds.Add(
			"(b.title ILIKE ? OR b.author ILIKE ? OR b.description ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if params.Genre != "" {
		conds.Add("b.genre = ?", params.Genre)
	}
	if params.Author != "" {
		conds.Add("b.author ILIKE ?", "%"+core.EscapeLike(params.Author)+"%")
	}
	if params.MinYear != nil {
		conds.Add("b.published_year >= ?", *params.MinYear)
	}
	if params.MaxYear != nil {
		conds.Add("b.published_year <= ?", *params.MaxYear)
	}
	if params.MinRating != nil {
		conds.Add("COALESCE(s.average_rating, 0) >= ?", *params.MinRating)
	}

	return conds
}

// List applies every predicate, including minRating, before paginating, so
// the reported total always matches the rows reachable through paging.
func (r *repository) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	conds := listConditions(params)

	countQuery := `
		WITH review_stats AS (
			SELECT book_id, ROUND(AVG(rating)::numeric, 1)::float8 AS average_rating
			FROM reviews
			WHERE is_active
			GROUP BY book_id
		)
		SELECT COUNT(*)
		FROM books b
		LEFT JOIN review_stats s ON s.book_id = b.id
		` + conds.Where()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, conds.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	column := sortColumns[params.SortBy]
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	limit := conds.Arg(params.PageSize)
	offset := conds.Arg(params.Offset())

	query := bookSelect + " " + conds.Where() + fmt.Sprintf(
		" ORDER BY %s %s, b.created_at DESC, b.id LIMIT %s OFFSET %s",
		column, direction, limit, offset,
	)

	var rows []bookRow
	if err := r.db.SelectContext(ctx, &rows, query, conds.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return toBooks(rows), total, nil
}

func (r *repository) Similar(
	ctx context.Context,
	book *Book,
	limit int,
) ([]Book, error) {
	query := bookSelect + `
		WHERE b.is_active
		  AND b.id <> $1
		  AND (b.genre = $2 OR b.author = $3 OR b.tags && $4::text[])
		ORDER BY b.created_at DESC, b.id
		LIMIT $5`

	var rows []bookRow
	err := r.db.SelectContext(ctx, &rows, query,
		book.ID,
		book.Genre,
		book.Author,
		pq.StringArray(book.Tags),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similar books: %w", err)
	}

	return toBooks(rows), nil
}

func (r *repository) DistinctGenres(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT genre FROM books WHERE is_active ORDER BY genre`

	genres := []string{}
	if err := r.db.SelectContext(ctx, &genres, query); err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}

	return genres, nil
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]Book, error) {
	query := bookSelect + `
		WHERE b.added_by = $1 AND b.is_active
		ORDER BY b.created_at DESC, b.id`

	var rows []bookRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}

	return toBooks(rows), nil
}

func (r *repository) IsActive(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1 AND is_active)`

	var active bool
	if err := r.db.GetContext(ctx, &active, query, id); err != nil {
		return false, fmt.Errorf("check book active: %w", err)
	}

	return active, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM books`); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}
