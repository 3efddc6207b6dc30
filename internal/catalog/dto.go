// AngelaMos | 2026
// dto.go

package catalog

import (
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

type CreateBookRequest struct {
	Title         string   `json:"title"         validate:"required,min=1,max=200"`
	Author        string   `json:"author"        validate:"required,min=1,max=100"`
	Description   string   `json:"description"   validate:"required,min=10,max=2000"`
	Genre         string   `json:"genre"         validate:"required,genre"`
	PublishedYear int      `json:"publishedYear" validate:"required,gte=1000,notfuture"`
	ISBN          *string  `json:"isbn"          validate:"omitempty,isbn"`
	CoverImage    *string  `json:"coverImage"    validate:"omitempty,url"`
	Pages         *int     `json:"pages"         validate:"omitempty,gte=1"`
	Language      string   `json:"language"      validate:"omitempty,max=50"`
	Publisher     *string  `json:"publisher"     validate:"omitempty,max=100"`
	Tags          []string `json:"tags"          validate:"omitempty,max=20,dive,min=1,max=30"`
}

// Normalize trims the text fields so length rules apply to what is stored.
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
	r.Language = strings.TrimSpace(r.Language)
}

// UpdateBookRequest overwrites every field that is present. The owner is not
// among the updatable fields.
type UpdateBookRequest struct {
	Title         *string   `json:"title"         validate:"omitempty,min=1,max=200"`
	Author        *string   `json:"author"        validate:"omitempty,min=1,max=100"`
	Description   *string   `json:"description"   validate:"omitempty,min=10,max=2000"`
	Genre         *string   `json:"genre"         validate:"omitempty,genre"`
	PublishedYear *int      `json:"publishedYear" validate:"omitempty,gte=1000,notfuture"`
	ISBN          *string   `json:"isbn"          validate:"omitempty,isbn"`
	CoverImage    *string   `json:"coverImage"    validate:"omitempty,url"`
	Pages         *int      `json:"pages"         validate:"omitempty,gte=1"`
	Language      *string   `json:"language"      validate:"omitempty,min=1,max=50"`
	Publisher     *string   `json:"publisher"     validate:"omitempty,max=100"`
	Tags          *[]string `json:"tags"          validate:"omitempty,max=20,dive,min=1,max=30"`
}

func (r *UpdateBookRequest) Normalize() {
	r.Title = trimPresent(r.Title)
	r.Author = trimPresent(r.Author)
	r.Description = trimPresent(r.Description)
	r.Language = trimPresent(r.Language)
}

// trimPresent keeps an absent field absent and trims a present one, so a
// blank value still fails its min rule.
func trimPresent(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

const (
	SortTitle         = "title"
	SortAuthor        = "author"
	SortPublishedYear = "publishedYear"
	SortAverageRating = "averageRating"
	SortCreatedAt     = "createdAt"
)

var sortKeys = map[string]struct{}{
	SortTitle:         {},
	SortAuthor:        {},
	SortPublishedYear: {},
	SortAverageRating: {},
	SortCreatedAt:     {},
}

// ListBooksParams are the optional predicates of a catalog listing. Every
// predicate that is set must hold.
type ListBooksParams struct {
	Search    string
	Genre     string
	Author    string
	MinYear   *int
	MaxYear   *int
	MinRating *float64
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

func (p *ListBooksParams) Normalize(defaultSize, maxSize int) {
	page := core.PageParams{Page: p.Page, PageSize: p.PageSize}.
		Normalize(defaultSize, maxSize)
	p.Page = page.Page
	p.PageSize = page.PageSize

	p.Search = strings.TrimSpace(p.Search)
	p.Author = strings.TrimSpace(p.Author)

	if _, ok := sortKeys[p.SortBy]; !ok {
		p.SortBy = SortCreatedAt
		p.SortDesc = true
	}
}

func (p *ListBooksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BookPagination reports the total under the catalog's own name as well.
type BookPagination struct {
	core.Pagination
	TotalBooks int `json:"totalBooks"`
}

func NewBookPagination(page, pageSize, total int) BookPagination {
	return BookPagination{
		Pagination: core.NewPagination(page, pageSize, total),
		TotalBooks: total,
	}
}

type BookListResponse struct {
	Books      []Book         `json:"books"`
	Pagination BookPagination `json:"pagination"`
	Genres     []string       `json:"genres"`
}

type BookDetail struct {
	Book
	RatingDistribution rating.Distribution `json:"ratingDistribution"`
	UserReview         *review.Review      `json:"userReview"`
}
