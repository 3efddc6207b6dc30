// AngelaMos | 2026
// dto.go

package review

import (
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
)

type CreateReviewRequest struct {
	BookID     string  `json:"bookId"     validate:"required,uuid"`
	Rating     int     `json:"rating"     validate:"required,gte=1,lte=5"`
	ReviewText string  `json:"reviewText" validate:"required,min=10,max=2000"`
	Title      *string `json:"title"      validate:"omitempty,max=100"`
}

func (r *CreateReviewRequest) Normalize() {
	r.ReviewText = strings.TrimSpace(r.ReviewText)
	r.Title = trimOptional(r.Title)
}

type UpdateReviewRequest struct {
	Rating     *int    `json:"rating"     validate:"omitempty,gte=1,lte=5"`
	ReviewText *string `json:"reviewText" validate:"omitempty,min=10,max=2000"`
	Title      *string `json:"title"      validate:"omitempty,max=100"`
}

func (r *UpdateReviewRequest) Normalize() {
	if r.ReviewText != nil {
		text := strings.TrimSpace(*r.ReviewText)
		r.ReviewText = &text
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

const (
	SortCreatedAt = "createdAt"
	SortRating    = "rating"
	SortLikes     = "likes"
)

type ListParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

func (p *ListParams) Normalize(defaultSize, maxSize int) {
	page := core.PageParams{Page: p.Page, PageSize: p.PageSize}.
		Normalize(defaultSize, maxSize)
	p.Page = page.Page
	p.PageSize = page.PageSize

	switch p.SortBy {
	case SortCreatedAt, SortRating, SortLikes:
	default:
		p.SortBy = SortCreatedAt
		p.SortDesc = true
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type BookReviewsResponse struct {
	Reviews    []Review        `json:"reviews"`
	Pagination core.Pagination `json:"pagination"`
	Statistics rating.Summary  `json:"statistics"`
}

type UserReviewsResponse struct {
	Reviews    []Review        `json:"reviews"`
	Pagination core.Pagination `json:"pagination"`
}

type LikeResponse struct {
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}
