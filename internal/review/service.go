// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
)

var (
	ErrDuplicateReview = errors.New("you have already reviewed this book")
	ErrBookNotFound    = errors.New("book not found")
)

// BookLookup reports whether a book exists and is active.
type BookLookup interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

type Config struct {
	PageSize    int
	MaxPageSize int
	RecentLimit int
}

type Service struct {
	repo  Repository
	books BookLookup
	cfg   Config
	now   func() time.Time
}

func NewService(repo Repository, books BookLookup, cfg Config) *Service {
	return &Service{
		repo:  repo,
		books: books,
		cfg:   cfg,
		now:   time.Now,
	}
}

// CreateReview enforces one active review per (book, author). The existence
// check rejects the common case early; the storage-level unique constraint
// settles concurrent submissions, and both surface as ErrDuplicateReview.
func (s *Service) CreateReview(
	ctx context.Context,
	author *access.Identity,
	req CreateReviewRequest,
) (*Review, error) {
	if author == nil {
		return nil, core.ErrUnauthorized
	}

	active, err := s.books.IsActive(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("lookup book: %w", err)
	}
	if !active {
		return nil, ErrBookNotFound
	}

	exists, err := s.repo.ExistsActive(ctx, req.BookID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	rev := &Review{
		ID:         uuid.New().String(),
		Book:       core.Reference[BookSummary](req.BookID),
		User:       core.Reference[Author](author.ID),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Title:      req.Title,
		Likes:      []string{},
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	created, err := s.repo.GetByID(ctx, rev.ID)
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}

	return created, nil
}

// ListForBook pages through a book's active reviews. The statistics cover
// every active review of the book, not just the returned page.
func (s *Service) ListForBook(
	ctx context.Context,
	bookID string,
	params ListParams,
) (*BookReviewsResponse, error) {
	params.Normalize(s.cfg.PageSize, s.cfg.MaxPageSize)

	reviews, total, err := s.repo.ListByBook(ctx, bookID, params)
	if err != nil {
		return nil, err
	}

	dist, err := s.repo.Distribution(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &BookReviewsResponse{
		Reviews:    reviews,
		Pagination: core.NewPagination(params.Page, params.PageSize, total),
		Statistics: rating.Summarize(dist),
	}, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
	params ListParams,
) (*UserReviewsResponse, error) {
	params.Normalize(s.cfg.PageSize, s.cfg.MaxPageSize)

	reviews, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	return &UserReviewsResponse{
		Reviews:    reviews,
		Pagination: core.NewPagination(params.Page, params.PageSize, total),
	}, nil
}

// ListAllForUser returns every active review by userID, newest first.
func (s *Service) ListAllForUser(
	ctx context.Context,
	userID string,
) ([]Review, error) {
	var all []Review

	params := ListParams{
		Page:     1,
		PageSize: s.cfg.MaxPageSize,
		SortBy:   SortCreatedAt,
		SortDesc: true,
	}

	for {
		page, total, err := s.repo.ListByUser(ctx, userID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			break
		}
		params.Page++
	}

	if all == nil {
		all = []Review{}
	}
	return all, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Review, error) {
	if limit < 1 || limit > s.cfg.MaxPageSize {
		limit = s.cfg.RecentLimit
	}
	return s.repo.Recent(ctx, limit)
}

func (s *Service) Distribution(
	ctx context.Context,
	bookID string,
) (rating.Distribution, error) {
	return s.repo.Distribution(ctx, bookID)
}

// FindMine returns the caller's active review of bookID, or nil if there is
// none.
func (s *Service) FindMine(
	ctx context.Context,
	bookID, userID string,
) (*Review, error) {
	if userID == "" {
		return nil, nil
	}

	rev, err := s.repo.FindActive(ctx, bookID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rev, nil
}

// UpdateReview applies the provided fields. Any change to rating, text or
// title stamps editedAt; a request that changes nothing leaves it alone.
func (s *Service) UpdateReview(
	ctx context.Context,
	caller *access.Identity,
	id string,
	req UpdateReviewRequest,
) (*Review, error) {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(caller, rev.AuthorID()); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	changed := false

	if req.Rating != nil && *req.Rating != rev.Rating {
		rev.Rating = *req.Rating
		changed = true
	}

	if req.ReviewText != nil && *req.ReviewText != rev.ReviewText {
		rev.ReviewText = *req.ReviewText
		changed = true
	}

	if req.Title != nil {
		next := trimOptional(req.Title)
		if !equalOptional(next, rev.Title) {
			rev.Title = next
			changed = true
		}
	}

	if !changed {
		return rev, nil
	}

	now := s.now()
	rev.EditedAt = &now

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}

	return rev, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	caller *access.Identity,
	id string,
) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(caller, rev.AuthorID()); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	return s.repo.SoftDelete(ctx, id)
}

// ToggleLike adds the caller to the review's likers, or removes them if
// already present. Authors may like their own reviews.
func (s *Service) ToggleLike(
	ctx context.Context,
	caller *access.Identity,
	id string,
) (*LikeResponse, error) {
	if caller == nil {
		return nil, core.ErrUnauthorized
	}

	count, liked, err := s.repo.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResponse{LikeCount: count, IsLiked: liked}, nil
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
