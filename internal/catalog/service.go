// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

// ReviewSource supplies the review-derived parts of a book detail.
type ReviewSource interface {
	Distribution(ctx context.Context, bookID string) (rating.Distribution, error)
	FindMine(ctx context.Context, bookID, userID string) (*review.Review, error)
}

type Config struct {
	PageSize     int
	MaxPageSize  int
	SimilarLimit int
}

type Service struct {
	repo    Repository
	reviews ReviewSource
	cfg     Config
}

func NewService(repo Repository, reviews ReviewSource, cfg Config) *Service {
	return &Service{repo: repo, reviews: reviews, cfg: cfg}
}

func (s *Service) ListBooks(
	ctx context.Context,
	params ListBooksParams,
) (*BookListResponse, error) {
	params.Normalize(s.cfg.PageSize, s.cfg.MaxPageSize)

	books, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	genres, err := s.repo.DistinctGenres(ctx)
	if err != nil {
		return nil, err
	}

	return &BookListResponse{
		Books:      books,
		Pagination: NewBookPagination(params.Page, params.PageSize, total),
		Genres:     genres,
	}, nil
}

// GetBook returns an active book with its live rating distribution and, when
// callerID is set, the caller's own review of it.
func (s *Service) GetBook(
	ctx context.Context,
	id, callerID string,
) (*BookDetail, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dist, err := s.reviews.Distribution(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("book distribution: %w", err)
	}

	mine, err := s.reviews.FindMine(ctx, id, callerID)
	if err != nil {
		return nil, fmt.Errorf("caller review: %w", err)
	}

	return &BookDetail{
		Book:               *book,
		RatingDistribution: dist,
		UserReview:         mine,
	}, nil
}

// SimilarBooks matches on genre, author, or any shared tag, newest first.
// There is no relevance ranking beyond recency.
func (s *Service) SimilarBooks(
	ctx context.Context,
	id string,
	limit int,
) ([]Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if limit < 1 || limit > s.cfg.MaxPageSize {
		limit = s.cfg.SimilarLimit
	}

	return s.repo.Similar(ctx, book, limit)
}

func (s *Service) CreateBook(
	ctx context.Context,
	owner *access.Identity,
	req CreateBookRequest,
) (*Book, error) {
	if owner == nil {
		return nil, core.ErrUnauthorized
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = DefaultLanguage
	}

	book := &Book{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Description:   strings.TrimSpace(req.Description),
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		ISBN:          req.ISBN,
		CoverImage:    req.CoverImage,
		Pages:         req.Pages,
		Language:      language,
		Publisher:     req.Publisher,
		AddedBy:       core.Reference[Owner](owner.ID),
		Tags:          normalizeTags(req.Tags),
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, book.ID)
}

// UpdateBook overwrites every provided field. Only the owner may update, and
// the owner reference itself never changes.
func (s *Service) UpdateBook(
	ctx context.Context,
	caller *access.Identity,
	id string,
	req UpdateBookRequest,
) (*Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(caller, book.OwnerID()); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	applyUpdate(book, req)

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// DeleteBook soft-deletes the book and cascades to its reviews.
func (s *Service) DeleteBook(
	ctx context.Context,
	caller *access.Identity,
	id string,
) error {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(caller, book.OwnerID()); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Book, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// CountBooks counts every stored book, active or not.
func (s *Service) CountBooks(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// GetBookAnyState bypasses the active filter for maintenance tooling.
func (s *Service) GetBookAnyState(ctx context.Context, id string) (*Book, error) {
	return s.repo.GetByIDIncludingInactive(ctx, id)
}

// RestoreBook reverses a soft delete, returning the restored book and how
// many cascaded reviews came back with it.
func (s *Service) RestoreBook(ctx context.Context, id string) (*Book, int64, error) {
	restored, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return book, restored, nil
}

func applyUpdate(book *Book, req UpdateBookRequest) {
	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		book.Description = strings.TrimSpace(*req.Description)
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.PublishedYear != nil {
		book.PublishedYear = *req.PublishedYear
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}
	if req.CoverImage != nil {
		book.CoverImage = req.CoverImage
	}
	if req.Pages != nil {
		book.Pages = req.Pages
	}
	if req.Language != nil {
		book.Language = strings.TrimSpace(*req.Language)
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.Tags != nil {
		book.Tags = normalizeTags(*req.Tags)
	}
}

// normalizeTags trims, drops empties and removes duplicates, keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
