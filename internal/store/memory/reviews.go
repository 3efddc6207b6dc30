// AngelaMos | 2026
// reviews.go

package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

type reviewRepo struct {
	s *Store
}

type expansion struct {
	user bool
	book bool
}

// visible reports whether rev and its book are both active. Callers hold at
// least the read lock.
func (s *Store) visible(rev *reviewRecord) bool {
	if !rev.IsActive {
		return false
	}
	b, ok := s.books[rev.BookID]
	if !ok || !b.IsActive {
		return false
	}
	_, ok = s.users[rev.UserID]
	return ok
}

func (s *Store) reviewView(rev *reviewRecord, exp expansion) review.Review {
	out := review.Review{
		ID:         rev.ID,
		Book:       core.Reference[review.BookSummary](rev.BookID),
		User:       core.Reference[review.Author](rev.UserID),
		Rating:     rev.Rating,
		ReviewText: rev.ReviewText,
		Title:      rev.Title,
		Likes:      copyStrings(rev.Likes),
		IsActive:   rev.IsActive,
		EditedAt:   rev.EditedAt,
		CreatedAt:  rev.CreatedAt,
		UpdatedAt:  rev.UpdatedAt,
	}

	if u, ok := s.users[rev.UserID]; ok && exp.user {
		out.User = core.Expand(u.ID, review.Author{
			ID:     u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
		})
	}
	if b, ok := s.books[rev.BookID]; ok && exp.book {
		out.Book = core.Expand(b.ID, review.BookSummary{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Genre:      b.Genre,
			CoverImage: b.CoverImage,
		})
	}

	return out
}

func (r *reviewRepo) Create(_ context.Context, rev *review.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reviews {
		if existing.IsActive &&
			existing.BookID == rev.Book.ID &&
			existing.UserID == rev.User.ID {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
	}

	now := r.s.now()
	rev.IsActive = true
	rev.Likes = []string{}
	rev.CreatedAt = now
	rev.UpdatedAt = now

	r.s.reviews[rev.ID] = &reviewRecord{
		ID:         rev.ID,
		BookID:     rev.Book.ID,
		UserID:     rev.User.ID,
		Rating:     rev.Rating,
		ReviewText: rev.ReviewText,
		Title:      rev.Title,
		Likes:      []string{},
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return nil
}

func (r *reviewRepo) GetByID(_ context.Context, id string) (*review.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rev, ok := r.s.reviews[id]
	if !ok || !r.s.visible(rev) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}

	out := r.s.reviewView(rev, expansion{user: true})
	return &out, nil
}

func (r *reviewRepo) ExistsActive(_ context.Context, bookID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rev := range r.s.reviews {
		if rev.IsActive && rev.BookID == bookID && rev.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *reviewRepo) FindActive(
	_ context.Context,
	bookID, userID string,
) (*review.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rev := range r.s.reviews {
		if rev.BookID == bookID && rev.UserID == userID && r.s.visible(rev) {
			out := r.s.reviewView(rev, expansion{user: true})
			return &out, nil
		}
	}
	return nil, fmt.Errorf("find review: %w", core.ErrNotFound)
}

func compareReviews(sortBy string, a, b *reviewRecord) int {
	switch sortBy {
	case review.SortRating:
		return cmp.Compare(a.Rating, b.Rating)
	case review.SortLikes:
		return cmp.Compare(len(a.Likes), len(b.Likes))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func latestReviewFirst(a, b *reviewRecord) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// list filters visible reviews, sorts them and cuts one page.
func (s *Store) list(
	keep func(*reviewRecord) bool,
	params review.ListParams,
	exp expansion,
) ([]review.Review, int) {
	var matched []*reviewRecord
	for _, rev := range s.reviews {
		if s.visible(rev) && keep(rev) {
			matched = append(matched, rev)
		}
	}

	slices.SortFunc(matched, func(a, b *reviewRecord) int {
		c := compareReviews(params.SortBy, a, b)
		if params.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return latestReviewFirst(a, b)
	})

	page := paginate(matched, params.Offset(), params.PageSize)
	out := make([]review.Review, 0, len(page))
	for _, rev := range page {
		out = append(out, s.reviewView(rev, exp))
	}

	return out, len(matched)
}

func (r *reviewRepo) ListByBook(
	_ context.Context,
	bookID string,
	params review.ListParams,
) ([]review.Review, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reviews, total := r.s.list(func(rev *reviewRecord) bool {
		return rev.BookID == bookID
	}, params, expansion{user: true})

	return reviews, total, nil
}

func (r *reviewRepo) ListByUser(
	_ context.Context,
	userID string,
	params review.ListParams,
) ([]review.Review, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reviews, total := r.s.list(func(rev *reviewRecord) bool {
		return rev.UserID == userID
	}, params, expansion{book: true})

	return reviews, total, nil
}

func (r *reviewRepo) Recent(_ context.Context, limit int) ([]review.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reviews, _ := r.s.list(func(*reviewRecord) bool { return true }, review.ListParams{
		Page:     1,
		PageSize: limit,
		SortBy:   review.SortCreatedAt,
		SortDesc: true,
	}, expansion{user: true, book: true})

	return reviews, nil
}

func (r *reviewRepo) Distribution(
	_ context.Context,
	bookID string,
) (rating.Distribution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[bookID]
	if !ok || !b.IsActive {
		return rating.NewDistribution(), nil
	}
	return r.s.distribution(bookID), nil
}

func (r *reviewRepo) Update(_ context.Context, rev *review.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.reviews[rev.ID]
	if !ok || !stored.IsActive {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}

	stored.Rating = rev.Rating
	stored.ReviewText = rev.ReviewText
	stored.Title = rev.Title
	stored.EditedAt = rev.EditedAt
	stored.UpdatedAt = r.s.now()

	rev.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *reviewRepo) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.reviews[id]
	if !ok || !stored.IsActive {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}

	now := r.s.now()
	stored.IsActive = false
	stored.DeactivatedAt = &now
	stored.UpdatedAt = now

	return nil
}

// ToggleLike flips membership under the write lock, so concurrent toggles
// by the same user never both add.
func (r *reviewRepo) ToggleLike(_ context.Context, id, userID string) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.reviews[id]
	if !ok || !r.s.visible(stored) {
		return 0, false, fmt.Errorf("toggle like: %w", core.ErrNotFound)
	}

	if i := slices.Index(stored.Likes, userID); i >= 0 {
		stored.Likes = slices.Delete(stored.Likes, i, i+1)
		return len(stored.Likes), false, nil
	}

	stored.Likes = append(stored.Likes, userID)
	return len(stored.Likes), true, nil
}
