// AngelaMos | 2026
// books.go

package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
)

type bookRepo struct {
	s *Store
}

// view copies a stored book and fills in the owner and the live review
// aggregate. Callers hold at least the read lock.
func (s *Store) view(b *catalog.Book) catalog.Book {
	out := *b
	out.Tags = copyStrings(b.Tags)

	if owner, ok := s.users[b.AddedBy.ID]; ok {
		out.AddedBy = core.Expand(owner.ID, catalog.Owner{
			ID:     owner.ID,
			Name:   owner.Name,
			Avatar: owner.Avatar,
		})
	} else {
		out.AddedBy = core.Reference[catalog.Owner](b.AddedBy.ID)
	}

	dist := s.distribution(b.ID)
	out.AverageRating = dist.Average()
	out.ReviewCount = dist.Total()

	return out
}

// distribution counts the active reviews of bookID.
func (s *Store) distribution(bookID string) rating.Distribution {
	dist := rating.NewDistribution()
	for _, rev := range s.reviews {
		if rev.BookID == bookID && rev.IsActive {
			dist.Add(rev.Rating, 1)
		}
	}
	return dist
}

func (r *bookRepo) Create(_ context.Context, book *catalog.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[book.AddedBy.ID]; !ok {
		return fmt.Errorf("create book: owner %s: %w", book.AddedBy.ID, core.ErrNotFound)
	}
	if book.Tags == nil {
		book.Tags = []string{}
	}

	now := r.s.now()
	book.IsActive = true
	book.DeactivatedAt = nil
	book.CreatedAt = now
	book.UpdatedAt = now

	stored := *book
	stored.Tags = copyStrings(book.Tags)
	stored.AddedBy = core.Reference[catalog.Owner](book.AddedBy.ID)
	r.s.books[book.ID] = &stored

	return nil
}

func (r *bookRepo) GetByID(_ context.Context, id string) (*catalog.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok || !b.IsActive {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}

	out := r.s.view(b)
	return &out, nil
}

func (r *bookRepo) GetByIDIncludingInactive(
	_ context.Context,
	id string,
) (*catalog.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}

	out := r.s.view(b)
	return &out, nil
}

func (r *bookRepo) Update(_ context.Context, book *catalog.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.books[book.ID]
	if !ok || !stored.IsActive {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}

	stored.Title = book.Title
	stored.Author = book.Author
	stored.Description = book.Description
	stored.Genre = book.Genre
	stored.PublishedYear = book.PublishedYear
	stored.ISBN = book.ISBN
	stored.CoverImage = book.CoverImage
	stored.Pages = book.Pages
	stored.Language = book.Language
	stored.Publisher = book.Publisher
	stored.Tags = copyStrings(book.Tags)
	stored.UpdatedAt = r.s.now()

	book.UpdatedAt = stored.UpdatedAt
	return nil
}

// SoftDelete stamps the book and its active reviews with one shared
// deactivation time.
func (r *bookRepo) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.books[id]
	if !ok || !stored.IsActive {
		return fmt.Errorf("deactivate book: %w", core.ErrNotFound)
	}

	now := r.s.now()
	stored.IsActive = false
	stored.DeactivatedAt = &now
	stored.UpdatedAt = now

	for _, rev := range r.s.reviews {
		if rev.BookID == id && rev.IsActive {
			at := now
			rev.IsActive = false
			rev.DeactivatedAt = &at
			rev.UpdatedAt = now
		}
	}

	return nil
}

func (r *bookRepo) Restore(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.books[id]
	if !ok || stored.IsActive {
		return 0, fmt.Errorf("restore book: %w", core.ErrNotFound)
	}

	now := r.s.now()
	active := make(map[string]bool)
	for _, rev := range r.s.reviews {
		if rev.BookID == id && rev.IsActive {
			active[rev.UserID] = true
		}
	}

	var candidates []*reviewRecord
	for _, rev := range r.s.reviews {
		if rev.BookID != id || rev.IsActive || rev.DeactivatedAt == nil {
			continue
		}
		if stored.DeactivatedAt == nil || !rev.DeactivatedAt.Equal(*stored.DeactivatedAt) {
			continue
		}
		candidates = append(candidates, rev)
	}
	slices.SortFunc(candidates, func(a, b *reviewRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var restored int64
	for _, rev := range candidates {
		if active[rev.UserID] {
			continue
		}
		rev.IsActive = true
		rev.DeactivatedAt = nil
		rev.UpdatedAt = now
		active[rev.UserID] = true
		restored++
	}

	stored.IsActive = true
	stored.DeactivatedAt = nil
	stored.UpdatedAt = now

	return restored, nil
}

func matches(b catalog.Book, p catalog.ListBooksParams) bool {
	if p.Search != "" &&
		!containsFold(b.Title, p.Search) &&
		!containsFold(b.Author, p.Search) &&
		!containsFold(b.Description, p.Search) {
		return false
	}
	if p.Genre != "" && b.Genre != p.Genre {
		return false
	}
	if p.Author != "" && !containsFold(b.Author, p.Author) {
		return false
	}
	if p.MinYear != nil && b.PublishedYear < *p.MinYear {
		return false
	}
	if p.MaxYear != nil && b.PublishedYear > *p.MaxYear {
		return false
	}
	if p.MinRating != nil && b.AverageRating < *p.MinRating {
		return false
	}
	return true
}

func compareBooks(sortBy string, a, b catalog.Book) int {
	switch sortBy {
	case catalog.SortTitle:
		return strings.Compare(a.Title, b.Title)
	case catalog.SortAuthor:
		return strings.Compare(a.Author, b.Author)
	case catalog.SortPublishedYear:
		return cmp.Compare(a.PublishedYear, b.PublishedYear)
	case catalog.SortAverageRating:
		return cmp.Compare(a.AverageRating, b.AverageRating)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// newestFirst is the tie-break every listing shares.
func newestFirst(a, b catalog.Book) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (r *bookRepo) List(
	_ context.Context,
	params catalog.ListBooksParams,
) ([]catalog.Book, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var books []catalog.Book
	for _, b := range r.s.books {
		if !b.IsActive {
			continue
		}
		if v := r.s.view(b); matches(v, params) {
			books = append(books, v)
		}
	}

	slices.SortFunc(books, func(a, b catalog.Book) int {
		c := compareBooks(params.SortBy, a, b)
		if params.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return newestFirst(a, b)
	})

	return paginate(books, params.Offset(), params.PageSize), len(books), nil
}

func (r *bookRepo) Similar(
	_ context.Context,
	book *catalog.Book,
	limit int,
) ([]catalog.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var books []catalog.Book
	for _, b := range r.s.books {
		if !b.IsActive || b.ID == book.ID {
			continue
		}
		if b.Genre == book.Genre || b.Author == book.Author || b.SharesTag(book.Tags) {
			books = append(books, r.s.view(b))
		}
	}

	slices.SortFunc(books, newestFirst)
	return paginate(books, 0, limit), nil
}

func (r *bookRepo) DistinctGenres(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genres := []string{}
	for _, b := range r.s.books {
		if b.IsActive && !slices.Contains(genres, b.Genre) {
			genres = append(genres, b.Genre)
		}
	}
	slices.Sort(genres)

	return genres, nil
}

func (r *bookRepo) ListByOwner(_ context.Context, ownerID string) ([]catalog.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	books := []catalog.Book{}
	for _, b := range r.s.books {
		if b.IsActive && b.AddedBy.ID == ownerID {
			books = append(books, r.s.view(b))
		}
	}
	slices.SortFunc(books, newestFirst)

	return books, nil
}

func (r *bookRepo) IsActive(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	return ok && b.IsActive, nil
}

func (r *bookRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.books), nil
}
