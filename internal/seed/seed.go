// AngelaMos | 2026
// seed.go

// Package seed fills an empty catalog with demo accounts, books and reviews.
// Everything goes through the regular services, so seeded records obey the
// same validation and uniqueness rules as API traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

const (
	DemoPassword = "password123"
	seedAgent    = "bookctl-seed"
	seedAddress  = "127.0.0.1"
)

type Accounts interface {
	Signup(ctx context.Context, req auth.SignupRequest, userAgent, ipAddress string) (*auth.AuthResponse, error)
}

type Users interface {
	GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error)
}

type Books interface {
	CountBooks(ctx context.Context) (int, error)
	CreateBook(ctx context.Context, owner *access.Identity, req catalog.CreateBookRequest) (*catalog.Book, error)
}

type Reviews interface {
	CreateReview(ctx context.Context, author *access.Identity, req review.CreateReviewRequest) (*review.Review, error)
}

type Seeder struct {
	accounts Accounts
	users    Users
	books    Books
	reviews  Reviews
	logger   *slog.Logger
}

func New(accounts Accounts, users Users, books Books, reviews Reviews, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		accounts: accounts,
		users:    users,
		books:    books,
		reviews:  reviews,
		logger:   logger,
	}
}

type Result struct {
	Skipped bool
	Users   int
	Books   int
	Reviews int
}

// Run seeds only when no book has ever been stored. Demo accounts that
// already exist are reused rather than recreated.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	count, err := s.books.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		s.logger.Info("catalog not empty, skipping seed", "books", count)
		return &Result{Skipped: true}, nil
	}

	var result Result

	members := make(map[string]*access.Identity, len(demoUsers))
	for _, u := range demoUsers {
		identity, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return nil, err
		}
		if created {
			result.Users++
		}
		members[u.Email] = identity
	}

	books := make([]*catalog.Book, 0, len(demoBooks))
	for _, b := range demoBooks {
		book, err := s.books.CreateBook(ctx, members[b.owner], b.req)
		if err != nil {
			return nil, fmt.Errorf("seed book %q: %w", b.req.Title, err)
		}
		books = append(books, book)
		result.Books++
	}

	for _, rv := range demoReviews {
		_, err := s.reviews.CreateReview(ctx, members[rv.author], review.CreateReviewRequest{
			BookID:     books[rv.book].ID,
			Rating:     rv.rating,
			ReviewText: rv.text,
		})
		if errors.Is(err, review.ErrDuplicateReview) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed review: %w", err)
		}
		result.Reviews++
	}

	s.logger.Info("seed complete",
		"users", result.Users,
		"books", result.Books,
		"reviews", result.Reviews,
	)

	return &result, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u demoUser) (*access.Identity, bool, error) {
	existing, err := s.users.GetByEmail(ctx, u.Email)
	if err == nil {
		return identityOf(existing), false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup %s: %w", u.Email, err)
	}

	resp, err := s.accounts.Signup(ctx, auth.SignupRequest{
		Name:     u.Name,
		Email:    u.Email,
		Password: DemoPassword,
	}, seedAgent, seedAddress)
	if err != nil {
		return nil, false, fmt.Errorf("signup %s: %w", u.Email, err)
	}

	return &access.Identity{
		ID:       resp.User.ID,
		Name:     resp.User.Name,
		Email:    resp.User.Email,
		IsActive: resp.User.IsActive,
	}, true, nil
}

func identityOf(u *auth.UserInfo) *access.Identity {
	return &access.Identity{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
