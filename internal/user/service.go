// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

type BookLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]catalog.Book, error)
}

type ReviewLister interface {
	ListAllForUser(ctx context.Context, userID string) ([]review.Review, error)
}

// Counter reports how many active books and reviews a user has.
type Counter interface {
	Counts(ctx context.Context, userID string) (int, int, error)
}

type Service struct {
	repo    Repository
	books   BookLister
	reviews ReviewLister
	counter Counter
}

func NewService(
	repo Repository,
	books BookLister,
	reviews ReviewLister,
	counter Counter,
) *Service {
	return &Service{
		repo:    repo,
		books:   books,
		reviews: reviews,
		counter: counter,
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:             uuid.New().String(),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:   passwordHash,
		Name:           strings.TrimSpace(name),
		FavoriteGenres: []string{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Me returns the caller's account with every active book they added and
// every active review they wrote.
func (s *Service) Me(ctx context.Context, caller *access.Identity) (*MeResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{User: ToUserResponse(user)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		books, err := s.books.ListByOwner(gctx, user.ID)
		resp.Books = books
		return err
	})
	g.Go(func() error {
		reviews, err := s.reviews.ListAllForUser(gctx, user.ID)
		resp.Reviews = reviews
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get me: %w", err)
	}

	if resp.Books == nil {
		resp.Books = []catalog.Book{}
	}
	if resp.Reviews == nil {
		resp.Reviews = []review.Review{}
	}

	return resp, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	caller *access.Identity,
	req UpdateProfileRequest,
) (*User, error) {
	if caller == nil {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		user.Bio = emptyToNil(*req.Bio)
	}
	if req.Avatar != nil {
		user.Avatar = emptyToNil(*req.Avatar)
	}
	if req.FavoriteGenres != nil {
		user.FavoriteGenres = *req.FavoriteGenres
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// PublicProfile hides inactive accounts as if they did not exist.
func (s *Service) PublicProfile(ctx context.Context, id string) (*PublicProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("public profile: %w", core.ErrNotFound)
	}

	books, reviews, err := s.counter.Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:             user.ID,
		Name:           user.Name,
		Bio:            user.Bio,
		Avatar:         user.Avatar,
		FavoriteGenres: user.Genres(),
		JoinedAt:       user.CreatedAt,
		BooksAdded:     books,
		ReviewsWritten: reviews,
	}, nil
}

func emptyToNil(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
