// AngelaMos | 2026
// users.go

package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

type userRepo struct {
	s *Store
}

func cloneUser(u *user.User) *user.User {
	out := *u
	out.FavoriteGenres = pq.StringArray(copyStrings(u.FavoriteGenres))
	return &out
}

// emailTaken is called with the lock held.
func (r *userRepo) emailTaken(email string) bool {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email) {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}

	now := r.s.now()
	u.IsActive = true
	u.TokenVersion = 0
	u.CreatedAt = now
	u.UpdatedAt = now

	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (r *userRepo) UpdateProfile(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[u.ID]
	if !ok || !stored.IsActive {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	stored.Name = u.Name
	stored.Bio = u.Bio
	stored.Avatar = u.Avatar
	stored.FavoriteGenres = pq.StringArray(copyStrings(u.FavoriteGenres))
	stored.UpdatedAt = r.s.now()

	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	stored.PasswordHash = passwordHash
	stored.UpdatedAt = r.s.now()
	return nil
}

func (r *userRepo) IncrementTokenVersion(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}

	stored.TokenVersion++
	stored.UpdatedAt = r.s.now()
	return nil
}

// Deactivate marks an account inactive. Only tests and operators use it;
// there is no API route for it.
func (s *Store) Deactivate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return fmt.Errorf("deactivate user: %w", core.ErrNotFound)
	}
	stored.IsActive = false
	stored.UpdatedAt = s.now()
	return nil
}
