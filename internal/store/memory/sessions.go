// AngelaMos | 2026
// sessions.go

package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

type sessionRepo struct {
	s *Store
}

func cloneSession(in *auth.Session) *auth.Session {
	out := *in
	if in.RevokedAt != nil {
		at := *in.RevokedAt
		out.RevokedAt = &at
	}
	return &out
}

func (r *sessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[session.ID]; ok {
		return fmt.Errorf("create session: %w", core.ErrDuplicateKey)
	}

	session.CreatedAt = r.s.now()
	r.s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionRepo) FindByID(_ context.Context, id string) (*auth.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	return cloneSession(session), nil
}

func (r *sessionRepo) RevokeByID(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[id]
	if !ok || session.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}

	now := r.s.now()
	session.RevokedAt = &now
	return nil
}

func (r *sessionRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for _, session := range r.s.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			at := now
			session.RevokedAt = &at
		}
	}
	return nil
}

func (r *sessionRepo) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]auth.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := time.Now()
	sessions := []auth.Session{}
	for _, session := range r.s.sessions {
		if session.UserID == userID &&
			session.RevokedAt == nil &&
			session.ExpiresAt.After(now) {
			sessions = append(sessions, *cloneSession(session))
		}
	}

	slices.SortFunc(sessions, func(a, b auth.Session) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return sessions, nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, session := range r.s.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
