// AngelaMos | 2026
// store.go

// Package memory keeps every record in process memory behind one lock. It
// backs single-node development runs and the end-to-end tests, and holds
// the same invariants as the Postgres schema: case-insensitive unique
// emails, one active review per (book, user) and cascading soft deletes.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

type reviewRecord struct {
	ID            string
	BookID        string
	UserID        string
	Rating        int
	ReviewText    string
	Title         *string
	Likes         []string
	IsActive      bool
	DeactivatedAt *time.Time
	EditedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Store struct {
	mu       sync.RWMutex
	users    map[string]*user.User
	books    map[string]*catalog.Book
	reviews  map[string]*reviewRecord
	sessions map[string]*auth.Session
	last     time.Time
	clock    func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]*user.User),
		books:    make(map[string]*catalog.Book),
		reviews:  make(map[string]*reviewRecord),
		sessions: make(map[string]*auth.Session),
		clock:    time.Now,
	}
}

// now returns a strictly increasing UTC timestamp so records created in
// quick succession still order deterministically. Callers hold the lock.
func (s *Store) now() time.Time {
	t := s.clock().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) Users() user.Repository     { return &userRepo{s: s} }
func (s *Store) Books() catalog.Repository  { return &bookRepo{s: s} }
func (s *Store) Reviews() review.Repository { return &reviewRepo{s: s} }
func (s *Store) Sessions() auth.Repository  { return &sessionRepo{s: s} }
func (s *Store) Stats() stats.Repository    { return &statsRepo{s: s} }

// Ping satisfies the readiness checker.
func (s *Store) Ping(context.Context) error { return nil }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
