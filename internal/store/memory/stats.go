// AngelaMos | 2026
// stats.go

package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

type statsRepo struct {
	s *Store
}

func member(u *user.User) stats.Member {
	return stats.Member{ID: u.ID, Name: u.Name, Bio: u.Bio, Avatar: u.Avatar}
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func (r *statsRepo) CountBooks(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, b := range r.s.books {
		if b.IsActive && b.AddedBy.ID == userID {
			n++
		}
	}
	return n, nil
}

func (r *statsRepo) ReviewSummary(_ context.Context, userID string) (int, float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, sum := 0, 0
	for _, rev := range r.s.reviews {
		if rev.IsActive && rev.UserID == userID {
			n++
			sum += rev.Rating
		}
	}
	return n, mean(sum, n), nil
}

func (r *statsRepo) AverageReceived(_ context.Context, userID string) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, sum := 0, 0
	for _, rev := range r.s.reviews {
		if !rev.IsActive {
			continue
		}
		b, ok := r.s.books[rev.BookID]
		if ok && b.IsActive && b.AddedBy.ID == userID {
			n++
			sum += rev.Rating
		}
	}
	return mean(sum, n), nil
}

func (r *statsRepo) Activity(_ context.Context, userID string) ([]stats.MonthlyActivity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type month struct{ year, month int }
	counts := make(map[month]int)
	for _, rev := range r.s.reviews {
		if rev.IsActive && rev.UserID == userID {
			at := rev.CreatedAt.UTC()
			counts[month{at.Year(), int(at.Month())}]++
		}
	}

	activity := make([]stats.MonthlyActivity, 0, len(counts))
	for m, n := range counts {
		activity = append(activity, stats.MonthlyActivity{Year: m.year, Month: m.month, Count: n})
	}
	slices.SortFunc(activity, func(a, b stats.MonthlyActivity) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})

	return activity, nil
}

func (r *statsRepo) GenreAffinities(
	_ context.Context,
	userID string,
	limit int,
) ([]stats.GenreAffinity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type tally struct{ sum, n int }
	byGenre := make(map[string]*tally)
	for _, rev := range r.s.reviews {
		if !rev.IsActive || rev.UserID != userID {
			continue
		}
		b, ok := r.s.books[rev.BookID]
		if !ok || !b.IsActive {
			continue
		}
		t, ok := byGenre[b.Genre]
		if !ok {
			t = &tally{}
			byGenre[b.Genre] = t
		}
		t.sum += rev.Rating
		t.n++
	}

	genres := make([]stats.GenreAffinity, 0, len(byGenre))
	for genre, t := range byGenre {
		genres = append(genres, stats.GenreAffinity{
			Genre:         genre,
			AverageRating: mean(t.sum, t.n),
			Count:         t.n,
		})
	}
	slices.SortFunc(genres, func(a, b stats.GenreAffinity) int {
		if c := cmp.Compare(b.AverageRating, a.AverageRating); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Genre, b.Genre)
	})

	return paginate(genres, 0, limit), nil
}

func (r *statsRepo) Leaderboard(
	_ context.Context,
	kind string,
	limit int,
) ([]stats.LeaderboardEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int)
	switch kind {
	case stats.LeaderboardBooks:
		for _, b := range r.s.books {
			if b.IsActive {
				counts[b.AddedBy.ID]++
			}
		}
	case stats.LeaderboardReviews:
		for _, rev := range r.s.reviews {
			if rev.IsActive {
				counts[rev.UserID]++
			}
		}
	default:
		return nil, fmt.Errorf("leaderboard %q: %w", kind, core.ErrInvalidQuery)
	}

	entries := make([]stats.LeaderboardEntry, 0, len(counts))
	for id, n := range counts {
		u, ok := r.s.users[id]
		if !ok || !u.IsActive {
			continue
		}
		entries = append(entries, stats.LeaderboardEntry{User: member(u), Count: n})
	}
	slices.SortFunc(entries, func(a, b stats.LeaderboardEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := strings.Compare(a.User.Name, b.User.Name); c != 0 {
			return c
		}
		return strings.Compare(a.User.ID, b.User.ID)
	})

	return paginate(entries, 0, limit), nil
}

func (r *statsRepo) SearchUsers(
	_ context.Context,
	query string,
	limit int,
) ([]stats.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := []stats.Member{}
	for _, u := range r.s.users {
		if !u.IsActive {
			continue
		}
		if containsFold(u.Name, query) || (u.Bio != nil && containsFold(*u.Bio, query)) {
			members = append(members, member(u))
		}
	}
	slices.SortFunc(members, func(a, b stats.Member) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return paginate(members, 0, limit), nil
}

func (r *statsRepo) Totals(_ context.Context) (*stats.Totals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var totals stats.Totals
	for _, u := range r.s.users {
		if u.IsActive {
			totals.Users++
		}
	}
	for _, b := range r.s.books {
		if b.IsActive {
			totals.ActiveBooks++
		} else {
			totals.InactiveBooks++
		}
	}
	for _, rev := range r.s.reviews {
		if rev.IsActive {
			totals.ActiveReviews++
		} else {
			totals.InactiveReviews++
		}
	}

	return &totals, nil
}
