// AngelaMos | 2026
// store_test.go

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/rating"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, ctx: context.Background(), store: New()}
}

func (f *fixture) user(name, email string) *user.User {
	f.t.Helper()

	u := &user.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: "x"}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) book(owner *user.User, title, author, genre string, tags ...string) *catalog.Book {
	f.t.Helper()

	b := &catalog.Book{
		ID:            uuid.NewString(),
		Title:         title,
		Author:        author,
		Description:   "A book worth reading.",
		Genre:         genre,
		PublishedYear: 2020,
		Language:      catalog.DefaultLanguage,
		AddedBy:       core.Reference[catalog.Owner](owner.ID),
		Tags:          tags,
	}
	require.NoError(f.t, f.store.Books().Create(f.ctx, b))
	return b
}

func (f *fixture) review(b *catalog.Book, u *user.User, stars int) *review.Review {
	f.t.Helper()

	rev := &review.Review{
		ID:         uuid.NewString(),
		Book:       core.Reference[review.BookSummary](b.ID),
		User:       core.Reference[review.Author](u.ID),
		Rating:     stars,
		ReviewText: "Thoughtful and well paced.",
	}
	require.NoError(f.t, f.store.Reviews().Create(f.ctx, rev))
	return rev
}

func defaultList() review.ListParams {
	p := review.ListParams{}
	p.Normalize(10, 100)
	return p
}

func TestUsers_EmailUniqueIgnoringCase(t *testing.T) {
	f := newFixture(t)
	f.user("A", "a@x.com")

	err := f.store.Users().Create(f.ctx, &user.User{
		ID:    uuid.NewString(),
		Name:  "A2",
		Email: "A@X.com",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	got, err := f.store.Users().GetByEmail(f.ctx, "A@x.COM")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.True(t, got.IsActive)
}

func TestUsers_CopiesAreIsolated(t *testing.T) {
	f := newFixture(t)
	u := f.user("A", "a@x.com")

	got, err := f.store.Users().GetByID(f.ctx, u.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := f.store.Users().GetByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

func TestBooks_ViewExpandsOwnerAndAggregates(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	r1 := f.user("R1", "r1@x.com")
	r2 := f.user("R2", "r2@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	f.review(b, r1, 3)
	f.review(b, r2, 5)

	got, err := f.store.Books().GetByID(f.ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, got.AddedBy.IsExpanded())
	assert.Equal(t, "Owner", got.AddedBy.Expanded.Name)
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
	assert.Equal(t, 2, got.ReviewCount)

	dist, err := f.store.Reviews().Distribution(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.Distribution{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}, dist)
}

func TestReviews_OneActivePerBookAndUser(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	reader := f.user("Reader", "r@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	const attempts = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.store.Reviews().Create(f.ctx, &review.Review{
				ID:         uuid.NewString(),
				Book:       core.Reference[review.BookSummary](b.ID),
				User:       core.Reference[review.Author](reader.ID),
				Rating:     4,
				ReviewText: "Concurrent submission.",
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, core.ErrDuplicateKey)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestReviews_DeletedReviewFreesTheSlot(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	reader := f.user("Reader", "r@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	first := f.review(b, reader, 2)
	require.NoError(t, f.store.Reviews().SoftDelete(f.ctx, first.ID))

	second := f.review(b, reader, 5)
	got, err := f.store.Reviews().FindActive(f.ctx, b.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = f.store.Reviews().GetByID(f.ctx, first.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReviews_ToggleLikeIsAnInvolution(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	fan := f.user("Fan", "f@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")
	rev := f.review(b, owner, 5)

	count, liked, err := f.store.Reviews().ToggleLike(f.ctx, rev.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, liked)

	count, liked, err = f.store.Reviews().ToggleLike(f.ctx, rev.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, liked)

	count, liked, err = f.store.Reviews().ToggleLike(f.ctx, rev.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, liked)
}

func TestReviews_ConcurrentLikesNeverDuplicate(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")
	rev := f.review(b, owner, 5)

	fans := make([]string, 8)
	for i := range fans {
		fans[i] = f.user("Fan", uuid.NewString()+"@x.com").ID
	}

	var wg sync.WaitGroup
	for _, id := range fans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.store.Reviews().ToggleLike(f.ctx, rev.ID, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.store.Reviews().GetByID(f.ctx, rev.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, fans, got.Likes)
}

func TestBooks_SoftDeleteCascadesAndRestoreRevives(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	r1 := f.user("R1", "r1@x.com")
	r2 := f.user("R2", "r2@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	early := f.review(b, r1, 1)
	require.NoError(t, f.store.Reviews().SoftDelete(f.ctx, early.ID))
	f.review(b, r1, 4)
	f.review(b, r2, 5)

	require.NoError(t, f.store.Books().SoftDelete(f.ctx, b.ID))

	_, err := f.store.Books().GetByID(f.ctx, b.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	reviews, total, err := f.store.Reviews().ListByBook(f.ctx, b.ID, defaultList())
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Zero(t, total)

	totals, err := f.store.Stats().Totals(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.ActiveReviews)
	assert.Equal(t, 3, totals.InactiveReviews)

	restored, err := f.store.Books().Restore(f.ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, restored)

	got, err := f.store.Books().GetByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReviewCount)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)

	_, err = f.store.Books().Restore(f.ctx, b.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBooks_RestoreKeepsOneActiveReviewPerUser(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	reader := f.user("Reader", "r@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	f.review(b, reader, 3)
	require.NoError(t, f.store.Books().SoftDelete(f.ctx, b.ID))

	// The repository accepts this; only the service rejects inactive books.
	f.review(b, reader, 5)

	restored, err := f.store.Books().Restore(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, restored)

	dist, err := f.store.Reviews().Distribution(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dist.Total())
}

func TestBooks_ListFiltersBeforePaging(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	reader := f.user("Reader", "r@x.com")

	low := f.book(owner, "Low", "Author A", "Fiction")
	high := f.book(owner, "High", "Author B", "Fiction")
	f.book(owner, "Unrated", "Author C", "Mystery")
	f.review(low, reader, 2)
	f.review(high, reader, 5)

	minRating := 4.0
	params := catalog.ListBooksParams{MinRating: &minRating, PageSize: 1}
	params.Normalize(12, 100)

	books, total, err := f.store.Books().List(f.ctx, params)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, high.ID, books[0].ID)
}

func TestBooks_ListSortAndSearch(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")

	f.book(owner, "Beta", "Zed", "Fiction")
	f.book(owner, "Alpha", "Young", "Fiction")
	f.book(owner, "Gamma", "Xavier", "Mystery")

	params := catalog.ListBooksParams{SortBy: catalog.SortTitle}
	params.Normalize(12, 100)

	books, total, err := f.store.Books().List(f.ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(books))

	params = catalog.ListBooksParams{Search: "YOUNG"}
	params.Normalize(12, 100)

	books, _, err = f.store.Books().List(f.ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, titles(books))

	params = catalog.ListBooksParams{}
	params.Normalize(12, 100)

	books, _, err = f.store.Books().List(f.ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, titles(books))
}

func titles(books []catalog.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBooks_SimilarAndGenres(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")

	dune := f.book(owner, "Dune", "Frank Herbert", "Science Fiction", "desert")
	f.book(owner, "Children of Dune", "Frank Herbert", "Fantasy")
	f.book(owner, "Foundation", "Isaac Asimov", "Science Fiction")
	f.book(owner, "Sahara", "Other", "Adventure", "desert")
	f.book(owner, "Emma", "Jane Austen", "Romance")

	similar, err := f.store.Books().Similar(f.ctx, dune, 6)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"Children of Dune", "Foundation", "Sahara"},
		titles(similar),
	)

	genres, err := f.store.Books().DistinctGenres(f.ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Adventure", "Fantasy", "Romance", "Science Fiction"},
		genres,
	)
}

func TestReviews_ListExpandsPerContext(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")
	f.review(b, owner, 4)

	byBook, _, err := f.store.Reviews().ListByBook(f.ctx, b.ID, defaultList())
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.True(t, byBook[0].User.IsExpanded())
	assert.False(t, byBook[0].Book.IsExpanded())

	byUser, _, err := f.store.Reviews().ListByUser(f.ctx, owner.ID, defaultList())
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.True(t, byUser[0].Book.IsExpanded())
	assert.False(t, byUser[0].User.IsExpanded())

	recent, err := f.store.Reviews().Recent(f.ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Book.IsExpanded())
	assert.True(t, recent[0].User.IsExpanded())
}

func TestReviews_SortByRating(t *testing.T) {
	f := newFixture(t)
	owner := f.user("Owner", "o@x.com")
	b := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")

	for _, stars := range []int{3, 5, 1} {
		f.review(b, f.user("R", uuid.NewString()+"@x.com"), stars)
	}

	params := review.ListParams{SortBy: review.SortRating}
	params.Normalize(10, 100)

	reviews, total, err := f.store.Reviews().ListByBook(f.ctx, b.ID, params)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	got := make([]int, 0, len(reviews))
	for _, rev := range reviews {
		got = append(got, rev.Rating)
	}
	assert.Equal(t, []int{1, 3, 5}, got)
}

func TestStats_LeaderboardOrdering(t *testing.T) {
	f := newFixture(t)
	ada := f.user("Ada", "ada@x.com")
	ben := f.user("Ben", "ben@x.com")
	cleo := f.user("Cleo", "cleo@x.com")

	f.book(ben, "B1", "X", "Fiction")
	f.book(ben, "B2", "X", "Fiction")
	f.book(ada, "A1", "X", "Fiction")
	f.book(cleo, "C1", "X", "Fiction")

	entries, err := f.store.Stats().Leaderboard(f.ctx, stats.LeaderboardBooks, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Ben", entries[0].User.Name)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, "Ada", entries[1].User.Name)
	assert.Equal(t, "Cleo", entries[2].User.Name)

	require.NoError(t, f.store.Deactivate(ben.ID))
	entries, err = f.store.Stats().Leaderboard(f.ctx, stats.LeaderboardBooks, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = f.store.Stats().Leaderboard(f.ctx, "likes", 10)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestStats_ActivityAndAffinities(t *testing.T) {
	f := newFixture(t)

	clock := time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)
	f.store.clock = func() time.Time { return clock }

	owner := f.user("Owner", "o@x.com")
	reader := f.user("Reader", "r@x.com")
	scifi := f.book(owner, "Dune", "Frank Herbert", "Science Fiction")
	mystery := f.book(owner, "Gone", "Someone", "Mystery")
	fiction := f.book(owner, "Emma", "Jane Austen", "Fiction")

	f.review(scifi, reader, 5)
	clock = time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)
	f.review(mystery, reader, 3)
	f.review(fiction, reader, 3)

	activity, err := f.store.Stats().Activity(f.ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []stats.MonthlyActivity{
		{Year: 2025, Month: 12, Count: 1},
		{Year: 2026, Month: 1, Count: 2},
	}, activity)

	genres, err := f.store.Stats().GenreAffinities(f.ctx, reader.ID, 2)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Science Fiction", genres[0].Genre)
	assert.Equal(t, "Fiction", genres[1].Genre)

	received, err := f.store.Stats().AverageReceived(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3.0, received, 1e-9)
}

func TestStats_SearchUsers(t *testing.T) {
	f := newFixture(t)
	bio := "Loves mystery novels"
	u := f.user("Zara", "z@x.com")
	u.Bio = &bio
	require.NoError(t, f.store.Users().UpdateProfile(f.ctx, u))
	f.user("Mystery Max", "m@x.com")
	f.user("Other", "o@x.com")

	members, err := f.store.Stats().SearchUsers(f.ctx, "MYSTERY", 10)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Mystery Max", members[0].Name)
	assert.Equal(t, "Zara", members[1].Name)
}

func TestSessions_Lifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.user("A", "a@x.com")
	repo := f.store.Sessions()
	now := time.Now()

	live := &auth.Session{ID: uuid.NewString(), UserID: u.ID, ExpiresAt: now.Add(time.Hour)}
	expired := &auth.Session{ID: uuid.NewString(), UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(f.ctx, live))
	require.NoError(t, repo.Create(f.ctx, expired))
	assert.ErrorIs(t, repo.Create(f.ctx, live), core.ErrDuplicateKey)

	active, err := repo.GetActiveSessionsForUser(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, live.ID, active[0].ID)

	require.NoError(t, repo.RevokeByID(f.ctx, live.ID))
	assert.ErrorIs(t, repo.RevokeByID(f.ctx, live.ID), core.ErrNotFound)

	got, err := repo.FindByID(f.ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())

	removed, err := repo.DeleteExpired(f.ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
