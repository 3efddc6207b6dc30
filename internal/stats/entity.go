// AngelaMos | 2026
// entity.go

package stats

const (
	LeaderboardBooks   = "books"
	LeaderboardReviews = "reviews"
)

// Member is the public face of a user in stats and search results.
type Member struct {
	ID     string  `json:"id"     db:"id"`
	Name   string  `json:"name"   db:"name"`
	Bio    *string `json:"bio"    db:"bio"`
	Avatar *string `json:"avatar" db:"avatar"`
}

type LeaderboardEntry struct {
	User  Member `json:"user"`
	Count int    `json:"count"`
}

type MonthlyActivity struct {
	Year  int `json:"year"  db:"year"`
	Month int `json:"month" db:"month"`
	Count int `json:"count" db:"count"`
}

type GenreAffinity struct {
	Genre         string  `json:"genre"         db:"genre"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
	Count         int     `json:"count"         db:"count"`
}

type UserStats struct {
	BooksAdded            int               `json:"booksAdded"`
	ReviewsWritten        int               `json:"reviewsWritten"`
	AverageRatingGiven    float64           `json:"averageRatingGiven"`
	AverageRatingReceived float64           `json:"averageRatingReceived"`
	ReadingActivity       []MonthlyActivity `json:"readingActivity"`
	FavoriteGenres        []GenreAffinity   `json:"favoriteGenres"`
}

// Totals are platform-wide record counts, split by active state.
type Totals struct {
	Users           int `json:"users"           db:"users"`
	ActiveBooks     int `json:"activeBooks"     db:"active_books"`
	InactiveBooks   int `json:"inactiveBooks"   db:"inactive_books"`
	ActiveReviews   int `json:"activeReviews"   db:"active_reviews"`
	InactiveReviews int `json:"inactiveReviews" db:"inactive_reviews"`
}
