// AngelaMos | 2026
// entity.go

package review

import (
	"encoding/json"
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

type Author struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type BookSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Genre      string  `json:"genre"`
	CoverImage *string `json:"coverImage"`
}

// Review is one user's rating of one book. At most one active review exists
// per (book, user) pair.
type Review struct {
	ID         string                `json:"id"`
	Book       core.Ref[BookSummary] `json:"bookId"`
	User       core.Ref[Author]      `json:"userId"`
	Rating     int                   `json:"rating"`
	ReviewText string                `json:"reviewText"`
	Title      *string               `json:"title"`
	Likes      []string              `json:"likes"`
	IsActive   bool                  `json:"isActive"`
	EditedAt   *time.Time            `json:"editedAt"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

func (r *Review) AuthorID() string {
	return r.User.ID
}

func (r *Review) LikeCount() int {
	return len(r.Likes)
}

func (r *Review) LikedBy(userID string) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// MarshalJSON adds the derived like count.
func (r Review) MarshalJSON() ([]byte, error) {
	type alias Review

	likes := r.Likes
	if likes == nil {
		likes = []string{}
	}
	a := alias(r)
	a.Likes = likes

	return json.Marshal(struct {
		alias
		LikeCount int `json:"likeCount"`
	}{alias: a, LikeCount: len(likes)})
}
