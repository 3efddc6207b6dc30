// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
)

// UpdateProfileRequest carries the mutable profile fields. Email is not
// among them. A nil field is left unchanged; an empty bio or avatar clears it.
type UpdateProfileRequest struct {
	Name           *string   `json:"name,omitempty"           validate:"omitempty,min=2,max=50"`
	Bio            *string   `json:"bio,omitempty"            validate:"omitempty,max=500"`
	Avatar         *string   `json:"avatar,omitempty"         validate:"omitempty,url"`
	FavoriteGenres *[]string `json:"favoriteGenres,omitempty" validate:"omitempty,max=10,dive,genre"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            *string   `json:"bio"`
	Avatar         *string   `json:"avatar"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	IsActive       bool      `json:"isActive"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// PublicProfile omits the email address.
type PublicProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Bio            *string   `json:"bio"`
	Avatar         *string   `json:"avatar"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	JoinedAt       time.Time `json:"joinedAt"`
	BooksAdded     int       `json:"booksAdded"`
	ReviewsWritten int       `json:"reviewsWritten"`
}

type MeResponse struct {
	User    UserResponse    `json:"user"`
	Books   []catalog.Book  `json:"books"`
	Reviews []review.Review `json:"reviews"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Bio:            u.Bio,
		Avatar:         u.Avatar,
		FavoriteGenres: u.Genres(),
		IsActive:       u.IsActive,
		JoinedAt:       u.CreatedAt,
	}
}
