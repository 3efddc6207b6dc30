// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

const DefaultLanguage = "English"

// Owner is the subset of a user embedded in book responses.
type Owner struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// Book is a catalog entry. AverageRating and ReviewCount are derived from
// the active reviews at read time and never stored.
type Book struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Description   string          `json:"description"`
	Genre         string          `json:"genre"`
	PublishedYear int             `json:"publishedYear"`
	ISBN          *string         `json:"isbn"`
	CoverImage    *string         `json:"coverImage"`
	Pages         *int            `json:"pages"`
	Language      string          `json:"language"`
	Publisher     *string         `json:"publisher"`
	AddedBy       core.Ref[Owner] `json:"addedBy"`
	Tags          []string        `json:"tags"`
	IsActive      bool            `json:"isActive"`
	DeactivatedAt *time.Time      `json:"deactivatedAt,omitempty"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (b *Book) OwnerID() string {
	return b.AddedBy.ID
}

func (b *Book) SharesTag(tags []string) bool {
	for _, t := range b.Tags {
		for _, o := range tags {
			if t == o {
				return true
			}
		}
	}
	return false
}
