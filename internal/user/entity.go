// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID             string         `db:"id"`
	Email          string         `db:"email"`
	PasswordHash   string         `db:"password_hash"`
	Name           string         `db:"name"`
	Bio            *string        `db:"bio"`
	Avatar         *string        `db:"avatar"`
	FavoriteGenres pq.StringArray `db:"favorite_genres"`
	IsActive       bool           `db:"is_active"`
	TokenVersion   int            `db:"token_version"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (u *User) Genres() []string {
	if u.FavoriteGenres == nil {
		return []string{}
	}
	return []string(u.FavoriteGenres)
}
