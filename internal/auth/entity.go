// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session records one issued bearer credential. Its ID is the token's jti.
type Session struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	UserAgent string     `db:"user_agent"`
	IPAddress string     `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

func (s *Session) Revoke() {
	now := time.Now()
	s.RevokedAt = &now
}

// UserInfo is what authentication needs to know about an account.
type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	TokenVersion int
	CreatedAt    time.Time
}
