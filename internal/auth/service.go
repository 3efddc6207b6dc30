// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	blacklist    Blacklist
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	blacklist Blacklist,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		blacklist:    blacklist,
	}
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, user, userAgent, ipAddress)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, core.ErrAccountInactive
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	core.AddSpanEvent(ctx, "auth.login", attribute.String("user.id", user.ID))

	return s.issue(ctx, user, userAgent, ipAddress)
}

// Authenticate resolves a bearer token to an active caller. The token must
// verify, must not be blacklisted, its session must still be live, and it must
// not predate the user's last logout-all.
func (s *Service) Authenticate(
	ctx context.Context,
	token string,
) (*access.Identity, error) {
	claims, err := s.jwt.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("authenticate: %w", core.ErrTokenRevoked)
	}

	session, err := s.repo.FindByID(ctx, claims.JTI)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("authenticate: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}
	if !session.IsValid() {
		return nil, fmt.Errorf("authenticate: %w", core.ErrTokenRevoked)
	}

	user, err := s.userProvider.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("authenticate: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, core.ErrAccountInactive
	}

	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("authenticate: %w", core.ErrTokenRevoked)
	}

	return &access.Identity{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		IsActive: user.IsActive,
	}, nil
}

// Logout revokes the credential used for this request.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.VerifyAccessToken(token)
	if err != nil {
		return err
	}

	if err := s.blacklist.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return err
	}

	if err := s.repo.RevokeByID(ctx, claims.JTI); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}

	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

// ActiveSessions lists the caller's live sessions, flagging the one that
// carried currentToken.
func (s *Service) ActiveSessions(
	ctx context.Context,
	userID, currentToken string,
) ([]SessionInfo, error) {
	sessions, err := s.repo.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	var currentJTI string
	if claims, err := s.jwt.VerifyAccessToken(currentToken); err == nil {
		currentJTI = claims.JTI
	}

	out := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
			Current:   sess.ID == currentJTI,
		})
	}

	return out, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	caller *access.Identity,
	sessionID string,
) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if err := access.Authorize(caller, session.UserID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	//nolint:errcheck // the session row is already revoked
	_ = s.blacklist.Revoke(ctx, session.ID, session.ExpiresAt)

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		req.CurrentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

// PruneSessions deletes sessions that expired more than a day ago.
func (s *Service) PruneSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	issued, err := s.jwt.CreateAccessToken(user.ID, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	session := &Session{
		ID:        issued.JTI,
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: issued.ExpiresAt,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &AuthResponse{
		User:      toUserResponse(user),
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(s.jwt.TokenLifetime() / time.Second),
		ExpiresAt: issued.ExpiresAt,
	}, nil
}
