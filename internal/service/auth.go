package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mboulet/authcore/internal/models"
	"github.com/mboulet/authcore/internal/storage"
)

// enumerationDummyHash is compared against when the email is unknown, so a
// login against a missing account costs the same as one against a real hash.
const enumerationDummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService orchestrates the session token lifecycle: registration, login
// (issue), refresh (rotate), logout (revoke), and access-token validation.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenService
	hasher   *PasswordHasher
	webhooks *WebhookService
	log      *zap.SugaredLogger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	tokens *TokenService,
	hasher *PasswordHasher,
	webhooks *WebhookService,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		webhooks: webhooks,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		// the unique index closes the check-then-insert race
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access+refresh token pair. Lookup
// misses and password mismatches are indistinguishable to the caller. Login
// does not report success unless the refresh record is durably stored.
func (s *AuthService) Login(ctx context.Context, email, password string, meta models.ClientMeta) (*models.TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, enumerationDummyHash)
			s.log.Infow("login rejected", "reason", "unknown email", "ip", meta.IPAddress)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Errorw("stored hash unusable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.log.Infow("login rejected", "reason", "password mismatch", "user_id", user.ID, "ip", meta.IPAddress)
		return nil, ErrInvalidCredentials
	}

	pair, session, err := s.mintPair(user.Identity(), meta)
	if err != nil {
		return nil, err
	}

	// an initiated write must complete even if the client disconnects,
	// otherwise we would hand out tokens without an audit record
	if err := s.sessions.CreateSession(context.WithoutCancel(ctx), *session); err != nil {
		return nil, fmt.Errorf("persist refresh session: %w", err)
	}

	s.log.Infow("login succeeded", "user_id", user.ID)
	return pair, nil
}

// Refresh redeems a refresh token for a new token pair. The presented token is
// consumed and replaced in one atomic store operation, so replaying it later
// fails regardless of its remaining TTL.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta models.ClientMeta) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenMissing
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			s.log.Warnw("refresh rejected", "reason", "no matching session", "user_id", claims.UserID, "ip", meta.IPAddress)
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("look up refresh session: %w", err)
	}

	now := time.Now()
	if session.Expired(now) {
		_ = s.sessions.DeleteSession(ctx, refreshToken)
		return nil, ErrInvalidRefreshToken
	}
	if session.Consumed() {
		// a consumed token coming back means the original or a thief replayed
		// it; revoke everything this user has
		s.log.Warnw("refresh replay detected, revoking user sessions", "user_id", session.UserID)
		_ = s.sessions.DeleteAllUserSessions(context.WithoutCancel(ctx), session.UserID)
		return nil, ErrInvalidRefreshToken
	}

	if s.webhooks != nil && session.IPAddress != "" && session.IPAddress != meta.IPAddress {
		s.webhooks.NotifyIPChange(ctx, IPChangeNotice{
			UserID:    session.UserID,
			OldIP:     session.IPAddress,
			NewIP:     meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
	}

	pair, next, err := s.mintPair(claims.Identity(), meta)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.RotateSession(context.WithoutCancel(ctx), refreshToken, *next); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			// lost a concurrent rotation race; the winner already has the pair
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate refresh session: %w", err)
	}

	s.log.Infow("refresh succeeded", "user_id", session.UserID)
	return pair, nil
}

// Logout revokes the presented refresh session. Best-effort: the client is
// logged out from its own point of view no matter what.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(context.WithoutCancel(ctx), refreshToken); err != nil {
		s.log.Errorw("failed to delete refresh session on logout", "error", err)
	}
	return nil
}

// Authenticate validates an inbound access token and returns the identity it
// asserts. Used by the request guard.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	identity := claims.Identity()
	return &identity, nil
}

func (s *AuthService) mintPair(identity models.Identity, meta models.ClientMeta) (*models.TokenPair, *models.RefreshSession, error) {
	now := time.Now()

	accessToken, err := s.tokens.Sign(identity, now, s.tokens.AccessTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.Sign(identity, now, s.tokens.RefreshTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	pair := &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessTTL:    s.tokens.AccessTTL(),
		RefreshTTL:   s.tokens.RefreshTTL(),
		Identity:     identity,
	}
	session := &models.RefreshSession{
		UserID:     identity.ID,
		TokenValue: refreshToken,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		ExpiresAt:  now.Add(s.tokens.RefreshTTL()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return pair, session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
