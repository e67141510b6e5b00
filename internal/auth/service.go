package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/kuank/studychat-server/internal/core"
	"github.com/kuank/studychat-server/internal/store"
)

// ErrNoSession is returned when a token does not reference a live session.
var ErrNoSession = errors.New("no session")

const defaultUserAPIURL = "https://api.github.com/user"

// Service owns the GitHub login exchange and the session lifecycle. It is
// the authenticated-session lookup the relay's identity resolver consumes.
type Service struct {
	store      store.SessionStore
	jwtConfig  *JWTConfig
	oauth      *oauth2.Config
	userAPIURL string
}

// NewService creates an auth service. oauth may be nil when GitHub login is
// not configured; session lookup still works for existing cookies.
func NewService(sessionStore store.SessionStore, jwtConfig *JWTConfig, oauth *oauth2.Config) *Service {
	return &Service{
		store:      sessionStore,
		jwtConfig:  jwtConfig,
		oauth:      oauth,
		userAPIURL: defaultUserAPIURL,
	}
}

// LoginEnabled reports whether the GitHub flow is configured.
func (s *Service) LoginEnabled() bool {
	return s.oauth != nil && s.oauth.ClientID != ""
}

// AuthCodeURL builds the GitHub authorization redirect URL.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// githubUser is the subset of the GitHub user API response we consume.
type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// HandleCallback exchanges the OAuth code, fetches the GitHub profile,
// stores a session, and returns the signed cookie token.
func (s *Service) HandleCallback(ctx context.Context, code string) (string, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	user, err := s.fetchUser(ctx, token)
	if err != nil {
		return "", fmt.Errorf("fetch github user: %w", err)
	}
	if user.Login == "" {
		return "", fmt.Errorf("github user has no login")
	}

	now := time.Now()
	sess := &store.Session{
		ID:          uuid.NewString(),
		Username:    user.Login,
		DisplayName: user.Name,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.jwtConfig.TTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	cookieToken, err := GenerateToken(s.jwtConfig, sess.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return cookieToken, nil
}

func (s *Service) fetchUser(ctx context.Context, token *oauth2.Token) (*githubUser, error) {
	client := s.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user api status %d", resp.StatusCode)
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// SessionForToken validates a cookie token and loads its session.
func (s *Service) SessionForToken(ctx context.Context, token string) (*store.Session, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	sess, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ProfileForToken implements core.ProfileLookup over the session store.
func (s *Service) ProfileForToken(ctx context.Context, token string) (core.Profile, error) {
	sess, err := s.SessionForToken(ctx, token)
	if err != nil {
		return core.Profile{}, err
	}
	return core.Profile{
		Username:    sess.Username,
		DisplayName: sess.DisplayName,
		Avatar:      sess.AvatarURL,
	}, nil
}

// Logout deletes the session behind a cookie token. Unknown or invalid
// tokens are not an error; the cookie is cleared either way.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return nil
	}
	return s.store.DeleteSession(ctx, claims.SessionID)
}

// PurgeExpired removes expired session rows.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, time.Now())
}
