package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/session"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users    repository.UserRepository
	sessions *session.Manager
	log      zerolog.Logger

	dummyOnce sync.Once
	dummy     []byte
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, sessions *session.Manager, log zerolog.Logger) *authService {
	return &authService{
		users:    users,
		sessions: sessions,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// dummyHash is compared against when the username is unknown so both
// failure paths do the same bcrypt work.
func (s *authService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to generate dummy hash")
		}
		s.dummy = h
	})
	return s.dummy
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords return the same models.ErrAuthentication.
func (s *authService) Authenticate(ctx context.Context, username, password string) (models.Identity, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return models.Identity{}, storeError("authenticate", err)
	}

	hash := s.dummyHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password))

	if user == nil || cmpErr != nil {
		s.log.Warn().Str("username", username).Msg("Failed login attempt")
		return models.Identity{}, models.ErrAuthentication
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("Admin logged in")
	return user.Identity(), nil
}

// IssueSession creates a session token for an authenticated identity
func (s *authService) IssueSession(id models.Identity) (string, error) {
	token, err := s.sessions.Issue(id)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

// ResolveSession returns the identity behind a token. Every failure is
// reported as models.ErrUnauthenticated.
func (s *authService) ResolveSession(token string) (models.Identity, error) {
	id, err := s.sessions.Resolve(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("Session rejected")
		return models.Identity{}, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	return id, nil
}

// SessionTTL returns how long issued sessions stay valid
func (s *authService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
