// Package session issues and resolves the signed admin session tokens carried
// in the admin-session cookie.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/association-site-api/internal/models"
)

// Manager signs and validates HS256 session tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a session manager.
// secret must be at least 32 characters; config validation enforces it.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (m *Manager) TTL() time.Duration { return m.ttl }

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

// Issue creates a signed token carrying the identity.
func (m *Manager) Issue(id models.Identity) (string, error) {
	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: id.Username,
		FullName: id.FullName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve parses and validates a token and returns the identity it carries.
func (m *Manager) Resolve(tokenString string) (models.Identity, error) {
	if tokenString == "" {
		return models.Identity{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return models.Identity{}, fmt.Errorf("invalid subject UUID: %w", err)
	}
	if claims.Username == "" {
		return models.Identity{}, fmt.Errorf("token has no username")
	}

	return models.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		FullName: claims.FullName,
	}, nil
}
