// Package auth implements the login gate for the clinic API. Sessions are
// deliberately ephemeral: tokens are signed with a key generated at process
// start and tracked in an in-memory registry, so restarting the server
// invalidates every outstanding session while the stored records survive.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("session is expired or revoked")
)

// Claims carries the session identity inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

type sessionEntry struct {
	Username  string
	ExpiresAt time.Time
}

// Manager issues, verifies and revokes login sessions.
type Manager struct {
	signingKey    []byte
	ttl           time.Duration
	adminUsername string
	passwordHash  []byte

	mu     sync.RWMutex
	active map[string]sessionEntry // session id -> entry
	done   chan struct{}
}

// NewManager creates a session manager gated on the configured credential.
// The plaintext password is hashed immediately and not retained.
func NewManager(username, password string, ttl time.Duration) (*Manager, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}

	m := &Manager{
		signingKey:    key,
		ttl:           ttl,
		adminUsername: username,
		passwordHash:  hash,
		active:        make(map[string]sessionEntry),
		done:          make(chan struct{}),
	}
	go m.cleanupLoop()
	return m, nil
}

// Login validates the credential and, on success, returns a signed session
// token together with its claims.
func (m *Manager) Login(username, password string) (string, *Claims, error) {
	if username != m.adminUsername {
		// Burn a comparison anyway so the two failure modes take the
		// same time.
		_ = bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password))
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	sid := uuid.NewString()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: username,
		Role:     "Admin",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("signing session token: %w", err)
	}

	m.mu.Lock()
	m.active[sid] = sessionEntry{Username: username, ExpiresAt: now.Add(m.ttl)}
	m.mu.Unlock()

	return token, claims, nil
}

// Verify parses the token and checks that its session is still registered.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrSessionInvalid
	}

	m.mu.RLock()
	entry, ok := m.active[claims.ID]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	return claims, nil
}

// Logout revokes the session with the given id. Revoking an unknown or
// already revoked session is a no-op.
func (m *Manager) Logout(sessionID string) {
	m.mu.Lock()
	delete(m.active, sessionID)
	m.mu.Unlock()
}

// ActiveSessions reports the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Close stops the background cleanup goroutine.
func (m *Manager) Close() {
	close(m.done)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.pruneExpired()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) pruneExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, entry := range m.active {
		if now.After(entry.ExpiresAt) {
			delete(m.active, sid)
		}
	}
}
