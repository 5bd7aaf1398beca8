package auth

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("admin", "admin123", time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestLoginAndVerify(t *testing.T) {
	m := newTestManager(t)

	token, claims, err := m.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}
	if claims.Username != "admin" || claims.Role != "Admin" {
		t.Errorf("claims = %q/%q, want admin/Admin", claims.Username, claims.Role)
	}

	verified, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.ID != claims.ID {
		t.Errorf("verified session id = %q, want %q", verified.ID, claims.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager(t)

	cases := []struct {
		name               string
		username, password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "admin123"},
		{"both wrong", "root", "nope"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := m.Login(tc.username, tc.password); err != ErrInvalidCredentials {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	m := newTestManager(t)

	token, claims, err := m.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	m.Logout(claims.ID)

	if _, err := m.Verify(token); err != ErrSessionInvalid {
		t.Errorf("Verify() after logout error = %v, want ErrSessionInvalid", err)
	}

	// Double logout is a no-op.
	m.Logout(claims.ID)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)

	token, _, err := other.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Token signed by another process's key must not verify, even though
	// the credential is identical. This is what makes a restart log
	// everyone out.
	if _, err := m.Verify(token); err != ErrSessionInvalid {
		t.Errorf("Verify() error = %v, want ErrSessionInvalid", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Verify("not-a-token"); err != ErrSessionInvalid {
		t.Errorf("Verify() error = %v, want ErrSessionInvalid", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	m, err := NewManager("admin", "admin123", -time.Minute)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer m.Close()

	token, _, err := m.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := m.Verify(token); err != ErrSessionInvalid {
		t.Errorf("Verify() of expired token error = %v, want ErrSessionInvalid", err)
	}
}

func TestActiveSessionsAndPrune(t *testing.T) {
	m := newTestManager(t)

	if _, _, err := m.Login("admin", "admin123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, _, err := m.Login("admin", "admin123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got := m.ActiveSessions(); got != 2 {
		t.Errorf("ActiveSessions() = %d, want 2", got)
	}

	// Force-expire everything and prune.
	m.mu.Lock()
	for sid, entry := range m.active {
		entry.ExpiresAt = time.Now().Add(-time.Minute)
		m.active[sid] = entry
	}
	m.mu.Unlock()
	m.pruneExpired()

	if got := m.ActiveSessions(); got != 0 {
		t.Errorf("ActiveSessions() after prune = %d, want 0", got)
	}
}
