package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// sessionName is the name of the dashboard session cookie.
const sessionName = "fieldpulse-session"

// Session value keys.
const (
	sessionKeyLoggedIn = "logged_in"
	sessionKeyUsername = "username"
	sessionKeyRole     = "user_role"
)

// SessionManager wraps a signed-cookie session store. The signing secret can
// be any passphrase; it is SHA-256 hashed to derive a consistent 32-byte key,
// so it survives restarts as long as the configured secret does not change.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie session store signed with the given
// secret. Cookies are HttpOnly and SameSite=Lax; the dashboard is an
// internal tool typically served over plain HTTP, so Secure is not forced.
func NewSessionManager(secret string) *SessionManager {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // one day
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// IsAuthenticated reports whether the request carries a valid logged-in
// session.
func (m *SessionManager) IsAuthenticated(r *http.Request) bool {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	loggedIn, ok := sess.Values[sessionKeyLoggedIn].(bool)
	return ok && loggedIn
}

// Establish marks the session as logged in for the given user and role.
func (m *SessionManager) Establish(w http.ResponseWriter, r *http.Request, username, role string) error {
	sess, _ := m.store.Get(r, sessionName)
	sess.Values[sessionKeyLoggedIn] = true
	sess.Values[sessionKeyUsername] = username
	sess.Values[sessionKeyRole] = role
	return sess.Save(r, w)
}

// Clear removes the login marker from the session.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, sessionName)
	delete(sess.Values, sessionKeyLoggedIn)
	delete(sess.Values, sessionKeyUsername)
	delete(sess.Values, sessionKeyRole)
	return sess.Save(r, w)
}

// Username returns the logged-in username, or "" when not set.
func (m *SessionManager) Username(r *http.Request) string {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	username, _ := sess.Values[sessionKeyUsername].(string)
	return username
}

// Role returns the logged-in user's role, defaulting to customer_admin when
// the session carries none.
func (m *SessionManager) Role(r *http.Request) string {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return RoleCustomerAdmin
	}
	role, ok := sess.Values[sessionKeyRole].(string)
	if !ok || role == "" {
		return RoleCustomerAdmin
	}
	return role
}
