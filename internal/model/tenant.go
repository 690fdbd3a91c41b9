package model

import "time"

// AnonymousTenantID is the fallback tenant for unauthenticated sessions,
// so the store stays queryable before login.
const AnonymousTenantID = "demo-user-id"

// Tenant is the logical owner of a namespaced data set.
type Tenant struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is the authentication lifecycle state.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateExpired        SessionState = "expired"
)

// Session is the derived authentication state for the current tab.
type Session struct {
	State     SessionState `json:"state"`
	User      *Tenant      `json:"user,omitempty"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
	Token     string       `json:"token,omitempty"`
}

// Authenticated reports whether the session carries a valid current user.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// TenantID returns the active tenant namespace, falling back to the
// anonymous tenant when no user is logged in.
func (s Session) TenantID() string {
	if s.Authenticated() {
		return s.User.ID
	}
	return AnonymousTenantID
}
