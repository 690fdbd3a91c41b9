// Package auth implements the authentication simulator: a single current
// session per process, persisted through the storage substrate so it
// survives a restart the way a browser session survives a reload.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/internal/storage"
	"github.com/voxboard-ai/dashboard-core/internal/store"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
	"github.com/voxboard-ai/dashboard-core/pkg/metrics"
)

// Session marker keys in the substrate: the serialized current tenant and
// the expiry timestamp in milliseconds since epoch.
const (
	SessionUserKey   = "voxboard_current_user"
	SessionExpiryKey = "voxboard_session_expiry"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Simulator manages the current session and its lifecycle.
type Simulator struct {
	store  storage.Store
	engine *store.Engine
	tokens *TokenIssuer
	ttl    time.Duration
	logger *logger.Logger

	mu      sync.RWMutex
	session model.Session
	now     func() time.Time
}

// NewSimulator creates the simulator and restores any persisted session.
// Valid, non-expired session markers move straight to Authenticated; stale
// markers leave the session Expired, which resolves to the anonymous
// tenant until the next login.
func NewSimulator(st storage.Store, engine *store.Engine, tokens *TokenIssuer, ttl time.Duration, log *logger.Logger) *Simulator {
	s := &Simulator{
		store:  st,
		engine: engine,
		tokens: tokens,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
		session: model.Session{
			State: model.StateAnonymous,
		},
	}
	s.restore()
	return s
}

func (s *Simulator) restore() {
	rawUser, okUser := s.store.Get(SessionUserKey)
	rawExpiry, okExpiry := s.store.Get(SessionExpiryKey)
	if !okUser || !okExpiry {
		return
	}

	expiryMs, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		s.logger.Warn("corrupt session expiry marker, staying anonymous", zap.Error(err))
		return
	}
	expiresAt := time.UnixMilli(expiryMs)

	var tenant model.Tenant
	if err := json.Unmarshal([]byte(rawUser), &tenant); err != nil {
		s.logger.Warn("corrupt session user marker, staying anonymous", zap.Error(err))
		return
	}

	if !s.now().Before(expiresAt) {
		s.session = model.Session{State: model.StateExpired}
		s.logger.Info("persisted session expired", zap.String("tenant_id", tenant.ID))
		return
	}

	token, err := s.tokens.Issue(&tenant, expiresAt)
	if err != nil {
		s.logger.Error("failed to reissue session token", zap.Error(err))
		return
	}

	s.session = model.Session{
		State:     model.StateAuthenticated,
		User:      &tenant,
		ExpiresAt: expiresAt,
		Token:     token,
	}
	metrics.SessionsActive.Set(1)
	s.logger.Info("session restored",
		zap.String("tenant_id", tenant.ID),
		zap.Time("expires_at", expiresAt))
}

// Login authenticates with email and password. Invalid credentials return
// a typed AuthError; internal failures are logged and masked.
func (s *Simulator) Login(ctx context.Context, email, password string) (model.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		metrics.RecordLogin("invalid")
		return model.Session{}, err
	}

	tenant := synthesizeTenant(email)
	return s.establish(ctx, tenant)
}

// Signup registers a new tenant. First and last name are required; the
// display name combines both.
func (s *Simulator) Signup(ctx context.Context, email, password, firstName, lastName string) (model.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		metrics.RecordLogin("invalid")
		return model.Session{}, err
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		metrics.RecordLogin("invalid")
		return model.Session{}, &AuthError{Reason: "first and last name are required"}
	}

	tenant := synthesizeTenant(email)
	tenant.FirstName = strings.TrimSpace(firstName)
	tenant.LastName = strings.TrimSpace(lastName)
	tenant.Name = tenant.FirstName + " " + tenant.LastName
	return s.establish(ctx, tenant)
}

// establish writes the session markers, seeds the tenant's collections and
// transitions to Authenticated.
func (s *Simulator) establish(ctx context.Context, tenant *model.Tenant) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = model.Session{State: model.StateAuthenticating}

	expiresAt := s.now().Add(s.ttl)

	serialized, err := json.Marshal(tenant)
	if err != nil {
		s.logger.Error("failed to serialize tenant", zap.Error(err))
		s.session = model.Session{State: model.StateAnonymous}
		metrics.RecordLogin("error")
		return model.Session{}, &AuthError{Reason: genericFailure}
	}

	token, err := s.tokens.Issue(tenant, expiresAt)
	if err != nil {
		s.logger.Error("failed to issue session token", zap.Error(err))
		s.session = model.Session{State: model.StateAnonymous}
		metrics.RecordLogin("error")
		return model.Session{}, &AuthError{Reason: genericFailure}
	}

	s.store.Set(SessionUserKey, string(serialized))
	s.store.Set(SessionExpiryKey, strconv.FormatInt(expiresAt.UnixMilli(), 10))

	// First access seeds, already-seeded collections are untouched.
	for _, collection := range store.KnownCollections() {
		s.engine.LoadCollection(tenant.ID, collection)
	}

	s.session = model.Session{
		State:     model.StateAuthenticated,
		User:      tenant,
		ExpiresAt: expiresAt,
		Token:     token,
	}

	metrics.SessionsActive.Set(1)
	metrics.RecordLogin("ok")
	s.logger.Info("session established",
		zap.String("tenant_id", tenant.ID),
		zap.String("email", tenant.Email))
	return s.session, nil
}

// Logout removes the session markers and every key in the active tenant's
// namespace, then returns to Anonymous.
func (s *Simulator) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantID := s.session.TenantID()
	s.engine.ClearTenant(tenantID)
	s.store.Remove(SessionUserKey)
	s.store.Remove(SessionExpiryKey)

	s.session = model.Session{State: model.StateAnonymous}
	metrics.SessionsActive.Set(0)
	s.logger.Info("session ended", zap.String("tenant_id", tenantID))
}

// Session returns a copy of the current session, transitioning to Expired
// when its deadline has passed.
func (s *Simulator) Session() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	return s.session
}

// CurrentTenantID resolves the active tenant namespace, falling back to the
// anonymous tenant when no user is authenticated.
func (s *Simulator) CurrentTenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	return s.session.TenantID()
}

func (s *Simulator) expireLocked() {
	if s.session.State == model.StateAuthenticated && !s.now().Before(s.session.ExpiresAt) {
		s.session = model.Session{State: model.StateExpired}
		metrics.SessionsActive.Set(0)
		s.logger.Info("session expired")
	}
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return &AuthError{Reason: "please enter a valid email address"}
	}
	if password == "" {
		return &AuthError{Reason: "password is required"}
	}
	return nil
}

// synthesizeTenant derives a stable tenant from an email address, so the
// same credentials always resolve to the same namespace.
func synthesizeTenant(email string) *model.Tenant {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	local := email[:strings.Index(email, "@")]

	return &model.Tenant{
		ID:        "user_" + hex.EncodeToString(sum[:])[:16],
		Email:     email,
		Name:      local,
		CreatedAt: time.Now().UTC(),
	}
}
