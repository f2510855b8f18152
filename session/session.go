// Package session holds the authenticated identity derived from the signed
// token. The token is decoded, not verified; verification is the backend's
// job and the client only reads claims for display and routing purposes.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/logger"
	"github.com/vasastore/storefront-client/models"
	"github.com/vasastore/storefront-client/storage"
)

// Listener observes identity changes. A nil session means Anonymous.
type Listener func(*models.Session)

// Manager is the session state container: a state machine over
// {Anonymous, Authenticated} with a single global token slot
// (last-write-wins, no cross-tab coordination).
type Manager struct {
	api      *client.Client
	store    storage.Store
	validate *validator.Validate

	mu      sync.Mutex
	token   string
	session *models.Session
	// generation guards in-flight profile fetches: a fetch that lands after
	// logout (or a newer login) must discard its result.
	generation int

	listenerMu sync.Mutex
	listeners  []Listener
}

func NewManager(api *client.Client, store storage.Store) *Manager {
	return &Manager{
		api:      api,
		store:    store,
		validate: validator.New(),
	}
}

// OnChange registers fn for identity transitions. The cart container uses
// this to decide when to reset; the dependency is strictly one-way.
func (m *Manager) OnChange(fn Listener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify(s *models.Session) {
	m.listenerMu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// Current returns a copy of the session, or nil when Anonymous.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.IsAdmin()
}

// Token returns the raw credential, empty when Anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Login transitions Anonymous -> Authenticated. The identity is published
// synchronously from the decoded claims so route guards observe it without a
// network round trip; the full profile (email/phone) is merged asynchronously
// once it arrives.
func (m *Manager) Login(ctx context.Context, token string) error {
	claims, err := decodeClaims(token)
	if err != nil {
		// Undecodable token: make sure we land in a clean Anonymous state.
		m.clear(ctx)
		return apperrors.New(apperrors.ErrInvalidToken.Code, apperrors.ErrInvalidToken.Message, err)
	}

	if err := m.store.SetToken(ctx, token); err != nil {
		logger.Warn("failed to persist token", zap.Error(err))
	}

	m.mu.Lock()
	m.token = token
	m.session = claims.session()
	m.generation++
	gen := m.generation
	current := *m.session
	m.mu.Unlock()

	m.notify(&current)
	go m.fetchProfile(gen, token)
	return nil
}

// Resume restores a session from a previously persisted token, if any.
func (m *Manager) Resume(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	return m.Login(ctx, token)
}

// Logout transitions to Anonymous, clearing durable storage and in-memory
// state together.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) {
	if err := m.store.ClearToken(ctx); err != nil {
		logger.Warn("failed to clear persisted token", zap.Error(err))
	}

	m.mu.Lock()
	m.token = ""
	m.session = nil
	m.generation++
	m.mu.Unlock()

	m.notify(nil)
}

// fetchProfile loads email/phone from the backend and merges them into the
// session. The result is discarded when the identity changed while the fetch
// was in flight.
func (m *Manager) fetchProfile(gen int, token string) {
	raw, err := m.api.Request(context.Background(), http.MethodGet, "/user/details", &client.Options{Token: token})
	if err != nil {
		logger.Warn("profile fetch failed", zap.Error(err))
		return
	}

	profile := parseProfile(raw)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen || m.session == nil {
		return
	}
	mergeProfile(m.session, profile)
}

// ProfilePatch carries the fields a customer may change. Zero values are
// left untouched.
type ProfilePatch struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone_number,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile applies the patch optimistically, persists it to the backend,
// and reverts exactly to the pre-patch snapshot on failure. On success the
// server's canonical response wins over the optimistic value for any
// overlapping field.
func (m *Manager) UpdateProfile(ctx context.Context, patch ProfilePatch) error {
	if err := m.validate.Struct(patch); err != nil {
		return apperrors.New(apperrors.ErrValidation.Code, apperrors.ErrValidation.Message, err)
	}

	m.mu.Lock()
	if m.token == "" || m.session == nil {
		m.mu.Unlock()
		return apperrors.ErrAuthRequired
	}
	token := m.token
	gen := m.generation
	snapshot := *m.session
	applyPatch(m.session, patch)
	m.mu.Unlock()

	raw, err := m.api.Request(ctx, http.MethodPut, "/user/details", &client.Options{
		Token: token,
		Body:  patch,
	})
	if err != nil {
		m.mu.Lock()
		if m.generation == gen && m.session != nil {
			*m.session = snapshot
		}
		m.mu.Unlock()

		var apiErr *client.APIError
		if client.As(err, &apiErr) {
			return apperrors.New(apiErr.Status, apiErr.Message, err)
		}
		return err
	}

	profile := parseProfile(raw)
	m.mu.Lock()
	if m.generation == gen && m.session != nil {
		mergeProfile(m.session, profile)
	}
	m.mu.Unlock()
	return nil
}

func applyPatch(s *models.Session, patch ProfilePatch) {
	if patch.Username != "" {
		s.Username = patch.Username
	}
	if patch.Email != "" {
		s.Email = patch.Email
	}
	if patch.Phone != "" {
		s.Phone = patch.Phone
	}
}

// profile is the normalized subset of /user/details responses.
type profile struct {
	Username string
	Email    string
	Phone    string
	RoleID   int
}

func parseProfile(raw json.RawMessage) profile {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return profile{}
	}
	p := profile{
		Username: stringField(m, "username", "name"),
		Email:    stringField(m, "email"),
		Phone:    stringField(m, "phone_number", "phone"),
	}
	switch v := m["role_id"].(type) {
	case float64:
		p.RoleID = int(v)
	}
	if p.RoleID == 0 {
		if v, ok := m["role"].(float64); ok {
			p.RoleID = int(v)
		}
	}
	return p
}

func mergeProfile(s *models.Session, p profile) {
	if p.Username != "" {
		s.Username = p.Username
	}
	if p.Email != "" {
		s.Email = p.Email
	}
	if p.Phone != "" {
		s.Phone = p.Phone
	}
	if p.RoleID != 0 {
		s.RoleID = p.RoleID
	}
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
