package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/ghaggin/erp-console/internal/tokenstore"
	"go.uber.org/zap"
)

// AuthAPI is the slice of the ERP API the session lifecycle uses.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error)
	Me(ctx context.Context) (*model.UserProfile, error)
	Logout(ctx context.Context) error
}

// Manager owns the login lifecycle. It starts Bootstrapping, settles in
// Anonymous or Authenticated, and cycles between those two afterwards.
type Manager struct {
	api       AuthAPI
	tokens    *tokenstore.Store
	nav       navigation.Navigator
	loginPath string
	log       *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state model.Session
}

func NewManager(api AuthAPI, tokens *tokenstore.Store, nav navigation.Navigator, loginPath string, log *zap.Logger) *Manager {
	m := &Manager{
		api:       api,
		tokens:    tokens,
		nav:       nav,
		loginPath: loginPath,
		log:       log,
		now:       time.Now,
		state:     model.Session{Loading: true},
	}

	// a clear from anywhere, including the request pipeline, ends the session
	tokens.OnClear(m.reset)

	return m
}

func (m *Manager) Snapshot() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.Snapshot().IsAuthenticated()
}

func (m *Manager) Loading() bool {
	return m.Snapshot().Loading
}

func (m *Manager) User() (*model.UserProfile, bool) {
	s := m.Snapshot()
	return s.User, s.User != nil
}

func (m *Manager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.Session{}
}

func (m *Manager) set(token string, user *model.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.Session{Token: token, User: user}
}

// Bootstrap restores the session persisted by a previous run. It never
// fails: every error path ends Anonymous.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, ok := m.tokens.Token(ctx)
	if !ok {
		m.log.Info("no stored session")
		m.reset()
		return
	}

	if tokenExpired(token, m.now()) {
		m.log.Info("stored token expired, discarding")
		m.tokens.Clear(ctx)
		return
	}

	if err := m.loadProfile(ctx, token); err != nil {
		m.log.Info("stored session rejected", zap.Error(err))
		return
	}

	user, _ := m.User()
	m.log.Info("session restored", zap.String("username", user.Username))
}

// Refresh re-fetches the profile for the current token. On failure the
// session is cleared and the error returned.
func (m *Manager) Refresh(ctx context.Context) error {
	token, ok := m.tokens.Token(ctx)
	if !ok {
		m.reset()
		return errNoToken
	}
	return m.loadProfile(ctx, token)
}

func (m *Manager) loadProfile(ctx context.Context, token string) error {
	user, err := m.api.Me(ctx)
	if err != nil {
		m.tokens.Clear(ctx)
		return err
	}

	if err := m.tokens.Save(ctx, token, user); err != nil {
		m.log.Warn("failed persisting session", zap.Error(err))
		m.tokens.Clear(ctx)
		return err
	}

	m.set(token, user)
	return nil
}

// Login exchanges credentials for a token, persists it, then fetches the
// profile with it. A missing token leaves the state untouched; a failed
// profile fetch clears everything.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	res, err := m.api.Login(ctx, model.Credentials{Username: username, Password: password})
	if err != nil {
		m.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return err
	}
	if res == nil || res.AccessToken == "" {
		return ErrMissingAccessToken
	}

	// persisted before the profile fetch so the pipeline sends it
	if err := m.tokens.SaveToken(ctx, res.AccessToken); err != nil {
		m.log.Warn("failed persisting token", zap.Error(err))
		m.tokens.Clear(ctx)
		return err
	}

	if err := m.loadProfile(ctx, res.AccessToken); err != nil {
		m.log.Info("profile fetch failed after login", zap.String("username", username), zap.Error(err))
		return err
	}

	m.log.Info("logged in", zap.String("username", username))
	return nil
}

// Logout notifies the API, clears the session and sends the operator to the
// login view with no return target. The API call is best effort.
func (m *Manager) Logout(ctx context.Context) {
	if _, ok := m.tokens.Token(ctx); ok {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Debug("logout notification failed", zap.Error(err))
		}
	}

	m.tokens.Clear(ctx)
	navigation.ToLoginFresh(m.nav, m.loginPath)
}
