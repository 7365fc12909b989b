// Package tokenstore owns the durable copy of the access token and the
// cached operator profile. Nothing else reads or writes the two keys.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ghaggin/erp-console/internal/model"
	"github.com/ghaggin/erp-console/internal/storage"
	"go.uber.org/zap"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

type Store struct {
	storage storage.Storage
	log     *zap.Logger

	// mu serializes writers against readers so a Save or Clear is never
	// observed half done inside the process.
	mu        sync.RWMutex
	listeners []func()
}

func New(s storage.Storage, log *zap.Logger) *Store {
	return &Store{
		storage: s,
		log:     log,
	}
}

// Token returns the stored access token. Storage failures read as absent.
func (s *Store) Token(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("token storage unavailable", zap.Error(err))
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// User returns the cached profile. Storage failures and unreadable records
// read as absent.
func (s *Store) User(ctx context.Context) (*model.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("profile storage unavailable", zap.Error(err))
		}
		return nil, false
	}

	var user model.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn("discarding corrupt stored profile", zap.Error(err))
		return nil, false
	}
	if user.Username == "" {
		s.log.Warn("discarding stored profile without username")
		return nil, false
	}
	return &user, true
}

// Save writes the token and the serialized profile together.
func (s *Store) Save(ctx context.Context, token string, user *model.UserProfile) error {
	if token == "" || user == nil {
		return errors.New("save requires a token and a profile")
	}

	b, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storage.SetMany(ctx, map[string]string{
		TokenKey: token,
		UserKey:  string(b),
	})
}

// SaveToken persists only the token and drops any cached profile, which
// belongs to the previous token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("save requires a token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, UserKey); err != nil {
		return err
	}
	return s.storage.SetMany(ctx, map[string]string{TokenKey: token})
}

// Clear removes both entries and notifies listeners. It is idempotent and
// never fails; storage errors are logged.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	err := s.storage.Delete(ctx, TokenKey, UserKey)
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("failed clearing token storage", zap.Error(err))
	}

	for _, fn := range listeners {
		fn()
	}
}

// OnClear registers fn to run after every Clear, outside the store lock.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}
