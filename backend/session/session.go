package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"sqlify/backend/models"
	"sqlify/backend/storage"
)

// Store is the single process-wide holder of the signed-in identity. Pages
// read a derived Session from it instead of parsing the persisted blob
// themselves, and can subscribe to hear about login and logout.
type Store struct {
	mu    sync.RWMutex
	local *storage.Store
	subs  []func(models.Session)
}

func NewStore(local *storage.Store) *Store {
	return &Store{local: local}
}

// Get derives a fresh canonical Session from the persisted user record.
// Storage trouble degrades to a guest session rather than failing the page.
func (s *Store) Get() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok, err := s.local.Get(storage.KeyUser)
	if err != nil || !ok {
		return models.ReadSession(nil)
	}
	return models.ReadSession([]byte(blob))
}

// Set persists the raw user record and token issued at login, then
// notifies subscribers with the derived Session. The blob is stored as
// received; normalization happens on every read.
func (s *Store) Set(userBlob []byte, token string) error {
	s.mu.Lock()
	if err := s.local.Set(storage.KeyUser, string(userBlob)); err != nil {
		s.mu.Unlock()
		return err
	}
	if token != "" {
		if err := s.local.Set(storage.KeyToken, token); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	subs := append([]func(models.Session){}, s.subs...)
	s.mu.Unlock()

	sess := models.ReadSession(userBlob)
	for _, fn := range subs {
		fn(sess)
	}
	return nil
}

// Clear wipes both the user record and the token and notifies subscribers
// with a guest session. Only logout calls this.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := s.local.Delete(storage.KeyUser, storage.KeyToken); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := append([]func(models.Session){}, s.subs...)
	s.mu.Unlock()

	sess := models.ReadSession(nil)
	for _, fn := range subs {
		fn(sess)
	}
	return nil
}

// ClearToken drops only the token, mirroring what the client does on a
// 401: the last-known user record stays put.
func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Delete(storage.KeyToken)
}

// Token returns the stored bearer token, or "" when it is missing or its
// exp claim is already in the past. Only the claim is peeked at; signature
// verification stays the backend's job.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok, err := s.local.Get(storage.KeyToken)
	if err != nil || !ok || token == "" {
		return ""
	}
	if expired(token) {
		return ""
	}
	return token
}

// Subscribe registers fn to run after every Set and Clear.
func (s *Store) Subscribe(fn func(models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque token: let the backend decide.
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Unix(int64(exp), 0).Before(time.Now())
}
