// Package favorites keeps each session's saved items. Every change is
// written through to storage before it becomes visible.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gourmet-ordering/order-svc/internal/domain"
	"gourmet-ordering/order-svc/internal/storage"

	"github.com/sirupsen/logrus"
)

const KeyPrefix = "restaurant-favorites"

type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

var (
	_ Storage = (*storage.PostgresFavorites)(nil)
	_ Storage = (*storage.RedisFavorites)(nil)
)

func StorageKey(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

type Store struct {
	mu      sync.RWMutex
	key     string
	storage Storage
	items   []domain.FavoriteItem
}

// Open rehydrates the favorites saved under key. A missing entry starts
// empty, as does a corrupt one (after logging it). Storage failures are
// returned so that a later save cannot overwrite data that failed to load.
func Open(ctx context.Context, store Storage, key string, log logrus.FieldLogger) (*Store, error) {
	s := &Store{key: key, storage: store, items: []domain.FavoriteItem{}}

	payload, err := store.Load(ctx, key)
	if errors.Is(err, storage.ErrNoState) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	var items []domain.FavoriteItem
	if err := json.Unmarshal(payload, &items); err != nil {
		log.WithError(err).WithField("key", key).Error("Error loading favorites, starting empty")
		return s, nil
	}
	s.items = dedupe(items)
	return s, nil
}

func (s *Store) Add(ctx context.Context, item domain.FavoriteItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.ID) >= 0 {
		return nil
	}
	next := append(append([]domain.FavoriteItem{}, s.items...), item)
	return s.commit(ctx, next)
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := append(append([]domain.FavoriteItem{}, s.items[:i]...), s.items[i+1:]...)
	return s.commit(ctx, next)
}

// Toggle adds item if absent and removes it otherwise. It reports whether the
// item is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, item domain.FavoriteItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		next := append(append([]domain.FavoriteItem{}, s.items[:i]...), s.items[i+1:]...)
		if err := s.commit(ctx, next); err != nil {
			return true, err
		}
		return false, nil
	}
	next := append(append([]domain.FavoriteItem{}, s.items...), item)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

func (s *Store) Items() []domain.FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FavoriteItem{}, s.items...)
}

// commit saves next and installs it only if the save succeeded.
func (s *Store) commit(ctx context.Context, next []domain.FavoriteItem) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	s.items = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func dedupe(items []domain.FavoriteItem) []domain.FavoriteItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.FavoriteItem, 0, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			out = append(out, item)
		}
	}
	return out
}

// Registry opens one Store per session and keeps it for later requests.
// Stores not requested since a Sweep cutoff are dropped; their state stays in
// storage and is reloaded on the next request.
type Registry struct {
	storage Storage
	log     logrus.FieldLogger

	mu     sync.Mutex
	stores map[string]*entry
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

func NewRegistry(backend Storage, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{storage: backend, log: log, stores: make(map[string]*entry)}
}

// Get returns the session's store, opening it on first use. Storage is read
// without holding the registry lock; if two requests open the same session
// at once, the first store installed wins.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, error) {
	if s, ok := r.lookup(sessionID); ok {
		return s, nil
	}

	opened, err := Open(ctx, r.storage, StorageKey(sessionID), r.log)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[sessionID]
	if !ok {
		e = &entry{store: opened}
		r.stores[sessionID] = e
	}
	e.lastSeen = time.Now()
	return e.store, nil
}

func (r *Registry) lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.store, true
}

// Sweep drops stores last requested before cutoff and returns how many went.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
