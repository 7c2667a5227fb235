package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gourmet-ordering/menu-svc/internal/domain"
	"gourmet-ordering/menu-svc/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrSuperseded       = errors.New("menu refresh superseded by a newer one")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	DefaultPopularLimit = 5
	MaxPopularLimit     = 50
)

type MenuService struct {
	source  MenuSource
	parser  MenuParser
	cache   MenuCache
	popular PopularityReader
	ttl     time.Duration
	log     logrus.FieldLogger
	now     func() time.Time

	mu         sync.Mutex
	generation uint64
	snapshot   []domain.Category
	loadedAt   time.Time
}

type Option func(*MenuService)

func WithCache(cache MenuCache) Option {
	return func(s *MenuService) { s.cache = cache }
}

func WithPopularity(reader PopularityReader) Option {
	return func(s *MenuService) { s.popular = reader }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *MenuService) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *MenuService) { s.now = now }
}

// NewMenuService builds the menu loader. A zero ttl disables both the
// in-memory snapshot and the shared cache, so every read refetches.
func NewMenuService(source MenuSource, parser MenuParser, ttl time.Duration, opts ...Option) *MenuService {
	s := &MenuService{
		source: source,
		parser: parser,
		ttl:    ttl,
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches and normalizes the menu. The result is installed only if
// no refresh started after this one; otherwise ErrSuperseded is returned and
// the newer result is left alone.
func (s *MenuService) Refresh(ctx context.Context) ([]domain.Category, error) {
	categories, installed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !installed {
		return nil, ErrSuperseded
	}
	return categories, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]domain.Category, error) {
	if categories, ok := s.fresh(); ok {
		return categories, nil
	}

	if s.cache != nil && s.ttl > 0 {
		categories, err := s.cache.Load(ctx)
		switch {
		case err == nil:
			s.install(categories)
			return categories, nil
		case !errors.Is(err, storage.ErrCacheMiss):
			s.log.WithError(err).Warn("menu cache unavailable")
		}
	}

	categories, installed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !installed {
		// A newer load owns the snapshot. Readers still get a menu: the
		// newer one if it already landed, otherwise the one just fetched.
		if current, ok := s.current(); ok {
			return current, nil
		}
	}
	return categories, nil
}

// load fetches and parses the menu and reports whether the result was
// installed as the current snapshot.
func (s *MenuService) load(ctx context.Context) ([]domain.Category, bool, error) {
	gen := s.begin()

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch menu: %w", err)
	}
	categories, err := s.parser.Parse(raw)
	if err != nil {
		return nil, false, fmt.Errorf("parse menu: %w", err)
	}

	if !s.commit(gen, categories) {
		s.log.WithField("generation", gen).Warn("discarding stale menu refresh")
		return categories, false, nil
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Store(ctx, categories); err != nil {
			s.log.WithError(err).Warn("failed to cache menu")
		}
	}
	return categories, true, nil
}

// Category looks a category up by id or by slugified name and applies the
// subcategory selection to its items.
func (s *MenuService) Category(ctx context.Context, key string, selected []string) (*domain.CategoryDetail, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	for _, cat := range categories {
		if cat.ID != key && Slugify(cat.Name) != key {
			continue
		}
		items := cat.AllItems()
		selection := NormalizeSelection(selected)
		filtered := FilterItems(items, selection)
		return &domain.CategoryDetail{
			Category:      cat,
			Subcategories: Subcategories(items),
			Selected:      selection,
			Items:         filtered,
			Total:         len(filtered),
		}, nil
	}
	return nil, ErrCategoryNotFound
}

// Popular returns the most ordered items still present on the menu.
func (s *MenuService) Popular(ctx context.Context, limit int) ([]domain.MenuItem, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}
	if s.popular == nil {
		return []domain.MenuItem{}, nil
	}

	ids, err := s.popular.TopItemIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read popularity: %w", err)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.MenuItem)
	for _, cat := range categories {
		for _, item := range cat.AllItems() {
			if _, seen := byID[item.ID]; !seen {
				byID[item.ID] = item
			}
		}
	}

	items := make([]domain.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			item.IsPopular = true
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *MenuService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *MenuService) commit(gen uint64, categories []domain.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.snapshot = categories
	s.loadedAt = s.now()
	return true
}

func (s *MenuService) install(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = categories
	s.loadedAt = s.now()
}

func (s *MenuService) fresh() ([]domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl <= 0 || s.snapshot == nil || s.now().Sub(s.loadedAt) >= s.ttl {
		return nil, false
	}
	return s.snapshot, true
}

func (s *MenuService) current() ([]domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.snapshot != nil
}

func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
