// Package app holds the application state shared by the front ends: the
// storage adapter, auth manager, service repository, the active filter
// criteria and the search sequencer. All mutation of criteria goes through
// the methods on State.
package app

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/auth"
	"github.com/dmitrijs2005/ndisdirectory/internal/config"
	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
	"github.com/dmitrijs2005/ndisdirectory/internal/favorites"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/search"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

var ErrLoginRequired = errors.New("login required")

type State struct {
	cfg   *config.Config
	db    *sql.DB
	store *storage.Store
	auth  auth.Manager
	repo  directory.Repository
	log   logging.Logger
	now   func() time.Time

	mu       sync.Mutex
	criteria search.Criteria
	seq      search.Sequencer
}

// NewState assembles a State from already built parts. db may be nil when
// the caller owns the connection.
func NewState(cfg *config.Config, db *sql.DB, store *storage.Store, am auth.Manager, repo directory.Repository, log logging.Logger) *State {
	return &State{
		cfg:      cfg,
		db:       db,
		store:    store,
		auth:     am,
		repo:     repo,
		log:      log.With("component", "app"),
		now:      time.Now,
		criteria: search.DefaultCriteria(),
	}
}

func (s *State) Config() *config.Config { return s.cfg }

func (s *State) Auth() auth.Manager { return s.auth }

func (s *State) Repository() directory.Repository { return s.repo }

func (s *State) Session(ctx context.Context) (models.Session, bool) {
	return s.auth.CurrentSession(ctx)
}

// Bootstrap drops legacy data and, when enabled, seeds the demo user and
// services into an empty store.
func (s *State) Bootstrap(ctx context.Context) error {
	if err := s.store.CleanupLegacy(ctx); err != nil {
		return err
	}
	if !s.cfg.SeedSampleData {
		return nil
	}
	if err := s.auth.SeedSampleUser(ctx); err != nil {
		return err
	}
	return directory.SeedSampleServices(ctx, s.store, s.now())
}

func (s *State) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Criteria returns a copy of the active filter selection.
func (s *State) Criteria() search.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.criteria
	c.Categories = slices.Clone(c.Categories)
	return c
}

func (s *State) SetCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Categories = slices.Clone(categories)
}

func (s *State) SetRegistered(status models.RegistrationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Registered = status
}

func (s *State) SetSort(key search.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.SortBy = key
}

func (s *State) ResetCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = search.DefaultCriteria()
}

// Search runs the pipeline over the current listing. When another search
// was started before this one resolved, the result is discarded and
// search.ErrStaleResult is returned.
func (s *State) Search(ctx context.Context, query string) ([]models.Service, error) {
	token := s.seq.Next()

	services, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result := search.Apply(services, s.Criteria(), query)

	if !s.seq.IsLatest(token) {
		s.log.Debug(ctx, "discarding superseded search", "query", query)
		return nil, search.ErrStaleResult
	}
	return result, nil
}

// Browse is Search without a query.
func (s *State) Browse(ctx context.Context) ([]models.Service, error) {
	return s.Search(ctx, "")
}

func (s *State) Recent(ctx context.Context, n int) ([]models.Service, error) {
	services, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return search.Recent(services, n), nil
}

func (s *State) Stats(ctx context.Context) (search.Stats, error) {
	services, err := s.repo.ListAll(ctx)
	if err != nil {
		return search.Stats{}, err
	}
	return search.Statistics(services), nil
}

// AddService submits svc on behalf of the logged-in user.
func (s *State) AddService(ctx context.Context, svc models.Service) (models.Service, error) {
	sess, ok := s.auth.CurrentSession(ctx)
	if !ok {
		return models.Service{}, ErrLoginRequired
	}
	svc.CreatedBy = &sess.ID
	return s.repo.Add(ctx, svc)
}

// Favorites returns the tracker for the current context: per user when
// FavoritesPerUser is set and someone is logged in, per device otherwise.
func (s *State) Favorites(ctx context.Context) favorites.Tracker {
	var userID int64
	if s.cfg.FavoritesPerUser {
		if sess, ok := s.auth.CurrentSession(ctx); ok {
			userID = sess.ID
		}
	}
	return favorites.New(s.store, favorites.KeyFor(userID))
}

// FavoriteServices resolves favorited ids against the listing, in the
// order they were favorited. Ids with no matching service are skipped.
func (s *State) FavoriteServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	out := make([]models.Service, 0)
	for _, id := range s.Favorites(ctx).List(ctx) {
		if svc, ok := byID[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}
