// Package directory provides access to service listings. The backing
// strategy is chosen at construction: local storage only, or the remote
// directory API with local storage as the fallback. Both expose the same
// Repository contract.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/remote"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

type Strategy string

const (
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
)

var (
	ErrNotFound        = errors.New("service not found")
	ErrInvalidService  = errors.New("invalid service")
	ErrUnknownStrategy = errors.New("unknown repository strategy")
)

// Repository is the service listing store.
//
// Lists are always complete, well-formed sequences: records that fail to
// decode or validate are dropped, never returned half-filled.
type Repository interface {
	ListAll(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, id int64) (models.Service, error)
	// Add assigns a fresh id, fills defaults and stores s.
	Add(ctx context.Context, s models.Service) (models.Service, error)
	Remove(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64) error
	// Pending lists submissions awaiting approval.
	Pending(ctx context.Context) ([]models.Service, error)
	// Ping reports whether the backing source is reachable.
	Ping(ctx context.Context) error
	Strategy() Strategy
}

type Options struct {
	Strategy Strategy
	// Remote is required for StrategyRemote.
	Remote remote.Client
	Now    func() time.Time
	Log    logging.Logger
}

// New builds the Repository selected by opts.Strategy over store.
func New(store *storage.Store, opts Options) (Repository, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	log := opts.Log.With("component", "directory", "strategy", string(opts.Strategy))

	local := &localRepository{store: store, now: opts.Now, log: log}

	switch opts.Strategy {
	case StrategyLocal:
		return local, nil
	case StrategyRemote:
		if opts.Remote == nil {
			return nil, fmt.Errorf("%w: remote strategy without a client", ErrUnknownStrategy)
		}
		return &remoteRepository{client: opts.Remote, local: local, log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
}

func find(services []models.Service, id int64) (models.Service, error) {
	for _, s := range services {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Service{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}
