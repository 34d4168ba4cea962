package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

type localRepository struct {
	store *storage.Store
	now   func() time.Time
	log   logging.Logger
}

func (r *localRepository) Strategy() Strategy { return StrategyLocal }

func (r *localRepository) ListAll(ctx context.Context) ([]models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return storage.ReadList[models.Service](ctx, r.store, storage.KeyServices), nil
}

func (r *localRepository) Get(ctx context.Context, id int64) (models.Service, error) {
	services, err := r.ListAll(ctx)
	if err != nil {
		return models.Service{}, err
	}
	return find(services, id)
}

// prepare trims and defaults a submission. The id is assigned separately.
func (r *localRepository) prepare(s models.Service) (models.Service, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return models.Service{}, fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if s.Registered == models.RegisteredUnspecified {
		s.Registered = models.RegisteredNo
	}
	if s.Category == nil {
		s.Category = []string{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	return s, nil
}

func (r *localRepository) Add(ctx context.Context, s models.Service) (models.Service, error) {
	s, err := r.prepare(s)
	if err != nil {
		return models.Service{}, err
	}

	err = r.store.Atomically(ctx, func(ctx context.Context, tx *storage.Store) error {
		services := storage.ReadList[models.Service](ctx, tx, storage.KeyServices)

		var maxID int64
		for _, existing := range services {
			maxID = max(maxID, existing.ID)
		}
		s.ID = models.NextID(r.now(), maxID)

		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidService, err)
		}
		return storage.WriteList(ctx, tx, storage.KeyServices, append(services, s))
	})
	if err != nil {
		return models.Service{}, err
	}

	r.log.Info(ctx, "service added", "service_id", s.ID)
	return s, nil
}

func (r *localRepository) Remove(ctx context.Context, id int64) error {
	return r.store.Atomically(ctx, func(ctx context.Context, tx *storage.Store) error {
		services := storage.ReadList[models.Service](ctx, tx, storage.KeyServices)

		kept := services[:0]
		for _, s := range services {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == len(services) {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return storage.WriteList(ctx, tx, storage.KeyServices, kept)
	})
}

// Approve only acknowledges: locally stored listings carry no approval state.
func (r *localRepository) Approve(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	r.log.Info(ctx, "service approved", "service_id", id)
	return nil
}

// Pending returns every locally stored listing.
func (r *localRepository) Pending(ctx context.Context) ([]models.Service, error) {
	return r.ListAll(ctx)
}

func (r *localRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
