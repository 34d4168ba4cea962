package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/remote"
)

// remoteRepository prefers the remote API and falls back to local storage
// whenever a call fails, whatever the reason.
type remoteRepository struct {
	client remote.Client
	local  *localRepository
	log    logging.Logger
}

func (r *remoteRepository) Strategy() Strategy { return StrategyRemote }

func (r *remoteRepository) ListAll(ctx context.Context) ([]models.Service, error) {
	services, err := r.client.ListServices(ctx)
	if err != nil {
		r.log.Warn(ctx, "remote list failed, using local data", "err", err)
		return r.local.ListAll(ctx)
	}
	return services, nil
}

func (r *remoteRepository) Get(ctx context.Context, id int64) (models.Service, error) {
	services, err := r.ListAll(ctx)
	if err != nil {
		return models.Service{}, err
	}
	return find(services, id)
}

func (r *remoteRepository) Add(ctx context.Context, s models.Service) (models.Service, error) {
	prepared, err := r.local.prepare(s)
	if err != nil {
		return models.Service{}, err
	}

	created, err := r.client.SubmitService(ctx, prepared)
	if err != nil {
		r.log.Warn(ctx, "remote submit failed, storing locally", "err", err)
		return r.local.Add(ctx, prepared)
	}
	return created, nil
}

func (r *remoteRepository) Remove(ctx context.Context, id int64) error {
	if err := r.client.DeleteService(ctx, id); err != nil {
		r.log.Warn(ctx, "remote delete failed, deleting locally", "service_id", id, "err", err)
		return r.local.Remove(ctx, id)
	}
	return nil
}

// Approve is decided by the remote API; there is no local fallback.
func (r *remoteRepository) Approve(ctx context.Context, id int64) error {
	err := r.client.ApproveService(ctx, id)
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return err
}

func (r *remoteRepository) Pending(ctx context.Context) ([]models.Service, error) {
	services, err := r.client.PendingServices(ctx)
	if err != nil {
		r.log.Warn(ctx, "remote pending list failed, using local data", "err", err)
		return r.local.Pending(ctx)
	}
	return services, nil
}

func (r *remoteRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
