// Package remote talks to the optional directory API. Every failure is
// mapped onto a small set of sentinel errors so the service repository can
// decide when to fall back to local data.
package remote

import (
	"context"

	"github.com/dmitrijs2005/ndisdirectory/internal/models"
)

type Client interface {
	// ListServices returns all approved listings.
	ListServices(ctx context.Context) ([]models.Service, error)
	// PendingServices returns listings awaiting approval.
	PendingServices(ctx context.Context) ([]models.Service, error)
	// SubmitService creates a listing and returns it as stored remotely.
	SubmitService(ctx context.Context, s models.Service) (models.Service, error)
	ApproveService(ctx context.Context, id int64) error
	DeleteService(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
