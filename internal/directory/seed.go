package directory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

// SampleServices returns the demo listings stamped with now.
func SampleServices(now time.Time) []models.Service {
	return []models.Service{
		{
			ID:            1,
			Name:          "Community Care Services",
			Location:      "Sydney",
			Category:      []string{"Support Worker", "Respite"},
			Description:   "Providing quality in-home support and community access",
			Phone:         "0412 345 678",
			Email:         "contact@communitycare.com",
			Registered:    models.RegisteredYes,
			AverageRating: 4.5,
			ReviewCount:   12,
			CreatedAt:     now,
		},
		{
			ID:            2,
			Name:          "Allied Health Professionals",
			Location:      "Melbourne",
			Category:      []string{"Allied Health Professional", "Occupational Therapist"},
			Description:   "Experienced OT and physiotherapy services",
			Phone:         "0432 123 456",
			Email:         "admin@alliedhealth.com",
			Registered:    models.RegisteredYes,
			AverageRating: 4.8,
			ReviewCount:   8,
			CreatedAt:     now,
		},
	}
}

// SeedSampleServices stores the demo listings when no services are stored.
func SeedSampleServices(ctx context.Context, store *storage.Store, now time.Time) error {
	if store.Has(ctx, storage.KeyServices) {
		return nil
	}
	return storage.WriteList(ctx, store, storage.KeyServices, SampleServices(now.UTC()))
}
