// Package models defines the records persisted by the storage adapter and
// exchanged with the remote directory API. JSON field names follow the
// layout written by the web client, so existing data stays readable.
package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRecord = errors.New("invalid record")

// RegistrationStatus tells whether a provider is NDIS registered.
type RegistrationStatus string

const (
	RegisteredYes         RegistrationStatus = "Yes"
	RegisteredNo          RegistrationStatus = "No"
	RegisteredUnspecified RegistrationStatus = ""
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegisteredYes, RegisteredNo, RegisteredUnspecified:
		return true
	}
	return false
}

const MaxRating = 5.0

// Service is a directory listing.
type Service struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Location      string             `json:"location"`
	Category      []string           `json:"category"`
	Description   string             `json:"description"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Address       string             `json:"address,omitempty"`
	Registered    RegistrationStatus `json:"registered,omitempty"`
	AverageRating float64            `json:"averageRating"`
	ReviewCount   int                `json:"reviewCount"`
	CreatedAt     time.Time          `json:"createdAt"`
	// CreatedBy is an informational link to the submitting user.
	CreatedBy *int64 `json:"createdBy,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

func (s Service) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("%w: service id %d", ErrInvalidRecord, s.ID)
	}
	if s.AverageRating < 0 || s.AverageRating > MaxRating {
		return fmt.Errorf("%w: service %d rating %v out of range", ErrInvalidRecord, s.ID, s.AverageRating)
	}
	if s.ReviewCount < 0 {
		return fmt.Errorf("%w: service %d negative review count", ErrInvalidRecord, s.ID)
	}
	if !s.Registered.Valid() {
		return fmt.Errorf("%w: service %d registration status %q", ErrInvalidRecord, s.ID, s.Registered)
	}
	return nil
}

// HasCategory reports whether tag is one of the service's categories.
func (s Service) HasCategory(tag string) bool {
	for _, c := range s.Category {
		if c == tag {
			return true
		}
	}
	return false
}

// NextID returns a time-based identifier strictly greater than maxExisting.
func NextID(now time.Time, maxExisting int64) int64 {
	id := now.UnixMilli()
	if id <= maxExisting {
		id = maxExisting + 1
	}
	return id
}
