// Package search filters and orders service listings. Apply is pure: it
// never mutates its input and always runs the stages in the same order,
// category, registration status, free text, then a stable sort.
package search

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortName   SortKey = "name"
	SortRating SortKey = "rating"
)

// ParseSortKey normalises s. Unknown keys are returned as given; Apply
// leaves the order untouched for them.
func ParseSortKey(s string) SortKey {
	return SortKey(strings.ToLower(strings.TrimSpace(s)))
}

// Criteria is the active filter panel selection.
type Criteria struct {
	// Categories keeps services carrying at least one of the tags. Empty
	// means no constraint.
	Categories []string
	// Registered keeps services with exactly this status, unless unspecified.
	Registered models.RegistrationStatus
	SortBy     SortKey
}

// DefaultCriteria is the state of a freshly reset filter panel.
func DefaultCriteria() Criteria {
	return Criteria{Categories: []string{}, SortBy: SortNewest}
}

// collationTag is the locale used for name ordering.
var collationTag = language.English

// Apply returns the services matching c and query, ordered by c.SortBy.
func Apply(services []models.Service, c Criteria, query string) []models.Service {
	out := make([]models.Service, 0, len(services))
	q := strings.ToLower(query)

	for _, s := range services {
		if !matchesCategories(s, c.Categories) {
			continue
		}
		if c.Registered != models.RegisteredUnspecified && s.Registered != c.Registered {
			continue
		}
		if q != "" && !matchesText(s, q) {
			continue
		}
		out = append(out, s)
	}

	sortServices(out, c.SortBy)
	return out
}

func matchesCategories(s models.Service, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range selected {
		if s.HasCategory(tag) {
			return true
		}
	}
	return false
}

// matchesText expects q already lower-cased.
func matchesText(s models.Service, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Location), q) ||
		strings.Contains(strings.ToLower(s.Description), q) {
		return true
	}
	return slices.ContainsFunc(s.Category, func(c string) bool {
		return strings.Contains(strings.ToLower(c), q)
	})
}

// sortKeyTime treats a missing creation time as the Unix epoch.
func sortKeyTime(s models.Service) time.Time {
	if s.CreatedAt.IsZero() {
		return time.Unix(0, 0)
	}
	return s.CreatedAt
}

func sortServices(services []models.Service, key SortKey) {
	switch key {
	case SortNewest:
		slices.SortStableFunc(services, func(a, b models.Service) int {
			return sortKeyTime(b).Compare(sortKeyTime(a))
		})
	case SortOldest:
		slices.SortStableFunc(services, func(a, b models.Service) int {
			return sortKeyTime(a).Compare(sortKeyTime(b))
		})
	case SortName:
		col := collate.New(collationTag)
		slices.SortStableFunc(services, func(a, b models.Service) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortRating:
		slices.SortStableFunc(services, func(a, b models.Service) int {
			switch {
			case a.AverageRating > b.AverageRating:
				return -1
			case a.AverageRating < b.AverageRating:
				return 1
			}
			return 0
		})
	}
}
