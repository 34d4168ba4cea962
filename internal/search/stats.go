package search

import (
	"strings"

	"github.com/dmitrijs2005/ndisdirectory/internal/models"
)

// DefaultRecentLimit is how many listings the "recently added" panel shows.
const DefaultRecentLimit = 2

type Stats struct {
	TotalServices  int
	TotalLocations int
}

// Statistics counts services and distinct locations, comparing locations
// trimmed and case-insensitively and ignoring blank ones.
func Statistics(services []models.Service) Stats {
	locations := make(map[string]struct{})
	for _, s := range services {
		if loc := strings.ToLower(strings.TrimSpace(s.Location)); loc != "" {
			locations[loc] = struct{}{}
		}
	}
	return Stats{TotalServices: len(services), TotalLocations: len(locations)}
}

// Recent returns up to n of the newest services. n <= 0 uses
// DefaultRecentLimit.
func Recent(services []models.Service, n int) []models.Service {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	newest := Apply(services, Criteria{SortBy: SortNewest}, "")
	if len(newest) > n {
		newest = newest[:n]
	}
	return newest
}
