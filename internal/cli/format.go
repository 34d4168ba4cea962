package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ndisdirectory/internal/models"
)

const (
	dateLayout     = "2 Jan 2006"
	dateTimeLayout = "2 Jan 2006 15:04"
)

func describeList(items []string) string {
	if len(items) == 0 {
		return "any"
	}
	return strings.Join(items, ", ")
}

func describeStatus(s models.RegistrationStatus) string {
	if s == models.RegisteredUnspecified {
		return "any"
	}
	return string(s)
}

func stars(rating float64) string {
	full := int(rating + 0.5)
	if full > int(models.MaxRating) {
		full = int(models.MaxRating)
	}
	return strings.Repeat("*", full) + strings.Repeat(".", int(models.MaxRating)-full)
}

func (a *App) printServices(ctx context.Context, services []models.Service) {
	if len(services) == 0 {
		a.println("No services found")
		return
	}
	favs := a.state.Favorites(ctx)
	for _, s := range services {
		mark := " "
		if favs.IsFavorite(ctx, s.ID) {
			mark = "+"
		}
		a.printf("%s %-15d %s | %s | %s | %s %.1f (%d)\n",
			mark, s.ID, s.Name, s.Location, describeList(s.Category), stars(s.AverageRating), s.AverageRating, s.ReviewCount)
	}
}

func (a *App) printServiceDetails(ctx context.Context, s models.Service) {
	a.printf("%s (#%d)\n", s.Name, s.ID)
	fields := []struct{ label, value string }{
		{"Location", s.Location},
		{"Address", s.Address},
		{"Categories", describeList(s.Category)},
		{"Description", s.Description},
		{"Phone", s.Phone},
		{"Email", s.Email},
		{"Registered", describeStatus(s.Registered)},
		{"Rating", fmt.Sprintf("%s %.1f from %d reviews", stars(s.AverageRating), s.AverageRating, s.ReviewCount)},
		{"Listed", s.CreatedAt.Local().Format(dateLayout)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		a.printf("  %-12s %s\n", f.label+":", f.value)
	}
	if a.state.Favorites(ctx).IsFavorite(ctx, s.ID) {
		a.println("  In your favorites")
	}
}
