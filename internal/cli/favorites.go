package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
)

// Fav toggles a service in the favorites set.
func (a *App) Fav(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "fav")
	if err != nil {
		return err
	}
	if _, err := a.state.Repository().Get(ctx, id); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			a.printf("Service %d not found\n", id)
		} else {
			a.println("Error:", err)
		}
		return err
	}

	added, err := a.state.Favorites(ctx).Toggle(ctx, id)
	if err != nil {
		a.println("Could not update favorites:", err)
		return err
	}
	if added {
		a.println("Added to favorites")
	} else {
		a.println("Removed from favorites")
	}
	return nil
}

func (a *App) Favs(ctx context.Context, _ []string) error {
	services, err := a.state.FavoriteServices(ctx)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	if len(services) == 0 {
		a.println("No favorites yet")
		return nil
	}
	a.printServices(ctx, services)
	return nil
}
