package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ndisdirectory/internal/app"
	"github.com/dmitrijs2005/ndisdirectory/internal/common"
	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/search"
)

var errUsage = errors.New("usage")

// parseID reads the id argument of a "<cmd> <id>" command.
func (a *App) parseID(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		a.printf("Usage: %s <id>\n", cmd)
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		a.printf("Invalid id %q\n", args[0])
		return 0, errUsage
	}
	return id, nil
}

func (a *App) requireLogin(ctx context.Context) error {
	if a.isLoggedIn(ctx) {
		return nil
	}
	a.println("Please log in first")
	return app.ErrLoginRequired
}

// report prints a query error, staying quiet about superseded searches.
func (a *App) report(err error) error {
	if !errors.Is(err, search.ErrStaleResult) {
		a.println("Error:", err)
	}
	return err
}

// List shows the listing under the active filter criteria.
func (a *App) List(ctx context.Context, _ []string) error {
	services, err := a.state.Browse(ctx)
	if err != nil {
		return a.report(err)
	}
	a.printServices(ctx, services)
	return nil
}

// Search runs a free-text query combined with the active criteria.
func (a *App) Search(ctx context.Context, args []string) error {
	services, err := a.state.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return a.report(err)
	}
	a.printServices(ctx, services)
	return nil
}

// Filter prompts for the filter panel values and shows the result. Blank
// answers clear a constraint; a blank sort keeps the current order.
func (a *App) Filter(ctx context.Context, _ []string) error {
	current := a.state.Criteria()

	cats, err := getSimpleText(a.reader, fmt.Sprintf("Categories, comma separated (current: %s)", describeList(current.Categories)), a.out)
	if err != nil {
		return err
	}
	reg, err := getSimpleText(a.reader, fmt.Sprintf("Registered: Yes, No or blank for any (current: %s)", describeStatus(current.Registered)), a.out)
	if err != nil {
		return err
	}
	status, ok := parseStatus(reg)
	if !ok {
		a.printf("Unknown registration status %q\n", reg)
		return errUsage
	}
	sortBy, err := getSimpleText(a.reader, fmt.Sprintf("Sort by: newest, oldest, name, rating (current: %s)", current.SortBy), a.out)
	if err != nil {
		return err
	}

	a.state.SetCategories(splitList(cats))
	a.state.SetRegistered(status)
	if strings.TrimSpace(sortBy) != "" {
		a.state.SetSort(search.ParseSortKey(sortBy))
	}

	return a.List(ctx, nil)
}

func (a *App) Reset(ctx context.Context, _ []string) error {
	a.state.ResetCriteria()
	a.println("Filters cleared")
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "show")
	if err != nil {
		return err
	}
	svc, err := a.state.Repository().Get(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			a.printf("Service %d not found\n", id)
		} else {
			a.println("Error:", err)
		}
		return err
	}
	a.printServiceDetails(ctx, svc)
	return nil
}

// Add prompts for a new listing and submits it for approval.
func (a *App) Add(ctx context.Context, _ []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	prompts := []string{
		"Service name",
		"Location",
		"Categories, comma separated",
		"Description",
		"Phone",
		"Email",
		"Address (optional)",
		"NDIS registered: Yes or No",
	}
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		v, err := getSimpleText(a.reader, p, a.out)
		if err != nil {
			return err
		}
		answers[i] = v
	}

	status, ok := parseStatus(answers[7])
	if !ok {
		a.printf("Unknown registration status %q\n", answers[7])
		return errUsage
	}

	created, err := a.state.AddService(ctx, models.Service{
		Name:        answers[0],
		Location:    answers[1],
		Category:    splitList(answers[2]),
		Description: answers[3],
		Phone:       answers[4],
		Email:       answers[5],
		Address:     answers[6],
		Registered:  status,
	})
	if err != nil {
		a.println("Could not add service:", err)
		return err
	}

	a.printf("Service submitted for approval with id %d\n", created.ID)
	return nil
}

func (a *App) Pending(ctx context.Context, _ []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	services, err := a.state.Repository().Pending(ctx)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.printServices(ctx, services)
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	id, err := a.parseID(args, "approve")
	if err != nil {
		return err
	}
	if err := a.state.Repository().Approve(ctx, id); err != nil {
		a.println("Could not approve service:", err)
		return err
	}
	a.printf("Service %d approved\n", id)
	return nil
}

// Delete removes a listing after confirmation. Declining changes nothing.
func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	id, err := a.parseID(args, "delete")
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete service %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return common.ErrorCancelled
	}

	if err := a.state.Repository().Remove(ctx, id); err != nil {
		a.println("Could not delete service:", err)
		return err
	}
	a.printf("Service %d deleted\n", id)
	return nil
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	st, err := a.state.Stats(ctx)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.printf("Services: %d\nLocations: %d\n", st.TotalServices, st.TotalLocations)
	return nil
}

// Recent shows the newest listings; an optional argument sets how many.
func (a *App) Recent(ctx context.Context, args []string) error {
	n := search.DefaultRecentLimit
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			a.println("Usage: recent [count]")
			return errUsage
		}
		n = v
	}
	services, err := a.state.Recent(ctx, n)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.printServices(ctx, services)
	return nil
}

func parseStatus(s string) (models.RegistrationStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return models.RegisteredUnspecified, true
	case "yes", "y":
		return models.RegisteredYes, true
	case "no", "n":
		return models.RegisteredNo, true
	default:
		return "", false
	}
}
