package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ndisdirectory/internal/auth"
	"github.com/dmitrijs2005/ndisdirectory/internal/common"
)

// Indirections over the interactive input helpers, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Register prompts for a name, email and the password twice, then creates
// the account. Validation failures are printed and returned.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	again, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	_, err = a.state.Auth().Register(ctx, auth.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(again),
	})
	if err != nil {
		a.println("Registration failed:", err)
		return err
	}

	a.println("Registration successful! You can now log in.")
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.state.Auth().Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			a.println("Invalid email or password")
		} else {
			a.println("Login failed:", err)
		}
		return err
	}

	a.printf("Welcome, %s!\n", sess.Name)
	return nil
}

// Logout asks for confirmation and drops the session. Declining changes
// nothing.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn(ctx) {
		a.println("You are not logged in")
		return nil
	}

	ok, err := confirm(a.reader, "Are you sure you want to log out?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return common.ErrorCancelled
	}

	if err := a.state.Auth().Logout(ctx); err != nil {
		a.println("Logout failed:", err)
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	sess, ok := a.state.Session(ctx)
	if !ok {
		a.println("Not logged in")
		return nil
	}
	a.printf("%s <%s>\n", sess.Name, sess.Email)
	if sess.LastLogin != nil {
		a.printf("Last login: %s\n", sess.LastLogin.Local().Format(dateTimeLayout))
	}
	return nil
}
