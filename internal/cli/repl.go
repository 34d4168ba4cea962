package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL chrome output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	Favs(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Recent(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: (l)ist, search <text>, filter, reset, show <id>, fav <id>, favs, stats, recent, register, login, exit"
	helpMember = "Available commands: (l)ist, search <text>, filter, reset, show <id>, fav <id>, favs, stats, recent, add, pending, approve <id>, delete <id>, whoami, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF or "exit"/"quit". Handlers report their own errors to the user;
// the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ndis %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx, args)

		case "whoami":
			_ = a.WhoAmI(ctx, args)

		case "l", "list":
			_ = a.List(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "filter":
			_ = a.Filter(ctx, args)

		case "reset":
			_ = a.Reset(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "add":
			_ = a.Add(ctx, args)

		case "pending":
			_ = a.Pending(ctx, args)

		case "approve":
			_ = a.Approve(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "fav":
			_ = a.Fav(ctx, args)

		case "favs":
			_ = a.Favs(ctx, args)

		case "stats":
			_ = a.Stats(ctx, args)

		case "recent":
			_ = a.Recent(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
