package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/app"
	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	// ModeLocal means no remote API is configured.
	ModeLocal Mode = "local"
)

const pingTimeout = 3 * time.Second

type App struct {
	state  *app.State
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger

	mu   sync.Mutex
	mode Mode
}

func NewApp(state *app.State, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		state:  state,
		reader: bufio.NewReader(in),
		out:    out,
		log:    log.With("component", "cli"),
		mode:   ModeLocal,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", string(mode))
	}
}

// Run checks connectivity, starts the status watcher when a remote API is
// configured and serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to the NDIS service directory (type 'help' for commands)")

	if a.state.Repository().Strategy() == directory.StrategyRemote {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.state.Config().OnlineCheckInterval)
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.state.Repository().Ping(pctx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "remote ping failed", "err", err)
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the remote API every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.state.Session(ctx)
	return ok
}

func (a *App) getStatus(ctx context.Context) string {
	s := ""
	if sess, ok := a.state.Session(ctx); ok {
		s = sess.Email + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.Mode())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
