package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/app"
	"github.com/dmitrijs2005/ndisdirectory/internal/auth"
	"github.com/dmitrijs2005/ndisdirectory/internal/common"
	"github.com/dmitrijs2005/ndisdirectory/internal/config"
	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, mutate func(c *config.Config)) *app.State {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageDSN = filepath.Join(t.TempDir(), "directory.db")
	if mutate != nil {
		mutate(cfg)
	}

	st, err := app.Build(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Bootstrap(context.Background()))
	return st
}

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return NewApp(newTestState(t, nil), strings.NewReader(input), &out, logging.Nop()), &out
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		require.NotEmpty(t, pws, "unexpected password prompt")
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func login(t *testing.T, a *App) {
	t.Helper()
	_, err := a.state.Auth().Login(context.Background(), auth.SampleUserEmail, auth.SampleUserPassword)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		a, out := newTestApp(t, auth.SampleUserEmail+"\n")
		stubPasswords(t, auth.SampleUserPassword)

		require.NoError(t, a.Login(ctx, nil))
		assert.Contains(t, out.String(), "Welcome, Test User!")
		assert.True(t, a.isLoggedIn(ctx))
		assert.Equal(t, "(test@example.com local)", a.getStatus(ctx))
	})

	t.Run("wrong password", func(t *testing.T) {
		a, out := newTestApp(t, auth.SampleUserEmail+"\n")
		stubPasswords(t, "wrong-password")

		err := a.Login(ctx, nil)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Contains(t, out.String(), "Invalid email or password")
		assert.False(t, a.isLoggedIn(ctx))
		assert.Equal(t, "(local)", a.getStatus(ctx))
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("password mismatch", func(t *testing.T) {
		a, out := newTestApp(t, "Jo Citizen\njo@example.com\n")
		stubPasswords(t, "secret1", "secret2")

		err := a.Register(ctx, nil)
		require.ErrorIs(t, err, auth.ErrPasswordMismatch)
		assert.Contains(t, out.String(), "Registration failed")
	})

	t.Run("duplicate email", func(t *testing.T) {
		a, _ := newTestApp(t, "Someone\nTEST@example.com\n")
		stubPasswords(t, "secret1", "secret1")

		require.ErrorIs(t, a.Register(ctx, nil), auth.ErrEmailExists)
	})

	t.Run("then login", func(t *testing.T) {
		a, out := newTestApp(t, "Jo Citizen\njo@example.com\njo@example.com\n")
		stubPasswords(t, "secret1", "secret1", "secret1")

		require.NoError(t, a.Register(ctx, nil))
		assert.Contains(t, out.String(), "Registration successful")
		assert.False(t, a.isLoggedIn(ctx))

		require.NoError(t, a.Login(ctx, nil))
		assert.Contains(t, out.String(), "Welcome, Jo Citizen!")
	})
}

func TestLogout_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "n\ny\n")
	login(t, a)

	require.ErrorIs(t, a.Logout(ctx, nil), common.ErrorCancelled)
	assert.True(t, a.isLoggedIn(ctx), "declining keeps the session")

	require.NoError(t, a.Logout(ctx, nil))
	assert.False(t, a.isLoggedIn(ctx))
	assert.Contains(t, out.String(), "Logged out")

	require.NoError(t, a.Logout(ctx, nil))
	assert.Contains(t, out.String(), "You are not logged in")
}

func TestWhoAmI(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.WhoAmI(ctx, nil))
	assert.Contains(t, out.String(), "Not logged in")

	login(t, a)
	require.NoError(t, a.WhoAmI(ctx, nil))
	assert.Contains(t, out.String(), "Test User <test@example.com>")
	assert.Contains(t, out.String(), "Last login:")
}

func TestListAndSearch(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.List(ctx, nil))
	assert.Contains(t, out.String(), "Community Care Services")
	assert.Contains(t, out.String(), "Allied Health Professionals")

	out.Reset()
	require.NoError(t, a.Search(ctx, []string{"in-home"}))
	assert.Contains(t, out.String(), "Community Care Services")
	assert.NotContains(t, out.String(), "Allied Health Professionals")

	out.Reset()
	require.NoError(t, a.Search(ctx, []string{"nothing", "matches"}))
	assert.Contains(t, out.String(), "No services found")
}

func TestFilterAndReset(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "Occupational Therapist\nyes\nName\n")

	require.NoError(t, a.Filter(ctx, nil))
	c := a.state.Criteria()
	assert.Equal(t, []string{"Occupational Therapist"}, c.Categories)
	assert.Equal(t, search.SortName, c.SortBy)
	assert.Contains(t, out.String(), "Allied Health Professionals")
	assert.NotContains(t, out.String(), "Community Care Services")

	require.NoError(t, a.Reset(ctx, nil))
	assert.Equal(t, search.DefaultCriteria(), a.state.Criteria())
}

func TestFilter_RejectsUnknownStatus(t *testing.T) {
	a, out := newTestApp(t, "\nmaybe\n")

	require.Error(t, a.Filter(context.Background(), nil))
	assert.Contains(t, out.String(), `Unknown registration status "maybe"`)
	assert.Equal(t, search.DefaultCriteria(), a.state.Criteria())
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.Show(ctx, []string{"2"}))
	assert.Contains(t, out.String(), "Allied Health Professionals (#2)")
	assert.Contains(t, out.String(), "Melbourne")
	assert.Contains(t, out.String(), "4.8 from 8 reviews")

	require.ErrorIs(t, a.Show(ctx, []string{"999"}), directory.ErrNotFound)
	assert.Contains(t, out.String(), "Service 999 not found")

	require.Error(t, a.Show(ctx, []string{"abc"}))
	assert.Contains(t, out.String(), `Invalid id "abc"`)

	require.Error(t, a.Show(ctx, nil))
	assert.Contains(t, out.String(), "Usage: show <id>")
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.Favs(ctx, nil))
	assert.Contains(t, out.String(), "No favorites yet")

	require.NoError(t, a.Fav(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Added to favorites")

	out.Reset()
	require.NoError(t, a.Favs(ctx, nil))
	assert.Contains(t, out.String(), "+ 1")
	assert.Contains(t, out.String(), "Community Care Services")
	assert.NotContains(t, out.String(), "Allied Health Professionals")

	require.NoError(t, a.Fav(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Removed from favorites")
	assert.Empty(t, a.state.Favorites(ctx).List(ctx))

	require.ErrorIs(t, a.Fav(ctx, []string{"999"}), directory.ErrNotFound)
	assert.Empty(t, a.state.Favorites(ctx).List(ctx))
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	answers := strings.Join([]string{
		"Coastal Therapy",
		"Newcastle",
		"Speech Pathologist, Occupational Therapist",
		"Paediatric therapy",
		"0400 000 000",
		"hello@coastal.example",
		"",
		"",
	}, "\n") + "\n"
	a, out := newTestApp(t, answers)

	require.ErrorIs(t, a.Add(ctx, nil), app.ErrLoginRequired)
	assert.Contains(t, out.String(), "Please log in first")

	login(t, a)
	require.NoError(t, a.Add(ctx, nil))
	assert.Contains(t, out.String(), "Service submitted for approval")

	out.Reset()
	require.NoError(t, a.Search(ctx, []string{"coastal"}))
	assert.Contains(t, out.String(), "Coastal Therapy")
	assert.Contains(t, out.String(), "Speech Pathologist, Occupational Therapist")
}

func TestAdd_RejectsBlankName(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, strings.Repeat("\n", 8))
	login(t, a)

	require.ErrorIs(t, a.Add(ctx, nil), directory.ErrInvalidService)
	assert.Contains(t, out.String(), "Could not add service")
}

func TestModeration(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "n\ny\n")

	require.ErrorIs(t, a.Approve(ctx, []string{"1"}), app.ErrLoginRequired)
	login(t, a)

	require.NoError(t, a.Pending(ctx, nil))
	assert.Contains(t, out.String(), "Community Care Services")

	require.NoError(t, a.Approve(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Service 1 approved")
	require.ErrorIs(t, a.Approve(ctx, []string{"999"}), directory.ErrNotFound)

	require.ErrorIs(t, a.Delete(ctx, []string{"1"}), common.ErrorCancelled)
	_, err := a.state.Repository().Get(ctx, 1)
	require.NoError(t, err, "declined delete keeps the service")

	require.NoError(t, a.Delete(ctx, []string{"1"}))
	assert.Contains(t, out.String(), "Service 1 deleted")
	_, err = a.state.Repository().Get(ctx, 1)
	require.ErrorIs(t, err, directory.ErrNotFound)
}

func TestStatsAndRecent(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "")

	require.NoError(t, a.Stats(ctx, nil))
	assert.Contains(t, out.String(), "Services: 2\nLocations: 2\n")

	out.Reset()
	require.NoError(t, a.Recent(ctx, []string{"1"}))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))

	require.Error(t, a.Recent(ctx, []string{"zero"}))
	assert.Contains(t, out.String(), "Usage: recent [count]")
}

func TestOnlineStatus(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	st := newTestState(t, func(c *config.Config) {
		c.RemoteBaseURL = srv.URL
		c.RemoteTimeout = time.Second
	})
	a := NewApp(st, strings.NewReader(""), io.Discard, logging.Nop())
	assert.Equal(t, ModeLocal, a.Mode())

	a.checkOnline(ctx)
	assert.Equal(t, ModeOnline, a.Mode())

	srv.Close()
	a.checkOnline(ctx)
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Equal(t, "(offline)", a.getStatus(ctx))
}

func TestStartOnlineStatusWatcher_StopsWithContext(t *testing.T) {
	st := newTestState(t, nil)
	a := NewApp(st, strings.NewReader(""), io.Discard, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond,
		"local repository always answers ping")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_ExitsOnEOF(t *testing.T) {
	captureOutput(t)
	var out bytes.Buffer
	a := NewApp(newTestState(t, nil), strings.NewReader("stats\n"), &out, logging.Nop())

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Welcome to the NDIS service directory")
	assert.Contains(t, out.String(), "Services: 2")
	assert.Equal(t, ModeLocal, a.Mode())
}
