// Package cli provides the interactive NDIS directory command-line client.
//
// It drives an app.State from a line-oriented REPL: browse, search and
// filter service listings, manage favorites, submit and moderate listings,
// and register or log in. When a remote directory API is configured, a
// background watcher pings it and switches the prompt between online and
// offline; listings keep working offline from local storage.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
