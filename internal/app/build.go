package app

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ndisdirectory/internal/auth"
	"github.com/dmitrijs2005/ndisdirectory/internal/config"
	"github.com/dmitrijs2005/ndisdirectory/internal/cryptox"
	"github.com/dmitrijs2005/ndisdirectory/internal/directory"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/remote"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

const (
	secretDevice  = "device"
	secretSession = "session"
)

// Build opens storage and wires every component selected by cfg. The
// returned State owns the database connection.
func Build(ctx context.Context, cfg *config.Config, log logging.Logger) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, dialect, err := storage.OpenDatabase(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store := storage.New(db, dialect, log)
	if err := configureCodecs(ctx, store, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	hasher, err := auth.NewHasher(cfg.PasswordScheme)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	am := auth.NewManager(store, hasher, log)

	opts := directory.Options{Strategy: directory.StrategyLocal, Log: log}
	if cfg.RemoteBaseURL != "" {
		opts.Strategy = directory.StrategyRemote
		opts.Remote = remote.NewHTTPClient(cfg.RemoteBaseURL, cfg.RemoteTimeout, log)
	}
	repo, err := directory.New(store, opts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(ctx, "application ready",
		"driver", cfg.StorageDriver, "strategy", string(repo.Strategy()), "password_scheme", hasher.Scheme())

	return NewState(cfg, db, store, am, repo, log), nil
}

func configureCodecs(ctx context.Context, store *storage.Store, cfg *config.Config) error {
	switch cfg.ServiceCodec {
	case config.CodecSealed:
		key, err := store.LoadOrCreateSecret(ctx, secretDevice, cryptox.KeySize)
		if err != nil {
			return fmt.Errorf("device key: %w", err)
		}
		store.UseCodec(storage.KeyServices, storage.SealedCodec{Key: key})
	default:
		store.UseCodec(storage.KeyServices, storage.ObfuscatedCodec{})
	}

	secret, err := store.LoadOrCreateSecret(ctx, secretSession, 32)
	if err != nil {
		return fmt.Errorf("session key: %w", err)
	}
	store.UseCodec(storage.KeySession, storage.TokenCodec{Secret: secret, TTL: cfg.SessionTTL})
	return nil
}
