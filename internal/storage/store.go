// Package storage is the typed access layer over the key/value store. Reads
// never fail: absent, undecodable or invalid data degrades to an empty
// default and is only logged. Writes report errors to the caller.
package storage

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ndisdirectory/internal/common"
	"github.com/dmitrijs2005/ndisdirectory/internal/dbx"
	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage/kv"
)

// Keys of the persisted layout.
const (
	KeyUsers     = "ndisUsers"
	KeyServices  = "ndisServicesSecure"
	KeyFavorites = "favorites"
	KeySession   = "currentUser"

	// KeyLegacyServices held unobfuscated services in older releases.
	KeyLegacyServices = "ndisServices"

	secretPrefix = "secret:"
)

var ErrNotTransactional = errors.New("store is already bound to a transaction")

// validator is implemented by record types that can reject themselves.
type validator interface {
	Validate() error
}

type Store struct {
	db      *sql.DB
	kv      kv.Repository
	dialect dbx.Dialect
	codecs  map[string]Codec
	log     logging.Logger
}

// New returns a Store over db. All keys use JSONCodec until UseCodec says
// otherwise.
func New(db *sql.DB, dialect dbx.Dialect, log logging.Logger) *Store {
	return &Store{
		db:      db,
		kv:      kv.NewSQLRepository(db, dialect),
		dialect: dialect,
		codecs:  map[string]Codec{},
		log:     log.With("component", "storage"),
	}
}

// UseCodec selects the codec for key.
func (s *Store) UseCodec(key string, c Codec) {
	s.codecs[key] = c
}

func (s *Store) codecFor(key string) Codec {
	if c, ok := s.codecs[key]; ok {
		return c
	}
	return JSONCodec{}
}

// Atomically runs fn against a Store bound to a single transaction, so a
// read-modify-write sequence is committed as a whole or not at all.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.db == nil {
		return ErrNotTransactional
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		bound := &Store{
			kv:      kv.NewSQLRepository(tx, s.dialect),
			dialect: s.dialect,
			codecs:  s.codecs,
			log:     s.log,
		}
		return fn(ctx, bound)
	})
}

// Has reports whether anything is stored under key. Lookup errors count as
// absent.
func (s *Store) Has(ctx context.Context, key string) bool {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "storage read failed", "key", key, "err", err)
		return false
	}
	return v != nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

// CleanupLegacy drops data written under keys this release no longer reads.
func (s *Store) CleanupLegacy(ctx context.Context) error {
	if !s.Has(ctx, KeyLegacyServices) {
		return nil
	}
	s.log.Info(ctx, "removing legacy key", "key", KeyLegacyServices)
	return s.Remove(ctx, KeyLegacyServices)
}

// LoadOrCreateSecret returns the random secret stored under name, creating
// and persisting a size-byte one on first use.
func (s *Store) LoadOrCreateSecret(ctx context.Context, name string, size int) ([]byte, error) {
	key := secretPrefix + name
	stored, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if secret, err := hex.DecodeString(string(stored)); stored != nil && err == nil && len(secret) == size {
		return secret, nil
	}

	fresh, err := common.MakeRandHexString(size)
	if err != nil {
		return nil, fmt.Errorf("generate secret %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, key, []byte(fresh)); err != nil {
		return nil, err
	}
	return hex.DecodeString(fresh)
}

// load returns the decoded JSON document under key, or nil when there is
// none or it cannot be decoded.
func (s *Store) load(ctx context.Context, key string) []byte {
	stored, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "storage read failed", "key", key, "err", err)
		return nil
	}
	if stored == nil {
		return nil
	}
	doc, ok := s.codecFor(key).Decode(string(stored))
	if !ok {
		s.log.Warn(ctx, "stored value could not be decoded", "key", key)
		return nil
	}
	return doc
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	stored, err := s.codecFor(key).Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, []byte(stored))
}

func validate(v any) error {
	if val, ok := v.(validator); ok {
		return val.Validate()
	}
	return nil
}

// ReadList returns the sequence stored under key. Elements that do not
// decode into T, or that T's Validate rejects, are dropped. The result is
// never nil.
func ReadList[T any](ctx context.Context, s *Store, key string) []T {
	out := make([]T, 0)

	doc := s.load(ctx, key)
	if doc == nil {
		return out
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		s.log.Warn(ctx, "stored value is not a list", "key", key, "err", err)
		return out
	}

	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			s.log.Warn(ctx, "dropping undecodable record", "key", key, "index", i, "err", err)
			continue
		}
		if err := validate(v); err != nil {
			s.log.Warn(ctx, "dropping invalid record", "key", key, "index", i, "err", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// WriteList replaces the sequence stored under key.
func WriteList[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return s.save(ctx, key, items)
}

// ReadScalar returns the value stored under key and whether it was present
// and valid.
func ReadScalar[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var v T

	doc := s.load(ctx, key)
	if doc == nil {
		return v, false
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		s.log.Warn(ctx, "dropping undecodable value", "key", key, "err", err)
		var zero T
		return zero, false
	}
	if err := validate(v); err != nil {
		s.log.Warn(ctx, "dropping invalid value", "key", key, "err", err)
		var zero T
		return zero, false
	}
	return v, true
}

// WriteScalar stores v under key.
func WriteScalar[T any](ctx context.Context, s *Store, key string, v T) error {
	return s.save(ctx, key, v)
}
