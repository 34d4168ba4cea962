// Package auth registers and authenticates directory users and manages the
// current session. Users live in a single stored list and every lookup is a
// linear scan over it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/dmitrijs2005/ndisdirectory/internal/logging"
	"github.com/dmitrijs2005/ndisdirectory/internal/models"
	"github.com/dmitrijs2005/ndisdirectory/internal/storage"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

var (
	ErrMissingFields      = errors.New("please fill in all fields")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the request in the order the registration form reports
// problems.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" || r.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if passwordLength(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// passwordLength counts UTF-16 code units, the way the registration form
// measures a password.
func passwordLength(p string) int {
	return len(utf16.Encode([]rune(p)))
}

// Manager defines the authentication operations.
//
// Contract:
//   - Register: validate and append a new user; duplicate emails are rejected.
//   - Login: check credentials, stamp LastLogin and store the session.
//   - Logout: drop the session; calling it when logged out is a no-op.
//   - CurrentSession: the stored session, if any.
type Manager interface {
	Register(ctx context.Context, req RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (models.Session, bool)
	// SeedSampleUser stores the demo account when no users exist yet.
	SeedSampleUser(ctx context.Context) error
}

type manager struct {
	store *storage.Store
	// hasher produces new hashes; verifiers check stored ones of any scheme.
	hasher    Hasher
	verifiers []Hasher
	now       func() time.Time
	log       logging.Logger
}

type Option func(*manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *manager) { m.now = now }
}

// NewManager returns a Manager storing users in store. New passwords are
// hashed with hasher; existing legacy and argon2id hashes both verify.
func NewManager(store *storage.Store, hasher Hasher, log logging.Logger, opts ...Option) Manager {
	m := &manager{
		store:     store,
		hasher:    hasher,
		verifiers: []Hasher{Argon2Hasher{}, LegacyHasher{}},
		now:       time.Now,
		log:       log.With("component", "auth"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (m *manager) verify(password, stored string) bool {
	for _, h := range m.verifiers {
		if h.Owns(stored) {
			return h.Verify(password, stored)
		}
	}
	return false
}

func (m *manager) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	if err := req.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := m.hasher.Hash(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	var created models.User
	err = m.store.Atomically(ctx, func(ctx context.Context, tx *storage.Store) error {
		users := storage.ReadList[models.User](ctx, tx, storage.KeyUsers)

		var maxID int64
		for _, u := range users {
			if sameEmail(u.Email, req.Email) {
				return ErrEmailExists
			}
			maxID = max(maxID, u.ID)
		}

		now := m.now().UTC()
		created = models.User{
			ID:           models.NextID(now, maxID),
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			CreatedAt:    now,
			Services:     []int64{},
		}
		return storage.WriteList(ctx, tx, storage.KeyUsers, append(users, created))
	})
	if err != nil {
		return models.User{}, err
	}

	m.log.Info(ctx, "user registered", "user_id", created.ID, "scheme", m.hasher.Scheme())
	return created, nil
}

func (m *manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.Session{}, ErrMissingFields
	}

	var session models.Session
	err := m.store.Atomically(ctx, func(ctx context.Context, tx *storage.Store) error {
		users := storage.ReadList[models.User](ctx, tx, storage.KeyUsers)

		idx := -1
		for i, u := range users {
			if sameEmail(u.Email, email) && m.verify(password, u.PasswordHash) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrInvalidCredentials
		}

		now := m.now().UTC()
		users[idx].LastLogin = &now
		if err := storage.WriteList(ctx, tx, storage.KeyUsers, users); err != nil {
			return err
		}

		session = users[idx].Session()
		return storage.WriteScalar(ctx, tx, storage.KeySession, session)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			m.log.Info(ctx, "login rejected")
		}
		return models.Session{}, err
	}

	m.log.Info(ctx, "user logged in", "user_id", session.ID)
	return session, nil
}

func (m *manager) Logout(ctx context.Context) error {
	return m.store.Remove(ctx, storage.KeySession)
}

func (m *manager) CurrentSession(ctx context.Context) (models.Session, bool) {
	return storage.ReadScalar[models.Session](ctx, m.store, storage.KeySession)
}

// Demo account written on first start.
const (
	SampleUserEmail    = "test@example.com"
	SampleUserPassword = "password123"
)

func (m *manager) SeedSampleUser(ctx context.Context) error {
	if m.store.Has(ctx, storage.KeyUsers) {
		return nil
	}

	hash, err := m.hasher.Hash(SampleUserPassword)
	if err != nil {
		return err
	}
	sample := models.User{
		ID:           1,
		Name:         "Test User",
		Email:        SampleUserEmail,
		PasswordHash: hash,
		CreatedAt:    m.now().UTC(),
		Services:     []int64{},
	}
	return storage.WriteList(ctx, m.store, storage.KeyUsers, []models.User{sample})
}
