// Package lifecycle orchestrates create, read, update and delete of
// policyholders, policies and claims.
//
// Every operation runs in one store transaction and returns either a flat
// record or a domainerrors.Error. Claim filing, coverage changes and claim
// status changes additionally hold a per-policy lock for the length of the
// transaction, so the exposure check and the write that depends on it cannot
// interleave with another writer on the same policy.
package lifecycle

import (
	"log/slog"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/coverage"
	"github.com/mmynk/coverwise/internal/ident"
	"github.com/mmynk/coverwise/internal/metrics"
	"github.com/mmynk/coverwise/internal/storage"
)

// DefaultTxRetries is how many times a transaction is replayed after an
// identifier collision before the caller gets a Conflict.
const DefaultTxRetries = 5

// Manager is the entry point for every entity mutation.
type Manager struct {
	store     storage.Store
	alloc     *ident.Allocator
	locks     *coverage.Locks
	hasher    *auth.PasswordHasher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	txRetries int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics sets the metrics sink. Defaults to none.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithHasher sets the password hasher. Defaults to bcrypt.DefaultCost.
func WithHasher(h *auth.PasswordHasher) Option {
	return func(m *Manager) { m.hasher = h }
}

// WithAllocator sets the identifier allocator.
func WithAllocator(a *ident.Allocator) Option {
	return func(m *Manager) { m.alloc = a }
}

// WithTxRetries sets how many identifier collisions a transaction survives.
func WithTxRetries(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.txRetries = n
		}
	}
}

// New creates a Manager over store.
func New(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		alloc:     ident.New(),
		locks:     coverage.NewLocks(),
		hasher:    auth.NewPasswordHasher(),
		logger:    slog.Default(),
		txRetries: DefaultTxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
