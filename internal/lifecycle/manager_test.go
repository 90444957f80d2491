package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/metrics"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/sqlite"
)

const testPassword = "correct-horse"

// newTestStore opens a SQLite store in a temp directory.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "coverwise-lifecycle-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	return newManagerOn(t, newTestStore(t), opts...)
}

func newManagerOn(t *testing.T, store storage.Store, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithHasher(auth.NewPasswordHasherWithCost(bcrypt.MinCost)),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(store, append(base, opts...)...)
}

func mustHolder(t *testing.T, m *Manager, email string) *models.Policyholder {
	t.Helper()
	holder, err := m.CreatePolicyholder(context.Background(), "Holder", email, testPassword)
	if err != nil {
		t.Fatalf("CreatePolicyholder(%s) failed: %v", email, err)
	}
	return holder
}

func mustAdmin(t *testing.T, m *Manager) *models.Policyholder {
	t.Helper()
	admin, err := m.BootstrapAdmin(context.Background(), "Admin", "admin@example.com", testPassword)
	if err != nil {
		t.Fatalf("BootstrapAdmin failed: %v", err)
	}
	return admin
}

func mustPolicy(t *testing.T, m *Manager, holderID int64, coverage float64) *models.Policy {
	t.Helper()
	policy, err := m.CreatePolicy(context.Background(), holderID, coverage, "")
	if err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}
	return policy
}

func mustClaim(t *testing.T, m *Manager, holderID, policyID int64, amount float64) *models.Claim {
	t.Helper()
	claim, err := m.FileClaim(context.Background(), holderID, policyID, amount)
	if err != nil {
		t.Fatalf("FileClaim(%v) failed: %v", amount, err)
	}
	return claim
}

func keyOf(c *models.Claim) models.ClaimKey {
	return models.ClaimKey{PolicyholderID: c.PolicyholderID, PolicyID: c.PolicyID, ClaimID: c.ID}
}
