package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/sqlstore"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "coverwise-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// inTx runs fn in a transaction and commits it.
func inTx(t *testing.T, store storage.Store, fn func(tx storage.Tx) error) error {
	t.Helper()

	tx, err := store.BeginTx(context.Background())
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func seedPolicy(t *testing.T, store storage.Store, holderID, policyID int64, coverage float64) {
	t.Helper()

	err := inTx(t, store, func(tx storage.Tx) error {
		ctx := context.Background()
		if err := tx.InsertPolicyholder(ctx, &models.Policyholder{
			ID:           holderID,
			Name:         "Holder",
			Email:        fmt.Sprintf("holder%d@example.com", holderID),
			PasswordHash: "hash",
		}); err != nil {
			return err
		}
		return tx.InsertPolicy(ctx, &models.Policy{
			ID:             policyID,
			PolicyholderID: holderID,
			Coverage:       coverage,
			Status:         models.PolicyStatusActive,
		})
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Policyholder round trip", func(t *testing.T) {
		store := newTestStore(t)

		holder := &models.Policyholder{ID: 42, Name: "Alice", Email: "alice@example.com", PasswordHash: "h", IsAdmin: true}
		if err := inTx(t, store, func(tx storage.Tx) error {
			return tx.InsertPolicyholder(ctx, holder)
		}); err != nil {
			t.Fatalf("InsertPolicyholder failed: %v", err)
		}

		var got *models.Policyholder
		inTx(t, store, func(tx storage.Tx) error {
			var err error
			got, err = tx.GetPolicyholderByEmail(ctx, "alice@example.com")
			return err
		})
		if got == nil {
			t.Fatal("expected policyholder to be found by email")
		}
		if *got != *holder {
			t.Errorf("Policyholder mismatch: got %+v, want %+v", got, holder)
		}
	})

	t.Run("Duplicate email is classified", func(t *testing.T) {
		store := newTestStore(t)

		err := inTx(t, store, func(tx storage.Tx) error {
			if err := tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 1, Name: "A", Email: "same@example.com", PasswordHash: "h"}); err != nil {
				return err
			}
			return tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 2, Name: "B", Email: "same@example.com", PasswordHash: "h"})
		})
		if !errors.Is(err, storage.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("Duplicate ID is classified", func(t *testing.T) {
		store := newTestStore(t)

		err := inTx(t, store, func(tx storage.Tx) error {
			if err := tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 7, Name: "A", Email: "a@example.com", PasswordHash: "h"}); err != nil {
				return err
			}
			return tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 7, Name: "B", Email: "b@example.com", PasswordHash: "h"})
		})
		if !errors.Is(err, storage.ErrDuplicateID) {
			t.Errorf("expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("Namespaces are independent", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 5, 5, 100)

		inTx(t, store, func(tx storage.Tx) error {
			for _, ns := range []storage.Namespace{storage.NamespacePolicyholders, storage.NamespacePolicies} {
				exists, err := tx.IDExists(ctx, ns, 5)
				if err != nil {
					t.Fatalf("IDExists(%s) failed: %v", ns, err)
				}
				if !exists {
					t.Errorf("expected id 5 to exist in %s", ns)
				}
			}
			exists, err := tx.IDExists(ctx, storage.NamespaceClaims, 5)
			if err != nil {
				t.Fatalf("IDExists(claims) failed: %v", err)
			}
			if exists {
				t.Error("expected id 5 to be free in claims")
			}
			return nil
		})
	})

	t.Run("Outstanding exposure skips rejected claims", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 1, 10, 1000)

		err := inTx(t, store, func(tx storage.Tx) error {
			claims := []*models.Claim{
				{ID: 1, PolicyID: 10, PolicyholderID: 1, Amount: 100, Status: models.ClaimStatusPending},
				{ID: 2, PolicyID: 10, PolicyholderID: 1, Amount: 250, Status: models.ClaimStatusRejected},
				{ID: 3, PolicyID: 10, PolicyholderID: 1, Amount: 50, Status: models.ClaimStatusApproved},
			}
			for _, c := range claims {
				if err := tx.InsertClaim(ctx, c); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("InsertClaim failed: %v", err)
		}

		inTx(t, store, func(tx storage.Tx) error {
			total, err := tx.OutstandingExposure(ctx, 10)
			if err != nil {
				t.Fatalf("OutstandingExposure failed: %v", err)
			}
			if total != 150 {
				t.Errorf("Outstanding mismatch: got %f, want 150", total)
			}
			return nil
		})
	})

	t.Run("Empty policy has zero exposure", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 1, 10, 1000)

		inTx(t, store, func(tx storage.Tx) error {
			total, err := tx.OutstandingExposure(ctx, 10)
			if err != nil {
				t.Fatalf("OutstandingExposure failed: %v", err)
			}
			if total != 0 {
				t.Errorf("expected 0, got %f", total)
			}
			return nil
		})
	})

	t.Run("Claim must reference a policy of the same holder", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 1, 10, 1000)
		seedPolicy(t, store, 2, 20, 1000)

		err := inTx(t, store, func(tx storage.Tx) error {
			return tx.InsertClaim(ctx, &models.Claim{ID: 1, PolicyID: 10, PolicyholderID: 2, Amount: 5, Status: models.ClaimStatusPending})
		})
		if err == nil {
			t.Error("expected foreign key violation for mismatched holder")
		}
	})

	t.Run("UpdateClaimStatus returns the updated row", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 1, 10, 1000)
		key := models.ClaimKey{PolicyholderID: 1, PolicyID: 10, ClaimID: 99}

		inTx(t, store, func(tx storage.Tx) error {
			return tx.InsertClaim(ctx, &models.Claim{ID: 99, PolicyID: 10, PolicyholderID: 1, Amount: 5, Status: models.ClaimStatusPending})
		})

		var updated *models.Claim
		err := inTx(t, store, func(tx storage.Tx) error {
			var err error
			updated, err = tx.UpdateClaimStatus(ctx, key, models.ClaimStatusApproved)
			return err
		})
		if err != nil {
			t.Fatalf("UpdateClaimStatus failed: %v", err)
		}
		if updated.Status != models.ClaimStatusApproved || updated.Amount != 5 {
			t.Errorf("unexpected claim: %+v", updated)
		}

		err = inTx(t, store, func(tx storage.Tx) error {
			_, err := tx.UpdateClaimStatus(ctx, models.ClaimKey{PolicyholderID: 1, PolicyID: 10, ClaimID: 100}, models.ClaimStatusApproved)
			return err
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Rollback discards writes", func(t *testing.T) {
		store := newTestStore(t)

		tx, err := store.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if err := tx.InsertPolicyholder(ctx, &models.Policyholder{ID: 3, Name: "C", Email: "c@example.com", PasswordHash: "h"}); err != nil {
			t.Fatalf("InsertPolicyholder failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Errorf("second Rollback should be a no-op, got %v", err)
		}

		inTx(t, store, func(tx storage.Tx) error {
			_, err := tx.GetPolicyholder(ctx, 3)
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound after rollback, got %v", err)
			}
			return nil
		})
	})

	t.Run("Deletes report rows affected", func(t *testing.T) {
		store := newTestStore(t)
		seedPolicy(t, store, 1, 10, 1000)

		inTx(t, store, func(tx storage.Tx) error {
			for i := int64(1); i <= 2; i++ {
				if err := tx.InsertClaim(ctx, &models.Claim{ID: i, PolicyID: 10, PolicyholderID: 1, Amount: 5, Status: models.ClaimStatusPending}); err != nil {
					t.Fatalf("InsertClaim failed: %v", err)
				}
			}
			return nil
		})

		inTx(t, store, func(tx storage.Tx) error {
			n, err := tx.DeleteClaimsByPolicy(ctx, 1, 10)
			if err != nil || n != 2 {
				t.Errorf("DeleteClaimsByPolicy = %d, %v; want 2, nil", n, err)
			}
			n, err = tx.DeletePolicy(ctx, 1, 10)
			if err != nil || n != 1 {
				t.Errorf("DeletePolicy = %d, %v; want 1, nil", n, err)
			}
			n, err = tx.DeletePolicy(ctx, 1, 10)
			if err != nil || n != 0 {
				t.Errorf("second DeletePolicy = %d, %v; want 0, nil", n, err)
			}
			return nil
		})
	})
}

func TestDSN(t *testing.T) {
	got := dsn("/tmp/x.db")
	for _, want := range []string{"file:/tmp/x.db?", "_txlock=immediate", "foreign_keys%281%29"} {
		if !strings.Contains(got, want) {
			t.Errorf("dsn() = %q, want it to contain %q", got, want)
		}
	}
}
