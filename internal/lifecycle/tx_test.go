package lifecycle

import (
	"context"
	"errors"
	"testing"

	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// hookStore wraps every transaction it begins with wrap.
type hookStore struct {
	storage.Store
	wrap func(storage.Tx) storage.Tx
}

func (s hookStore) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return s.wrap(tx), nil
}

// failingDeleteTx fails the last step of a policyholder delete, after its
// claims and policies are already gone inside the transaction.
type failingDeleteTx struct {
	storage.Tx
}

func (failingDeleteTx) DeletePolicyholder(context.Context, int64) (int64, error) {
	return 0, errors.New("boom")
}

// cancellingTx cancels the operation's context once claims are deleted.
type cancellingTx struct {
	storage.Tx
	cancel context.CancelFunc
}

func (tx cancellingTx) DeleteClaimsByHolder(ctx context.Context, holderID int64) (int64, error) {
	n, err := tx.Tx.DeleteClaimsByHolder(ctx, holderID)
	tx.cancel()
	return n, err
}

type seeded struct {
	admin  *models.Policyholder
	holder *models.Policyholder
	policy *models.Policy
	claim  *models.Claim
}

func seedCascade(t *testing.T, m *Manager) seeded {
	t.Helper()
	admin := mustAdmin(t, m)
	holder := mustHolder(t, m, "atomic@example.com")
	policy := mustPolicy(t, m, holder.ID, 100)
	claim := mustClaim(t, m, holder.ID, policy.ID, 40)
	return seeded{admin: admin, holder: holder, policy: policy, claim: claim}
}

func assertCascadeIntact(t *testing.T, m *Manager, s seeded) {
	t.Helper()
	ctx := context.Background()

	if _, err := m.GetPolicyholder(ctx, s.holder.ID); err != nil {
		t.Errorf("policyholder lost: %v", err)
	}
	if _, err := m.GetPolicy(ctx, s.holder.ID, s.policy.ID); err != nil {
		t.Errorf("policy lost: %v", err)
	}
	if _, err := m.GetClaim(ctx, keyOf(s.claim)); err != nil {
		t.Errorf("claim lost: %v", err)
	}
	exposure, err := m.PolicyExposure(ctx, s.holder.ID, s.policy.ID)
	if err != nil {
		t.Fatalf("PolicyExposure failed: %v", err)
	}
	if exposure.Outstanding != 40 {
		t.Errorf("outstanding = %v, want 40", exposure.Outstanding)
	}
}

func TestDeletePolicyholder_FailureRollsBack(t *testing.T) {
	store := newTestStore(t)
	m := newManagerOn(t, store)
	s := seedCascade(t, m)

	failing := newManagerOn(t, hookStore{Store: store, wrap: func(tx storage.Tx) storage.Tx {
		return failingDeleteTx{tx}
	}})

	err := failing.DeletePolicyholder(context.Background(), s.admin.ID, s.holder.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Errorf("expected Internal, got %v", err)
	}

	assertCascadeIntact(t, m, s)
}

func TestDeletePolicyholder_CancelRollsBack(t *testing.T) {
	store := newTestStore(t)
	m := newManagerOn(t, store)
	s := seedCascade(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelling := newManagerOn(t, hookStore{Store: store, wrap: func(tx storage.Tx) storage.Tx {
		return cancellingTx{Tx: tx, cancel: cancel}
	}})

	if err := cancelling.DeletePolicyholder(ctx, s.admin.ID, s.holder.ID); err == nil {
		t.Fatal("expected error after cancellation")
	}

	assertCascadeIntact(t, m, s)
}

func TestFileClaim_CancelledContext(t *testing.T) {
	m := newTestManager(t)
	holder := mustHolder(t, m, "cancelled@example.com")
	policy := mustPolicy(t, m, holder.ID, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.FileClaim(ctx, holder.ID, policy.ID, 10); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	claims, err := m.ListPolicyClaims(context.Background(), holder.ID, policy.ID)
	if err != nil {
		t.Fatalf("ListPolicyClaims failed: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("cancelled filing persisted %d claims", len(claims))
	}
}
