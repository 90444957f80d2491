// Package coverage enforces that a policy's outstanding claim exposure never
// exceeds its coverage limit.
//
// Exposure is never stored. Every check sums the policy's non-rejected claims
// inside the caller's transaction, after the policy row has been locked, so
// the sum and the write that depends on it see the same state.
package coverage

import (
	"context"
	"errors"

	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// Reader is the part of a store transaction the ledger needs.
type Reader interface {
	LockPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error)
	OutstandingExposure(ctx context.Context, policyID int64) (float64, error)
}

// Admit checks that a new claim of amount fits the remaining coverage of the
// policy and returns the claim to persist, classified but without an ID.
// The policy row stays locked until r's transaction ends.
func Admit(ctx context.Context, r Reader, holderID, policyID int64, amount float64) (*models.Claim, error) {
	policy, err := lockPolicy(ctx, r, holderID, policyID)
	if err != nil {
		return nil, err
	}

	outstanding, err := r.OutstandingExposure(ctx, policy.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute outstanding exposure")
	}

	if outstanding+amount > policy.Coverage {
		return nil, dErrors.Newf(dErrors.CodeCoverageExceeded,
			"claim of %.2f exceeds remaining coverage %.2f on policy %d",
			amount, policy.Coverage-outstanding, policy.ID)
	}

	return &models.Claim{
		PolicyID:       policy.ID,
		PolicyholderID: holderID,
		Amount:         amount,
		Status:         Classify(amount),
	}, nil
}

// CheckCoverage verifies that policy can carry newCoverage given its current
// claims. Lowering coverage below outstanding exposure is rejected; the
// existing claims are left untouched.
func CheckCoverage(ctx context.Context, r Reader, policy *models.Policy, newCoverage float64) error {
	if newCoverage >= policy.Coverage {
		return nil
	}

	outstanding, err := r.OutstandingExposure(ctx, policy.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute outstanding exposure")
	}

	if outstanding > newCoverage {
		return dErrors.Newf(dErrors.CodeCoverageExceeded,
			"coverage %.2f is below outstanding exposure %.2f on policy %d",
			newCoverage, outstanding, policy.ID)
	}
	return nil
}

// CheckStatusChange verifies that moving claim to status keeps the policy
// within coverage. Only a move from rejected back to a counting status can add
// exposure; every other transition passes without reading the store.
func CheckStatusChange(ctx context.Context, r Reader, claim *models.Claim, status models.ClaimStatus) error {
	if claim.Status.CountsTowardCoverage() || !status.CountsTowardCoverage() {
		return nil
	}

	policy, err := lockPolicy(ctx, r, claim.PolicyholderID, claim.PolicyID)
	if err != nil {
		return err
	}

	outstanding, err := r.OutstandingExposure(ctx, policy.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute outstanding exposure")
	}

	if outstanding+claim.Amount > policy.Coverage {
		return dErrors.Newf(dErrors.CodeCoverageExceeded,
			"reinstating claim %d of %.2f exceeds remaining coverage %.2f on policy %d",
			claim.ID, claim.Amount, policy.Coverage-outstanding, policy.ID)
	}
	return nil
}

// Exposure reports coverage, outstanding and remaining amounts for a policy.
func Exposure(ctx context.Context, r Reader, policy *models.Policy) (*models.Exposure, error) {
	outstanding, err := r.OutstandingExposure(ctx, policy.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute outstanding exposure")
	}
	return &models.Exposure{
		PolicyID:    policy.ID,
		Coverage:    policy.Coverage,
		Outstanding: outstanding,
		Remaining:   policy.Coverage - outstanding,
	}, nil
}

func lockPolicy(ctx context.Context, r Reader, holderID, policyID int64) (*models.Policy, error) {
	policy, err := r.LockPolicy(ctx, holderID, policyID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "policy %d not found for policyholder %d", policyID, holderID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load policy")
	}
	return policy, nil
}
