package lifecycle

import (
	"context"
	"strings"

	"github.com/mmynk/coverwise/internal/authz"
	"github.com/mmynk/coverwise/internal/coverage"
	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// FileClaim admits a claim of amount against a policy owned by holderID.
// It fails with CoverageExceeded if the claim would push the policy's
// outstanding exposure past its coverage.
func (m *Manager) FileClaim(ctx context.Context, holderID, policyID int64, amount float64) (*models.Claim, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(policyID)
	defer unlock()

	var claim *models.Claim
	err := m.inTx(ctx, "file claim", func(tx storage.Tx) error {
		admitted, err := coverage.Admit(ctx, tx, holderID, policyID, amount)
		if err != nil {
			return err
		}
		admitted.ID, err = m.alloc.Allocate(ctx, tx, storage.NamespaceClaims)
		if err != nil {
			return err
		}
		if err := tx.InsertClaim(ctx, admitted); err != nil {
			return err
		}
		claim = admitted
		return nil
	})
	if err != nil {
		code := dErrors.CodeOf(err)
		m.metrics.ClaimRefused(string(code))
		m.logger.Warn("Claim refused",
			"policyholder_id", holderID,
			"policy_id", policyID,
			"amount", amount,
			"code", code,
			"error", err,
		)
		return nil, err
	}

	m.metrics.ClaimAdmitted(string(claim.Status))
	m.logger.Info("Claim admitted",
		"policyholder_id", holderID,
		"policy_id", policyID,
		"claim_id", claim.ID,
		"amount", amount,
		"status", claim.Status,
	)
	return claim, nil
}

// GetClaim retrieves a claim by its ownership path.
func (m *Manager) GetClaim(ctx context.Context, key models.ClaimKey) (*models.Claim, error) {
	var claim *models.Claim
	err := m.inTx(ctx, "get claim", func(tx storage.Tx) error {
		var err error
		claim, err = tx.GetClaim(ctx, key)
		return notFound(err, "claim")
	})
	return claim, err
}

// ListClaims returns every claim filed by holderID.
func (m *Manager) ListClaims(ctx context.Context, holderID int64) ([]*models.Claim, error) {
	var claims []*models.Claim
	err := m.inTx(ctx, "list claims", func(tx storage.Tx) error {
		if _, err := tx.GetPolicyholder(ctx, holderID); err != nil {
			return notFound(err, "policyholder")
		}
		var err error
		claims, err = tx.ListClaimsByHolder(ctx, holderID)
		return err
	})
	return claims, err
}

// ListPolicyClaims returns the claims filed against one policy owned by
// holderID.
func (m *Manager) ListPolicyClaims(ctx context.Context, holderID, policyID int64) ([]*models.Claim, error) {
	var claims []*models.Claim
	err := m.inTx(ctx, "list policy claims", func(tx storage.Tx) error {
		if _, err := tx.GetPolicy(ctx, holderID, policyID); err != nil {
			return notFound(err, "policy")
		}
		var err error
		claims, err = tx.ListClaimsByPolicy(ctx, policyID)
		return err
	})
	return claims, err
}

// UpdateClaimStatus sets a claim's status. Only administrators may do this;
// anyone else gets Forbidden and nothing changes. Any non-empty status is
// accepted. Moving a rejected claim back to a counting status is checked
// against coverage like a new filing.
func (m *Manager) UpdateClaimStatus(ctx context.Context, actorID int64, key models.ClaimKey, status models.ClaimStatus) (*models.Claim, error) {
	status = models.ClaimStatus(strings.TrimSpace(string(status)))
	if status == "" {
		return nil, dErrors.New(dErrors.CodeInvalid, "status is required")
	}

	unlock := m.locks.Lock(key.PolicyID)
	defer unlock()

	var claim *models.Claim
	var previous models.ClaimStatus
	err := m.inTx(ctx, "update claim status", func(tx storage.Tx) error {
		if err := authz.Authorize(ctx, tx, actorID, authz.ActionUpdateClaimStatus); err != nil {
			return err
		}
		current, err := tx.GetClaim(ctx, key)
		if err != nil {
			return notFound(err, "claim")
		}
		if err := coverage.CheckStatusChange(ctx, tx, current, status); err != nil {
			return err
		}
		previous = current.Status
		claim, err = tx.UpdateClaimStatus(ctx, key, status)
		return notFound(err, "claim")
	})
	if err != nil {
		m.logger.Warn("UpdateClaimStatus failed", "actor_id", actorID, "claim_id", key.ClaimID, "error", err)
		return nil, err
	}

	m.logger.Info("Claim status updated",
		"actor_id", actorID,
		"claim_id", key.ClaimID,
		"from", previous,
		"to", claim.Status,
	)
	return claim, nil
}

// DeleteClaim removes one claim.
func (m *Manager) DeleteClaim(ctx context.Context, key models.ClaimKey) error {
	err := m.inTx(ctx, "delete claim", func(tx storage.Tx) error {
		n, err := tx.DeleteClaim(ctx, key)
		if err != nil {
			return err
		}
		if n == 0 {
			return dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Claim deleted", "policy_id", key.PolicyID, "claim_id", key.ClaimID)
	return nil
}
