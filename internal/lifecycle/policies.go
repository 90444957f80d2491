package lifecycle

import (
	"context"
	"strings"

	"github.com/mmynk/coverwise/internal/coverage"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// CreatePolicy opens a policy for holderID. An empty status means "active".
func (m *Manager) CreatePolicy(ctx context.Context, holderID int64, coverageLimit float64, status string) (*models.Policy, error) {
	if err := validateCoverage(coverageLimit); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = models.PolicyStatusActive
	}

	policy := &models.Policy{PolicyholderID: holderID, Coverage: coverageLimit, Status: status}
	err := m.inTx(ctx, "create policy", func(tx storage.Tx) error {
		if _, err := tx.GetPolicyholder(ctx, holderID); err != nil {
			return notFound(err, "policyholder")
		}
		id, err := m.alloc.Allocate(ctx, tx, storage.NamespacePolicies)
		if err != nil {
			return err
		}
		policy.ID = id
		return tx.InsertPolicy(ctx, policy)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Policy created", "policyholder_id", holderID, "policy_id", policy.ID, "coverage", coverageLimit)
	return policy, nil
}

// GetPolicy retrieves a policy owned by holderID.
func (m *Manager) GetPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error) {
	var policy *models.Policy
	err := m.inTx(ctx, "get policy", func(tx storage.Tx) error {
		var err error
		policy, err = tx.GetPolicy(ctx, holderID, policyID)
		return notFound(err, "policy")
	})
	return policy, err
}

// ListPolicies returns the policies owned by holderID.
func (m *Manager) ListPolicies(ctx context.Context, holderID int64) ([]*models.Policy, error) {
	var policies []*models.Policy
	err := m.inTx(ctx, "list policies", func(tx storage.Tx) error {
		if _, err := tx.GetPolicyholder(ctx, holderID); err != nil {
			return notFound(err, "policyholder")
		}
		var err error
		policies, err = tx.ListPolicies(ctx, holderID)
		return err
	})
	return policies, err
}

// UpdatePolicy changes coverage and status. An empty status keeps the current
// one. Lowering coverage below the policy's outstanding exposure fails with
// CoverageExceeded and changes nothing.
func (m *Manager) UpdatePolicy(ctx context.Context, holderID, policyID int64, coverageLimit float64, status string) (*models.Policy, error) {
	if err := validateCoverage(coverageLimit); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(policyID)
	defer unlock()

	var policy *models.Policy
	err := m.inTx(ctx, "update policy", func(tx storage.Tx) error {
		current, err := tx.LockPolicy(ctx, holderID, policyID)
		if err != nil {
			return notFound(err, "policy")
		}
		if err := coverage.CheckCoverage(ctx, tx, current, coverageLimit); err != nil {
			return err
		}

		current.Coverage = coverageLimit
		if s := strings.TrimSpace(status); s != "" {
			current.Status = s
		}
		policy = current
		return tx.UpdatePolicy(ctx, current)
	})
	if err != nil {
		m.logger.Warn("UpdatePolicy failed", "policy_id", policyID, "coverage", coverageLimit, "error", err)
		return nil, err
	}

	m.logger.Info("Policy updated", "policy_id", policyID, "coverage", policy.Coverage, "status", policy.Status)
	return policy, nil
}

// DeletePolicy removes a policy's claims and then the policy itself.
func (m *Manager) DeletePolicy(ctx context.Context, holderID, policyID int64) error {
	unlock := m.locks.Lock(policyID)
	defer unlock()

	var claims int64
	err := m.inTx(ctx, "delete policy", func(tx storage.Tx) error {
		if _, err := tx.LockPolicy(ctx, holderID, policyID); err != nil {
			return notFound(err, "policy")
		}
		var err error
		if claims, err = tx.DeleteClaimsByPolicy(ctx, holderID, policyID); err != nil {
			return err
		}
		_, err = tx.DeletePolicy(ctx, holderID, policyID)
		return err
	})
	if err != nil {
		return err
	}

	m.logger.Info("Policy deleted", "policyholder_id", holderID, "policy_id", policyID, "claims_deleted", claims)
	return nil
}

// PolicyExposure reports how much of a policy's coverage is in use.
func (m *Manager) PolicyExposure(ctx context.Context, holderID, policyID int64) (*models.Exposure, error) {
	var exposure *models.Exposure
	err := m.inTx(ctx, "policy exposure", func(tx storage.Tx) error {
		policy, err := tx.GetPolicy(ctx, holderID, policyID)
		if err != nil {
			return notFound(err, "policy")
		}
		exposure, err = coverage.Exposure(ctx, tx, policy)
		return err
	})
	return exposure, err
}
