package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

const policyColumns = "policy_id, policyholder_id, coverage, status"

// InsertPolicy inserts a new policy.
func (t *Tx) InsertPolicy(ctx context.Context, p *models.Policy) error {
	_, err := t.exec(ctx,
		"INSERT INTO policies ("+policyColumns+") VALUES (?, ?, ?, ?)",
		p.ID, p.PolicyholderID, p.Coverage, p.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert policy: %w", err)
	}
	return nil
}

// GetPolicy retrieves a policy owned by holderID.
func (t *Tx) GetPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error) {
	return t.selectPolicy(ctx, holderID, policyID, "")
}

// LockPolicy retrieves a policy and holds its row until the transaction ends.
func (t *Tx) LockPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error) {
	return t.selectPolicy(ctx, holderID, policyID, t.dialect.LockClause())
}

func (t *Tx) selectPolicy(ctx context.Context, holderID, policyID int64, lock string) (*models.Policy, error) {
	p := &models.Policy{}
	err := t.queryRow(ctx,
		"SELECT "+policyColumns+" FROM policies WHERE policy_id = ? AND policyholder_id = ?"+lock,
		policyID, holderID,
	).Scan(&p.ID, &p.PolicyholderID, &p.Coverage, &p.Status)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return p, nil
}

// ListPolicies returns the policies owned by holderID.
func (t *Tx) ListPolicies(ctx context.Context, holderID int64) ([]*models.Policy, error) {
	rows, err := t.query(ctx,
		"SELECT "+policyColumns+" FROM policies WHERE policyholder_id = ? ORDER BY policy_id",
		holderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []*models.Policy
	for rows.Next() {
		p := &models.Policy{}
		if err := rows.Scan(&p.ID, &p.PolicyholderID, &p.Coverage, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policies: %w", err)
	}

	return policies, nil
}

// UpdatePolicy rewrites coverage and status of an existing policy.
func (t *Tx) UpdatePolicy(ctx context.Context, p *models.Policy) error {
	n, err := t.exec(ctx,
		"UPDATE policies SET coverage = ?, status = ? WHERE policy_id = ? AND policyholder_id = ?",
		p.Coverage, p.Status, p.ID, p.PolicyholderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeletePolicy removes one policy row.
func (t *Tx) DeletePolicy(ctx context.Context, holderID, policyID int64) (int64, error) {
	n, err := t.exec(ctx,
		"DELETE FROM policies WHERE policy_id = ? AND policyholder_id = ?",
		policyID, holderID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete policy: %w", err)
	}
	return n, nil
}

// DeletePoliciesByHolder removes every policy owned by holderID.
func (t *Tx) DeletePoliciesByHolder(ctx context.Context, holderID int64) (int64, error) {
	n, err := t.exec(ctx, "DELETE FROM policies WHERE policyholder_id = ?", holderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete policies: %w", err)
	}
	return n, nil
}
