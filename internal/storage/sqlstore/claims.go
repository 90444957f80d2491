package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

const claimColumns = "claim_id, policy_id, policyholder_id, amount, status"

const claimKeyPredicate = "claim_id = ? AND policy_id = ? AND policyholder_id = ?"

// InsertClaim inserts a new claim.
func (t *Tx) InsertClaim(ctx context.Context, c *models.Claim) error {
	_, err := t.exec(ctx,
		"INSERT INTO claims ("+claimColumns+") VALUES (?, ?, ?, ?, ?)",
		c.ID, c.PolicyID, c.PolicyholderID, c.Amount, string(c.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

// GetClaim retrieves a claim by its full ownership path.
func (t *Tx) GetClaim(ctx context.Context, key models.ClaimKey) (*models.Claim, error) {
	return scanClaim(t.queryRow(ctx,
		"SELECT "+claimColumns+" FROM claims WHERE "+claimKeyPredicate,
		key.ClaimID, key.PolicyID, key.PolicyholderID,
	))
}

// ListClaimsByHolder returns every claim filed by holderID, across policies.
func (t *Tx) ListClaimsByHolder(ctx context.Context, holderID int64) ([]*models.Claim, error) {
	return t.listClaims(ctx,
		"SELECT "+claimColumns+" FROM claims WHERE policyholder_id = ? ORDER BY policy_id, claim_id",
		holderID,
	)
}

// ListClaimsByPolicy returns every claim on a policy.
func (t *Tx) ListClaimsByPolicy(ctx context.Context, policyID int64) ([]*models.Claim, error) {
	return t.listClaims(ctx,
		"SELECT "+claimColumns+" FROM claims WHERE policy_id = ? ORDER BY claim_id",
		policyID,
	)
}

func (t *Tx) listClaims(ctx context.Context, query string, args ...any) ([]*models.Claim, error) {
	rows, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		c := &models.Claim{}
		var status string
		if err := rows.Scan(&c.ID, &c.PolicyID, &c.PolicyholderID, &c.Amount, &status); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		c.Status = models.ClaimStatus(status)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}

	return claims, nil
}

// OutstandingExposure sums non-rejected claim amounts on a policy.
func (t *Tx) OutstandingExposure(ctx context.Context, policyID int64) (float64, error) {
	var total float64
	err := t.queryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM claims WHERE policy_id = ? AND status <> ?",
		policyID, string(models.ClaimStatusRejected),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding claims: %w", err)
	}
	return total, nil
}

// UpdateClaimStatus sets a claim's status and returns the updated claim.
func (t *Tx) UpdateClaimStatus(ctx context.Context, key models.ClaimKey, status models.ClaimStatus) (*models.Claim, error) {
	return scanClaim(t.queryRow(ctx,
		"UPDATE claims SET status = ? WHERE "+claimKeyPredicate+" RETURNING "+claimColumns,
		string(status), key.ClaimID, key.PolicyID, key.PolicyholderID,
	))
}

// DeleteClaim removes one claim.
func (t *Tx) DeleteClaim(ctx context.Context, key models.ClaimKey) (int64, error) {
	n, err := t.exec(ctx,
		"DELETE FROM claims WHERE "+claimKeyPredicate,
		key.ClaimID, key.PolicyID, key.PolicyholderID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete claim: %w", err)
	}
	return n, nil
}

// DeleteClaimsByPolicy removes every claim on one policy.
func (t *Tx) DeleteClaimsByPolicy(ctx context.Context, holderID, policyID int64) (int64, error) {
	n, err := t.exec(ctx,
		"DELETE FROM claims WHERE policy_id = ? AND policyholder_id = ?",
		policyID, holderID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete claims: %w", err)
	}
	return n, nil
}

// DeleteClaimsByHolder removes every claim filed by holderID.
func (t *Tx) DeleteClaimsByHolder(ctx context.Context, holderID int64) (int64, error) {
	n, err := t.exec(ctx, "DELETE FROM claims WHERE policyholder_id = ?", holderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete claims: %w", err)
	}
	return n, nil
}

func scanClaim(row *sql.Row) (*models.Claim, error) {
	c := &models.Claim{}
	var status string
	err := row.Scan(&c.ID, &c.PolicyID, &c.PolicyholderID, &c.Amount, &status)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	c.Status = models.ClaimStatus(status)
	return c, nil
}
