package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

const policyholderColumns = "id, name, email, credential, is_admin"

// InsertPolicyholder inserts a new policyholder.
func (t *Tx) InsertPolicyholder(ctx context.Context, p *models.Policyholder) error {
	_, err := t.exec(ctx,
		"INSERT INTO policyholders ("+policyholderColumns+") VALUES (?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Email, p.PasswordHash, p.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to insert policyholder: %w", err)
	}
	return nil
}

// GetPolicyholder retrieves a policyholder by ID.
func (t *Tx) GetPolicyholder(ctx context.Context, id int64) (*models.Policyholder, error) {
	return t.scanPolicyholder(t.queryRow(ctx,
		"SELECT "+policyholderColumns+" FROM policyholders WHERE id = ?", id,
	))
}

// GetPolicyholderByEmail retrieves a policyholder by email address.
func (t *Tx) GetPolicyholderByEmail(ctx context.Context, email string) (*models.Policyholder, error) {
	return t.scanPolicyholder(t.queryRow(ctx,
		"SELECT "+policyholderColumns+" FROM policyholders WHERE email = ?", email,
	))
}

func (t *Tx) scanPolicyholder(row *sql.Row) (*models.Policyholder, error) {
	p := &models.Policyholder{}
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.IsAdmin)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policyholder: %w", err)
	}
	return p, nil
}

// ListPolicyholders returns every policyholder ordered by ID.
func (t *Tx) ListPolicyholders(ctx context.Context) ([]models.PolicyholderSummary, error) {
	rows, err := t.query(ctx, "SELECT id, name, email FROM policyholders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list policyholders: %w", err)
	}
	defer rows.Close()

	var holders []models.PolicyholderSummary
	for rows.Next() {
		var h models.PolicyholderSummary
		if err := rows.Scan(&h.ID, &h.Name, &h.Email); err != nil {
			return nil, fmt.Errorf("failed to scan policyholder: %w", err)
		}
		holders = append(holders, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policyholders: %w", err)
	}

	return holders, nil
}

// UpdatePolicyholder rewrites an existing policyholder.
func (t *Tx) UpdatePolicyholder(ctx context.Context, p *models.Policyholder) error {
	n, err := t.exec(ctx,
		"UPDATE policyholders SET name = ?, email = ?, credential = ?, is_admin = ? WHERE id = ?",
		p.Name, p.Email, p.PasswordHash, p.IsAdmin, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update policyholder: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeletePolicyholder removes a policyholder row and returns the rows affected.
// Callers delete the policyholder's policies and claims first.
func (t *Tx) DeletePolicyholder(ctx context.Context, id int64) (int64, error) {
	n, err := t.exec(ctx, "DELETE FROM policyholders WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete policyholder: %w", err)
	}
	return n, nil
}
