package postgres

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS policyholders (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    credential TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT policyholders_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS policies (
    policy_id BIGINT PRIMARY KEY,
    policyholder_id BIGINT NOT NULL REFERENCES policyholders(id) ON DELETE CASCADE,
    coverage DOUBLE PRECISION NOT NULL CHECK (coverage > 0),
    status TEXT NOT NULL,
    UNIQUE (policy_id, policyholder_id)
);

CREATE TABLE IF NOT EXISTS claims (
    claim_id BIGINT PRIMARY KEY,
    policy_id BIGINT NOT NULL,
    policyholder_id BIGINT NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
    status TEXT NOT NULL,
    FOREIGN KEY (policy_id, policyholder_id) REFERENCES policies(policy_id, policyholder_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_policies_policyholder_id ON policies(policyholder_id);
CREATE INDEX IF NOT EXISTS idx_claims_policy_id ON claims(policy_id);
CREATE INDEX IF NOT EXISTS idx_claims_policyholder_id ON claims(policyholder_id);
`

func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
