package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Claims reference (policy_id, policyholder_id) jointly, so a claim can only
// point at a policy owned by the same policyholder.
const schema = `
CREATE TABLE IF NOT EXISTS policyholders (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    credential TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS policies (
    policy_id INTEGER PRIMARY KEY,
    policyholder_id INTEGER NOT NULL,
    coverage REAL NOT NULL CHECK (coverage > 0),
    status TEXT NOT NULL,
    UNIQUE (policy_id, policyholder_id),
    FOREIGN KEY (policyholder_id) REFERENCES policyholders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS claims (
    claim_id INTEGER PRIMARY KEY,
    policy_id INTEGER NOT NULL,
    policyholder_id INTEGER NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    status TEXT NOT NULL,
    FOREIGN KEY (policy_id, policyholder_id) REFERENCES policies(policy_id, policyholder_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_policies_policyholder_id ON policies(policyholder_id);
CREATE INDEX IF NOT EXISTS idx_claims_policy_id ON claims(policy_id);
CREATE INDEX IF NOT EXISTS idx_claims_policyholder_id ON claims(policyholder_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
