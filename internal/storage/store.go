// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/coverwise/internal/models"
)

// Sentinel errors returned (optionally wrapped) by every Store implementation.
// Services translate them into domain errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Namespace names an identifier space. Each entity type has its own.
type Namespace string

const (
	NamespacePolicyholders Namespace = "policyholders"
	NamespacePolicies      Namespace = "policies"
	NamespaceClaims        Namespace = "claims"
)

// Store opens transactions against the persistent store.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the lifecycle layer.
type Store interface {
	// BeginTx starts a read-write transaction. The transaction takes the
	// store's write lock as early as the backend allows, so two transactions
	// that both mutate the same policy are serialized.
	BeginTx(ctx context.Context) (Tx, error)

	// Close releases any resources held by the store.
	Close() error
}

// Tx is one store transaction. Every method runs inside it; nothing is
// visible to other transactions until Commit.
type Tx interface {
	// IDExists reports whether id is taken within the namespace.
	IDExists(ctx context.Context, ns Namespace, id int64) (bool, error)

	// InsertPolicyholder returns ErrDuplicateID or ErrDuplicateEmail on
	// uniqueness violations.
	InsertPolicyholder(ctx context.Context, p *models.Policyholder) error
	GetPolicyholder(ctx context.Context, id int64) (*models.Policyholder, error)
	GetPolicyholderByEmail(ctx context.Context, email string) (*models.Policyholder, error)
	ListPolicyholders(ctx context.Context) ([]models.PolicyholderSummary, error)
	// UpdatePolicyholder rewrites name, email, password hash and admin flag.
	UpdatePolicyholder(ctx context.Context, p *models.Policyholder) error
	DeletePolicyholder(ctx context.Context, id int64) (int64, error)

	InsertPolicy(ctx context.Context, p *models.Policy) error
	GetPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error)
	// LockPolicy is GetPolicy that also holds the policy row exclusively
	// until the transaction ends.
	LockPolicy(ctx context.Context, holderID, policyID int64) (*models.Policy, error)
	ListPolicies(ctx context.Context, holderID int64) ([]*models.Policy, error)
	UpdatePolicy(ctx context.Context, p *models.Policy) error
	DeletePolicy(ctx context.Context, holderID, policyID int64) (int64, error)
	DeletePoliciesByHolder(ctx context.Context, holderID int64) (int64, error)

	InsertClaim(ctx context.Context, c *models.Claim) error
	GetClaim(ctx context.Context, key models.ClaimKey) (*models.Claim, error)
	ListClaimsByHolder(ctx context.Context, holderID int64) ([]*models.Claim, error)
	ListClaimsByPolicy(ctx context.Context, policyID int64) ([]*models.Claim, error)
	// OutstandingExposure sums the amounts of the policy's claims whose
	// status is not rejected.
	OutstandingExposure(ctx context.Context, policyID int64) (float64, error)
	UpdateClaimStatus(ctx context.Context, key models.ClaimKey, status models.ClaimStatus) (*models.Claim, error)
	DeleteClaim(ctx context.Context, key models.ClaimKey) (int64, error)
	DeleteClaimsByPolicy(ctx context.Context, holderID, policyID int64) (int64, error)
	DeleteClaimsByHolder(ctx context.Context, holderID int64) (int64, error)

	Commit() error
	Rollback() error
}
