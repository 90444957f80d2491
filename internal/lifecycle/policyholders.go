package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/authz"
	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// CreatePolicyholder registers a new, non-administrator policyholder.
func (m *Manager) CreatePolicyholder(ctx context.Context, name, email, password string) (*models.Policyholder, error) {
	holder, err := m.newPolicyholder(name, email, password)
	if err != nil {
		return nil, err
	}

	err = m.inTx(ctx, "create policyholder", func(tx storage.Tx) error {
		id, err := m.alloc.Allocate(ctx, tx, storage.NamespacePolicyholders)
		if err != nil {
			return err
		}
		holder.ID = id
		return tx.InsertPolicyholder(ctx, holder)
	})
	if err != nil {
		m.logger.Warn("CreatePolicyholder failed", "email", holder.Email, "error", err)
		return nil, err
	}

	m.metrics.PolicyholderCreated()
	m.logger.Info("Policyholder created", "policyholder_id", holder.ID, "email", holder.Email)
	return holder, nil
}

// BootstrapAdmin is the provisioning path for administrators. It promotes the
// policyholder registered under email, or creates one with administrator
// rights if none exists. The password is only used when creating.
func (m *Manager) BootstrapAdmin(ctx context.Context, name, email, password string) (*models.Policyholder, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	var holder *models.Policyholder
	err := m.inTx(ctx, "bootstrap admin", func(tx storage.Tx) error {
		existing, err := tx.GetPolicyholderByEmail(ctx, email)
		if err == nil {
			existing.IsAdmin = true
			holder = existing
			return tx.UpdatePolicyholder(ctx, existing)
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		created, err := m.newPolicyholder(name, email, password)
		if err != nil {
			return err
		}
		created.IsAdmin = true
		created.ID, err = m.alloc.Allocate(ctx, tx, storage.NamespacePolicyholders)
		if err != nil {
			return err
		}
		holder = created
		return tx.InsertPolicyholder(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Administrator provisioned", "policyholder_id", holder.ID, "email", holder.Email)
	return holder, nil
}

func (m *Manager) newPolicyholder(name, email, password string) (*models.Policyholder, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	hash, err := m.hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &models.Policyholder{Name: name, Email: email, PasswordHash: hash}, nil
}

func (m *Manager) hashPassword(password string) (string, error) {
	hash, err := m.hasher.Hash(password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return "", dErrors.Wrap(err, dErrors.CodeInvalid, "invalid password")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return hash, nil
}

// GetPolicyholder retrieves a policyholder by ID.
func (m *Manager) GetPolicyholder(ctx context.Context, id int64) (*models.Policyholder, error) {
	var holder *models.Policyholder
	err := m.inTx(ctx, "get policyholder", func(tx storage.Tx) error {
		var err error
		holder, err = tx.GetPolicyholder(ctx, id)
		return notFound(err, "policyholder")
	})
	return holder, err
}

// ListPolicyholders returns every policyholder's id, name and email.
func (m *Manager) ListPolicyholders(ctx context.Context) ([]models.PolicyholderSummary, error) {
	var holders []models.PolicyholderSummary
	err := m.inTx(ctx, "list policyholders", func(tx storage.Tx) error {
		var err error
		holders, err = tx.ListPolicyholders(ctx)
		return err
	})
	return holders, err
}

// UpdatePolicyholder replaces name, email and password. A policyholder may
// update itself; updating anyone else requires administrator rights, and
// other callers get Forbidden with nothing changed. The administrator flag is
// not touched.
func (m *Manager) UpdatePolicyholder(ctx context.Context, actorID, id int64, name, email, password string) (*models.Policyholder, error) {
	update, err := m.newPolicyholder(name, email, password)
	if err != nil {
		return nil, err
	}

	var holder *models.Policyholder
	err = m.inTx(ctx, "update policyholder", func(tx storage.Tx) error {
		if actorID != id {
			if err := authz.Authorize(ctx, tx, actorID, authz.ActionUpdatePolicyholder); err != nil {
				return err
			}
		}
		existing, err := tx.GetPolicyholder(ctx, id)
		if err != nil {
			return notFound(err, "policyholder")
		}
		existing.Name = update.Name
		existing.Email = update.Email
		existing.PasswordHash = update.PasswordHash
		holder = existing
		return tx.UpdatePolicyholder(ctx, existing)
	})
	if err != nil {
		m.logger.Warn("UpdatePolicyholder failed", "actor_id", actorID, "policyholder_id", id, "error", err)
		return nil, err
	}

	m.logger.Info("Policyholder updated", "actor_id", actorID, "policyholder_id", id)
	return holder, nil
}

// DeletePolicyholder removes a policyholder with all of its policies and
// claims. Only administrators may do this. Claims go first, then policies,
// then the policyholder, each as an explicit delete.
func (m *Manager) DeletePolicyholder(ctx context.Context, actorID, id int64) error {
	var claims, policies int64
	err := m.inTx(ctx, "delete policyholder", func(tx storage.Tx) error {
		if err := authz.Authorize(ctx, tx, actorID, authz.ActionDeletePolicyholder); err != nil {
			return err
		}
		if _, err := tx.GetPolicyholder(ctx, id); err != nil {
			return notFound(err, "policyholder")
		}

		var err error
		if claims, err = tx.DeleteClaimsByHolder(ctx, id); err != nil {
			return err
		}
		if policies, err = tx.DeletePoliciesByHolder(ctx, id); err != nil {
			return err
		}
		_, err = tx.DeletePolicyholder(ctx, id)
		return err
	})
	if err != nil {
		m.logger.Warn("DeletePolicyholder failed", "actor_id", actorID, "policyholder_id", id, "error", err)
		return err
	}

	m.logger.Info("Policyholder deleted",
		"actor_id", actorID,
		"policyholder_id", id,
		"policies_deleted", policies,
		"claims_deleted", claims,
	)
	return nil
}

// IsAdmin reports whether id is an administrator.
func (m *Manager) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var admin bool
	err := m.inTx(ctx, "check admin", func(tx storage.Tx) error {
		var err error
		admin, err = authz.IsAdmin(ctx, tx, id)
		return err
	})
	return admin, err
}

// Authenticate verifies a login. Unknown emails and wrong passwords both
// return auth.ErrInvalidCredentials.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*models.Policyholder, error) {
	var holder *models.Policyholder
	err := m.inTx(ctx, "authenticate", func(tx storage.Tx) error {
		var err error
		holder, err = tx.GetPolicyholderByEmail(ctx, strings.TrimSpace(email))
		return err
	})
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := m.hasher.Compare(holder.PasswordHash, password); err != nil {
		return nil, err
	}
	return holder, nil
}
