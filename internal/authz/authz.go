// Package authz decides whether a policyholder may perform an administrative
// action.
//
// Administrators are marked by the is_admin column, which only the
// provisioning path sets. Credentials play no part in the decision.
package authz

import (
	"context"
	"errors"

	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/models"
	"github.com/mmynk/coverwise/internal/storage"
)

// Action is an operation that requires administrator rights.
type Action string

const (
	ActionUpdateClaimStatus  Action = "claim.update_status"
	ActionDeletePolicyholder Action = "policyholder.delete"
	ActionUpdatePolicyholder Action = "policyholder.update" // someone other than oneself
)

// Lookup is the part of a store transaction the gate needs.
type Lookup interface {
	GetPolicyholder(ctx context.Context, id int64) (*models.Policyholder, error)
}

// IsAdmin reports whether actorID names an administrator. An unknown actor is
// not an administrator.
func IsAdmin(ctx context.Context, l Lookup, actorID int64) (bool, error) {
	actor, err := l.GetPolicyholder(ctx, actorID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load actor")
	}
	return actor.IsAdmin, nil
}

// Authorize returns nil when actorID may perform action and a Forbidden
// error otherwise. Unknown actors are Forbidden, not NotFound, so the gate
// does not reveal which accounts exist.
func Authorize(ctx context.Context, l Lookup, actorID int64, action Action) error {
	admin, err := IsAdmin(ctx, l, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return dErrors.Newf(dErrors.CodeForbidden, "policyholder %d may not perform %s", actorID, action)
	}
	return nil
}
