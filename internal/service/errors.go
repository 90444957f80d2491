package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/auth"
	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/storage"
)

// connectError maps a lifecycle failure onto a Connect status code.
func connectError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalid:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case dErrors.CodeNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case dErrors.CodeCoverageExceeded:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case dErrors.CodeForbidden:
		return connect.NewError(connect.CodePermissionDenied, err)
	case dErrors.CodeConflict:
		if errors.Is(err, storage.ErrDuplicateEmail) || errors.Is(err, storage.ErrDuplicateID) {
			return connect.NewError(connect.CodeAlreadyExists, err)
		}
		return connect.NewError(connect.CodeAborted, err)
	default:
		// Internal details stay in the server log.
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
