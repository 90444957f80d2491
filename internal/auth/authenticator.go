package auth

import (
	"context"

	"github.com/mmynk/coverwise/internal/models"
)

// Authenticator verifies a login. The lifecycle manager implements it; the
// transport layer depends only on this interface.
type Authenticator interface {
	// Authenticate verifies the policyholder's credentials and returns the
	// policyholder if successful. Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, credential string) (*models.Policyholder, error)
}
