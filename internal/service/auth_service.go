package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/lifecycle"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	manager       *lifecycle.Manager
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. manager also serves
// as the authenticator.
func NewAuthService(manager *lifecycle.Manager, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: manager,
		manager:       manager,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login authenticates a policyholder and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	holder, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connectError(err)
	}

	token, err := s.jwtManager.Generate(holder)
	if err != nil {
		s.logger.Error("Failed to generate token", "policyholder_id", holder.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Policyholder logged in", "policyholder_id", holder.ID)
	return connect.NewResponse(&LoginResponse{Policyholder: toPolicyholder(holder), Token: token}), nil
}

// GetCurrentPolicyholder returns the authenticated policyholder, including
// whether it is an administrator.
func (s *AuthService) GetCurrentPolicyholder(ctx context.Context, _ *connect.Request[GetCurrentPolicyholderRequest]) (*connect.Response[PolicyholderResponse], error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	holder, err := s.manager.GetPolicyholder(ctx, actorID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyholderResponse{Policyholder: toPolicyholder(holder)}), nil
}
