package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/lifecycle"
	"github.com/mmynk/coverwise/internal/middleware"
)

// PolicyholderService implements the PolicyholderService RPCs.
type PolicyholderService struct {
	manager *lifecycle.Manager
	logger  *slog.Logger
}

// NewPolicyholderService creates a PolicyholderService backed by manager.
func NewPolicyholderService(manager *lifecycle.Manager, logger *slog.Logger) *PolicyholderService {
	return &PolicyholderService{manager: manager, logger: logger}
}

// CreatePolicyholder registers a policyholder. It is open to unauthenticated
// callers; this is how accounts come into being.
func (s *PolicyholderService) CreatePolicyholder(ctx context.Context, req *connect.Request[CreatePolicyholderRequest]) (*connect.Response[PolicyholderResponse], error) {
	s.logger.Info("CreatePolicyholder request", "email", req.Msg.Email)

	holder, err := s.manager.CreatePolicyholder(ctx, req.Msg.Name, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyholderResponse{Policyholder: toPolicyholder(holder)}), nil
}

func (s *PolicyholderService) GetPolicyholder(ctx context.Context, req *connect.Request[PolicyholderRequest]) (*connect.Response[PolicyholderResponse], error) {
	holder, err := s.manager.GetPolicyholder(ctx, req.Msg.PolicyholderID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyholderResponse{Policyholder: toPolicyholder(holder)}), nil
}

// ListPolicyholders returns id, name and email of every policyholder.
func (s *PolicyholderService) ListPolicyholders(ctx context.Context, _ *connect.Request[ListPolicyholdersRequest]) (*connect.Response[ListPolicyholdersResponse], error) {
	summaries, err := s.manager.ListPolicyholders(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	holders := make([]*Policyholder, 0, len(summaries))
	for _, h := range summaries {
		holders = append(holders, &Policyholder{ID: h.ID, Name: h.Name, Email: h.Email})
	}
	return connect.NewResponse(&ListPolicyholdersResponse{Policyholders: holders}), nil
}

// UpdatePolicyholder changes a policyholder's name, email and password.
// Callers may update themselves; administrators may update anyone.
func (s *PolicyholderService) UpdatePolicyholder(ctx context.Context, req *connect.Request[UpdatePolicyholderRequest]) (*connect.Response[PolicyholderResponse], error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	holder, err := s.manager.UpdatePolicyholder(ctx, actorID, req.Msg.PolicyholderID, req.Msg.Name, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyholderResponse{Policyholder: toPolicyholder(holder)}), nil
}

// DeletePolicyholder removes a policyholder and everything it owns.
// Administrators only.
func (s *PolicyholderService) DeletePolicyholder(ctx context.Context, req *connect.Request[PolicyholderRequest]) (*connect.Response[Empty], error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.manager.DeletePolicyholder(ctx, actorID, req.Msg.PolicyholderID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// actorFrom returns the authenticated policyholder set by the auth middleware.
func actorFrom(ctx context.Context) (int64, error) {
	id, ok := middleware.GetActorID(ctx)
	if !ok {
		return 0, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}
