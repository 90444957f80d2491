package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/lifecycle"
)

// PolicyService implements the PolicyService RPCs.
type PolicyService struct {
	manager *lifecycle.Manager
}

// NewPolicyService creates a PolicyService backed by manager.
func NewPolicyService(manager *lifecycle.Manager) *PolicyService {
	return &PolicyService{manager: manager}
}

func (s *PolicyService) CreatePolicy(ctx context.Context, req *connect.Request[CreatePolicyRequest]) (*connect.Response[PolicyResponse], error) {
	policy, err := s.manager.CreatePolicy(ctx, req.Msg.PolicyholderID, req.Msg.Coverage, req.Msg.Status)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyResponse{Policy: toPolicy(policy)}), nil
}

func (s *PolicyService) GetPolicy(ctx context.Context, req *connect.Request[PolicyRequest]) (*connect.Response[PolicyResponse], error) {
	policy, err := s.manager.GetPolicy(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyResponse{Policy: toPolicy(policy)}), nil
}

func (s *PolicyService) ListPolicies(ctx context.Context, req *connect.Request[PolicyholderRequest]) (*connect.Response[ListPoliciesResponse], error) {
	policies, err := s.manager.ListPolicies(ctx, req.Msg.PolicyholderID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListPoliciesResponse{Policies: toPolicies(policies)}), nil
}

// UpdatePolicy changes coverage and, if given, status. Lowering coverage
// below the policy's outstanding claims fails with FailedPrecondition.
func (s *PolicyService) UpdatePolicy(ctx context.Context, req *connect.Request[UpdatePolicyRequest]) (*connect.Response[PolicyResponse], error) {
	policy, err := s.manager.UpdatePolicy(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID, req.Msg.Coverage, req.Msg.Status)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PolicyResponse{Policy: toPolicy(policy)}), nil
}

func (s *PolicyService) DeletePolicy(ctx context.Context, req *connect.Request[PolicyRequest]) (*connect.Response[Empty], error) {
	if err := s.manager.DeletePolicy(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *PolicyService) GetExposure(ctx context.Context, req *connect.Request[PolicyRequest]) (*connect.Response[ExposureResponse], error) {
	e, err := s.manager.PolicyExposure(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ExposureResponse{Exposure: &Exposure{
		PolicyID:    e.PolicyID,
		Coverage:    e.Coverage,
		Outstanding: e.Outstanding,
		Remaining:   e.Remaining,
	}}), nil
}
