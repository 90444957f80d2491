package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/lifecycle"
	"github.com/mmynk/coverwise/internal/models"
)

// ClaimService implements the ClaimService RPCs.
type ClaimService struct {
	manager *lifecycle.Manager
}

// NewClaimService creates a ClaimService backed by manager.
func NewClaimService(manager *lifecycle.Manager) *ClaimService {
	return &ClaimService{manager: manager}
}

// FileClaim files a claim against a policy. A claim that would exceed the
// policy's remaining coverage fails with FailedPrecondition.
func (s *ClaimService) FileClaim(ctx context.Context, req *connect.Request[FileClaimRequest]) (*connect.Response[ClaimResponse], error) {
	claim, err := s.manager.FileClaim(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID, req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ClaimResponse{Claim: toClaim(claim)}), nil
}

func (s *ClaimService) GetClaim(ctx context.Context, req *connect.Request[ClaimRequest]) (*connect.Response[ClaimResponse], error) {
	claim, err := s.manager.GetClaim(ctx, req.Msg.key())
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ClaimResponse{Claim: toClaim(claim)}), nil
}

func (s *ClaimService) ListClaims(ctx context.Context, req *connect.Request[PolicyholderRequest]) (*connect.Response[ListClaimsResponse], error) {
	claims, err := s.manager.ListClaims(ctx, req.Msg.PolicyholderID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListClaimsResponse{Claims: toClaims(claims)}), nil
}

// ListPolicyClaims returns the claims filed against one policy.
func (s *ClaimService) ListPolicyClaims(ctx context.Context, req *connect.Request[PolicyRequest]) (*connect.Response[ListClaimsResponse], error) {
	claims, err := s.manager.ListPolicyClaims(ctx, req.Msg.PolicyholderID, req.Msg.PolicyID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ListClaimsResponse{Claims: toClaims(claims)}), nil
}

// UpdateClaimStatus sets a claim's status. Administrators only.
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, req *connect.Request[UpdateClaimStatusRequest]) (*connect.Response[ClaimResponse], error) {
	actorID, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	key := models.ClaimKey{
		PolicyholderID: req.Msg.PolicyholderID,
		PolicyID:       req.Msg.PolicyID,
		ClaimID:        req.Msg.ClaimID,
	}
	claim, err := s.manager.UpdateClaimStatus(ctx, actorID, key, models.ClaimStatus(req.Msg.Status))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ClaimResponse{Claim: toClaim(claim)}), nil
}

func (s *ClaimService) DeleteClaim(ctx context.Context, req *connect.Request[ClaimRequest]) (*connect.Response[Empty], error) {
	if err := s.manager.DeleteClaim(ctx, req.Msg.key()); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}
