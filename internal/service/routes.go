package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/coverwise/internal/auth"
	"github.com/mmynk/coverwise/internal/lifecycle"
	"github.com/mmynk/coverwise/internal/middleware"
)

// Fully-qualified procedure names, in Connect's "/package.Service/Method" form.
const (
	CreatePolicyholderProcedure = "/coverwise.v1.PolicyholderService/CreatePolicyholder"
	GetPolicyholderProcedure    = "/coverwise.v1.PolicyholderService/GetPolicyholder"
	ListPolicyholdersProcedure  = "/coverwise.v1.PolicyholderService/ListPolicyholders"
	UpdatePolicyholderProcedure = "/coverwise.v1.PolicyholderService/UpdatePolicyholder"
	DeletePolicyholderProcedure = "/coverwise.v1.PolicyholderService/DeletePolicyholder"

	CreatePolicyProcedure = "/coverwise.v1.PolicyService/CreatePolicy"
	GetPolicyProcedure    = "/coverwise.v1.PolicyService/GetPolicy"
	ListPoliciesProcedure = "/coverwise.v1.PolicyService/ListPolicies"
	UpdatePolicyProcedure = "/coverwise.v1.PolicyService/UpdatePolicy"
	DeletePolicyProcedure = "/coverwise.v1.PolicyService/DeletePolicy"
	GetExposureProcedure  = "/coverwise.v1.PolicyService/GetExposure"

	FileClaimProcedure         = "/coverwise.v1.ClaimService/FileClaim"
	GetClaimProcedure          = "/coverwise.v1.ClaimService/GetClaim"
	ListClaimsProcedure        = "/coverwise.v1.ClaimService/ListClaims"
	ListPolicyClaimsProcedure  = "/coverwise.v1.ClaimService/ListPolicyClaims"
	UpdateClaimStatusProcedure = "/coverwise.v1.ClaimService/UpdateClaimStatus"
	DeleteClaimProcedure       = "/coverwise.v1.ClaimService/DeleteClaim"

	LoginProcedure                  = "/coverwise.v1.AuthService/Login"
	GetCurrentPolicyholderProcedure = "/coverwise.v1.AuthService/GetCurrentPolicyholder"
)

// Register mounts every RPC on mux. Administrative procedures, policyholder
// updates and GetCurrentPolicyholder require a bearer token; the rest accept
// one.
func Register(mux *http.ServeMux, manager *lifecycle.Manager, jwtManager *auth.JWTManager, logger *slog.Logger) {
	logging := middleware.LoggingInterceptor(logger)
	open := []connect.HandlerOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), logging),
	}
	authed := []connect.HandlerOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), logging),
	}

	holders := NewPolicyholderService(manager, logger)
	unary(mux, CreatePolicyholderProcedure, holders.CreatePolicyholder, open)
	unary(mux, GetPolicyholderProcedure, holders.GetPolicyholder, open)
	unary(mux, ListPolicyholdersProcedure, holders.ListPolicyholders, open)
	unary(mux, UpdatePolicyholderProcedure, holders.UpdatePolicyholder, authed)
	unary(mux, DeletePolicyholderProcedure, holders.DeletePolicyholder, authed)

	policies := NewPolicyService(manager)
	unary(mux, CreatePolicyProcedure, policies.CreatePolicy, open)
	unary(mux, GetPolicyProcedure, policies.GetPolicy, open)
	unary(mux, ListPoliciesProcedure, policies.ListPolicies, open)
	unary(mux, UpdatePolicyProcedure, policies.UpdatePolicy, open)
	unary(mux, DeletePolicyProcedure, policies.DeletePolicy, open)
	unary(mux, GetExposureProcedure, policies.GetExposure, open)

	claims := NewClaimService(manager)
	unary(mux, FileClaimProcedure, claims.FileClaim, open)
	unary(mux, GetClaimProcedure, claims.GetClaim, open)
	unary(mux, ListClaimsProcedure, claims.ListClaims, open)
	unary(mux, ListPolicyClaimsProcedure, claims.ListPolicyClaims, open)
	unary(mux, UpdateClaimStatusProcedure, claims.UpdateClaimStatus, authed)
	unary(mux, DeleteClaimProcedure, claims.DeleteClaim, open)

	authSvc := NewAuthService(manager, jwtManager, logger)
	unary(mux, LoginProcedure, authSvc.Login, open)
	unary(mux, GetCurrentPolicyholderProcedure, authSvc.GetCurrentPolicyholder, authed)
}

func unary[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}
