package service

import "github.com/mmynk/coverwise/internal/models"

// Policyholder is the wire form of a policyholder. The password hash never
// leaves the server.
type Policyholder struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type Policy struct {
	ID             int64   `json:"policy_id"`
	PolicyholderID int64   `json:"policyholder_id"`
	Coverage       float64 `json:"coverage"`
	Status         string  `json:"status"`
}

type Claim struct {
	ID             int64   `json:"claim_id"`
	PolicyID       int64   `json:"policy_id"`
	PolicyholderID int64   `json:"policyholder_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
}

type Exposure struct {
	PolicyID    int64   `json:"policy_id"`
	Coverage    float64 `json:"coverage"`
	Outstanding float64 `json:"outstanding"`
	Remaining   float64 `json:"remaining"`
}

// Policyholder RPCs

type CreatePolicyholderRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PolicyholderRequest struct {
	PolicyholderID int64 `json:"policyholder_id"`
}

type UpdatePolicyholderRequest struct {
	PolicyholderID int64  `json:"policyholder_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type PolicyholderResponse struct {
	Policyholder *Policyholder `json:"policyholder"`
}

type ListPolicyholdersRequest struct{}

type ListPolicyholdersResponse struct {
	Policyholders []*Policyholder `json:"policyholders"`
}

// Policy RPCs

type CreatePolicyRequest struct {
	PolicyholderID int64   `json:"policyholder_id"`
	Coverage       float64 `json:"coverage"`
	Status         string  `json:"status,omitempty"`
}

type PolicyRequest struct {
	PolicyholderID int64 `json:"policyholder_id"`
	PolicyID       int64 `json:"policy_id"`
}

type UpdatePolicyRequest struct {
	PolicyholderID int64   `json:"policyholder_id"`
	PolicyID       int64   `json:"policy_id"`
	Coverage       float64 `json:"coverage"`
	Status         string  `json:"status,omitempty"`
}

type PolicyResponse struct {
	Policy *Policy `json:"policy"`
}

type ListPoliciesResponse struct {
	Policies []*Policy `json:"policies"`
}

type ExposureResponse struct {
	Exposure *Exposure `json:"exposure"`
}

// Claim RPCs

type FileClaimRequest struct {
	PolicyholderID int64   `json:"policyholder_id"`
	PolicyID       int64   `json:"policy_id"`
	Amount         float64 `json:"amount"`
}

type ClaimRequest struct {
	PolicyholderID int64 `json:"policyholder_id"`
	PolicyID       int64 `json:"policy_id"`
	ClaimID        int64 `json:"claim_id"`
}

type UpdateClaimStatusRequest struct {
	PolicyholderID int64  `json:"policyholder_id"`
	PolicyID       int64  `json:"policy_id"`
	ClaimID        int64  `json:"claim_id"`
	Status         string `json:"status"`
}

type ClaimResponse struct {
	Claim *Claim `json:"claim"`
}

type ListClaimsResponse struct {
	Claims []*Claim `json:"claims"`
}

// Auth RPCs

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Policyholder *Policyholder `json:"policyholder"`
	Token        string        `json:"token"`
}

type GetCurrentPolicyholderRequest struct{}

// Empty is the response of RPCs that return nothing.
type Empty struct{}

func (r ClaimRequest) key() models.ClaimKey {
	return models.ClaimKey{PolicyholderID: r.PolicyholderID, PolicyID: r.PolicyID, ClaimID: r.ClaimID}
}

func toPolicyholder(h *models.Policyholder) *Policyholder {
	return &Policyholder{ID: h.ID, Name: h.Name, Email: h.Email, IsAdmin: h.IsAdmin}
}

func toPolicy(p *models.Policy) *Policy {
	return &Policy{ID: p.ID, PolicyholderID: p.PolicyholderID, Coverage: p.Coverage, Status: p.Status}
}

func toPolicies(in []*models.Policy) []*Policy {
	out := make([]*Policy, 0, len(in))
	for _, p := range in {
		out = append(out, toPolicy(p))
	}
	return out
}

func toClaim(c *models.Claim) *Claim {
	return &Claim{
		ID:             c.ID,
		PolicyID:       c.PolicyID,
		PolicyholderID: c.PolicyholderID,
		Amount:         c.Amount,
		Status:         string(c.Status),
	}
}

func toClaims(in []*models.Claim) []*Claim {
	out := make([]*Claim, 0, len(in))
	for _, c := range in {
		out = append(out, toClaim(c))
	}
	return out
}
