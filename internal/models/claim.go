package models

// ClaimStatus is the review state of a claim. Administrators may assign any
// value; the ones below are the values the system itself produces or reads.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusFlagged  ClaimStatus = "flagged"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// CountsTowardCoverage reports whether a claim in this status is part of the
// policy's outstanding exposure. Only rejected claims are excluded.
func (s ClaimStatus) CountsTowardCoverage() bool {
	return s != ClaimStatusRejected
}

// Claim is a reimbursement request against a policy.
type Claim struct {
	// ID is unique among claims.
	ID int64

	// PolicyID and PolicyholderID together reference the policy the claim is filed against.
	PolicyID       int64
	PolicyholderID int64

	// Amount is the requested reimbursement. Always > 0.
	Amount float64

	Status ClaimStatus
}

// ClaimKey identifies a claim by its full ownership path.
type ClaimKey struct {
	PolicyholderID int64
	PolicyID       int64
	ClaimID        int64
}
