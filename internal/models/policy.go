package models

// PolicyStatusActive is the status given to a policy when the caller supplies none.
const PolicyStatusActive = "active"

// Policy is a coverage contract owned by one policyholder.
type Policy struct {
	// ID is unique among policies.
	ID int64

	// PolicyholderID references the owning policyholder.
	PolicyholderID int64

	// Coverage is the maximum aggregate non-rejected claim amount. Always > 0.
	Coverage float64

	// Status is "active" or any caller-supplied lifecycle string.
	Status string
}

// Exposure is a point-in-time view of how much of a policy's coverage is in use.
type Exposure struct {
	PolicyID    int64
	Coverage    float64
	Outstanding float64
	Remaining   float64
}
