package models

// Policyholder represents a registered account.
type Policyholder struct {
	// ID is unique among policyholders (31-bit non-negative).
	ID int64

	// Name is the display name.
	Name string

	// Email is the login address (unique across policyholders).
	Email string

	// PasswordHash is the bcrypt hash of the credential. Never returned to clients.
	PasswordHash string

	// IsAdmin marks an administrator. Only the provisioning path sets it.
	IsAdmin bool
}

// PolicyholderSummary is the listing view of a policyholder.
type PolicyholderSummary struct {
	ID    int64
	Name  string
	Email string
}
