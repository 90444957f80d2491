// Package models defines the core domain models for Coverwise.
//
// # Models
//
//   - Policyholder: an account that owns policies and files claims
//   - Policy: a coverage contract with a coverage limit
//   - Claim: a reimbursement request against one policy
//
// # Design Principles
//
// 1. **Top-down ownership**: Policyholder → Policy → Claim. Deleting an owner
// deletes everything beneath it.
// 2. **No back pointers**: relationships are plain numeric IDs; callers look up
// the related record when they need it.
// 3. **Independent ID spaces**: policyholder, policy and claim IDs are unique
// within their own table only. The same number may appear in two tables.
// 4. **No stored balances**: a policy's outstanding exposure is always summed
// from its claims at read time.
package models
