package coverage

import "github.com/mmynk/coverwise/internal/models"

// FlagThreshold is the largest amount a new claim may have and still start
// out pending. Anything above it is flagged for manual review.
const FlagThreshold = 10000.0

// Classify returns the initial status of a newly admitted claim.
func Classify(amount float64) models.ClaimStatus {
	if amount > FlagThreshold {
		return models.ClaimStatusFlagged
	}
	return models.ClaimStatusPending
}
