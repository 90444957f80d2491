package lifecycle

import (
	"math"
	"regexp"
	"strings"

	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+$`)

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return dErrors.Newf(dErrors.CodeInvalid, "invalid email format: %q", email)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeInvalid, "name is required")
	}
	return nil
}

func validateCoverage(coverage float64) error {
	if !(coverage > 0) || math.IsInf(coverage, 0) {
		return dErrors.New(dErrors.CodeInvalid, "coverage must be greater than zero")
	}
	return nil
}

func validateAmount(amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return dErrors.New(dErrors.CodeInvalid, "claim amount must be greater than zero")
	}
	return nil
}
