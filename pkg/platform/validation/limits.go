// Package validation holds trust-boundary size limits for inbound requests.
package validation

import (
	"fmt"

	dErrors "fuelguard/pkg/domain-errors"
)

// String element length limits
const (
	// MaxIdentifierLength bounds permit, customs entry, customer and
	// certificate identifiers.
	MaxIdentifierLength = 64

	MaxDeliveryNumberLength = 64

	MaxLocationLength = 200

	// MaxParameterNameLength bounds a quality parameter name.
	MaxParameterNameLength = 64
)

// Element count limits
const (
	// MaxQualityResults is the maximum number of measured parameters on one
	// quality certificate.
	MaxQualityResults = 32
)

// CheckCount validates that a collection does not exceed the maximum count.
func CheckCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachKeyLength validates every key of m against the maximum length.
func CheckEachKeyLength[V any](fieldName string, m map[string]V, max int) error {
	for k := range m {
		if len(k) > max {
			return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s key exceeds max length of %d", fieldName, max))
		}
	}
	return nil
}
