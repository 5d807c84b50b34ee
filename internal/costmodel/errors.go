package costmodel

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a negative electricity price or duration, or a
// catalog record whose attributes make no physical sense.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// GPUNotFoundError reports a lookup of an id absent from the catalog. Valid
// carries the current catalog keys so the caller can present alternatives.
type GPUNotFoundError struct {
	ID    string
	Valid []string
}

func (e *GPUNotFoundError) Error() string {
	return fmt.Sprintf("gpu %q not found in catalog (valid: %s)", e.ID, strings.Join(e.Valid, ", "))
}
