package errors

import (
	"strings"
	"unicode"

	"github.com/matzehuels/beaconnet/pkg/model"
)

const maxIDLength = 256

// ValidateBeaconID validates a beacon id read from a script or scenario.
//
// The rules are:
//   - No empty ids
//   - Not the reserved not-found id
//   - No whitespace or control characters
//   - Maximum length of 256 characters
func ValidateBeaconID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "beacon id cannot be empty")
	}
	if id == model.NoID {
		return New(ErrCodeInvalidInput, "beacon id %q is reserved", id)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "beacon id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "beacon id %q contains whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateBeaconName validates a display name. Names may contain spaces but
// not control characters, and may not be the reserved not-found name.
func ValidateBeaconName(name string) error {
	if name == model.NoName {
		return New(ErrCodeInvalidInput, "beacon name %q is reserved", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "beacon name contains invalid control characters")
		}
	}
	return nil
}

// ValidateCost validates a fibre cost. Route queries assume non-negative
// costs.
func ValidateCost(cost int) error {
	if cost < 0 {
		return New(ErrCodeInvalidInput, "fibre cost must be non-negative, got %d", cost)
	}
	return nil
}

// ValidateOutputBase validates the base path used for rendered files.
func ValidateOutputBase(base string) error {
	if strings.TrimSpace(base) == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	for _, r := range base {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}
	return nil
}
