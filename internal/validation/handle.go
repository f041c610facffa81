// Package validation provides input validation utilities.
package validation

import (
	"regexp"
	"strings"

	"athlos/internal/models"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_.]{2,30}$`)

// DefaultReservedHandles is the built-in reserved-word set, used when no list
// is supplied through configuration. The list is configuration data, not
// logic; deployments extend it via RESERVED_HANDLES.
var DefaultReservedHandles = []string{
	"admin",
	"api",
	"athlos",
	"auth",
	"explore",
	"feed",
	"follows",
	"help",
	"login",
	"logout",
	"media",
	"metrics",
	"moderator",
	"posts",
	"profiles",
	"root",
	"search",
	"settings",
	"signup",
	"support",
	"system",
}

// HandleValidator validates profile handles against format rules and a
// reserved-words set. Validation is pure: the same input always yields the
// same decision and there are no side effects.
type HandleValidator struct {
	reserved map[string]struct{}
}

// NewHandleValidator builds a validator with the given reserved words.
// Reserved words are compared after lowercase normalization.
func NewHandleValidator(reserved []string) *HandleValidator {
	set := make(map[string]struct{}, len(reserved))
	for _, w := range reserved {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &HandleValidator{reserved: set}
}

// Normalize lowercases and trims a candidate handle. The normalized form is
// what gets persisted; the unique index compares LOWER(handle) so equality is
// case-insensitive regardless.
func (v *HandleValidator) Normalize(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// Validate checks a candidate handle and returns the normalized form.
// Rejections: length < 2, embedded whitespace, characters outside
// [a-z0-9_.], and reserved words.
func (v *HandleValidator) Validate(handle string) (string, error) {
	normalized := v.Normalize(handle)

	if len(normalized) < 2 {
		return "", models.NewValidationError("Handle must be at least 2 characters")
	}
	if strings.ContainsAny(normalized, " \t\n") {
		return "", models.NewValidationError("Handle must not contain whitespace")
	}
	if len(normalized) > 30 {
		return "", models.NewValidationError("Handle must be at most 30 characters")
	}
	if !handleRegex.MatchString(normalized) {
		return "", models.NewValidationError("Handle may only contain lowercase letters, numbers, underscores, and periods")
	}
	if _, exists := v.reserved[normalized]; exists {
		return "", models.NewValidationError("Handle is reserved")
	}

	return normalized, nil
}
