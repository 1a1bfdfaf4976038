package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/awu/foodlog/internal/models"
)

// Violations maps a form field to a human-readable error message, rendered
// inline next to the offending field.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "This field is required"
	}
}

// Username enforces the account username length bounds. Lengths are counted
// in characters, not bytes.
func Username(field, value string, v Violations) {
	n := utf8.RuneCountInString(value)
	if n < models.MinUsernameLen || n > models.MaxUsernameLen {
		v[field] = fmt.Sprintf("Username must be between %d and %d characters",
			models.MinUsernameLen, models.MaxUsernameLen)
	}
}

func Email(field, value string, v Violations) {
	if _, err := mail.ParseAddress(value); err != nil {
		v[field] = "Enter a valid email address"
	}
}

func Password(field, value string, v Violations) {
	if utf8.RuneCountInString(value) < models.MinPasswordLen {
		v[field] = fmt.Sprintf("Password must be at least %d characters", models.MinPasswordLen)
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "Must be zero or a positive number"
	}
}
