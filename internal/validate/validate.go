// Package validate provides a small declarative rule set for request input.
//
// Each endpoint declares its rules once, in order, and Check returns the
// first failure as an *apperror.AppError of kind ErrValidation:
//
//	err := validate.Check(
//	    validate.Required("title", title, "title is required"),
//	    validate.MaxLen("title", title, 100, "title is too long"),
//	)
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/community-board/internal/apperror"
)

// Rule reports a validation failure, or nil when the input is acceptable.
type Rule func() *apperror.AppError

// Check runs rules in order and returns the first failure.
func Check(rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

// Required fails when value is empty or whitespace only.
func Required(field, value, message string) Rule {
	return func() *apperror.AppError {
		if strings.TrimSpace(value) == "" {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}

// MinLen fails when value has fewer than n characters.
func MinLen(field, value string, n int, message string) Rule {
	return func() *apperror.AppError {
		if utf8.RuneCountInString(value) < n {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}

// MaxLen fails when value is longer than n bytes. Bytes, not runes: the
// limits guarded here (bcrypt's 72-byte input) are byte limits.
func MaxLen(field, value string, n int, message string) Rule {
	return func() *apperror.AppError {
		if len(value) > n {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}

func Matches(field, value string, re *regexp.Regexp, message string) Rule {
	return func() *apperror.AppError {
		if !re.MatchString(value) {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}

// Equal fails when value differs from want, e.g. a password confirmation.
func Equal(field, value, want, message string) Rule {
	return func() *apperror.AppError {
		if value != want {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}

// NotContains fails when value contains sub. An empty sub never matches.
func NotContains(field, value, sub, message string) Rule {
	return func() *apperror.AppError {
		if sub != "" && strings.Contains(value, sub) {
			return apperror.ValidationFailed(field, message)
		}
		return nil
	}
}
