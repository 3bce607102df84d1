package validate

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/community-board/internal/apperror"
)

func TestRules(t *testing.T) {
	alnum := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"required ok", Required("f", "x", "m"), false},
		{"required empty", Required("f", "", "m"), true},
		{"required blank", Required("f", "  \t", "m"), true},
		{"minlen ok", MinLen("f", "abc", 3, "m"), false},
		{"minlen short", MinLen("f", "ab", 3, "m"), true},
		{"minlen counts runes", MinLen("f", "héé", 3, "m"), false},
		{"maxlen ok", MaxLen("f", "abcd", 4, "m"), false},
		{"maxlen long", MaxLen("f", "abcde", 4, "m"), true},
		{"matches ok", Matches("f", "abc123", alnum, "m"), false},
		{"matches fails", Matches("f", "abc_123", alnum, "m"), true},
		{"matches empty", Matches("f", "", alnum, "m"), true},
		{"equal ok", Equal("f", "a", "a", "m"), false},
		{"equal fails", Equal("f", "a", "b", "m"), true},
		{"notcontains ok", NotContains("f", "pass1234", "abc", "m"), false},
		{"notcontains fails", NotContains("f", "abc1234", "abc", "m"), true},
		{"notcontains empty sub", NotContains("f", "abc", "", "m"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule()
			if tt.wantErr {
				require.NotNil(t, err)
				assert.True(t, errors.Is(err, apperror.ErrValidation))
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestCheck_ReturnsFirstFailure(t *testing.T) {
	err := Check(
		Required("a", "ok", "a missing"),
		Required("b", "", "b missing"),
		Required("c", "", "c missing"),
	)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "b", appErr.Field)
	assert.Equal(t, "b missing", appErr.Message)
}

func TestCheck_NoRules(t *testing.T) {
	assert.NoError(t, Check())
}
