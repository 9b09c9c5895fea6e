package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain", "Prod", "Prod", nil},
		{"trimmed", "  Staging key \t", "Staging key", nil},
		{"empty", "", "", ErrNameRequired},
		{"whitespace only", "   ", "", ErrNameRequired},
		{"single char", "a", "", ErrNameTooShort},
		{"single char padded", "  a  ", "", ErrNameTooShort},
		{"min length", "ab", "ab", nil},
		{"max length", strings.Repeat("x", 50), strings.Repeat("x", 50), nil},
		{"over max", strings.Repeat("x", 51), "", ErrNameTooLong},
		{"multibyte counted as runes", strings.Repeat("ключ", 12), strings.Repeat("ключ", 12), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidationError_OtherErrors(t *testing.T) {
	assert.False(t, IsValidationError(ErrAPIKeyNotFound))
	assert.False(t, IsValidationError(nil))
}
