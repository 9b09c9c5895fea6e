package services

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	NameMinLength = 2
	NameMaxLength = 50
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooShort = errors.New("name must be at least 2 characters")
	ErrNameTooLong  = errors.New("name must be less than 50 characters")
)

// ValidateName trims raw and checks it against the same bounds the dashboard form uses.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return "", ErrNameRequired
	case n < NameMinLength:
		return "", ErrNameTooShort
	case n > NameMaxLength:
		return "", ErrNameTooLong
	}
	return name, nil
}

// IsValidationError reports whether err came from ValidateName.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrNameTooShort) ||
		errors.Is(err, ErrNameTooLong)
}
