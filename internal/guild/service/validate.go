package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field limits, in characters.
const (
	maxNameLen        = 200
	maxCompanyLen     = 200
	maxReasonLen      = 4000
	maxPhoneLen       = 32
	maxDescriptionLen = 4000
	maxPasswordLen    = 256
)

func required(field, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func maxLen(field, v string, n int) error {
	if utf8.RuneCountInString(v) > n {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, n)
	}
	return nil
}

// normalizeEmail accepts a bare RFC 5322 address and lower-cases it.
func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return "", fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}
	return strings.ToLower(addr.Address), nil
}

// validPhone allows digits, spaces and +-() and needs at least one digit.
func validPhone(phone string) error {
	if err := required("phone", phone); err != nil {
		return err
	}
	if err := maxLen("phone", phone, maxPhoneLen); err != nil {
		return err
	}
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ', r == '+', r == '-', r == '(', r == ')':
		default:
			return fmt.Errorf("%w: phone contains invalid characters", ErrValidation)
		}
	}
	if digits == 0 {
		return fmt.Errorf("%w: phone must contain digits", ErrValidation)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
