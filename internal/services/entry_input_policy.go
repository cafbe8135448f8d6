package services

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidEntryDate = errors.New("invalid entry date")
)

// NormalizeEntryEmail trims the address and checks that it is a bare email. Case is
// kept because the email key is case-sensitive.
func NormalizeEntryEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ParseEntryDate reads an optional YYYY-MM-DD value. Empty input yields nil.
func ParseEntryDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, ErrInvalidEntryDate
	}
	return &parsed, nil
}
