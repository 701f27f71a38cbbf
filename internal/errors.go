package internal

import "errors"

var (
	ErrInvalidCopies         = errors.New("copies must be at least 1")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")

	ErrWrongPassword = errors.New("wrong admin password")
)
