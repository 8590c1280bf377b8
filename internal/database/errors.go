package database

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrUserNotFound         = errors.New("user not found")
)
