package services

import "errors"

var (
	// ErrUserNotFound is returned when no user matches a lookup, including a
	// validly signed token that is no longer stored on its user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken is returned when a token fails signature verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)
