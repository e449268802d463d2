package auth

import "errors"

var (
	// ErrInvalidToken is returned when the provided token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoActorAddress is returned when no actor address accompanies the request
	ErrNoActorAddress = errors.New("no actor address in request context")
)
