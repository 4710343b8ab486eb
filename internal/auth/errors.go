package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a missing or empty required input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthentication covers any token the service will not accept:
	// bad signature, expired, revoked, malformed, or missing claims.
	// Callers get no finer detail.
	ErrAuthentication = errors.New("authentication failed")
)

// KeyConfigError indicates the signing secret is unusable. It is fatal at
// startup.
type KeyConfigError struct {
	Reason string
}

func (e *KeyConfigError) Error() string {
	return fmt.Sprintf("signing key configuration: %s", e.Reason)
}
