package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers malformed, unknown or failed digest
	// credentials. Always answered with a fresh challenge.
	ErrInvalidCredentials = errors.New("invalid authentication credentials")

	// ErrNotAdmin means the credentials verified but the user lacks the
	// administrator flag.
	ErrNotAdmin = errors.New("only administrators are allowed")

	// ErrSessionConflict means another administrator holds the single
	// active session.
	ErrSessionConflict = errors.New("another administrator is currently logged in")

	// ErrUpstreamAuth means the firewall handshake did not complete.
	ErrUpstreamAuth = errors.New("firewall authentication failed")

	// ErrUpstreamQuery means an authenticated status query failed. Details
	// stay in the logs so endpoint internals do not leak to API clients.
	ErrUpstreamQuery = errors.New("firewall query failed")
)
