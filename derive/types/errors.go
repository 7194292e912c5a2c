package types

import (
	"fmt"
	"strings"
)

// The client's failure modes are heterogeneous (config, credentials, auth,
// network, exchange rejection, signing) and callers route on the class, so
// each class is a distinct error type rather than a formatted string.

// ConfigError reports an unknown network or missing protocol constants.
// Fatal at client construction.
type ConfigError struct {
	Network Network
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: unknown network %q", e.Network)
}

// CredentialError reports missing or malformed credential fields, naming
// exactly which ones. Fatal before any client exists.
type CredentialError struct {
	Missing []string
	Reasons []string
}

func (e *CredentialError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing credentials: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Reasons) > 0 {
		parts = append(parts, strings.Join(e.Reasons, "; "))
	}
	if len(parts) == 0 {
		return "invalid credentials"
	}
	return strings.Join(parts, "; ")
}

// ValidationError reports malformed order parameters. Raised before any
// network call; never reaches the exchange.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order params: %s: %s", e.Field, e.Reason)
}

// AuthError reports a login probe rejected by the exchange. Privileged calls
// must not proceed without authentication.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication required but login failed"
	}
	return "authentication failed: " + e.Detail
}

// NetworkError reports a connection or timeout failure in the transport.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SigningError reports a missing or broken signing capability. Fatal for the
// current attempt; does not corrupt client state.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing: %s: %v", e.Reason, e.Err)
	}
	return "signing: " + e.Reason
}

func (e *SigningError) Unwrap() error { return e.Err }
