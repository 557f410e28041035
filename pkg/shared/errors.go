package shared

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoWallet            = errors.New("no wallet bound")
	ErrUninitialized       = errors.New("protocol not initialized")
	ErrSubmissionsInFlight = errors.New("submissions in flight")
	ErrResourceNotFound    = errors.New("resource not found")
)

type opError struct {
	Op      string
	Address string
	Err     error
}

func (e *opError) format(kind string) string {
	if e.Address != "" {
		return fmt.Sprintf("%s: %s (address %s): %v", kind, e.Op, e.Address, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", kind, e.Op, e.Err)
}

// ConfigurationError reports a missing wallet, bad seed, bad address or other
// client misconfiguration.
type ConfigurationError struct{ opError }

func (e *ConfigurationError) Error() string { return e.format("configuration error") }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// EncodingError reports an argument or transaction that could not be serialized.
type EncodingError struct{ opError }

func (e *EncodingError) Error() string { return e.format("encoding error") }
func (e *EncodingError) Unwrap() error { return e.Err }

// NetworkError wraps a transport failure from the node unmodified.
type NetworkError struct {
	opError
	StatusCode int
}

func (e *NetworkError) Error() string { return e.format("network error") }
func (e *NetworkError) Unwrap() error { return e.Err }

// RejectionError reports a transaction the ledger declined or aborted. Reason
// is the ledger's own message, unmodified.
type RejectionError struct {
	opError
	Hash   string
	Reason string
}

func (e *RejectionError) Error() string { return e.format("rejected") }
func (e *RejectionError) Unwrap() error { return e.Err }

// StateDecodingError reports an on-chain resource whose shape did not match
// the expected layout, usually because the protocol is not initialized.
type StateDecodingError struct {
	opError
	ResourceType string
}

func (e *StateDecodingError) Error() string { return e.format("state decoding error") }
func (e *StateDecodingError) Unwrap() error { return e.Err }

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(op string, address string, err error) error {
	return &ConfigurationError{opError{Op: op, Address: address, Err: errors.WithStack(err)}}
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(op string, address string, err error) error {
	return &EncodingError{opError{Op: op, Address: address, Err: errors.WithStack(err)}}
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(op string, address string, statusCode int, err error) error {
	return &NetworkError{opError: opError{Op: op, Address: address, Err: errors.WithStack(err)}, StatusCode: statusCode}
}

// NewRejectionError creates a new RejectionError.
func NewRejectionError(op string, address string, hash string, reason string) error {
	return &RejectionError{
		opError: opError{Op: op, Address: address, Err: errors.New(reason)},
		Hash:    hash,
		Reason:  reason,
	}
}

// NewStateDecodingError creates a new StateDecodingError.
func NewStateDecodingError(op string, address string, resourceType string, err error) error {
	return &StateDecodingError{
		opError:      opError{Op: op, Address: address, Err: errors.WithStack(err)},
		ResourceType: resourceType,
	}
}
