// Package errors defines the failure kinds surfaced by the payment core.
// Callers classify wrapped errors with errors.Is against these sentinels.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication - credential exchange with the gateway was rejected or unreachable
	ErrAuthentication = errors.New("gateway authentication failed")
	// ErrValidation - caller input rejected before any I/O
	ErrValidation = errors.New("validation failed")
	// ErrGatewayRequest - the gateway returned a non-2xx or unexpected payload
	ErrGatewayRequest = errors.New("gateway request failed")
	// ErrTransport - connectivity or timeout talking to the gateway
	ErrTransport = errors.New("gateway unreachable")
	// ErrStorage - the local ledger store is unavailable
	ErrStorage = errors.New("storage failure")
	// ErrNotFound - requested record does not exist
	ErrNotFound = errors.New("not found")
)

// Wrap associates a failure kind with an underlying cause so both survive
// errors.Is checks up the stack.
func Wrap(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}
