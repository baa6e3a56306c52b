package pokeapi

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError means the request did not complete successfully at the
// network or HTTP level (connection failure, timeout, non-2xx status).
type TransportError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pokeapi transport: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pokeapi transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the response arrived but did not have the expected
// shape: undecodable body, GraphQL errors, null data, missing aggregate.
type ProtocolError struct {
	Reason string
	Errors []string // GraphQL error messages, if any
	Err    error
}

func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString("pokeapi protocol: ")
	b.WriteString(e.Reason)
	if len(e.Errors) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Errors, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is (or wraps) a *ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
