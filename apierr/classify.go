package apierr

import (
	"context"
	"errors"
	"net"
)

// FromTransport converts a raw transport error into a typed NetworkError.
// A nil input passes through unchanged.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &NetworkError{Reason: DNSFailure, Cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Reason: Timeout, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &NetworkError{Reason: Timeout, Cause: err}
	}

	return &NetworkError{Reason: ConnectionFailed, Cause: err}
}
