package ptp

import (
	"errors"
	"fmt"
)

// MalformedError indicates that a byte sequence violated the PTP container
// or codec contract: a truncated field, a bad length prefix, invalid UTF-16,
// an unrecognized container kind, or trailing bytes left over after a
// descriptor was fully decoded.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed PTP data: %s", e.Reason)
}

// ErrUnexpectedEnd is the *MalformedError value returned when a read runs
// past the end of the buffer mid-field.
var ErrUnexpectedEnd = &MalformedError{Reason: "unexpected end of buffer"}

func malformed(format string, args ...interface{}) *MalformedError {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

// ResponderError is returned when a transaction's Response container carries
// a code other than ResponseOK. Code is the raw wire value; vendor
// codes outside the standard 0x2000-0x2020 range pass through unnamed.
type ResponderError struct {
	Code uint16
}

func (e *ResponderError) Error() string {
	return fmt.Sprintf("PTP responder error: %s (0x%04x)", ResponseCodeName(e.Code), e.Code)
}

// TransportError wraps a failure from the underlying USB bulk transfer: a
// timeout, a detached device, or any other I/O failure reported by the
// BulkEndpoint implementation. A transport failure mid-transaction leaves the
// session's state indeterminate; callers should Close it.
//
// Cause is frequently ErrTimeout (directly, or wrapped with %w by the
// transport) or a *DisconnectedError; since TransportError implements
// Unwrap, callers can tell the two apart with errors.Is/errors.As without
// inspecting Cause's message:
//
//	if errors.Is(err, ptp.ErrTimeout) { /* retry */ }
//	var disc *ptp.DisconnectedError
//	if errors.As(err, &disc) { /* reopen the device */ }
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("PTP transport error: %s", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ErrTimeout is the sentinel a BulkEndpoint implementation should wrap (with
// %w) when a single Transfer call misses its deadline, so a retrying caller
// can distinguish "this transfer was slow" from a hard failure via
// errors.Is(err, ptp.ErrTimeout) instead of matching an error string.
var ErrTimeout = errors.New("ptp: transfer timed out")

// DisconnectedError indicates the underlying USB device itself went away —
// unplugged, power-cycled, or otherwise no longer enumerable — as opposed to
// a single transfer timing out. Unlike a timeout, retrying the same Session
// is pointless; the caller must reopen the device. Cause is the transport's
// own error value, preserved for logging.
type DisconnectedError struct {
	Cause error
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("PTP device disconnected: %s", e.Cause)
}

func (e *DisconnectedError) Unwrap() error {
	return e.Cause
}
