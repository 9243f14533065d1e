package ptp

import "time"

// BulkEndpoint is one direction of a claimed USB bulk pipe. Implementations
// perform a single bulk transfer and report the byte count actually moved;
// short reads and zero-length-packet (ZLP) reads (n==0, err==nil) are both
// legal and expected by Session.
type BulkEndpoint interface {
	Transfer(p []byte, timeout time.Duration) (int, error)
}

// USBInterface is the claimed PTP still-image-class interface a Session is
// opened on: a bulk-in/bulk-out endpoint pair, released on Close. Any
// interrupt-in endpoint the underlying device exposes is out of scope here —
// it is resolved by the concrete binding but never consumed by Session, per
// the event non-goal.
type USBInterface interface {
	InEndpoint() BulkEndpoint
	OutEndpoint() BulkEndpoint
	Close() error
}
