package ptp

import (
	"fmt"
	"log"
	"time"
)

// CHUNKSize is the maximum number of bytes written to the bulk-out endpoint
// in a single transfer when sending outbound data (spec §4.5). It must be a
// multiple of the endpoint's max packet size; callers configuring a
// USBInterface are responsible for that invariant.
const CHUNKSize = 1 << 20 // 1 MiB

// scratchSize is the size of the first bulk read of each container. The
// buffer is allocated afresh on every readContainer call; the Session does
// not keep one to reuse across transactions. 8 KiB is ample for control
// payloads (descriptors, handle lists); GetObject
// and GetPartialObject payloads simply take more iterations of the read
// loop below.
const scratchSize = 8 * 1024

// defaultMaxPacketSize is used when Open is not given an explicit one. 512
// is the USB 2.0 high-speed bulk endpoint max packet size, the common case
// for still-image class devices.
const defaultMaxPacketSize = 512

// Verbose gates the session's diagnostic logging (mismatched-tid containers,
// ZLP handling). Off by default; set true for protocol-level debugging.
var Verbose bool

func logf(format string, args ...interface{}) {
	if Verbose {
		log.Printf(format, args...)
	}
}

// Stats carries diagnostic counters accumulated over a Session's lifetime.
type Stats struct {
	// UnexpectedTID counts containers discarded because their transaction id
	// did not match the in-flight transaction (spec §7).
	UnexpectedTID int
}

// Session is the transaction engine of spec §4.5: a single-threaded PTP
// command/data/response state machine layered on a claimed USBInterface.
// A Session must not be used from more than one goroutine concurrently.
type Session struct {
	iface          USBInterface
	nextTID        uint32
	maxPacketSize  int
	stats          Stats
}

// Option configures a Session at Open time.
type Option func(*Session)

// WithMaxPacketSize overrides the bulk endpoint max packet size used to
// detect a pending zero-length packet on chunked reads.
func WithMaxPacketSize(n int) Option {
	return func(s *Session) { s.maxPacketSize = n }
}

// Open binds a Session to an already-claimed USB interface. next_tid starts
// at zero.
func Open(iface USBInterface, opts ...Option) *Session {
	s := &Session{iface: iface, maxPacketSize: defaultMaxPacketSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns a snapshot of the session's diagnostic counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Close issues CloseSession and releases the underlying USB interface. Per
// spec §4.5, a transport failure mid-transaction leaves the session
// indeterminate; Close should still be called to release the interface, but
// the CloseSession response is best-effort.
func (s *Session) Close(timeout time.Duration) error {
	_, cmdErr := s.Command(OpCloseSession, nil, nil, timeout)
	closeErr := s.iface.Close()
	if cmdErr != nil {
		return cmdErr
	}
	return closeErr
}

// Disconnect releases the USB interface without attempting CloseSession,
// for use when the responder is already known to be gone (I/O error, device
// unplugged) and a graceful CloseSession round-trip would only time out.
func (s *Session) Disconnect() error {
	return s.iface.Close()
}

func (s *Session) writeChunked(full []byte, timeout time.Duration) error {
	out := s.iface.OutEndpoint()
	for offset := 0; offset < len(full); offset += CHUNKSize {
		end := offset + CHUNKSize
		if end > len(full) {
			end = len(full)
		}
		chunk := full[offset:end]
		n, err := out.Transfer(chunk, timeout)
		if err != nil {
			return &TransportError{Cause: err}
		}
		if n != len(chunk) {
			return &TransportError{Cause: fmt.Errorf("short write: wrote %d of %d bytes", n, len(chunk))}
		}
	}
	return nil
}

// readContainer performs one chunked read of a complete container from the
// bulk-in endpoint, handling the zero-length-packet terminator per spec
// §4.5.
func (s *Session) readContainer(timeout time.Duration) (ContainerHeader, []byte, error) {
	in := s.iface.InEndpoint()
	scratch := make([]byte, scratchSize)
	n, err := in.Transfer(scratch, timeout)
	if err != nil {
		return ContainerHeader{}, nil, &TransportError{Cause: err}
	}
	if n < headerSize {
		return ContainerHeader{}, nil, malformed("short container read: got %d bytes, need at least %d", n, headerSize)
	}
	hdr, err := ParseContainerHeader(scratch[:n])
	if err != nil {
		return ContainerHeader{}, nil, err
	}
	payloadLen := int(hdr.Length) - headerSize
	firstReadFull := n == len(scratch)

	payload := make([]byte, 0, payloadLen+1)
	payload = append(payload, scratch[headerSize:n]...)
	for len(payload) < payloadLen {
		buf := make([]byte, scratchSize)
		m, err := in.Transfer(buf, timeout)
		if err != nil {
			return ContainerHeader{}, nil, &TransportError{Cause: err}
		}
		payload = append(payload, buf[:m]...)
	}

	if firstReadFull && s.maxPacketSize > 0 && payloadLen%s.maxPacketSize == 0 {
		zlp := make([]byte, s.maxPacketSize)
		if _, err := in.Transfer(zlp, timeout); err != nil {
			return ContainerHeader{}, nil, &TransportError{Cause: err}
		}
		logf("ptp: consumed trailing ZLP after %d byte payload", payloadLen)
	}

	return hdr, payload[:payloadLen], nil
}

// Command executes one PTP transaction: Command, optional Data-out,
// [Data-in], Response (spec §4.5). params is at most 5 u32 parameters.
// dataOut, if non-nil, is sent as the Data-out phase. The returned bytes are
// the Data-in payload, or nil if the responder sent none. A non-OK Response
// is returned as a *ResponderError; the Data-in payload, if any, is
// discarded in that case.
func (s *Session) Command(code uint16, params []uint32, dataOut []byte, timeout time.Duration) ([]byte, error) {
	tid := s.nextTID
	s.nextTID++

	paramsW := NewWriter(4 * len(params))
	for _, p := range params {
		paramsW.WriteU32(p)
	}
	cmdContainer := WriteContainer(ContainerCommand, code, tid, paramsW.Bytes())
	if err := s.writeChunked(cmdContainer, timeout); err != nil {
		return nil, err
	}

	if dataOut != nil {
		dataContainer := WriteContainer(ContainerData, code, tid, dataOut)
		if err := s.writeChunked(dataContainer, timeout); err != nil {
			return nil, err
		}
	}

	var inbound []byte
	for {
		hdr, payload, err := s.readContainer(timeout)
		if err != nil {
			return nil, err
		}
		if hdr.TID != tid {
			s.stats.UnexpectedTID++
			logf("ptp: discarding container with unexpected tid %d (want %d)", hdr.TID, tid)
			continue
		}
		switch hdr.Kind {
		case ContainerData:
			inbound = payload
			continue
		case ContainerResponse:
			if hdr.Code != ResponseOK {
				return nil, &ResponderError{Code: hdr.Code}
			}
			return inbound, nil
		default:
			// Event or anything else: not part of this transaction.
			continue
		}
	}
}
