package ptp

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// fakeEndpoint is a scripted BulkEndpoint: an "out" endpoint records every
// write it is handed, an "in" endpoint replays a fixed sequence of byte
// slices, one per Transfer call, the way a real USB bulk read returns
// whatever fit in that particular packet.
type fakeEndpoint struct {
	writes *[][]byte

	reads   [][]byte
	readIdx int
}

func (e *fakeEndpoint) Transfer(p []byte, timeout time.Duration) (int, error) {
	if e.writes != nil {
		buf := make([]byte, len(p))
		copy(buf, p)
		*e.writes = append(*e.writes, buf)
		return len(p), nil
	}
	if e.readIdx >= len(e.reads) {
		return 0, io.EOF
	}
	data := e.reads[e.readIdx]
	e.readIdx++
	n := copy(p, data)
	return n, nil
}

type fakeInterface struct {
	in, out *fakeEndpoint
	closed  bool
}

func (f *fakeInterface) InEndpoint() BulkEndpoint  { return f.in }
func (f *fakeInterface) OutEndpoint() BulkEndpoint { return f.out }
func (f *fakeInterface) Close() error              { f.closed = true; return nil }

func newFakeInterface(inReads [][]byte) (*fakeInterface, *[][]byte) {
	var writes [][]byte
	return &fakeInterface{
		in:  &fakeEndpoint{reads: inReads},
		out: &fakeEndpoint{writes: &writes},
	}, &writes
}

func TestGetStorageIDsHappyPath(t *testing.T) {
	dataPayload := []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00}
	dataContainer := WriteContainer(ContainerData, OpGetStorageIDs, 0, dataPayload)
	respContainer := WriteContainer(ContainerResponse, ResponseOK, 0, nil)

	iface, writes := newFakeInterface([][]byte{dataContainer, respContainer})
	s := Open(iface)

	ids, err := s.GetStorageIDs(time.Second)
	if err != nil {
		t.Fatalf("GetStorageIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != 0x00010001 {
		t.Fatalf("got %v, want [0x00010001]", ids)
	}

	if len(*writes) != 1 {
		t.Fatalf("got %d command writes, want 1", len(*writes))
	}
	wantCmd := []byte{0x0C, 0x00, 0x00, 0x00, 0x01, 0x00, 0x04, 0x10, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal((*writes)[0], wantCmd) {
		t.Fatalf("command write = % x, want % x", (*writes)[0], wantCmd)
	}

	if s.nextTID != 1 {
		t.Fatalf("nextTID = %d, want 1", s.nextTID)
	}
}

func TestTransactionIDsMonotonicallyIncrease(t *testing.T) {
	resp := func(tid uint32) []byte { return WriteContainer(ContainerResponse, ResponseOK, tid, nil) }

	iface, writes := newFakeInterface([][]byte{resp(0), resp(1), resp(2)})
	s := Open(iface)

	for want := uint32(0); want < 3; want++ {
		if _, err := s.Command(OpGetDeviceInfo, nil, nil, time.Second); err != nil {
			t.Fatalf("call %d: %v", want, err)
		}
	}
	if len(*writes) != 3 {
		t.Fatalf("got %d writes, want 3", len(*writes))
	}
	for i, w := range *writes {
		hdr, err := ParseContainerHeader(w)
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if hdr.TID != uint32(i) {
			t.Fatalf("write %d has tid %d, want %d", i, hdr.TID, i)
		}
	}
}

func TestStaleTIDContainerDiscarded(t *testing.T) {
	stale := WriteContainer(ContainerData, OpGetStorageIDs, 99, []byte{0xDE, 0xAD})
	data := WriteContainer(ContainerData, OpGetStorageIDs, 0, []byte{0x00, 0x00, 0x00, 0x00})
	resp := WriteContainer(ContainerResponse, ResponseOK, 0, nil)

	iface, _ := newFakeInterface([][]byte{stale, data, resp})
	s := Open(iface)

	got, err := s.Command(OpGetStorageIDs, nil, nil, time.Second)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
	if s.Stats().UnexpectedTID != 1 {
		t.Fatalf("UnexpectedTID = %d, want 1", s.Stats().UnexpectedTID)
	}
}

func TestResponderErrorPropagation(t *testing.T) {
	resp := WriteContainer(ContainerResponse, ResponseInvalidObjectHandle, 0, nil)
	iface, _ := newFakeInterface([][]byte{resp})
	s := Open(iface)

	_, err := s.Command(OpGetObjectInfo, []uint32{1}, nil, time.Second)
	if err == nil {
		t.Fatal("expected a ResponderError")
	}
	rerr, ok := err.(*ResponderError)
	if !ok {
		t.Fatalf("got %T, want *ResponderError", err)
	}
	if rerr.Code != ResponseInvalidObjectHandle {
		t.Fatalf("got code 0x%04x, want 0x%04x", rerr.Code, ResponseInvalidObjectHandle)
	}
}

func TestOversizedDataOutChunking(t *testing.T) {
	resp := WriteContainer(ContainerResponse, ResponseOK, 0, nil)
	iface, writes := newFakeInterface([][]byte{resp})
	s := Open(iface)

	dataOut := make([]byte, 3*CHUNKSize)
	if _, err := s.Command(OpSetDevicePropValue, []uint32{0x5003}, dataOut, time.Second); err != nil {
		t.Fatalf("Command: %v", err)
	}

	// first write is the Command container; the remaining four are the
	// chunked Data-out container.
	if len(*writes) != 5 {
		t.Fatalf("got %d writes, want 5 (1 command + 4 data chunks)", len(*writes))
	}
	chunkSizes := make([]int, 0, 4)
	for _, w := range (*writes)[1:] {
		chunkSizes = append(chunkSizes, len(w))
	}
	want := []int{CHUNKSize, CHUNKSize, CHUNKSize, headerSize}
	for i, got := range chunkSizes {
		if got != want[i] {
			t.Fatalf("chunk %d size = %d, want %d", i, got, want[i])
		}
	}
}

func TestChunkedReadZLPHandling(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 8192) // 16 * defaultMaxPacketSize(512)
	container := WriteContainer(ContainerData, OpGetObject, 0, payload)
	resp := WriteContainer(ContainerResponse, ResponseOK, 0, nil)

	first := container[:scratchSize] // fills the scratch buffer exactly
	second := container[scratchSize:]
	zlp := []byte{}

	iface, _ := newFakeInterface([][]byte{first, second, zlp, resp})
	s := Open(iface)

	got, err := s.Command(OpGetObject, []uint32{1}, nil, time.Second)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes, want %d bytes", len(got), len(payload))
	}
}

func TestChunkedReadReassemblesAcrossNReads(t *testing.T) {
	payload := bytes.Repeat([]byte{0x07}, 5000)
	container := WriteContainer(ContainerData, OpGetObject, 0, payload)
	resp := WriteContainer(ContainerResponse, ResponseOK, 0, nil)

	// split the container into small, uneven pieces to exercise the
	// multi-read reassembly loop regardless of N.
	var reads [][]byte
	for offset := 0; offset < len(container); offset += 777 {
		end := offset + 777
		if end > len(container) {
			end = len(container)
		}
		reads = append(reads, container[offset:end])
	}
	reads = append(reads, resp)

	iface, _ := newFakeInterface(reads)
	s := Open(iface)

	got, err := s.Command(OpGetObject, []uint32{1}, nil, time.Second)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes, want %d bytes", len(got), len(payload))
	}
}

func TestSessionCloseIssuesCloseSessionAndClosesInterface(t *testing.T) {
	resp := WriteContainer(ContainerResponse, ResponseOK, 0, nil)
	iface, writes := newFakeInterface([][]byte{resp})
	s := Open(iface)

	if err := s.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(*writes) != 1 {
		t.Fatalf("got %d writes, want 1 (CloseSession command)", len(*writes))
	}
	hdr, err := ParseContainerHeader((*writes)[0])
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Code != OpCloseSession {
		t.Fatalf("got code 0x%04x, want OpCloseSession", hdr.Code)
	}
	if !iface.closed {
		t.Fatal("Close did not close the USB interface")
	}
}
