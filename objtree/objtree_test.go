package objtree

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/usbptp/goptp/ptp"
)

// fakeEndpoint is a scripted ptp.BulkEndpoint: an "out" endpoint discards
// whatever it is handed (objtree tests only care about what comes back),
// an "in" endpoint replays a fixed sequence of pre-built containers, one
// per Transfer call.
type fakeEndpoint struct {
	isOut bool

	reads   [][]byte
	readIdx int
}

func (e *fakeEndpoint) Transfer(p []byte, timeout time.Duration) (int, error) {
	if e.isOut {
		return len(p), nil
	}
	if e.readIdx >= len(e.reads) {
		return 0, io.EOF
	}
	data := e.reads[e.readIdx]
	e.readIdx++
	return copy(p, data), nil
}

type fakeInterface struct {
	in, out *fakeEndpoint
}

func (f *fakeInterface) InEndpoint() ptp.BulkEndpoint  { return f.in }
func (f *fakeInterface) OutEndpoint() ptp.BulkEndpoint { return f.out }
func (f *fakeInterface) Close() error                  { return nil }

// transaction appends the (Data, Response) container pair for one
// successful PTP transaction at the given tid to reads.
func transaction(reads [][]byte, code uint16, tid uint32, dataPayload []byte) [][]byte {
	reads = append(reads, ptp.WriteContainer(ptp.ContainerData, code, tid, dataPayload))
	reads = append(reads, ptp.WriteContainer(ptp.ContainerResponse, ptp.ResponseOK, tid, nil))
	return reads
}

func u32Vec(vs ...uint32) []byte {
	w := ptp.NewWriter(0)
	w.WriteU32Vec(vs)
	return w.Bytes()
}

func TestWalkBFS(t *testing.T) {
	aJPG := ptp.ObjectInfo{Filename: "a.jpg", AssociationType: 0}
	subDir := ptp.ObjectInfo{Filename: "sub", AssociationType: associationGenericFolder}
	bJPG := ptp.ObjectInfo{Filename: "b.jpg", AssociationType: 0}

	var reads [][]byte
	reads = transaction(reads, ptp.OpGetObjectHandles, 0, u32Vec(1, 2)) // root listing
	reads = transaction(reads, ptp.OpGetObjectInfo, 1, aJPG.Encode())
	reads = transaction(reads, ptp.OpGetObjectInfo, 2, subDir.Encode())
	reads = transaction(reads, ptp.OpGetObjectHandles, 3, u32Vec(3)) // sub's children
	reads = transaction(reads, ptp.OpGetObjectInfo, 4, bJPG.Encode())

	iface := &fakeInterface{
		in:  &fakeEndpoint{reads: reads},
		out: &fakeEndpoint{isOut: true},
	}
	sess := ptp.Open(iface)

	nodes, err := Walk(sess, 0x00010001, time.Second)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []Node{
		{Path: "a.jpg", Handle: 1, Info: aJPG},
		{Path: "sub", Handle: 2, Info: subDir},
		{Path: "sub/b.jpg", Handle: 3, Info: bJPG},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Fatalf("got %+v, want %+v", nodes, want)
	}
}

func TestWalkEmptyStorage(t *testing.T) {
	var reads [][]byte
	reads = transaction(reads, ptp.OpGetObjectHandles, 0, u32Vec())

	iface := &fakeInterface{
		in:  &fakeEndpoint{reads: reads},
		out: &fakeEndpoint{isOut: true},
	}
	sess := ptp.Open(iface)

	nodes, err := Walk(sess, 0x00010001, time.Second)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("got %d nodes, want 0", len(nodes))
	}
}

func TestWalkRateLimitedMatchesWalk(t *testing.T) {
	aJPG := ptp.ObjectInfo{Filename: "a.jpg", AssociationType: 0}

	var reads [][]byte
	reads = transaction(reads, ptp.OpGetObjectHandles, 0, u32Vec(1))
	reads = transaction(reads, ptp.OpGetObjectInfo, 1, aJPG.Encode())

	iface := &fakeInterface{
		in:  &fakeEndpoint{reads: reads},
		out: &fakeEndpoint{isOut: true},
	}
	sess := ptp.Open(iface)

	limiter := rate.NewLimiter(rate.Inf, 0)
	nodes, err := WalkRateLimited(context.Background(), sess, 0x00010001, time.Second, limiter)
	if err != nil {
		t.Fatalf("WalkRateLimited: %v", err)
	}
	want := []Node{{Path: "a.jpg", Handle: 1, Info: aJPG}}
	if !reflect.DeepEqual(nodes, want) {
		t.Fatalf("got %+v, want %+v", nodes, want)
	}
}

func TestWalkRateLimitedNilLimiterBehavesLikeWalk(t *testing.T) {
	var reads [][]byte
	reads = transaction(reads, ptp.OpGetObjectHandles, 0, u32Vec())

	iface := &fakeInterface{
		in:  &fakeEndpoint{reads: reads},
		out: &fakeEndpoint{isOut: true},
	}
	sess := ptp.Open(iface)

	nodes, err := WalkRateLimited(context.Background(), sess, 0x00010001, time.Second, nil)
	if err != nil {
		t.Fatalf("WalkRateLimited: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("got %d nodes, want 0", len(nodes))
	}
}

func TestWalkPropagatesError(t *testing.T) {
	resp := ptp.WriteContainer(ptp.ContainerResponse, ptp.ResponseInvalidStorageID, 0, nil)
	iface := &fakeInterface{
		in:  &fakeEndpoint{reads: [][]byte{resp}},
		out: &fakeEndpoint{isOut: true},
	}
	sess := ptp.Open(iface)

	if _, err := Walk(sess, 0xDEADBEEF, time.Second); err == nil {
		t.Fatal("expected an error from a failing GetObjectHandles")
	}
}
