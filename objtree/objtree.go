// Package objtree walks a device's object store into a flat list of
// slash-separated paths. It is a thin client of Session.GetObjectHandles and
// Session.GetObjectInfo — it never touches the codec or container layers
// directly, per the core/external-collaborator split the transaction engine
// is built around.
package objtree

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/usbptp/goptp/ptp"
)

// associationGenericFolder is the PTP association type marking an object as
// a folder whose children are fetched with it as the parent handle.
const associationGenericFolder = 0x0001

// Node is one object discovered by Walk: its full path from the storage
// root, its handle, and its decoded metadata.
type Node struct {
	Path   string
	Handle uint32
	Info   ptp.ObjectInfo
}

type queueItem struct {
	prefix string
	handle uint32
}

// DefaultRate is a requests-per-second figure for building the limiter passed
// to WalkRateLimited (rate.NewLimiter(DefaultRate, DefaultRate)): 15
// transactions/sec, the same figure the teacher's module address scan uses
// against an equally chatty embedded responder. Neither Walk nor
// WalkRateLimited applies it on its own; without a limiter they do no pacing.
const DefaultRate = 15

// Walk performs a breadth-first traversal of storageID's object tree,
// starting from the storage root, and returns every object found with its
// path built from ObjectInfo.Filename at each level. A GetObjectHandles or
// GetObjectInfo failure aborts the walk and returns that error; partial
// results up to that point are discarded rather than returned silently
// incomplete. Walk issues one GetObjectHandles/GetObjectInfo call per object
// with no pacing; use WalkRateLimited against devices that choke on a burst
// of back-to-back transactions.
func Walk(s *ptp.Session, storageID uint32, timeout time.Duration) ([]Node, error) {
	return walk(s, storageID, timeout, nil)
}

// WalkRateLimited is Walk, but paces every GetObjectHandles/GetObjectInfo
// call through limiter.Wait first, mirroring the teacher's AddressScan loop
// (rate.NewLimiter(15, 15) before each probe of a module address) so a large
// object store can be traversed without overrunning a slow responder's
// command queue. A nil limiter behaves exactly like Walk.
func WalkRateLimited(ctx context.Context, s *ptp.Session, storageID uint32, timeout time.Duration, limiter *rate.Limiter) ([]Node, error) {
	return walk(s, storageID, timeout, func() error {
		if limiter == nil {
			return nil
		}
		return limiter.Wait(ctx)
	})
}

func walk(s *ptp.Session, storageID uint32, timeout time.Duration, pace func() error) ([]Node, error) {
	if pace == nil {
		pace = func() error { return nil }
	}

	if err := pace(); err != nil {
		return nil, err
	}
	roots, err := s.GetObjectHandles(storageID, 0, ptp.ParentRoot, timeout)
	if err != nil {
		return nil, err
	}

	queue := make([]queueItem, 0, len(roots))
	for _, h := range roots {
		queue = append(queue, queueItem{handle: h})
	}

	var out []Node
	for len(queue) > 0 {
		level := queue
		queue = nil
		for _, item := range level {
			if err := pace(); err != nil {
				return nil, err
			}
			info, err := s.GetObjectInfo(item.handle, timeout)
			if err != nil {
				return nil, err
			}
			path := info.Filename
			if item.prefix != "" {
				path = item.prefix + "/" + info.Filename
			}
			out = append(out, Node{Path: path, Handle: item.handle, Info: info})

			if info.AssociationType != associationGenericFolder {
				continue
			}
			if err := pace(); err != nil {
				return nil, err
			}
			children, err := s.GetObjectHandles(storageID, 0, item.handle, timeout)
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				queue = append(queue, queueItem{prefix: path, handle: c})
			}
		}
	}
	return out, nil
}
