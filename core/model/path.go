package model

import (
	"errors"
	"fmt"
)

// ErrEmptyPath signals that a path operation requiring a head node was called
// on an empty visit order. It indicates a defect in the caller, not a
// recoverable runtime condition.
var ErrEmptyPath = errors.New("path: visit on empty visit order")

// PathNode is a single stop in a vehicle's plan. ExpectedVisitTime and
// CurrentCapacity are bookkeeping recomputed by the validator; they are not
// authoritative until a validation pass has overwritten them.
type PathNode struct {
	IsDropoff  bool
	RequestIdx int // index into the owning Path's Requests

	ExpectedVisitTime float64
	CurrentCapacity   int // occupancy immediately after this stop
}

// RequestInfo pairs a request with its serving state inside one path. The
// Assigned flag distinguishes committed requests from synthetic rebalancing
// targets.
type RequestInfo struct {
	Request  Request
	Assigned bool

	PickedUp   bool
	DroppedOff bool
}

// Path is the ordered stop sequence a vehicle commits to, plus the requests
// those stops serve. A node belongs to exactly one path.
type Path struct {
	Nodes    []PathNode
	Requests []RequestInfo

	// CurrentCapacity is the declared occupancy at the head of the path.
	CurrentCapacity int
	// TotalDelay is the aggregate dropoff slack computed by the last
	// validation pass. It is not authoritative between validations.
	TotalDelay float64
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// IsEmpty reports whether no stops remain in the visit order.
func (p *Path) IsEmpty() bool {
	return len(p.Nodes) == 0
}

// NextLocation returns the target location of the head node. The second
// return value is false when the visit order is empty.
func (p *Path) NextLocation() (Location, bool) {
	if p.IsEmpty() {
		return 0, false
	}
	loc, _, err := p.GetInfo(p.Nodes[0])
	if err != nil {
		return 0, false
	}
	return loc, true
}

// VisitNextLocation pops the head node and marks its request picked up or
// dropped off. The caller must have confirmed the vehicle is physically at
// the node's location.
func (p *Path) VisitNextLocation() error {
	if p.IsEmpty() {
		return ErrEmptyPath
	}
	node := p.Nodes[0]
	p.Nodes = p.Nodes[1:]
	if node.RequestIdx < 0 || node.RequestIdx >= len(p.Requests) {
		return fmt.Errorf("path: node references request %d of %d", node.RequestIdx, len(p.Requests))
	}
	if node.IsDropoff {
		p.Requests[node.RequestIdx].DroppedOff = true
	} else {
		p.Requests[node.RequestIdx].PickedUp = true
	}
	return nil
}

// GetInfo resolves a node to its target location and deadline through the
// owning RequestInfo: the source and pickup deadline for a pickup node, the
// destination and dropoff deadline for a dropoff node.
func (p *Path) GetInfo(node PathNode) (Location, float64, error) {
	if node.RequestIdx < 0 || node.RequestIdx >= len(p.Requests) {
		return 0, 0, fmt.Errorf("path: node references request %d of %d", node.RequestIdx, len(p.Requests))
	}
	req := p.Requests[node.RequestIdx].Request
	if node.IsDropoff {
		return req.Destination, req.DropoffDeadline, nil
	}
	return req.Source, req.PickupDeadline, nil
}

// IsComplete reports whether the path serves everything it holds: for every
// request, each unvisited stop is still scheduled exactly once, and a pending
// pickup precedes its dropoff. A path holding no requests is trivially
// complete.
func (p *Path) IsComplete() bool {
	type pending struct {
		pickups  int
		dropoffs int
		pickupAt int
		dropAt   int
	}
	seen := make([]pending, len(p.Requests))
	for i := range seen {
		seen[i].pickupAt = -1
		seen[i].dropAt = -1
	}
	for pos, node := range p.Nodes {
		if node.RequestIdx < 0 || node.RequestIdx >= len(p.Requests) {
			return false
		}
		s := &seen[node.RequestIdx]
		if node.IsDropoff {
			s.dropoffs++
			s.dropAt = pos
		} else {
			s.pickups++
			s.pickupAt = pos
		}
	}
	for i, info := range p.Requests {
		s := seen[i]
		wantPickups, wantDrops := 0, 0
		if !info.PickedUp {
			wantPickups = 1
		}
		if !info.DroppedOff {
			wantDrops = 1
		}
		if s.pickups != wantPickups || s.dropoffs != wantDrops {
			return false
		}
		if wantPickups == 1 && wantDrops == 1 && s.pickupAt >= s.dropAt {
			return false
		}
	}
	return true
}

// Clone deep-copies the path so candidate actions can be built without
// touching the committed plan.
func (p *Path) Clone() *Path {
	cp := &Path{
		Nodes:           append([]PathNode(nil), p.Nodes...),
		Requests:        append([]RequestInfo(nil), p.Requests...),
		CurrentCapacity: p.CurrentCapacity,
		TotalDelay:      p.TotalDelay,
	}
	return cp
}

// Append schedules a new request at the tail of the visit order as a pickup
// node followed by its dropoff node, and returns the request's index.
func (p *Path) Append(req Request, assigned bool) int {
	idx := len(p.Requests)
	p.Requests = append(p.Requests, RequestInfo{Request: req, Assigned: assigned})
	p.Nodes = append(p.Nodes,
		PathNode{IsDropoff: false, RequestIdx: idx},
		PathNode{IsDropoff: true, RequestIdx: idx},
	)
	return idx
}
