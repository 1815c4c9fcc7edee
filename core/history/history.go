package history

import (
	"math/rand"

	"github.com/urbanfleet/ridepool/core/model"
)

// Ring is a bounded FIFO of recently seen requests, used as the sampling pool
// for rebalancing targets. When full, the oldest entries are evicted first.
// It is owned by the simulation context and safe for the single-threaded
// epoch loop; concurrent use requires external serialization of writers
// against the sampler.
type Ring struct {
	buf  []model.Request
	head int
	size int
}

// NewRing creates a ring holding at most capacity requests.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{buf: make([]model.Request, capacity)}
}

// Push appends requests in order, evicting the oldest entries once full.
func (r *Ring) Push(reqs ...model.Request) {
	for _, req := range reqs {
		tail := (r.head + r.size) % len(r.buf)
		r.buf[tail] = req
		if r.size < len(r.buf) {
			r.size++
		} else {
			r.head = (r.head + 1) % len(r.buf)
		}
	}
}

// Len returns the number of stored requests.
func (r *Ring) Len() int { return r.size }

// At returns the i-th oldest stored request.
func (r *Ring) At(i int) model.Request {
	return r.buf[(r.head+i)%len(r.buf)]
}

// Sample returns a uniformly random stored request. The second return value
// is false when the ring is empty.
func (r *Ring) Sample(rng *rand.Rand) (model.Request, bool) {
	if r.size == 0 {
		return model.Request{}, false
	}
	return r.At(rng.Intn(r.size)), true
}
