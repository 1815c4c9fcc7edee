package history

import (
	"math/rand"
	"testing"

	"github.com/urbanfleet/ridepool/core/model"
)

func req(id int) model.Request { return model.Request{ID: id} }

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing(3)
	r.Push(req(1), req(2), req(3))
	if r.Len() != 3 {
		t.Fatalf("expected len 3, got %d", r.Len())
	}

	r.Push(req(4), req(5))
	if r.Len() != 3 {
		t.Fatalf("expected len 3 after overflow, got %d", r.Len())
	}
	want := []int{3, 4, 5}
	for i, id := range want {
		if got := r.At(i).ID; got != id {
			t.Fatalf("position %d: expected request %d, got %d", i, id, got)
		}
	}
}

func TestRingSample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	empty := NewRing(4)
	if _, ok := empty.Sample(rng); ok {
		t.Fatalf("sampling an empty ring must report false")
	}

	r := NewRing(4)
	r.Push(req(10), req(11))
	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		got, ok := r.Sample(rng)
		if !ok {
			t.Fatalf("sample %d failed", i)
		}
		if got.ID != 10 && got.ID != 11 {
			t.Fatalf("sampled unknown request %d", got.ID)
		}
		seen[got.ID] = true
	}
	if !seen[10] || !seen[11] {
		t.Fatalf("100 samples never covered both entries: %v", seen)
	}
}

func TestRingZeroCapacity(t *testing.T) {
	r := NewRing(0)
	r.Push(req(1), req(2))
	if r.Len() != 1 {
		t.Fatalf("expected len 1, got %d", r.Len())
	}
	if r.At(0).ID != 2 {
		t.Fatalf("expected newest request to survive, got %d", r.At(0).ID)
	}
}
