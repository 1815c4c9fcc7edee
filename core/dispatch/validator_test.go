package dispatch

import (
	"errors"
	"testing"

	"github.com/urbanfleet/ridepool/core/model"
)

// lineOracle places locations on a line: travel time is the index distance,
// optionally overridden per pair, and the next hop moves one step toward the
// destination.
type lineOracle struct {
	override map[[2]model.Location]float64
}

func (o lineOracle) TravelTime(a, b model.Location) float64 {
	if v, ok := o.override[[2]model.Location{a, b}]; ok {
		return v
	}
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

func (o lineOracle) NextHop(a, b model.Location) model.Location {
	switch {
	case a < b:
		return a + 1
	case a > b:
		return a - 1
	default:
		return a
	}
}

func testRequest(id int, src, dst model.Location, pickupDeadline, dropoffDeadline float64) model.Request {
	return model.Request{
		ID:              id,
		Source:          src,
		Destination:     dst,
		Value:           1,
		PickupDeadline:  pickupDeadline,
		DropoffDeadline: dropoffDeadline,
	}
}

func pathFor(reqs ...model.Request) *model.Path {
	p := model.NewPath()
	for _, r := range reqs {
		p.Append(r, true)
	}
	return p
}

func TestValidatorDeadlineViolationAtDropoff(t *testing.T) {
	// Pickup reachable at t=40 against deadline 50, dropoff reached at
	// t=210 against deadline 200: the failure must name the dropoff node.
	oracle := lineOracle{override: map[[2]model.Location]float64{
		{0, 1}: 40,
		{1, 2}: 170,
	}}
	v := model.NewVehicle(0, 0)
	v.Path = pathFor(testRequest(1, 1, 2, 50, 200))

	val := NewValidator(oracle, 4, nil)
	err := val.Validate(v, 0)
	var dve *DeadlineViolationError
	if !errors.As(err, &dve) {
		t.Fatalf("expected DeadlineViolationError, got %v", err)
	}
	if dve.Node != 1 {
		t.Fatalf("expected violation at node 1, got %d", dve.Node)
	}
}

func TestValidatorCapacityOverflow(t *testing.T) {
	oracle := lineOracle{}
	v := model.NewVehicle(0, 0)
	r1 := testRequest(1, 1, 10, 1000, 2000)
	r2 := testRequest(2, 2, 11, 1000, 2000)
	p := model.NewPath()
	p.Requests = []model.RequestInfo{
		{Request: r1, Assigned: true},
		{Request: r2, Assigned: true},
	}
	p.Nodes = []model.PathNode{
		{IsDropoff: false, RequestIdx: 0},
		{IsDropoff: false, RequestIdx: 1},
		{IsDropoff: true, RequestIdx: 0},
		{IsDropoff: true, RequestIdx: 1},
	}
	v.Path = p

	val := NewValidator(oracle, 1, nil)
	err := val.Validate(v, 0)
	var coe *CapacityOverflowError
	if !errors.As(err, &coe) {
		t.Fatalf("expected CapacityOverflowError, got %v", err)
	}
	if coe.Node != 2 {
		t.Fatalf("expected overflow reported at node 2, got %d", coe.Node)
	}
}

func TestValidatorIncompletePath(t *testing.T) {
	oracle := lineOracle{}
	v := model.NewVehicle(0, 0)
	p := model.NewPath()
	p.Requests = []model.RequestInfo{{Request: testRequest(1, 1, 2, 100, 200), Assigned: true}}
	p.Nodes = []model.PathNode{{IsDropoff: false, RequestIdx: 0}} // dropoff missing
	v.Path = p

	val := NewValidator(oracle, 4, nil)
	if err := val.Validate(v, 0); !errors.Is(err, ErrIncompletePath) {
		t.Fatalf("expected ErrIncompletePath, got %v", err)
	}
}

func TestValidatorComputesDelayAndIsIdempotent(t *testing.T) {
	oracle := lineOracle{}
	v := model.NewVehicle(0, 0)
	// Pickup at 1 (arrival 1), dropoff at 3 (arrival 3), deadline 103.
	v.Path = pathFor(testRequest(1, 1, 3, 100, 103))

	val := NewValidator(oracle, 4, nil)
	if err := val.Validate(v, 0); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if v.Path.TotalDelay != 100 {
		t.Fatalf("expected total delay 100, got %v", v.Path.TotalDelay)
	}
	firstNodes := append([]model.PathNode(nil), v.Path.Nodes...)

	if err := val.Validate(v, 0); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if v.Path.TotalDelay != 100 {
		t.Fatalf("delay changed on revalidation: %v", v.Path.TotalDelay)
	}
	for i, n := range v.Path.Nodes {
		if n != firstNodes[i] {
			t.Fatalf("node %d changed on revalidation: %+v vs %+v", i, n, firstNodes[i])
		}
	}
}

func TestValidatorOverwritesStaleBookkeeping(t *testing.T) {
	oracle := lineOracle{}
	v := model.NewVehicle(0, 0)
	v.Path = pathFor(testRequest(1, 1, 3, 100, 103))
	v.Path.Nodes[0].ExpectedVisitTime = 99 // drifted
	v.Path.Nodes[1].CurrentCapacity = 7    // drifted

	val := NewValidator(oracle, 4, nil)
	if err := val.Validate(v, 0); err != nil {
		t.Fatalf("drifted bookkeeping must not fail validation: %v", err)
	}
	if v.Path.Nodes[0].ExpectedVisitTime != 1 {
		t.Fatalf("expected visit time corrected to 1, got %v", v.Path.Nodes[0].ExpectedVisitTime)
	}
	if v.Path.Nodes[1].CurrentCapacity != 0 {
		t.Fatalf("expected capacity corrected to 0, got %d", v.Path.Nodes[1].CurrentCapacity)
	}
}

func TestValidatorStartsFromPosition(t *testing.T) {
	// The walk starts at current time plus the remaining hop time.
	oracle := lineOracle{}
	v := model.NewVehicle(0, 0)
	v.Position.TimeToNextLocation = 60
	v.Path = pathFor(testRequest(1, 1, 3, 50, 200))

	val := NewValidator(oracle, 4, nil)
	err := val.Validate(v, 0)
	var dve *DeadlineViolationError
	if !errors.As(err, &dve) {
		t.Fatalf("expected pickup deadline violation, got %v", err)
	}
	if dve.Node != 0 {
		t.Fatalf("expected violation at node 0, got %d", dve.Node)
	}
}
