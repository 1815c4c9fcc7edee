package dispatch

import (
	"errors"
	"fmt"
)

// ErrIncompletePath indicates the candidate path does not schedule every stop
// of every request it holds. The caller discards the candidate.
var ErrIncompletePath = errors.New("dispatch: incomplete path")

// ErrInfeasibleAssignment indicates the assignment program had no feasible
// solution. Construction guarantees make this unreachable, so surfacing it
// means an input-size invariant was broken. Fatal.
var ErrInfeasibleAssignment = errors.New("dispatch: infeasible assignment")

// DeadlineViolationError reports the first node whose computed arrival time
// exceeds its deadline.
type DeadlineViolationError struct {
	Node     int
	Arrival  float64
	Deadline float64
}

func (e *DeadlineViolationError) Error() string {
	return fmt.Sprintf("dispatch: deadline violated at node %d: arrival %.1f after %.1f", e.Node, e.Arrival, e.Deadline)
}

// CapacityOverflowError reports the first node at which running occupancy
// exceeds the vehicle's maximum capacity.
type CapacityOverflowError struct {
	Node      int
	Occupancy int
	Max       int
}

func (e *CapacityOverflowError) Error() string {
	return fmt.Sprintf("dispatch: capacity overflow at node %d: %d riders, max %d", e.Node, e.Occupancy, e.Max)
}
