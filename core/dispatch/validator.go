package dispatch

import (
	"github.com/urbanfleet/ridepool/core/logger"
	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/travel"
)

// Validator walks a vehicle's planned stop sequence and enforces the deadline
// and capacity invariants. On success it overwrites each node's
// ExpectedVisitTime and CurrentCapacity with freshly computed values and the
// path's TotalDelay; on failure the path is left as found and the caller must
// not commit it.
type Validator struct {
	Oracle      travel.Oracle
	MaxCapacity int
	Log         logger.Logger
}

// NewValidator builds a validator. A nil log falls back to a no-op logger.
func NewValidator(oracle travel.Oracle, maxCapacity int, log logger.Logger) *Validator {
	if log == nil {
		log = logger.Nop{}
	}
	return &Validator{Oracle: oracle, MaxCapacity: maxCapacity, Log: log}
}

// Validate checks the vehicle's path starting from its current physical
// position at the given time. Stale bookkeeping on a node is not a failure:
// the recomputation is authoritative, the divergence is logged at warning
// level and the node overwritten.
func (val *Validator) Validate(v *model.Vehicle, now float64) error {
	path := v.Path
	if !path.IsComplete() {
		return ErrIncompletePath
	}

	currentTime := now + v.Position.TimeToNextLocation
	currentLocation := v.Position.NextLocation
	currentCapacity := path.CurrentCapacity

	var totalDelay float64
	for idx := range path.Nodes {
		node := &path.Nodes[idx]
		target, deadline, err := path.GetInfo(*node)
		if err != nil {
			return err
		}

		travelTime := val.Oracle.TravelTime(currentLocation, target)
		if currentTime+travelTime > deadline {
			return &DeadlineViolationError{Node: idx, Arrival: currentTime + travelTime, Deadline: deadline}
		}
		currentTime += travelTime
		currentLocation = target

		if node.ExpectedVisitTime != currentTime {
			val.Log.Warnf("vehicle %d: visit time drifted at node %d: had %.1f, recomputed %.1f", v.ID, idx, node.ExpectedVisitTime, currentTime)
			node.ExpectedVisitTime = currentTime
		}

		if node.IsDropoff {
			totalDelay += deadline - node.ExpectedVisitTime
		}

		if currentCapacity > val.MaxCapacity {
			return &CapacityOverflowError{Node: idx, Occupancy: currentCapacity, Max: val.MaxCapacity}
		}
		next := currentCapacity + 1
		if node.IsDropoff {
			next = currentCapacity - 1
		}
		if next < 0 {
			return &CapacityOverflowError{Node: idx, Occupancy: next, Max: val.MaxCapacity}
		}
		if node.CurrentCapacity != next {
			val.Log.Warnf("vehicle %d: capacity drifted at node %d: had %d, recomputed %d", v.ID, idx, node.CurrentCapacity, next)
			node.CurrentCapacity = next
		}
		currentCapacity = node.CurrentCapacity
	}

	path.TotalDelay = totalDelay
	return nil
}
