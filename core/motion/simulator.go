package motion

import (
	"math/rand"

	"github.com/urbanfleet/ridepool/core/dispatch"
	"github.com/urbanfleet/ridepool/core/history"
	"github.com/urbanfleet/ridepool/core/logger"
	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/travel"
)

// Simulator advances the fleet through discrete epochs along shortest paths,
// consuming stops off each vehicle's committed path as locations are reached.
// Vehicles that exhaust their path with time to spare are rebalanced toward
// targets sampled from the recent-request history.
type Simulator struct {
	Oracle      travel.Oracle
	EpochLength float64
	History     *history.Ring
	Rebalancer  *dispatch.Rebalancer
	Log         logger.Logger
	Rng         *rand.Rand
}

// NewSimulator wires a simulator over the given oracle and history ring.
func NewSimulator(oracle travel.Oracle, epochLength float64, hist *history.Ring, log logger.Logger, rng *rand.Rand) *Simulator {
	if log == nil {
		log = logger.Nop{}
	}
	return &Simulator{
		Oracle:      oracle,
		EpochLength: epochLength,
		History:     hist,
		Rebalancer:  dispatch.NewRebalancer(oracle),
		Log:         log,
		Rng:         rng,
	}
}

// Advance moves one vehicle for up to budget time units and returns the
// unused budget. Zero or negative means the vehicle was busy the whole
// window; positive means it exhausted its path with spare time. When the
// epoch ends mid-hop, TimeToNextLocation is reduced by the exact overrun so
// the position stays consistent.
func (s *Simulator) Advance(v *model.Vehicle, budget float64) (float64, error) {
	for budget >= 0 {
		budget -= v.Position.TimeToNextLocation

		if budget < 0 {
			// Still mid-hop at epoch end: keep driving down this road.
			v.Position.TimeToNextLocation = -budget
			break
		}
		// The hop is spent; clear it so a later call does not pay it again.
		v.Position.TimeToNextLocation = 0

		// Reached an intersection. Consume the head stop if this is it.
		if next, ok := v.Path.NextLocation(); ok && next == v.Position.NextLocation {
			if err := v.Path.VisitNextLocation(); err != nil {
				return budget, err
			}
		}

		if v.Path.IsEmpty() {
			break
		}
		target, _ := v.Path.NextLocation()
		hop := s.Oracle.NextHop(v.Position.NextLocation, target)
		v.Position.TimeToNextLocation = s.Oracle.TravelTime(v.Position.NextLocation, hop)
		v.Position.NextLocation = hop
	}
	return budget, nil
}

// SimulateEpoch advances every vehicle by one epoch, feeds the new requests
// into the history ring and rebalances vehicles left with spare time.
func (s *Simulator) SimulateEpoch(vehicles []*model.Vehicle, newRequests []model.Request) error {
	type idleVehicle struct {
		v     *model.Vehicle
		spare float64
	}
	var idle []idleVehicle
	for _, v := range vehicles {
		spare, err := s.Advance(v, s.EpochLength)
		if err != nil {
			return err
		}
		if spare > 0 {
			idle = append(idle, idleVehicle{v: v, spare: spare})
		}
	}

	s.History.Push(newRequests...)

	if len(idle) == 0 {
		return nil
	}
	if s.History.Len() == 0 {
		s.Log.Warnf("%d idle vehicles but empty request history, skipping rebalancing", len(idle))
		return nil
	}

	// Targets are only directions to drive toward, so sampling with
	// replacement is fine: two vehicles may head the same way.
	targets := make([]model.Request, len(idle))
	for i := range targets {
		targets[i], _ = s.History.Sample(s.Rng)
	}
	idleVehicles := make([]*model.Vehicle, len(idle))
	for i, iv := range idle {
		idleVehicles[i] = iv.v
	}
	assigned, err := s.Rebalancer.Assign(idleVehicles, targets)
	if err != nil {
		return err
	}

	for i, iv := range idle {
		if err := s.probeToward(iv.v, assigned[i], iv.spare); err != nil {
			return err
		}
	}
	return nil
}

// probeToward drives the vehicle toward the target's pickup location for the
// remaining budget using a throwaway one-stop path. The committed path is
// restored afterwards; the probe never leaks into persisted state.
func (s *Simulator) probeToward(v *model.Vehicle, target model.Request, budget float64) error {
	committed := v.Path

	probe := model.NewPath()
	probe.Requests = append(probe.Requests, model.RequestInfo{Request: target})
	probe.Nodes = append(probe.Nodes, model.PathNode{RequestIdx: 0})

	v.Path = probe
	_, err := s.Advance(v, budget)
	v.Path = committed
	return err
}
