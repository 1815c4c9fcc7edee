package actiongen

import (
	"errors"

	"github.com/urbanfleet/ridepool/core/dispatch"
	"github.com/urbanfleet/ridepool/core/model"
)

// Generator enumerates candidate actions for one vehicle given the epoch's
// new requests. Every candidate set includes the no-op action, so the
// dispatch layer can always fall back to keeping the current plan.
type Generator interface {
	Candidates(vehicle *model.Vehicle, requests []model.Request, now float64) ([]model.Action, error)
}

// InsertionGenerator is the builtin generator: besides the no-op it offers,
// per new request, the plan obtained by appending that request's pickup and
// dropoff to the tail of the current path, filtered through the feasibility
// validator. Full combinatorial enumeration over request subsets is left to
// external generators.
type InsertionGenerator struct {
	Validator *dispatch.Validator
}

// NewInsertionGenerator builds the generator over the given validator.
func NewInsertionGenerator(v *dispatch.Validator) *InsertionGenerator {
	return &InsertionGenerator{Validator: v}
}

func (g *InsertionGenerator) Candidates(vehicle *model.Vehicle, requests []model.Request, now float64) ([]model.Action, error) {
	noop := model.NoOp(vehicle)
	if err := g.validate(vehicle, noop.NewPath, now); err != nil {
		return nil, err
	}
	actions := []model.Action{noop}

	for _, req := range requests {
		path := vehicle.Path.Clone()
		path.Append(req, true)
		if err := g.validate(vehicle, path, now); err != nil {
			var deadline *dispatch.DeadlineViolationError
			var capacity *dispatch.CapacityOverflowError
			if errors.As(err, &deadline) || errors.As(err, &capacity) || errors.Is(err, dispatch.ErrIncompletePath) {
				continue // infeasible candidate, drop it
			}
			return nil, err
		}
		actions = append(actions, model.Action{Requests: []model.Request{req}, NewPath: path})
	}
	return actions, nil
}

// validate runs the feasibility check against a candidate path by swapping it
// in temporarily; the vehicle's committed path is untouched on return.
func (g *InsertionGenerator) validate(vehicle *model.Vehicle, candidate *model.Path, now float64) error {
	committed := vehicle.Path
	vehicle.Path = candidate
	err := g.Validator.Validate(vehicle, now)
	vehicle.Path = committed
	return err
}
