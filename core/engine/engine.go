package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/urbanfleet/ridepool/core/actiongen"
	"github.com/urbanfleet/ridepool/core/dispatch"
	"github.com/urbanfleet/ridepool/core/logger"
	coremetrics "github.com/urbanfleet/ridepool/core/metrics"
	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/motion"
	"github.com/urbanfleet/ridepool/core/value"
	"github.com/urbanfleet/ridepool/internal/eventbus"
)

// Engine runs the per-epoch decision cycle: enumerate candidate actions per
// vehicle, score them, resolve one globally consistent action per vehicle,
// validate and commit the chosen paths, then advance the fleet through time.
// The phases are strictly sequential; only candidate generation and scoring
// fan out across vehicles, gathered back in vehicle-index order before the
// selector runs.
type Engine struct {
	Generator actiongen.Generator
	Estimator value.Estimator
	Selector  *dispatch.Selector
	Validator *dispatch.Validator
	Motion    *motion.Simulator
	Metrics   coremetrics.MetricsSink
	Bus       eventbus.EventBus
	Log       logger.Logger
	Training  bool

	RunID string
	epoch int
	now   float64
}

// New assembles an engine. Metrics, bus and log may be nil.
func New(gen actiongen.Generator, est value.Estimator, sel *dispatch.Selector, val *dispatch.Validator, mot *motion.Simulator, sink coremetrics.MetricsSink, bus eventbus.EventBus, log logger.Logger, training bool) *Engine {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{
		Generator: gen,
		Estimator: est,
		Selector:  sel,
		Validator: val,
		Motion:    mot,
		Metrics:   sink,
		Bus:       bus,
		Log:       log,
		Training:  training,
		RunID:     uuid.NewString(),
	}
}

// Now returns the current simulation time.
func (e *Engine) Now() float64 { return e.now }

// RunEpoch executes one decision epoch starting at time `at` with the given
// new requests, then simulates motion until the next epoch.
func (e *Engine) RunEpoch(ctx context.Context, vehicles []*model.Vehicle, requests []model.Request, at float64) (coremetrics.EpochStats, error) {
	if err := ctx.Err(); err != nil {
		return coremetrics.EpochStats{}, err
	}
	e.now = at

	scored, err := e.scoreCandidates(vehicles, requests)
	if err != nil {
		return coremetrics.EpochStats{}, err
	}

	selection, err := e.Selector.Select(scored, e.Training)
	if err != nil {
		return coremetrics.EpochStats{}, err
	}

	stats := coremetrics.EpochStats{
		Epoch:       e.epoch,
		Time:        e.now,
		NewRequests: len(requests),
	}
	events := make([]coremetrics.AssignmentEvent, 0, len(vehicles))
	for i, v := range vehicles {
		idx := selection.Chosen[i]
		if idx == -1 {
			idx = 0 // candidate sets always lead with the no-op
		}
		act := scored[i][idx].Action

		// A committed action must pass validation; the candidates were
		// validated at construction, so a failure here is a contract
		// breach between the generator and the selector.
		if err := e.commit(v, act); err != nil {
			return coremetrics.EpochStats{}, fmt.Errorf("engine: vehicle %d: committed action invalid: %w", v.ID, err)
		}

		reward := act.Reward()
		stats.Reward += reward
		stats.Served += len(act.Requests)
		events = append(events, coremetrics.AssignmentEvent{
			RunID:     e.RunID,
			Epoch:     e.epoch,
			VehicleID: v.ID,
			Requests:  len(act.Requests),
			Score:     selection.Scores[i],
			Reward:    reward,
		})
	}

	if err := e.Motion.SimulateEpoch(vehicles, requests); err != nil {
		return coremetrics.EpochStats{}, err
	}
	stats.IdleVehicles = lo.CountBy(vehicles, func(v *model.Vehicle) bool {
		return v.Path.IsEmpty()
	})

	if err := e.Metrics.RecordEpoch(stats); err != nil {
		e.Log.Warnf("record epoch metrics: %v", err)
	}
	if err := e.Metrics.RecordAssignments(events); err != nil {
		e.Log.Warnf("record assignment metrics: %v", err)
	}
	if e.Bus != nil {
		e.Bus.Publish(eventbus.EpochCompleted{
			RunID:  e.RunID,
			Epoch:  e.epoch,
			Time:   e.now,
			Reward: stats.Reward,
			Served: stats.Served,
		})
	}

	e.epoch++
	return stats, nil
}

// scoreCandidates fans candidate generation and scoring out across vehicles
// and gathers the results in vehicle-index order.
func (e *Engine) scoreCandidates(vehicles []*model.Vehicle, requests []model.Request) ([][]dispatch.ScoredAction, error) {
	scored := make([][]dispatch.ScoredAction, len(vehicles))
	errs := make([]error, len(vehicles))

	var wg sync.WaitGroup
	for i, v := range vehicles {
		wg.Add(1)
		go func(i int, v *model.Vehicle) {
			defer wg.Done()
			actions, err := e.Generator.Candidates(v, requests, e.now)
			if err != nil {
				errs[i] = err
				return
			}
			scores := e.Estimator.Score(v, actions, e.now)
			if len(scores) != len(actions) {
				errs[i] = fmt.Errorf("engine: estimator returned %d scores for %d actions", len(scores), len(actions))
				return
			}
			scored[i] = make([]dispatch.ScoredAction, len(actions))
			for j, a := range actions {
				scored[i][j] = dispatch.ScoredAction{Action: a, Score: scores[j]}
			}
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scored, nil
}

// commit validates the action's path against the vehicle's position and
// replaces the committed plan. The live path is untouched on failure.
func (e *Engine) commit(v *model.Vehicle, act model.Action) error {
	committed := v.Path
	v.Path = act.NewPath
	if err := e.Validator.Validate(v, e.now); err != nil {
		v.Path = committed
		return err
	}
	return nil
}
