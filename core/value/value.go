package value

import (
	"github.com/samber/lo"

	"github.com/urbanfleet/ridepool/core/model"
)

// Estimator scores candidate actions for one vehicle. Implementations must
// be order-preserving: one score per candidate, in candidate order. The
// learned estimator lives outside this module; the variants here are the
// closed-form scorers used for baselines and tests.
type Estimator interface {
	Score(vehicle *model.Vehicle, actions []model.Action, now float64) []float64
}

// ImmediateReward scores an action by the summed value of its newly served
// requests, ignoring future consequences.
type ImmediateReward struct{}

func (ImmediateReward) Score(_ *model.Vehicle, actions []model.Action, _ float64) []float64 {
	return lo.Map(actions, func(a model.Action, _ int) float64 {
		return a.Reward()
	})
}

// RewardPlusDelay adds a small bonus proportional to the candidate path's
// remaining deadline slack, preferring plans that keep room to absorb future
// requests. The path's TotalDelay must have been computed by a validation
// pass before scoring.
type RewardPlusDelay struct {
	DelayCoefficient float64
}

// NewRewardPlusDelay returns the scorer with the default coefficient.
func NewRewardPlusDelay() RewardPlusDelay {
	return RewardPlusDelay{DelayCoefficient: 1e-3}
}

func (s RewardPlusDelay) Score(_ *model.Vehicle, actions []model.Action, _ float64) []float64 {
	return lo.Map(actions, func(a model.Action, _ int) float64 {
		return a.Reward() + s.DelayCoefficient*a.NewPath.TotalDelay
	})
}
