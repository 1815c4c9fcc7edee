package dispatch

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/travel"
)

// Rebalancer assigns idle vehicles to sampled demand targets by solving a
// square minimum-cost assignment program: one binary variable per
// vehicle-target pair, row and column sums equal to one, cost equal to the
// travel time from the vehicle's position to the target's pickup location.
// The assignment polytope has integral vertices, so the simplex solution is
// already 0/1 and needs no rounding beyond a threshold.
type Rebalancer struct {
	Oracle travel.Oracle
}

// NewRebalancer returns a rebalancer over the given travel oracle.
func NewRebalancer(oracle travel.Oracle) *Rebalancer {
	return &Rebalancer{Oracle: oracle}
}

// Assign returns one target per vehicle, in vehicle order, minimizing total
// travel time. It requires len(targets) == len(vehicles); every target is
// claimed exactly once. A solver failure is an invariant breach and surfaces
// as ErrInfeasibleAssignment.
func (r *Rebalancer) Assign(vehicles []*model.Vehicle, targets []model.Request) ([]model.Request, error) {
	n := len(vehicles)
	if n == 0 {
		return nil, nil
	}
	if len(targets) != n {
		return nil, fmt.Errorf("%w: %d vehicles, %d targets", ErrInfeasibleAssignment, n, len(targets))
	}

	cost := make([]float64, n*n)
	for i, v := range vehicles {
		for j, t := range targets {
			cost[i*n+j] = r.Oracle.TravelTime(v.Position.NextLocation, t.Source)
		}
	}

	// Row-sum constraints for every vehicle and column-sum constraints for
	// all but the last target: the final column constraint is implied, and
	// dropping it keeps the constraint matrix full row rank.
	rows := 2*n - 1
	a := mat.NewDense(rows, n*n, nil)
	b := make([]float64, rows)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, i*n+j, 1)
		}
		b[i] = 1
	}
	for j := 0; j < n-1; j++ {
		for i := 0; i < n; i++ {
			a.Set(n+j, i*n+j, 1)
		}
		b[n+j] = 1
	}

	sol, _, err := equalitySolve(cost, a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInfeasibleAssignment, err)
	}

	assigned := make([]model.Request, n)
	for i := 0; i < n; i++ {
		found := false
		for j := 0; j < n; j++ {
			if sol[i*n+j] > 0.5 {
				assigned[i] = targets[j]
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: vehicle %d received no target", ErrInfeasibleAssignment, vehicles[i].ID)
		}
	}
	return assigned, nil
}
