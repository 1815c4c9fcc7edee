package dispatch

import (
	"errors"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/urbanfleet/ridepool/core/logger"
	"github.com/urbanfleet/ridepool/core/model"
)

// ScoredAction pairs a candidate action with the value estimate assigned to
// it by the scoring layer.
type ScoredAction struct {
	Action model.Action
	Score  float64
}

// Selection holds the outcome of one dispatch round: for every vehicle the
// index of its chosen candidate (-1 when none was selected) and the score of
// that candidate.
type Selection struct {
	Chosen []int
	Scores []float64
}

// Selector resolves per-vehicle candidate actions into one globally
// consistent action per vehicle: at most one candidate per vehicle, no
// request picked up by two chosen actions, total score maximized. The
// integer program is solved by branch and bound over the LP relaxation;
// variables are ordered by vehicle index then candidate index and the
// one-branch is explored first, so with training disabled ties resolve
// deterministically in that order.
type Selector struct {
	Log logger.Logger
	// Rng perturbs scores with tiny noise during training so tied actions
	// are not always resolved the same way. Ignored when nil.
	Rng *rand.Rand
}

// NewSelector builds a selector. A nil log falls back to a no-op logger.
func NewSelector(log logger.Logger, rng *rand.Rand) *Selector {
	if log == nil {
		log = logger.Nop{}
	}
	return &Selector{Log: log, Rng: rng}
}

const trainingNoise = 1e-6

type selVar struct {
	vehicle int
	cand    int
	score   float64 // optimization score, perturbed when training
	raw     float64 // reported score
	rows    []int   // constraint rows this variable participates in
}

type selIncumbent struct {
	value float64
	take  []bool
}

func (s *Selector) Select(candidates [][]ScoredAction, training bool) (Selection, error) {
	numVehicles := len(candidates)
	sel := Selection{Chosen: make([]int, numVehicles), Scores: make([]float64, numVehicles)}
	for i := range sel.Chosen {
		sel.Chosen[i] = -1
	}

	// One row per vehicle, then one row per distinct picked-up request.
	requestRow := make(map[int]int)
	nextRow := numVehicles
	var vars []selVar
	for v, actions := range candidates {
		for c, sa := range actions {
			score := sa.Score
			if training && s.Rng != nil {
				score += s.Rng.Float64() * trainingNoise
			}
			sv := selVar{vehicle: v, cand: c, score: score, raw: sa.Score, rows: []int{v}}
			for _, req := range sa.Action.Requests {
				row, ok := requestRow[req.ID]
				if !ok {
					row = nextRow
					nextRow++
					requestRow[req.ID] = row
				}
				sv.rows = append(sv.rows, row)
			}
			vars = append(vars, sv)
		}
	}
	if len(vars) == 0 {
		return sel, nil
	}
	numRows := nextRow

	// The empty selection is always feasible, so it seeds the incumbent.
	best := selIncumbent{value: 0, take: make([]bool, len(vars))}
	fixed := make([]int8, len(vars))
	for i := range fixed {
		fixed[i] = -1
	}
	if err := s.branch(vars, numRows, fixed, &best); err != nil {
		return Selection{}, err
	}

	for k, taken := range best.take {
		if !taken {
			continue
		}
		sel.Chosen[vars[k].vehicle] = vars[k].cand
		sel.Scores[vars[k].vehicle] = vars[k].raw
	}
	return sel, nil
}

// branch evaluates one branch-and-bound node described by fixed (-1 free,
// 0/1 decided) and recurses on the first fractional relaxation variable.
func (s *Selector) branch(vars []selVar, numRows int, fixed []int8, best *selIncumbent) error {
	h := make([]float64, numRows)
	for i := range h {
		h[i] = 1
	}
	var base float64
	for k, f := range fixed {
		if f != 1 {
			continue
		}
		base += vars[k].score
		for _, row := range vars[k].rows {
			h[row]--
			if h[row] < 0 {
				return nil // conflicting fixings, dead branch
			}
		}
	}

	var free []int
	for k, f := range fixed {
		if f == -1 {
			free = append(free, k)
		}
	}
	if len(free) == 0 {
		s.record(vars, fixed, nil, base, best)
		return nil
	}

	g := mat.NewDense(numRows, len(free), nil)
	c := make([]float64, len(free))
	for col, k := range free {
		c[col] = -vars[k].score
		for _, row := range vars[k].rows {
			g.Set(row, col, 1)
		}
	}
	x, opt, err := boundedSolve(c, g, h)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil
		}
		return err
	}
	bound := base - opt
	if bound <= best.value+improveTol {
		return nil
	}

	branchVar := -1
	for col := range free {
		if x[col] > intTol && x[col] < 1-intTol {
			branchVar = free[col]
			break
		}
	}
	if branchVar == -1 {
		s.record(vars, fixed, x, base, best)
		return nil
	}

	fixed[branchVar] = 1
	if err := s.branch(vars, numRows, fixed, best); err != nil {
		return err
	}
	fixed[branchVar] = 0
	if err := s.branch(vars, numRows, fixed, best); err != nil {
		return err
	}
	fixed[branchVar] = -1
	return nil
}

// record folds an integral node solution into the incumbent when it strictly
// improves on it. x carries the relaxation values of the free variables, in
// the order they appear in fixed; it may be nil when no variables are free.
func (s *Selector) record(vars []selVar, fixed []int8, x []float64, base float64, best *selIncumbent) {
	value := base
	take := make([]bool, len(vars))
	col := 0
	for k, f := range fixed {
		switch f {
		case 1:
			take[k] = true
		case -1:
			if x[col] > 0.5 {
				take[k] = true
				value += vars[k].score
			}
			col++
		}
	}
	if value > best.value+improveTol {
		best.value = value
		best.take = take
	}
}
