package model

// Action is a candidate decision for one vehicle: the requests it would newly
// commit to and the fresh path serving them. A no-op action carries no new
// requests and a clone of the current path.
type Action struct {
	Requests []Request
	NewPath  *Path
}

// NoOp builds the keep-current-plan action for a vehicle.
func NoOp(v *Vehicle) Action {
	return Action{NewPath: v.Path.Clone()}
}

// Reward returns the immediate value of committing this action: the summed
// value of its newly served requests.
func (a Action) Reward() float64 {
	var total float64
	for _, r := range a.Requests {
		total += r.Value
	}
	return total
}
