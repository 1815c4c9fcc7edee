package travel

import (
	"fmt"

	"github.com/urbanfleet/ridepool/core/model"
)

// Oracle answers shortest-path queries over the location space. Both methods
// must be total: an unmapped pair is a configuration error caught at load
// time, never a runtime case.
type Oracle interface {
	// TravelTime returns the shortest travel time between two locations.
	TravelTime(source, destination model.Location) float64
	// NextHop returns the next location on the shortest path.
	NextHop(source, destination model.Location) model.Location
}

// MatrixOracle serves lookups from dense precomputed matrices, one row and
// column per location.
type MatrixOracle struct {
	times [][]float64
	next  [][]model.Location
}

// NewMatrixOracle validates matrix shapes and returns an oracle over them.
func NewMatrixOracle(times [][]float64, next [][]model.Location) (*MatrixOracle, error) {
	n := len(times)
	if n == 0 {
		return nil, fmt.Errorf("travel: empty travel-time matrix")
	}
	if len(next) != n {
		return nil, fmt.Errorf("travel: matrix size mismatch: %d travel-time rows, %d next-hop rows", n, len(next))
	}
	for i := 0; i < n; i++ {
		if len(times[i]) != n || len(next[i]) != n {
			return nil, fmt.Errorf("travel: row %d is not square over %d locations", i, n)
		}
	}
	return &MatrixOracle{times: times, next: next}, nil
}

// NumLocations returns the size of the location space.
func (o *MatrixOracle) NumLocations() int { return len(o.times) }

func (o *MatrixOracle) TravelTime(source, destination model.Location) float64 {
	return o.times[source][destination]
}

func (o *MatrixOracle) NextHop(source, destination model.Location) model.Location {
	return o.next[source][destination]
}
