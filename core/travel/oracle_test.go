package travel

import (
	"testing"

	"github.com/urbanfleet/ridepool/core/model"
)

func TestMatrixOracleLookups(t *testing.T) {
	times := [][]float64{
		{0, 3},
		{4, 0},
	}
	next := [][]model.Location{
		{0, 1},
		{0, 1},
	}
	o, err := NewMatrixOracle(times, next)
	if err != nil {
		t.Fatalf("new oracle: %v", err)
	}
	if o.NumLocations() != 2 {
		t.Fatalf("expected 2 locations, got %d", o.NumLocations())
	}
	if got := o.TravelTime(0, 1); got != 3 {
		t.Fatalf("travel time 0->1: got %v", got)
	}
	if got := o.NextHop(1, 0); got != 0 {
		t.Fatalf("next hop 1->0: got %v", got)
	}
}

func TestMatrixOracleShapeValidation(t *testing.T) {
	if _, err := NewMatrixOracle(nil, nil); err == nil {
		t.Fatalf("empty matrix accepted")
	}
	if _, err := NewMatrixOracle([][]float64{{0}}, nil); err == nil {
		t.Fatalf("row count mismatch accepted")
	}
	ragged := [][]float64{
		{0, 1},
		{1},
	}
	next := [][]model.Location{
		{0, 1},
		{0, 1},
	}
	if _, err := NewMatrixOracle(ragged, next); err == nil {
		t.Fatalf("ragged matrix accepted")
	}
}
