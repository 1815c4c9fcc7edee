package model

// Position tracks where a vehicle physically is between stops: the next
// intersection it will reach and the driving time left to get there.
type Position struct {
	NextLocation       Location
	TimeToNextLocation float64
}

// Vehicle is a fleet unit with a committed path. Only Position and Path
// mutate across epochs.
type Vehicle struct {
	ID       int
	Position Position
	Path     *Path
}

// NewVehicle places a vehicle at the given location with an empty path.
func NewVehicle(id int, at Location) *Vehicle {
	return &Vehicle{
		ID:       id,
		Position: Position{NextLocation: at},
		Path:     NewPath(),
	}
}

// Occupancy returns the declared number of riders on board, mirrored from the
// committed path's running capacity.
func (v *Vehicle) Occupancy() int {
	return v.Path.CurrentCapacity
}
