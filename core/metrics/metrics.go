package metrics

// EpochStats summarizes one decision epoch of the engine.
type EpochStats struct {
	Epoch        int
	Time         float64 // simulation time at the start of the epoch
	NewRequests  int
	Served       int // requests committed to vehicles this epoch
	Reward       float64
	IdleVehicles int
}

// AssignmentEvent records one vehicle's committed action for an epoch.
type AssignmentEvent struct {
	RunID     string
	Epoch     int
	VehicleID int
	Requests  int
	Score     float64
	Reward    float64
}

// MetricsSink records engine activity for observability purposes.
type MetricsSink interface {
	RecordEpoch(stats EpochStats) error
	RecordAssignments(events []AssignmentEvent) error
}

// FleetSizeRecorder is implemented by sinks able to record the fleet size.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordEpoch(EpochStats) error              { return nil }
func (NopSink) RecordAssignments([]AssignmentEvent) error { return nil }
func (NopSink) RecordFleetSize(int) error                 { return nil }
