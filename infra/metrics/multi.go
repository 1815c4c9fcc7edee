package metrics

import coremetrics "github.com/urbanfleet/ridepool/core/metrics"

// MultiSink fans records out to several sinks; the first error wins but every
// sink is still attempted.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordEpoch(stats coremetrics.EpochStats) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordEpoch(stats); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordAssignments(events []coremetrics.AssignmentEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordAssignments(events); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordFleetSize(size int) error {
	var first error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := r.RecordFleetSize(size); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
