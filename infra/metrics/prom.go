package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/urbanfleet/ridepool/core/metrics"
)

// PromSink records engine activity in Prometheus metrics.
type PromSink struct {
	epochs   prometheus.Counter
	requests *prometheus.CounterVec
	reward   prometheus.Counter
	idle     prometheus.Gauge
	fleet    prometheus.Gauge
}

// NewPromSink registers engine metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	epochs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_epochs_total",
		Help: "Total number of decision epochs simulated",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_requests_total",
		Help: "Total requests seen and served",
	}, []string{"served"})
	reward := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_reward_total",
		Help: "Cumulative reward collected by the fleet",
	})
	idle := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_idle_vehicles",
		Help: "Vehicles rebalanced with spare time in the last epoch",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_fleet_size",
		Help: "Number of vehicles in the fleet",
	})

	for _, c := range []prometheus.Collector{epochs, requests, reward, idle, fleet} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{epochs: epochs, requests: requests, reward: reward, idle: idle, fleet: fleet}, nil
}

// RecordEpoch updates the per-epoch counters and gauges.
func (s *PromSink) RecordEpoch(stats coremetrics.EpochStats) error {
	s.epochs.Inc()
	s.requests.WithLabelValues(strconv.FormatBool(false)).Add(float64(stats.NewRequests))
	s.requests.WithLabelValues(strconv.FormatBool(true)).Add(float64(stats.Served))
	s.reward.Add(stats.Reward)
	s.idle.Set(float64(stats.IdleVehicles))
	return nil
}

// RecordAssignments is a no-op for Prometheus; per-assignment detail goes to
// the time-series sink.
func (s *PromSink) RecordAssignments([]coremetrics.AssignmentEvent) error { return nil }

// RecordFleetSize sets the fleet size gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
