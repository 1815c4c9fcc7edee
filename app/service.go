package app

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/urbanfleet/ridepool/config"
	"github.com/urbanfleet/ridepool/core/actiongen"
	"github.com/urbanfleet/ridepool/core/dispatch"
	"github.com/urbanfleet/ridepool/core/engine"
	"github.com/urbanfleet/ridepool/core/history"
	coremetrics "github.com/urbanfleet/ridepool/core/metrics"
	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/motion"
	"github.com/urbanfleet/ridepool/core/travel"
	"github.com/urbanfleet/ridepool/core/value"
	"github.com/urbanfleet/ridepool/infra/data"
	"github.com/urbanfleet/ridepool/infra/logger"
	"github.com/urbanfleet/ridepool/infra/metrics"
	"github.com/urbanfleet/ridepool/internal/eventbus"
)

// Service loads the map data, builds the engine and replays a demand file
// epoch by epoch.
type Service struct {
	Engine   *engine.Engine
	Vehicles []*model.Vehicle
	Batches  []data.Batch

	bus         *eventbus.Bus
	log         logger.Logger
	sink        coremetrics.MetricsSink
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	times, err := data.LoadTravelTimes(cfg.Data.TravelTimesFile)
	if err != nil {
		return nil, fmt.Errorf("travel times: %w", err)
	}
	hops, err := data.LoadNextHops(cfg.Data.NextHopsFile)
	if err != nil {
		return nil, fmt.Errorf("next hops: %w", err)
	}
	oracle, err := travel.NewMatrixOracle(times, hops)
	if err != nil {
		return nil, err
	}

	zones, err := data.LoadZones(cfg.Data.InitialZonesFile)
	if err != nil {
		return nil, fmt.Errorf("initial zones: %w", err)
	}
	if len(zones) < cfg.Fleet.NumVehicles {
		return nil, fmt.Errorf("need %d initial zones, file has %d", cfg.Fleet.NumVehicles, len(zones))
	}
	vehicles := make([]*model.Vehicle, cfg.Fleet.NumVehicles)
	for i := range vehicles {
		vehicles[i] = model.NewVehicle(i, zones[i])
	}

	var ignored []model.Location
	if cfg.Data.IgnoredZonesFile != "" {
		ignored, err = data.LoadZones(cfg.Data.IgnoredZonesFile)
		if err != nil {
			return nil, fmt.Errorf("ignored zones: %w", err)
		}
	}
	batches, err := data.ReadFlowFile(cfg.Data.RequestsFile, oracle, data.FlowConfig{
		EpochLength: cfg.Simulation.EpochLength,
		StartHour:   cfg.Simulation.StartHour,
		EndHour:     cfg.Simulation.EndHour,
		Deadlines: model.DeadlineConfig{
			MaxPickupDelay:  cfg.Simulation.MaxPickupDelay,
			MaxDropoffDelay: cfg.Simulation.MaxDropoffDelay,
		},
		IgnoredZones:   ignored,
		ValuePerMinute: cfg.Simulation.ValuePerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("requests: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	hist := history.NewRing(cfg.Simulation.HistorySize)
	validator := dispatch.NewValidator(oracle, cfg.Fleet.MaxCapacity, logger.New("validator"))
	selector := dispatch.NewSelector(logger.New("selector"), rng)
	sim := motion.NewSimulator(oracle, cfg.Simulation.EpochLength, hist, logger.New("motion"), rng)
	generator := actiongen.NewInsertionGenerator(validator)
	estimator := value.NewRewardPlusDelay()

	bus := eventbus.New()
	eng := engine.New(generator, estimator, selector, validator, sim, sink, bus, logger.New("engine"), cfg.Simulation.Training)

	return &Service{
		Engine:      eng,
		Vehicles:    vehicles,
		Batches:     batches,
		bus:         bus,
		log:         logg,
		sink:        sink,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run replays the demand batches and blocks until done or cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if r, ok := s.sink.(coremetrics.FleetSizeRecorder); ok {
		if err := r.RecordFleetSize(len(s.Vehicles)); err != nil {
			s.log.Warnf("record fleet size: %v", err)
		}
	}

	var totalReward float64
	var totalRequests int
	for _, batch := range s.Batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := s.Engine.RunEpoch(ctx, s.Vehicles, batch.Requests, batch.Time)
		if err != nil {
			return err
		}
		totalReward += stats.Reward
		totalRequests += stats.NewRequests
		s.log.Infof("epoch %d at t=%.0f: %d new requests, %d served, reward %.2f",
			stats.Epoch, stats.Time, stats.NewRequests, stats.Served, stats.Reward)
	}
	s.log.Infof("run %s finished: %d requests seen, total reward %.2f", s.Engine.RunID, totalRequests, totalReward)
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
