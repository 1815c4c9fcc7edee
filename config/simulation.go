package config

import "fmt"

// FleetConfig sizes the simulated fleet.
type FleetConfig struct {
	// NumVehicles is the number of vehicles placed at the initial zones.
	NumVehicles int `json:"num_vehicles"`
	// MaxCapacity is the rider capacity of every vehicle.
	MaxCapacity int `json:"max_capacity"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.NumVehicles == 0 {
		c.NumVehicles = 10
	}
	if c.MaxCapacity == 0 {
		c.MaxCapacity = 4
	}
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if c.NumVehicles <= 0 {
		return fmt.Errorf("num_vehicles must be positive")
	}
	if c.MaxCapacity <= 0 {
		return fmt.Errorf("max_capacity must be positive")
	}
	return nil
}

// SimulationConfig defines the time structure and tolerances of a run.
type SimulationConfig struct {
	// EpochLength is the decision interval in seconds.
	EpochLength float64 `json:"epoch_length"`
	// StartHour/EndHour bound the simulated day window; EndHour exclusive.
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
	// MaxPickupDelay is the rider wait tolerance in seconds.
	MaxPickupDelay float64 `json:"max_pickup_delay"`
	// MaxDropoffDelay is the detour slack on top of the direct trip time.
	MaxDropoffDelay float64 `json:"max_dropoff_delay"`
	// HistorySize bounds the recent-request pool used for rebalancing.
	HistorySize int `json:"history_size"`
	// Seed feeds the sampling and training-noise generators.
	Seed int64 `json:"seed"`
	// Training relaxes deterministic tie-breaking in the selector.
	Training bool `json:"training"`
	// ValuePerMinute weights request values by trip duration when positive.
	ValuePerMinute float64 `json:"value_per_minute"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.EpochLength == 0 {
		c.EpochLength = 60
	}
	if c.EndHour == 0 {
		c.EndHour = 24
	}
	if c.MaxPickupDelay == 0 {
		c.MaxPickupDelay = 300
	}
	if c.MaxDropoffDelay == 0 {
		c.MaxDropoffDelay = 600
	}
	if c.HistorySize == 0 {
		c.HistorySize = 500
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.EpochLength <= 0 {
		return fmt.Errorf("epoch_length must be positive")
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("invalid hour window [%d, %d)", c.StartHour, c.EndHour)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive")
	}
	return nil
}

// DataConfig points at the precomputed map and demand files.
type DataConfig struct {
	TravelTimesFile  string `json:"travel_times_file"`
	NextHopsFile     string `json:"next_hops_file"`
	InitialZonesFile string `json:"initial_zones_file"`
	IgnoredZonesFile string `json:"ignored_zones_file"` // optional
	RequestsFile     string `json:"requests_file"`
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.TravelTimesFile == "" {
		return fmt.Errorf("travel_times_file is required")
	}
	if c.NextHopsFile == "" {
		return fmt.Errorf("next_hops_file is required")
	}
	if c.InitialZonesFile == "" {
		return fmt.Errorf("initial_zones_file is required")
	}
	if c.RequestsFile == "" {
		return fmt.Errorf("requests_file is required")
	}
	return nil
}
