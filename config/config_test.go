package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
fleet:
  num_vehicles: 20
  max_capacity: 2
simulation:
  epoch_length: 30
  start_hour: 6
  end_hour: 10
  seed: 42
data:
  travel_times_file: times.csv
  next_hops_file: hops.csv
  initial_zones_file: zones.txt
  requests_file: flows.txt
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Fleet.NumVehicles)
	assert.Equal(t, 2, cfg.Fleet.MaxCapacity)
	assert.Equal(t, 30.0, cfg.Simulation.EpochLength)
	assert.Equal(t, 6, cfg.Simulation.StartHour)
	assert.Equal(t, 10, cfg.Simulation.EndHour)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, "flows.txt", cfg.Data.RequestsFile)

	// Unset fields fall back to defaults.
	assert.Equal(t, 300.0, cfg.Simulation.MaxPickupDelay)
	assert.Equal(t, 600.0, cfg.Simulation.MaxDropoffDelay)
	assert.Equal(t, 500, cfg.Simulation.HistorySize)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RP_FLEET__NUM_VEHICLES", "7")
	t.Setenv("RP_SIMULATION__EPOCH_LENGTH", "120")

	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Fleet.NumVehicles)
	assert.Equal(t, 120.0, cfg.Simulation.EpochLength)
}

func TestLoadJSON(t *testing.T) {
	content := `{
  "fleet": {"num_vehicles": 5},
  "data": {
    "travel_times_file": "times.csv",
    "next_hops_file": "hops.csv",
    "initial_zones_file": "zones.txt",
    "requests_file": "flows.txt"
  }
}`
	cfg, err := Load(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Fleet.NumVehicles)
	assert.Equal(t, 4, cfg.Fleet.MaxCapacity)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadValidation(t *testing.T) {
	missingData := `
fleet:
  num_vehicles: 3
`
	_, err := Load(writeConfig(t, "config.yaml", missingData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "travel_times_file")

	invalid := `
simulation:
  start_hour: 10
  end_hour: 4
data:
  travel_times_file: times.csv
  next_hops_file: hops.csv
  initial_zones_file: zones.txt
  requests_file: flows.txt
`
	_, err = Load(writeConfig(t, "config.yaml", invalid))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hour window")
}
