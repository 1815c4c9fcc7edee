package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbanfleet/ridepool/config"
	"github.com/urbanfleet/ridepool/core/travel"
	"github.com/urbanfleet/ridepool/infra/data"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the configured data files and print a summary",
	RunE:  inspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	times, err := data.LoadTravelTimes(cfg.Data.TravelTimesFile)
	if err != nil {
		return fmt.Errorf("travel times: %w", err)
	}
	hops, err := data.LoadNextHops(cfg.Data.NextHopsFile)
	if err != nil {
		return fmt.Errorf("next hops: %w", err)
	}
	oracle, err := travel.NewMatrixOracle(times, hops)
	if err != nil {
		return err
	}

	batches, err := data.ReadFlowFile(cfg.Data.RequestsFile, oracle, data.FlowConfig{
		EpochLength: cfg.Simulation.EpochLength,
		StartHour:   cfg.Simulation.StartHour,
		EndHour:     cfg.Simulation.EndHour,
	})
	if err != nil {
		return fmt.Errorf("requests: %w", err)
	}

	var total int
	for _, b := range batches {
		total += len(b.Requests)
	}
	fmt.Printf("locations: %d\n", oracle.NumLocations())
	fmt.Printf("epochs in window [%d, %d): %d\n", cfg.Simulation.StartHour, cfg.Simulation.EndHour, len(batches))
	fmt.Printf("requests: %d\n", total)
	return nil
}
