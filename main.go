package main

import (
	"os"

	"github.com/urbanfleet/ridepool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
