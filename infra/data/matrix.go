package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urbanfleet/ridepool/core/model"
)

// LoadTravelTimes reads a dense travel-time matrix from a headerless CSV
// file, one row per source location.
func LoadTravelTimes(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFloatMatrix(f)
}

// LoadNextHops reads a dense next-hop matrix from a headerless CSV file:
// entry (i, j) is the next location on the shortest path from i to j.
func LoadNextHops(path string) ([][]model.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := readFloatMatrix(f)
	if err != nil {
		return nil, err
	}
	next := make([][]model.Location, len(raw))
	for i, row := range raw {
		next[i] = make([]model.Location, len(row))
		for j, v := range row {
			next[i][j] = model.Location(v)
		}
	}
	return next, nil
}

// LoadZones reads a flat list of location indices, one per line.
func LoadZones(path string) ([]model.Location, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var zones []model.Location
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		z, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("data: zone list %s line %d: %w", path, i+1, err)
		}
		zones = append(zones, model.Location(z))
	}
	return zones, nil
}

func readFloatMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("data: row %d column %d: %w", len(rows)+1, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("data: empty matrix")
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("data: ragged matrix: row %d has %d columns, expected %d", i+1, len(row), width)
		}
	}
	return rows, nil
}
