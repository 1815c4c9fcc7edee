package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/urbanfleet/ridepool/core/model"
	"github.com/urbanfleet/ridepool/core/travel"
)

// Batch groups the requests created within one epoch.
type Batch struct {
	Time     float64 // simulation time of the epoch start
	Requests []model.Request
}

// FlowConfig controls how a demand flow file is turned into request batches.
type FlowConfig struct {
	EpochLength float64
	// StartHour/EndHour select the window of the day to keep, in hours of
	// simulation time. EndHour is exclusive.
	StartHour int
	EndHour   int
	Deadlines model.DeadlineConfig
	// IgnoredZones are filtered out as both sources and destinations.
	IgnoredZones []model.Location
	// ValuePerMinute weights request values by trip duration when positive;
	// zero keeps the default unit value.
	ValuePerMinute float64
}

var (
	flowEpochRe   = regexp.MustCompile(`^Flows:(\d+)-\d+$`)
	flowRequestRe = regexp.MustCompile(`^(\d+),(\d+),(\d+)\.0$`)
)

// ReadFlowFile opens and parses a demand flow file.
func ReadFlowFile(path string, oracle travel.Oracle, cfg FlowConfig) ([]Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFlowBatches(f, oracle, cfg)
}

// ReadFlowBatches parses the flow format: a count line, then `Flows:<epoch>-`
// headers delimiting epochs, each followed by `source,destination,count.0`
// lines expanded count times. Requests inside ignored zones or with equal
// source and destination are dropped, and only batches inside the configured
// hour window are returned. An input whose body contains request lines but no
// epoch header is rejected rather than attributed to an undefined epoch.
func ReadFlowBatches(r io.Reader, oracle travel.Oracle, cfg FlowConfig) ([]Batch, error) {
	ignored := make(map[model.Location]bool, len(cfg.IgnoredZones))
	for _, z := range cfg.IgnoredZones {
		ignored[z] = true
	}

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, scanner.Err() // empty input: no batches
	}
	if _, err := strconv.Atoi(trimmed(scanner)); err != nil {
		return nil, fmt.Errorf("data: flow file must start with a batch count: %w", err)
	}

	var (
		batches   []Batch
		current   *Batch
		nextID    int
		lineCount = 1
	)
	for scanner.Scan() {
		lineCount++
		line := trimmed(scanner)
		if line == "" {
			continue
		}

		if m := flowEpochRe.FindStringSubmatch(line); m != nil {
			epoch, _ := strconv.Atoi(m[1])
			batches = append(batches, Batch{Time: float64(epoch) * cfg.EpochLength})
			current = &batches[len(batches)-1]
			continue
		}

		m := flowRequestRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("data: flow file line %d: unrecognized line %q", lineCount, line)
		}
		if current == nil {
			return nil, fmt.Errorf("data: flow file line %d: request before any epoch header", lineCount)
		}
		source, _ := strconv.Atoi(m[1])
		destination, _ := strconv.Atoi(m[2])
		count, _ := strconv.Atoi(m[3])

		src, dst := model.Location(source), model.Location(destination)
		if src == dst || ignored[src] || ignored[dst] {
			continue
		}
		travelTime := oracle.TravelTime(src, dst)
		for i := 0; i < count; i++ {
			req := model.NewRequest(nextID, src, dst, current.Time, travelTime, cfg.Deadlines)
			nextID++
			if cfg.ValuePerMinute > 0 {
				req = req.WithValue(cfg.ValuePerMinute * travelTime / 60)
			}
			current.Requests = append(current.Requests, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var kept []Batch
	for _, b := range batches {
		hour := int(b.Time / 3600)
		if hour >= cfg.StartHour && hour < cfg.EndHour {
			kept = append(kept, b)
		}
	}
	return kept, nil
}

func trimmed(s *bufio.Scanner) string {
	return strings.TrimSpace(s.Text())
}
