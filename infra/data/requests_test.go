package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanfleet/ridepool/core/model"
)

// flatOracle returns a constant travel time for every pair.
type flatOracle struct{ tt float64 }

func (o flatOracle) TravelTime(model.Location, model.Location) float64 { return o.tt }
func (o flatOracle) NextHop(_, b model.Location) model.Location       { return b }

func flowConfig() FlowConfig {
	return FlowConfig{
		EpochLength: 60,
		StartHour:   0,
		EndHour:     24,
		Deadlines:   model.DeadlineConfig{MaxPickupDelay: 300, MaxDropoffDelay: 600},
	}
}

func TestReadFlowBatches(t *testing.T) {
	input := `2
Flows:0-60
1,2,3.0
3,3,1.0
5,6,2.0
Flows:1-60
2,4,1.0
`
	batches, err := ReadFlowBatches(strings.NewReader(input), flatOracle{tt: 120}, flowConfig())
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Equal(t, 0.0, batches[0].Time)
	assert.Equal(t, 60.0, batches[1].Time)

	// 1->2 expands three times, 3->3 is dropped, 5->6 expands twice.
	require.Len(t, batches[0].Requests, 5)
	require.Len(t, batches[1].Requests, 1)

	first := batches[0].Requests[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, model.Location(1), first.Source)
	assert.Equal(t, model.Location(2), first.Destination)
	assert.Equal(t, 120.0, first.TravelTime)
	assert.Equal(t, 300.0, first.PickupDeadline)
	assert.Equal(t, 720.0, first.DropoffDeadline)
	assert.Equal(t, 1.0, first.Value)

	// IDs are sequential across batches.
	assert.Equal(t, 5, batches[1].Requests[0].ID)
	assert.Equal(t, 60.0, batches[1].Requests[0].Created)
}

func TestReadFlowBatchesIgnoredZones(t *testing.T) {
	input := `1
Flows:0-60
1,2,1.0
5,6,2.0
2,5,1.0
`
	cfg := flowConfig()
	cfg.IgnoredZones = []model.Location{5}
	batches, err := ReadFlowBatches(strings.NewReader(input), flatOracle{tt: 60}, cfg)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Requests, 1)
	assert.Equal(t, model.Location(1), batches[0].Requests[0].Source)
}

func TestReadFlowBatchesHourWindow(t *testing.T) {
	input := `3
Flows:0-60
1,2,1.0
Flows:1-60
2,3,1.0
Flows:2-60
3,4,1.0
`
	cfg := flowConfig()
	cfg.EpochLength = 3600
	cfg.StartHour = 1
	cfg.EndHour = 2
	batches, err := ReadFlowBatches(strings.NewReader(input), flatOracle{tt: 60}, cfg)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 3600.0, batches[0].Time)
	assert.Equal(t, model.Location(2), batches[0].Requests[0].Source)
}

func TestReadFlowBatchesValuePerMinute(t *testing.T) {
	input := `1
Flows:0-60
1,2,1.0
`
	cfg := flowConfig()
	cfg.ValuePerMinute = 0.5
	batches, err := ReadFlowBatches(strings.NewReader(input), flatOracle{tt: 120}, cfg)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 1.0, batches[0].Requests[0].Value)
}

func TestReadFlowBatchesErrors(t *testing.T) {
	oracle := flatOracle{tt: 60}
	cfg := flowConfig()

	_, err := ReadFlowBatches(strings.NewReader("1\n1,2,3.0\n"), oracle, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before any epoch header")

	_, err = ReadFlowBatches(strings.NewReader("not-a-count\n"), oracle, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch count")

	_, err = ReadFlowBatches(strings.NewReader("1\nFlows:0-60\ngarbage line\n"), oracle, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized line")
}

func TestReadFlowBatchesEmptyInput(t *testing.T) {
	batches, err := ReadFlowBatches(strings.NewReader(""), flatOracle{tt: 60}, flowConfig())
	require.NoError(t, err)
	assert.Empty(t, batches)
}
