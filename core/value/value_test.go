package value

import (
	"testing"

	"github.com/urbanfleet/ridepool/core/model"
)

func TestImmediateReward(t *testing.T) {
	actions := []model.Action{
		{Requests: nil, NewPath: model.NewPath()},
		{Requests: []model.Request{{ID: 1, Value: 2}, {ID: 2, Value: 3}}, NewPath: model.NewPath()},
	}

	scores := ImmediateReward{}.Score(nil, actions, 0)
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0] != 0 || scores[1] != 5 {
		t.Fatalf("expected [0 5], got %v", scores)
	}
}

func TestRewardPlusDelayPrefersSlack(t *testing.T) {
	slack := model.NewPath()
	slack.TotalDelay = 500
	tight := model.NewPath()
	tight.TotalDelay = 10

	req := model.Request{ID: 1, Value: 1}
	actions := []model.Action{
		{Requests: []model.Request{req}, NewPath: tight},
		{Requests: []model.Request{req}, NewPath: slack},
	}

	scores := NewRewardPlusDelay().Score(nil, actions, 0)
	if scores[1] <= scores[0] {
		t.Fatalf("slack plan should outscore the tight one: %v", scores)
	}
	if scores[0] != 1.01 {
		t.Fatalf("expected 1.01 for the tight plan, got %v", scores[0])
	}
}
