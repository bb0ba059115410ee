package domain

import (
	"math"
	"testing"
)

func TestFieldGoalPercentageZeroAttempts(t *testing.T) {
	p := PlayerStat{ID: "p1"}
	got := p.FieldGoalPercentage()
	if got != 0 {
		t.Fatalf("expected 0 for zero attempts, got %v", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("expected a finite value, got %v", got)
	}
}

func TestFieldGoalPercentage(t *testing.T) {
	cases := []struct {
		made, attempted int
		want            float64
	}{
		{3, 5, 60},
		{4, 5, 80},
		{1, 3, 100.0 / 3.0},
		{5, 5, 100},
	}
	for _, c := range cases {
		p := PlayerStat{ShotsMade: c.made, ShotsAttempted: c.attempted}
		if got := p.FieldGoalPercentage(); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%d/%d: expected %v, got %v", c.made, c.attempted, c.want, got)
		}
	}
}

func TestSplitEven(t *testing.T) {
	players := make([]PlayerStat, 10)
	for i := range players {
		players[i] = PlayerStat{ID: string(rune('a' + i)), Position: i}
	}

	split := Split(players)
	if len(split.Home) != 5 || len(split.Away) != 5 {
		t.Fatalf("expected 5/5 split, got %d/%d", len(split.Home), len(split.Away))
	}
	if split.Home[0].ID != "a" || split.Away[0].ID != "f" {
		t.Fatalf("split is not positional: home[0]=%s away[0]=%s", split.Home[0].ID, split.Away[0].ID)
	}
}

func TestSplitOddAndEmpty(t *testing.T) {
	split := Split(make([]PlayerStat, 7))
	if len(split.Home) != 3 || len(split.Away) != 4 {
		t.Fatalf("expected 3/4 split, got %d/%d", len(split.Home), len(split.Away))
	}

	empty := Split(nil)
	if len(empty.Home) != 0 || len(empty.Away) != 0 {
		t.Fatalf("expected empty split, got %d/%d", len(empty.Home), len(empty.Away))
	}
}

func TestEventLabels(t *testing.T) {
	expected := map[StatEvent]string{
		EventRebound:     "Rebound",
		EventShotAttempt: "Shot Attempt",
		EventShotMade:    "Shot Made",
		EventSteal:       "Steal",
		EventTurnover:    "Turnover",
		EventAssist:      "Assist",
	}
	for event, want := range expected {
		if got := event.Label(); got != want {
			t.Errorf("expected %q got %q", want, got)
		}
	}
}
