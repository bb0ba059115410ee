package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"boxscore-tracker/internal/database"
	"boxscore-tracker/internal/domain"
	"boxscore-tracker/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func newTestLedger(t *testing.T, players ...domain.PlayerStat) (*Ledger, *repository.PlayerRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// a single conn keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := repository.NewPlayerRepository(db, zerolog.Nop())
	l := NewLedger(repo, zerolog.Nop())

	if len(players) > 0 {
		if err := l.AddAll(context.Background(), players); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
	return l, repo
}

func player(id string, position int) domain.PlayerStat {
	now := time.Now()
	return domain.PlayerStat{ID: id, Name: "Player " + id, Position: position, CreatedAt: now, UpdatedAt: now}
}

func TestApplyIncrementTable(t *testing.T) {
	cases := []struct {
		event domain.StatEvent
		check func(p domain.PlayerStat) bool
	}{
		{domain.EventRebound, func(p domain.PlayerStat) bool { return p.Rebounds == 1 }},
		{domain.EventShotAttempt, func(p domain.PlayerStat) bool { return p.ShotsAttempted == 1 }},
		{domain.EventShotMade, func(p domain.PlayerStat) bool { return p.ShotsMade == 1 && p.Points == 2 }},
		{domain.EventSteal, func(p domain.PlayerStat) bool { return p.Steals == 1 }},
		{domain.EventTurnover, func(p domain.PlayerStat) bool { return p.Turnovers == 1 }},
		{domain.EventAssist, func(p domain.PlayerStat) bool { return p.Assists == 1 }},
	}

	for _, c := range cases {
		t.Run(string(c.event), func(t *testing.T) {
			l, _ := newTestLedger(t, player("p1", 0))
			got, err := l.Apply(context.Background(), "p1", c.event)
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if !c.check(got) {
				t.Fatalf("unexpected counters after %s: %+v", c.event, got)
			}
			total := got.Points/domain.PointsPerMade + got.Rebounds + got.Assists +
				got.Steals + got.Turnovers + got.ShotsMade + got.ShotsAttempted
			want := 1
			if c.event == domain.EventShotMade {
				// made shots move the made+points pair together
				want = 2
			}
			if total != want {
				t.Fatalf("expected exactly one increment (pair for made), got %+v", got)
			}
		})
	}
}

func TestApplyShotMadeMovesPercentage(t *testing.T) {
	p := player("p1", 0)
	p.Points = 10
	p.ShotsMade = 3
	p.ShotsAttempted = 5
	l, _ := newTestLedger(t, p)

	before, _ := l.Get(context.Background(), "p1")
	if got := before.FieldGoalPercentage(); got != 60 {
		t.Fatalf("expected 60%% before, got %v", got)
	}

	got, err := l.Apply(context.Background(), "p1", domain.EventShotMade)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got.Points != 12 || got.ShotsMade != 4 || got.ShotsAttempted != 5 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if pct := got.FieldGoalPercentage(); pct != 80 {
		t.Fatalf("expected 80%%, got %v", pct)
	}
}

func TestApplyPersistsThrough(t *testing.T) {
	l, _ := newTestLedger(t, player("p1", 0), player("p2", 1))

	if _, err := l.Apply(context.Background(), "p2", domain.EventSteal); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// A fresh Load must see the persisted value, not in-memory state.
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got, err := l.Get(context.Background(), "p2")
	if err != nil || got.Steals != 1 {
		t.Fatalf("steal did not survive reload: %+v err=%v", got, err)
	}
	other, _ := l.Get(context.Background(), "p1")
	if other.Steals != 0 {
		t.Fatalf("steal leaked onto wrong player: %+v", other)
	}
}

func TestApplyUnknownPlayer(t *testing.T) {
	l, _ := newTestLedger(t, player("p1", 0))

	_, err := l.Apply(context.Background(), "ghost", domain.EventRebound)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestApplyUnknownEvent(t *testing.T) {
	l, _ := newTestLedger(t, player("p1", 0))

	_, err := l.Apply(context.Background(), "p1", domain.StatEvent("dunk"))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}

	got, _ := l.Get(context.Background(), "p1")
	if got.Points != 0 || got.Rebounds != 0 {
		t.Fatalf("unknown event must not mutate: %+v", got)
	}
}

func TestGetReadsThroughToStore(t *testing.T) {
	l, repo := newTestLedger(t, player("p1", 0))

	// Written to the store behind the ledger's back.
	stray := player("p2", 1)
	if err := repo.Insert(context.Background(), &stray); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := l.Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("expected store fallback to find p2, got %v", err)
	}
	if got.ID != "p2" {
		t.Fatalf("unexpected player: %+v", got)
	}

	roster := l.Roster()
	if len(roster) != 2 || roster[1].ID != "p2" {
		t.Fatalf("expected p2 at the roster tail, got %+v", roster)
	}

	if _, err := l.Get(context.Background(), "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestAddAndCount(t *testing.T) {
	l, _ := newTestLedger(t, player("p1", 0))

	count, err := l.Count(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("expected count 1, got %d err=%v", count, err)
	}

	if err := l.Add(context.Background(), player("p2", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	count, err = l.Count(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("expected count 2, got %d err=%v", count, err)
	}

	// A fresh Load must see the added player.
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got, err := l.Get(context.Background(), "p2"); err != nil || got.Position != 1 {
		t.Fatalf("added player did not survive reload: %+v err=%v", got, err)
	}
}

func TestRosterKeepsSeedOrder(t *testing.T) {
	l, _ := newTestLedger(t, player("a", 0), player("b", 1), player("c", 2))

	roster := l.Roster()
	if len(roster) != 3 {
		t.Fatalf("expected 3, got %d", len(roster))
	}
	for i, want := range []string{"a", "b", "c"} {
		if roster[i].ID != want {
			t.Fatalf("expected %s at slot %d, got %s", want, i, roster[i].ID)
		}
	}
}

func TestRename(t *testing.T) {
	l, _ := newTestLedger(t, player("p1", 0))

	got, err := l.Rename(context.Background(), "p1", "Bird")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got.Name != "Bird" {
		t.Fatalf("expected Bird, got %s", got.Name)
	}

	if _, err := l.Rename(context.Background(), "ghost", "x"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}
