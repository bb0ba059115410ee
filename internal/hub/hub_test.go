package hub

import (
	"context"
	"testing"
	"time"

	"boxscore-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := NewClient("a")
	b := NewClient("b")
	h.Register(a)
	h.Register(b)

	waitFor(t, func() bool { return h.ClientCount() == 2 })

	update := domain.StatUpdate{PlayerID: "p1", Event: domain.EventRebound}
	h.Broadcast(update)

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.Send:
			if got.PlayerID != "p1" || got.Event != domain.EventRebound {
				t.Fatalf("unexpected update on %s: %+v", c.ID, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the update", c.ID)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := NewClient("a")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	select {
	case _, open := <-c.Send:
		if open {
			t.Fatal("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestShutdownOnContextCancel(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := NewClient("a")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on cancel")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients after shutdown, got %d", h.ClientCount())
	}
}

func TestCallsAfterShutdownDoNotBlock(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := NewClient("a")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		late := NewClient("late")
		h.Register(late)
		h.Unregister(late)
		h.Broadcast(domain.StatUpdate{PlayerID: "p1", Event: domain.EventSteal})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub call blocked after shutdown")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients after shutdown, got %d", h.ClientCount())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never met")
		case <-time.After(2 * time.Millisecond):
		}
	}
}
