package ws_test

import (
	"context"
	"testing"

	"bj-service/internal/service/game"
	"bj-service/internal/service/settlement"
	"bj-service/internal/ws"
)

func report(id string) *settlement.Report {
	return &settlement.Report{
		SettlementID: id,
		Settlement:   game.NewEngine(nil).Settle(nil, nil),
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := ws.NewHub()
	id1, ch1 := hub.Subscribe()
	_, ch2 := hub.Subscribe()

	hub.Notify(context.Background(), report("a"))

	for i, ch := range []<-chan ws.OutgoingMessage{ch1, ch2} {
		msg := <-ch
		if msg.Type != "settlement" || msg.Seq != 1 {
			t.Fatalf("subscriber %d got %+v", i, msg)
		}
		if r, ok := msg.Data.(*settlement.Report); !ok || r.SettlementID != "a" {
			t.Fatalf("subscriber %d got data %+v", i, msg.Data)
		}
	}

	hub.Unsubscribe(id1)
	if _, ok := <-ch1; ok {
		t.Fatalf("expected channel to be closed after unsubscribe")
	}
	if hub.Len() != 1 {
		t.Fatalf("subscribers = %d, want 1", hub.Len())
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := ws.NewHub()
	_, ch := hub.Subscribe()

	for i := 0; i < 40; i++ {
		hub.Notify(context.Background(), report("r"))
	}
	if len(ch) != cap(ch) {
		t.Fatalf("expected buffer to be full, len=%d cap=%d", len(ch), cap(ch))
	}
	first := <-ch
	if first.Seq != 1 {
		t.Fatalf("first seq = %d, want 1", first.Seq)
	}
}
