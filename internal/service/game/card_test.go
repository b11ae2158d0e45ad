package game_test

import (
	"testing"

	"bj-service/internal/service/game"
)

func TestHandValue(t *testing.T) {
	cases := []struct {
		name string
		hand game.Hand
		want int
	}{
		{"two aces", game.NewHand("A", "A"), 12},
		{"two faces", game.NewHand("K", "Q"), 20},
		{"ace reduced", game.NewHand("A", "K", "5"), 16},
		{"empty", nil, 0},
		{"soft 21", game.NewHand("A", "10"), 21},
		{"suited tokens", game.NewHand("HA", "S10"), 21},
		{"three aces", game.NewHand("DA", "CA", "SA"), 13},
		{"four aces and nine", game.NewHand("A", "A", "A", "A", "9"), 13},
		{"hard bust", game.NewHand("K", "Q", "5"), 25},
		{"lowercase rank", game.NewHand("hk", "da"), 21},
		{"unknown rank ignored", game.NewHand("X1", "9"), 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := game.HandValue(tc.hand); got != tc.want {
				t.Fatalf("HandValue(%v) = %d, want %d", tc.hand, got, tc.want)
			}
		})
	}
}

func TestHandValueIsRepeatable(t *testing.T) {
	hand := game.NewHand("A", "A", "9", "A")
	first := game.HandValue(hand)
	for i := 0; i < 5; i++ {
		if got := game.HandValue(hand); got != first {
			t.Fatalf("call %d returned %d, first call returned %d", i, got, first)
		}
	}
	if hand[0] != "A" || len(hand) != 4 {
		t.Fatalf("hand was modified: %v", hand)
	}
}

func TestCardRank(t *testing.T) {
	cases := map[game.Card]string{
		"H10": "10",
		"10":  "10",
		"SA":  "A",
		"A":   "A",
		"dq":  "Q",
		"":    "",
		"C0":  "0",
	}
	for card, want := range cases {
		if got := card.Rank(); got != want {
			t.Fatalf("Card(%q).Rank() = %q, want %q", card, got, want)
		}
	}
}

func TestIsNatural(t *testing.T) {
	if !game.NewHand("A", "K").IsNatural() {
		t.Fatalf("expected A,K to be a natural")
	}
	if game.NewHand("7", "7", "7").IsNatural() {
		t.Fatalf("three-card 21 is not a natural")
	}
	if game.NewHand("A", "9").IsNatural() {
		t.Fatalf("soft 20 is not a natural")
	}
}
