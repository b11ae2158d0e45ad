package game_test

import (
	"testing"

	"bj-service/internal/service/game"

	"github.com/shopspring/decimal"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		name   string
		player game.Hand
		dealer game.Hand
		want   game.Outcome
	}{
		{"natural beats dealer 20", game.NewHand("A", "K"), game.NewHand("K", "Q"), game.OutcomeBlackJack},
		{"natural vs natural", game.NewHand("A", "K"), game.NewHand("Q", "A"), game.OutcomePush},
		{"natural vs three-card 21", game.NewHand("A", "J"), game.NewHand("7", "7", "7"), game.OutcomeBlackJack},
		{"three-card 21 vs natural ties", game.NewHand("7", "7", "7"), game.NewHand("A", "K"), game.OutcomePush},
		{"equal totals", game.NewHand("10", "8"), game.NewHand("9", "9"), game.OutcomePush},
		{"player higher", game.NewHand("10", "9"), game.NewHand("10", "7"), game.OutcomeHandWin},
		{"dealer bust", game.NewHand("2", "3"), game.NewHand("K", "Q", "5"), game.OutcomeHandWin},
		{"player lower", game.NewHand("10", "6"), game.NewHand("10", "8"), game.OutcomeLoss},
		{"player over 21 above dealer", game.NewHand("K", "Q", "2"), game.NewHand("10", "8"), game.OutcomeHandWin},
		{"player 25 above dealer", game.NewHand("K", "Q", "5"), game.NewHand("10", "8"), game.OutcomeHandWin},
		{"both over 21 player higher", game.NewHand("K", "Q", "5"), game.NewHand("K", "Q", "2"), game.OutcomeHandWin},
		{"22 vs 22", game.NewHand("K", "Q", "2"), game.NewHand("K", "Q", "2"), game.OutcomePush},
		{"both over 21 player lower", game.NewHand("K", "Q", "2"), game.NewHand("K", "Q", "5"), game.OutcomeHandWin},
		{"empty vs empty", nil, nil, game.OutcomePush},
		{"empty vs dealer", nil, game.NewHand("2", "3"), game.OutcomeLoss},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := game.Compare(game.ScoreOf(tc.player), game.ScoreOf(tc.dealer))
			if got != tc.want {
				t.Fatalf("Compare(%v, %v) = %s, want %s", tc.player, tc.dealer, got, tc.want)
			}
		})
	}
}

func TestOutcomePayout(t *testing.T) {
	wager := decimal.NewFromInt(10)
	cases := map[game.Outcome]string{
		game.OutcomeLoss:      "0",
		game.OutcomePush:      "10",
		game.OutcomeHandWin:   "20",
		game.OutcomeBlackJack: "15",
	}
	for outcome, want := range cases {
		got := outcome.Payout(wager)
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%s payout = %s, want %s", outcome, got, want)
		}
	}
}

func TestBustDominance(t *testing.T) {
	dealer := game.Score{Value: 26, Cards: 3}
	for v := 2; v <= 21; v++ {
		player := game.Score{Value: v, Cards: 3}
		if got := game.Compare(player, dealer); got != game.OutcomeHandWin {
			t.Fatalf("player %d vs dealer bust = %s, want HandWin", v, got)
		}
	}
}

func TestOutcomeLabels(t *testing.T) {
	want := map[game.Outcome]string{
		game.OutcomeLoss:      "Loss",
		game.OutcomePush:      "Push",
		game.OutcomeHandWin:   "HandWin",
		game.OutcomeBlackJack: "BlackJack",
	}
	for o, label := range want {
		if o.String() != label {
			t.Fatalf("label = %q, want %q", o.String(), label)
		}
	}
}
