package game_test

import (
	"sync"
	"testing"

	"bj-service/internal/service/game"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}

func TestSettleScenario(t *testing.T) {
	engine := game.NewEngine(nil)

	result := engine.Settle(game.NewHand("K", "5"), map[string]game.SeatRound{
		"A": {
			PlayerID:  "p-a",
			Hand:      game.NewHand("9", "8"),
			MainWager: amount(10),
			SideWagers: []game.SideWager{
				{Type: game.WagerFlush, Amount: amount(5)},
			},
		},
		"B": {
			PlayerID:  "p-b",
			Hand:      game.NewHand("10", "Q"),
			MainWager: amount(10),
		},
	})

	if result.DealerValue != 15 {
		t.Fatalf("dealer value = %d, want 15", result.DealerValue)
	}

	seatA, ok := result.Seat("A")
	if !ok {
		t.Fatalf("seat A missing")
	}
	if seatA.Outcome != game.OutcomeHandWin {
		t.Fatalf("seat A outcome = %s", seatA.Outcome)
	}
	assertAmount(t, "seat A main payout", seatA.MainPayout, "20")
	assertAmount(t, "seat A side payout", seatA.SidePayout, "25")
	assertAmount(t, "seat A flush payout", seatA.SidePayouts[game.WagerFlush], "25")
	assertAmount(t, "seat A total", seatA.TotalPayout, "45")

	seatB, ok := result.Seat("B")
	if !ok {
		t.Fatalf("seat B missing")
	}
	assertAmount(t, "seat B total", seatB.TotalPayout, "20")
	if len(seatB.SidePayouts) != 0 {
		t.Fatalf("seat B has side payouts: %v", seatB.SidePayouts)
	}

	assertAmount(t, "grand total", result.TotalPayout, "65")
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}
}

func TestSettleNaturals(t *testing.T) {
	engine := game.NewEngine(nil)

	win := engine.Settle(game.NewHand("K", "9"), map[string]game.SeatRound{
		"1": {Hand: game.NewHand("SA", "HK"), MainWager: amount(10)},
	})
	seat, _ := win.Seat("1")
	if seat.Outcome != game.OutcomeBlackJack {
		t.Fatalf("outcome = %s, want BlackJack", seat.Outcome)
	}
	assertAmount(t, "natural payout", seat.TotalPayout, "15")

	push := engine.Settle(game.NewHand("DA", "CQ"), map[string]game.SeatRound{
		"1": {Hand: game.NewHand("SA", "HK"), MainWager: amount(10)},
	})
	seat, _ = push.Seat("1")
	if seat.Outcome != game.OutcomePush {
		t.Fatalf("outcome = %s, want Push", seat.Outcome)
	}
	assertAmount(t, "natural push payout", seat.TotalPayout, "10")
}

func TestSettleSideWagersAdditive(t *testing.T) {
	engine := game.NewEngine(nil)

	result := engine.Settle(game.NewHand("K", "Q"), map[string]game.SeatRound{
		"3": {
			Hand:      game.NewHand("2", "3"),
			MainWager: amount(50),
			SideWagers: []game.SideWager{
				{Type: game.WagerMixedColorPair, Amount: amount(1)},
				{Type: game.WagerThreeOfAKindSuited, Amount: amount(2)},
				{Type: game.WagerType("Lucky Ladies"), Amount: amount(100)},
				{Type: game.MainWagerMarker, Amount: amount(50)},
			},
		},
	})
	seat, _ := result.Seat("3")
	if seat.Outcome != game.OutcomeLoss {
		t.Fatalf("outcome = %s, want Loss", seat.Outcome)
	}
	assertAmount(t, "main payout", seat.MainPayout, "0")
	// 1*6 + 2*270 + 0
	assertAmount(t, "side payout", seat.SidePayout, "546")
	assertAmount(t, "unknown wager payout", seat.SidePayouts["Lucky Ladies"], "0")
	assertAmount(t, "total", seat.TotalPayout, "546")
	if len(seat.SideWagers) != 3 {
		t.Fatalf("expected main marker to be dropped from side wagers, got %d", len(seat.SideWagers))
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != game.WarnUnknownWagerType {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}
}

func TestSettleDegradedInput(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	engine := game.NewEngine(zap.New(core))

	result := engine.Settle(game.NewHand("K", "Z"), map[string]game.SeatRound{
		"1": {},
		"2": {Hand: game.NewHand("9", "9"), MainWager: amount(-5)},
	})

	seat1, _ := result.Seat("1")
	if seat1.PlayerID != "Player-1" {
		t.Fatalf("player id = %q, want Player-1", seat1.PlayerID)
	}
	if seat1.Outcome != game.OutcomeLoss {
		t.Fatalf("empty seat outcome = %s, want Loss", seat1.Outcome)
	}
	assertAmount(t, "empty seat total", seat1.TotalPayout, "0")

	seat2, _ := result.Seat("2")
	assertAmount(t, "clamped wager", seat2.MainWager, "0")
	assertAmount(t, "clamped total", seat2.TotalPayout, "0")

	// unknown dealer rank, empty seat hand, negative wager
	if len(result.Warnings) != 3 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	if logs.FilterMessage("settlement data warning").Len() != 3 {
		t.Fatalf("expected 3 warning logs, got %d", logs.Len())
	}
}

func TestSettleEmptyRound(t *testing.T) {
	result := game.NewEngine(nil).Settle(nil, nil)
	if len(result.Seats) != 0 {
		t.Fatalf("expected no seats")
	}
	assertAmount(t, "total", result.TotalPayout, "0")
}

func TestSettleAggregateConsistency(t *testing.T) {
	engine := game.NewEngine(nil)
	seats := map[string]game.SeatRound{
		"1":  {Hand: game.NewHand("A", "K"), MainWager: amount(7)},
		"2":  {Hand: game.NewHand("9", "9"), MainWager: amount(3)},
		"10": {Hand: game.NewHand("5", "5", "5"), MainWager: amount(4), SideWagers: []game.SideWager{{Type: game.WagerGoldenPair, Amount: amount(1)}}},
		"4":  {Hand: game.NewHand("K", "Q", "J"), MainWager: amount(9)},
	}
	result := engine.Settle(game.NewHand("10", "8"), seats)

	sum := decimal.Zero
	for _, s := range result.Seats {
		if s.TotalPayout.IsNegative() {
			t.Fatalf("seat %s negative total %s", s.SeatID, s.TotalPayout)
		}
		sum = sum.Add(s.TotalPayout)
	}
	if !sum.Equal(result.TotalPayout) {
		t.Fatalf("grand total %s != sum of seats %s", result.TotalPayout, sum)
	}

	order := []string{"1", "2", "4", "10"}
	for i, s := range result.Seats {
		if s.SeatID != order[i] {
			t.Fatalf("seat order = %v", result.Seats)
		}
	}
}

func TestSettlePlayerOverTwentyOne(t *testing.T) {
	engine := game.NewEngine(nil)

	result := engine.Settle(game.NewHand("10", "8"), map[string]game.SeatRound{
		"1": {Hand: game.NewHand("K", "Q", "2"), MainWager: amount(10)},
		"2": {Hand: game.NewHand("K", "Q", "5"), MainWager: amount(10)},
	})
	for _, id := range []string{"1", "2"} {
		seat, _ := result.Seat(id)
		if seat.Outcome != game.OutcomeHandWin {
			t.Fatalf("seat %s outcome = %s, want HandWin", id, seat.Outcome)
		}
		assertAmount(t, "seat "+id+" total", seat.TotalPayout, "20")
	}

	tie := engine.Settle(game.NewHand("K", "Q", "2"), map[string]game.SeatRound{
		"3": {Hand: game.NewHand("K", "Q", "2"), MainWager: amount(10)},
	})
	seat, _ := tie.Seat("3")
	if seat.Outcome != game.OutcomePush {
		t.Fatalf("22 vs 22 outcome = %s, want Push", seat.Outcome)
	}
	assertAmount(t, "22 vs 22 total", seat.TotalPayout, "10")
}

func TestSettleDetails(t *testing.T) {
	engine := game.NewEngine(nil)

	cases := []struct {
		name   string
		dealer game.Hand
		player game.Hand
		want   string
	}{
		{
			"win",
			game.NewHand("K", "5"), game.NewHand("9", "8"),
			"Hand 1: Cards - [9 8], Value - 17, Dealer Cards - [K 5], Dealer Value - 15, HandWin",
		},
		{
			"blackjack",
			game.NewHand("K", "9"), game.NewHand("SA", "HK"),
			"Hand 1: Cards - [SA HK], Value - 21, Dealer Cards - [K 9], Dealer Value - 19, BlackJack",
		},
		{
			"push",
			game.NewHand("9", "9"), game.NewHand("10", "8"),
			"Hand 1: Cards - [10 8], Value - 18, Dealer Cards - [9 9], Dealer Value - 18, Push",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := engine.Settle(tc.dealer, map[string]game.SeatRound{
				"1": {Hand: tc.player, MainWager: amount(10)},
			})
			seat, _ := result.Seat("1")
			if seat.Details != tc.want {
				t.Fatalf("details = %q, want %q", seat.Details, tc.want)
			}
		})
	}
}

func TestSettleConcurrentCallers(t *testing.T) {
	engine := game.NewEngine(nil)
	dealer := game.NewHand("K", "5")

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := engine.Settle(dealer, map[string]game.SeatRound{
				"A": {
					Hand:       game.NewHand("9", "8"),
					MainWager:  amount(10),
					SideWagers: []game.SideWager{{Type: game.WagerFlush, Amount: amount(5)}},
				},
				"B": {Hand: game.NewHand("10", "Q"), MainWager: amount(10)},
			})
			if !result.TotalPayout.Equal(amount(65)) {
				errs <- result.TotalPayout.String()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent settle total = %s, want 65", got)
	}
}
