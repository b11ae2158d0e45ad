package game

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomePush
	OutcomeHandWin
	OutcomeBlackJack
)

var outcomeLabels = map[Outcome]string{
	OutcomeLoss:      "Loss",
	OutcomePush:      "Push",
	OutcomeHandWin:   "HandWin",
	OutcomeBlackJack: "BlackJack",
}

// Payout multipliers applied to the main wager. A natural pays 1.5x in place
// of the stake, a regular win pays stake plus even money.
var outcomeMultipliers = map[Outcome]decimal.Decimal{
	OutcomeLoss:      decimal.Zero,
	OutcomePush:      decimal.NewFromInt(1),
	OutcomeHandWin:   decimal.NewFromInt(2),
	OutcomeBlackJack: decimal.NewFromFloat(1.5),
}

func (o Outcome) String() string {
	if s, ok := outcomeLabels[o]; ok {
		return s
	}
	return "Unknown"
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	for outcome, l := range outcomeLabels {
		if l == label {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", label)
}

// Payout returns what the main wager pays for this outcome.
func (o Outcome) Payout(wager decimal.Decimal) decimal.Decimal {
	return wager.Mul(outcomeMultipliers[o])
}

// Score is a valued hand.
type Score struct {
	Value int `json:"value"`
	Cards int `json:"cards"`
}

func ScoreOf(hand Hand) Score {
	return Score{Value: HandValue(hand), Cards: len(hand)}
}

func (s Score) Natural() bool {
	return s.Cards == 2 && s.Value == blackjackTotal
}

func (s Score) Bust() bool {
	return s.Value > blackjackTotal
}

// Compare decides the main-wager outcome. Rules are checked in order and the
// first match wins:
//
//  1. player natural: push against a dealer natural, otherwise blackjack
//  2. equal totals: push
//  3. player higher or dealer bust: win
//  4. loss
//
// A busted player is not special-cased: totals are compared as recorded.
func Compare(player, dealer Score) Outcome {
	switch {
	case player.Natural():
		if dealer.Natural() {
			return OutcomePush
		}
		return OutcomeBlackJack
	case player.Value == dealer.Value:
		return OutcomePush
	case player.Value > dealer.Value || dealer.Bust():
		return OutcomeHandWin
	default:
		return OutcomeLoss
	}
}
