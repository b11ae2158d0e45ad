package game

import (
	"strings"

	"github.com/shopspring/decimal"
)

type WagerType string

// MainWagerMarker is the bet type used by table records for the main wager.
const MainWagerMarker WagerType = "INITIAL_BET"

const (
	WagerMixedColorPair     WagerType = "MixedColorPair"
	WagerSameColorPair      WagerType = "SameColorPair"
	WagerGoldenPair         WagerType = "GoldenPair"
	WagerFlush              WagerType = "Flush"
	WagerStraight           WagerType = "Straight"
	WagerThreeOfAKind       WagerType = "ThreeOfAKind"
	WagerStraightFlush      WagerType = "StraightFlush"
	WagerSuitedTrips        WagerType = "SuitedTrips"
	WagerThreeOfAKindSuited WagerType = "ThreeOfAKindSuited"
)

var sideWagerRatios = map[WagerType]int64{
	WagerMixedColorPair:     6,
	WagerSameColorPair:      12,
	WagerGoldenPair:         25,
	WagerFlush:              5,
	WagerStraight:           10,
	WagerThreeOfAKind:       30,
	WagerStraightFlush:      40,
	WagerSuitedTrips:        100,
	WagerThreeOfAKindSuited: 270,
}

// wagerAliases maps a folded name (lower case, separators removed) to its type.
var wagerAliases = func() map[string]WagerType {
	m := make(map[string]WagerType, len(sideWagerRatios)+1)
	for t := range sideWagerRatios {
		m[foldWagerName(string(t))] = t
	}
	m[foldWagerName(string(MainWagerMarker))] = MainWagerMarker
	return m
}()

func foldWagerName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// ParseWagerType maps external names such as "Mixed Color Pair" or
// "three_of_a_kind" onto the enumerated types. Unknown names are returned as-is.
func ParseWagerType(name string) WagerType {
	if t, ok := wagerAliases[foldWagerName(name)]; ok {
		return t
	}
	return WagerType(strings.TrimSpace(name))
}

// Ratio returns the fixed payout multiplier; unknown types pay 0.
func (t WagerType) Ratio() (int64, bool) {
	r, ok := sideWagerRatios[t]
	return r, ok
}

func (t WagerType) IsMain() bool {
	return t == MainWagerMarker
}

type SideWager struct {
	Type   WagerType       `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Payout is amount × ratio.
func (w SideWager) Payout() decimal.Decimal {
	ratio, _ := w.Type.Ratio()
	return w.Amount.Mul(decimal.NewFromInt(ratio))
}

// RateSideWagers returns the payout per wager type. Main-wager entries are
// ignored; unknown types are listed with a zero payout.
func RateSideWagers(wagers []SideWager) map[WagerType]decimal.Decimal {
	payouts := make(map[WagerType]decimal.Decimal, len(wagers))
	for _, w := range wagers {
		if w.Type.IsMain() {
			continue
		}
		payouts[w.Type] = payouts[w.Type].Add(w.Payout())
	}
	return payouts
}

func sumPayouts(payouts map[WagerType]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p)
	}
	return total
}
