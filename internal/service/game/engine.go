package game

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WarningKind string

const (
	WarnUnknownRank      WarningKind = "unknown_rank"
	WarnUnknownWagerType WarningKind = "unknown_wager_type"
	WarnNegativeAmount   WarningKind = "negative_amount"
	WarnEmptyHand        WarningKind = "empty_hand"
)

// Warning is a non-fatal data-quality problem found while settling.
// SeatID is empty for problems with the dealer hand.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	SeatID string      `json:"seatId,omitempty"`
	Value  string      `json:"value,omitempty"`
}

// SeatRound is one seat's input for a round.
type SeatRound struct {
	SeatID     string
	PlayerID   string
	Hand       Hand
	MainWager  decimal.Decimal
	SideWagers []SideWager
}

type SeatResult struct {
	SeatID      string                        `json:"seatId"`
	PlayerID    string                        `json:"playerId"`
	Cards       []string                      `json:"cards"`
	Value       int                           `json:"value"`
	MainWager   decimal.Decimal               `json:"mainWager"`
	Outcome     Outcome                       `json:"outcome"`
	MainPayout  decimal.Decimal               `json:"mainPayout"`
	SideWagers  []SideWager                   `json:"sideWagers"`
	SidePayouts map[WagerType]decimal.Decimal `json:"sidePayouts"`
	SidePayout  decimal.Decimal               `json:"sidePayout"`
	TotalPayout decimal.Decimal               `json:"totalPayout"`
	Details     string                        `json:"details"`
}

// RoundSettlement is the settled round. It is built once by Settle and not
// modified afterwards.
type RoundSettlement struct {
	DealerCards []string        `json:"dealerCards"`
	DealerValue int             `json:"dealerValue"`
	Seats       []SeatResult    `json:"seats"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
	Warnings    []Warning       `json:"warnings,omitempty"`
}

// Seat looks a seat result up by id.
func (r *RoundSettlement) Seat(seatID string) (SeatResult, bool) {
	for _, s := range r.Seats {
		if s.SeatID == seatID {
			return s, true
		}
	}
	return SeatResult{}, false
}

// Engine settles rounds. It keeps no per-round state and is safe for
// concurrent use.
type Engine struct {
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Settle values the dealer hand once and settles every seat against it.
func (e *Engine) Settle(dealer Hand, seats map[string]SeatRound) *RoundSettlement {
	w := &warnings{log: e.log}

	dealerValue, unknown := valueHand(dealer)
	for _, c := range unknown {
		w.add(Warning{Kind: WarnUnknownRank, Value: string(c)})
	}
	if len(dealer) == 0 {
		w.add(Warning{Kind: WarnEmptyHand})
	}
	dealerScore := Score{Value: dealerValue, Cards: len(dealer)}

	ids := make([]string, 0, len(seats))
	for id := range seats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return seatLess(ids[i], ids[j]) })

	result := &RoundSettlement{
		DealerCards: dealer.Strings(),
		DealerValue: dealerValue,
		Seats:       make([]SeatResult, 0, len(ids)),
		TotalPayout: decimal.Zero,
	}
	for _, id := range ids {
		seat := seats[id]
		if seat.SeatID == "" {
			seat.SeatID = id
		}
		res := e.settleSeat(seat, dealer, dealerScore, w)
		result.TotalPayout = result.TotalPayout.Add(res.TotalPayout)
		result.Seats = append(result.Seats, res)
	}
	result.Warnings = w.list

	e.log.Debug("round settled",
		zap.Strings("dealerCards", result.DealerCards),
		zap.Int("dealerValue", dealerValue),
		zap.Int("seats", len(result.Seats)),
		zap.String("totalPayout", result.TotalPayout.String()),
	)
	return result
}

func (e *Engine) settleSeat(seat SeatRound, dealer Hand, dealerScore Score, w *warnings) SeatResult {
	value, unknown := valueHand(seat.Hand)
	for _, c := range unknown {
		w.add(Warning{Kind: WarnUnknownRank, SeatID: seat.SeatID, Value: string(c)})
	}
	if len(seat.Hand) == 0 {
		w.add(Warning{Kind: WarnEmptyHand, SeatID: seat.SeatID})
	}

	mainWager := seat.MainWager
	if mainWager.IsNegative() {
		w.add(Warning{Kind: WarnNegativeAmount, SeatID: seat.SeatID, Value: mainWager.String()})
		mainWager = decimal.Zero
	}

	sides := make([]SideWager, 0, len(seat.SideWagers))
	for _, sw := range seat.SideWagers {
		if sw.Type.IsMain() {
			continue
		}
		if _, ok := sw.Type.Ratio(); !ok {
			w.add(Warning{Kind: WarnUnknownWagerType, SeatID: seat.SeatID, Value: string(sw.Type)})
		}
		if sw.Amount.IsNegative() {
			w.add(Warning{Kind: WarnNegativeAmount, SeatID: seat.SeatID, Value: sw.Amount.String()})
			sw.Amount = decimal.Zero
		}
		sides = append(sides, sw)
	}
	sidePayouts := RateSideWagers(sides)
	sidePayout := sumPayouts(sidePayouts)

	outcome := Compare(Score{Value: value, Cards: len(seat.Hand)}, dealerScore)
	mainPayout := outcome.Payout(mainWager)

	playerID := seat.PlayerID
	if playerID == "" {
		playerID = "Player-" + seat.SeatID
	}
	cards := seat.Hand.Strings()

	return SeatResult{
		SeatID:      seat.SeatID,
		PlayerID:    playerID,
		Cards:       cards,
		Value:       value,
		MainWager:   mainWager,
		Outcome:     outcome,
		MainPayout:  mainPayout,
		SideWagers:  sides,
		SidePayouts: sidePayouts,
		SidePayout:  sidePayout,
		TotalPayout: mainPayout.Add(sidePayout),
		Details: fmt.Sprintf("Hand 1: Cards - %v, Value - %d, Dealer Cards - %v, Dealer Value - %d, %s",
			cards, value, dealer.Strings(), dealerScore.Value, outcome),
	}
}

type warnings struct {
	log  *zap.Logger
	list []Warning
}

func (w *warnings) add(warn Warning) {
	w.list = append(w.list, warn)
	w.log.Warn("settlement data warning",
		zap.String("kind", string(warn.Kind)),
		zap.String("seatID", warn.SeatID),
		zap.String("value", warn.Value),
	)
}

// seatLess orders numeric seat ids numerically and everything else lexically
// after them.
func seatLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
