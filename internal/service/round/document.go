package round

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"bj-service/internal/service/game"
	appErr "bj-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// Decode warning kinds, reported next to the engine's own warnings.
const (
	WarnMalformedField   game.WarningKind = "malformed_field"
	WarnMissingMainWager game.WarningKind = "missing_main_wager"
	WarnDuplicateMain    game.WarningKind = "duplicate_main_wager"
	WarnExtraHands       game.WarningKind = "extra_hands"
)

// Round is a decoded round document, ready for the engine.
type Round struct {
	DealerHand game.Hand
	Seats      map[string]game.SeatRound
	Warnings   []game.Warning
}

// document mirrors the table system's round record:
//
//	{"dealerCards": ["SK", "H5"],
//	 "playerRoundHistBj": {"1": {"player_id": "p1",
//	     "handsResults": [{"cardValues": ["D9", "C8"]}],
//	     "betsResults": [{"betType": "INITIAL_BET", "bet": 10}, {"betType": "Flush", "bet": 5}]}}}
type document struct {
	DealerCards       json.RawMessage `json:"dealerCards"`
	PlayerRoundHistBj json.RawMessage `json:"playerRoundHistBj"`
}

type seatDocument struct {
	PlayerID     json.RawMessage `json:"player_id"`
	HandsResults json.RawMessage `json:"handsResults"`
	BetsResults  json.RawMessage `json:"betsResults"`
}

type betDocument struct {
	BetType string          `json:"betType"`
	Bet     decimal.Decimal `json:"bet"`
}

type decoder struct {
	warnings []game.Warning
}

func (d *decoder) warn(kind game.WarningKind, seatID, value string) {
	d.warnings = append(d.warnings, game.Warning{Kind: kind, SeatID: seatID, Value: value})
}

// Decode parses a round document. Only a payload that is not a JSON object
// fails; malformed or missing fields fall back to empty values and are
// reported as warnings.
func Decode(raw []byte) (*Round, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", appErr.ErrInvalidRoundDocument)
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrInvalidRoundDocument, err)
	}

	d := &decoder{}
	round := &Round{
		DealerHand: d.cards("", "dealerCards", doc.DealerCards),
		Seats:      make(map[string]game.SeatRound),
	}

	var seats map[string]json.RawMessage
	if !isEmpty(doc.PlayerRoundHistBj) {
		if err := json.Unmarshal(doc.PlayerRoundHistBj, &seats); err != nil {
			d.warn(WarnMalformedField, "", "playerRoundHistBj")
		}
	}
	for seatID, rawSeat := range seats {
		round.Seats[seatID] = d.seat(seatID, rawSeat)
	}

	round.Warnings = d.warnings
	return round, nil
}

func (d *decoder) seat(seatID string, raw json.RawMessage) game.SeatRound {
	seat := game.SeatRound{SeatID: seatID}

	var doc seatDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		d.warn(WarnMalformedField, seatID, "seat")
		return seat
	}

	seat.PlayerID = d.playerID(seatID, doc.PlayerID)
	seat.Hand = d.hand(seatID, doc.HandsResults)
	seat.MainWager, seat.SideWagers = d.bets(seatID, doc.BetsResults)
	return seat
}

func (d *decoder) playerID(seatID string, raw json.RawMessage) string {
	if isEmpty(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	d.warn(WarnMalformedField, seatID, "player_id")
	return ""
}

func (d *decoder) hand(seatID string, raw json.RawMessage) game.Hand {
	if isEmpty(raw) {
		return nil
	}
	var hands []json.RawMessage
	if err := json.Unmarshal(raw, &hands); err != nil {
		d.warn(WarnMalformedField, seatID, "handsResults")
		return nil
	}
	if len(hands) == 0 {
		return nil
	}
	if len(hands) > 1 {
		d.warn(WarnExtraHands, seatID, fmt.Sprintf("%d", len(hands)))
	}
	var first struct {
		CardValues json.RawMessage `json:"cardValues"`
	}
	if err := json.Unmarshal(hands[0], &first); err != nil {
		d.warn(WarnMalformedField, seatID, "handsResults[0]")
		return nil
	}
	return d.cards(seatID, "handsResults[0].cardValues", first.CardValues)
}

func (d *decoder) cards(seatID, field string, raw json.RawMessage) game.Hand {
	if isEmpty(raw) {
		return nil
	}
	var tokens []string
	if err := json.Unmarshal(raw, &tokens); err != nil {
		d.warn(WarnMalformedField, seatID, field)
		return nil
	}
	return game.NewHand(tokens...)
}

func (d *decoder) bets(seatID string, raw json.RawMessage) (decimal.Decimal, []game.SideWager) {
	main := decimal.Zero
	if isEmpty(raw) {
		d.warn(WarnMissingMainWager, seatID, "")
		return main, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		d.warn(WarnMalformedField, seatID, "betsResults")
		return main, nil
	}

	var (
		sides     []game.SideWager
		foundMain bool
	)
	for i, entry := range entries {
		var bet betDocument
		if err := json.Unmarshal(entry, &bet); err != nil {
			d.warn(WarnMalformedField, seatID, fmt.Sprintf("betsResults[%d]", i))
			continue
		}
		wagerType := game.ParseWagerType(bet.BetType)
		if wagerType.IsMain() {
			if foundMain {
				d.warn(WarnDuplicateMain, seatID, bet.Bet.String())
				continue
			}
			foundMain = true
			main = bet.Bet
			continue
		}
		sides = append(sides, game.SideWager{Type: wagerType, Amount: bet.Bet})
	}
	if !foundMain {
		d.warn(WarnMissingMainWager, seatID, "")
	}
	return main, sides
}

func isEmpty(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
