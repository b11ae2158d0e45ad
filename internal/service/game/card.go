package game

import (
	"strings"
)

// Card is a dealt card token: leading suit/colour character(s) followed by the rank.
// Examples: "H10", "SA", "DK", or a bare rank such as "7".
type Card string

// Hand is the ordered sequence of cards held by the dealer or a seat.
type Hand []Card

const (
	blackjackTotal = 21
	aceSoftDelta   = 10
)

// rankValues is never written after init.
var rankValues = map[string]int{
	"2":  2,
	"3":  3,
	"4":  4,
	"5":  5,
	"6":  6,
	"7":  7,
	"8":  8,
	"9":  9,
	"10": 10,
	"J":  10,
	"Q":  10,
	"K":  10,
	"A":  11,
}

// Rank returns the trailing rank of the token in upper case.
func (c Card) Rank() string {
	token := strings.ToUpper(strings.TrimSpace(string(c)))
	if token == "" {
		return ""
	}
	if strings.HasSuffix(token, "10") {
		return "10"
	}
	return token[len(token)-1:]
}

// Value returns the base value of the card and whether its rank is known.
// Aces report 11.
func (c Card) Value() (int, bool) {
	v, ok := rankValues[c.Rank()]
	return v, ok
}

func (c Card) isAce() bool {
	return c.Rank() == "A"
}

// HandValue returns the best total of the hand, counting each ace as 11
// unless that would bust the hand. Unknown cards count as 0.
func HandValue(hand Hand) int {
	total, _ := valueHand(hand)
	return total
}

// valueHand also returns the cards whose rank is not in the value table.
func valueHand(hand Hand) (int, []Card) {
	var (
		total   int
		aces    int
		unknown []Card
	)
	for _, card := range hand {
		v, ok := card.Value()
		if !ok {
			unknown = append(unknown, card)
			continue
		}
		total += v
		if card.isAce() {
			aces++
		}
	}
	for total > blackjackTotal && aces > 0 {
		total -= aceSoftDelta
		aces--
	}
	return total, unknown
}

// IsNatural reports whether the hand is a two-card 21.
func (h Hand) IsNatural() bool {
	return len(h) == 2 && HandValue(h) == blackjackTotal
}

// Strings returns the raw tokens, for display.
func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = string(c)
	}
	return out
}

// NewHand builds a hand from raw tokens.
func NewHand(tokens ...string) Hand {
	hand := make(Hand, len(tokens))
	for i, t := range tokens {
		hand[i] = Card(t)
	}
	return hand
}
