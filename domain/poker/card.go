package poker

import (
	"fmt"
	"strings"
)

// Card suit constants (0-3)
const (
	Club    = 0 // ♣
	Diamond = 1 // ♦
	Heart   = 2 // ♥
	Spade   = 3 // ♠
)

// Card rank constants for face cards and ace
const (
	Ace   = 1 // A (low in straights, high in value)
	Ten   = 10
	Jack  = 11
	Queen = 12
	King  = 13
)

// FaceDown is the display character for hidden cards
const FaceDown = "▓"

// Card represents a playing card with suit and rank.
//
// The zero value is Unknown: a card the viewing party is not entitled to
// see. Known cards are only built through NewCard, IntToCard or ParseCard.
type Card struct {
	suit  uint8 // 0-3: clubs, diamonds, hearts, spades
	rank  uint8 // 1-13: ace through king
	known bool
}

// Unknown is the sentinel for a card that has not been revealed to the viewer.
var Unknown = Card{}

// NewCard creates a new Card with validation.
//
// Parameters:
//   - suit: 0-3 (Club, Diamond, Heart, Spade)
//   - rank: 1-13 (Ace=1, 2-10=face value, Jack=11, Queen=12, King=13)
//
// Returns the Card or an error if suit or rank is invalid.
func NewCard(suit uint8, rank uint8) (Card, error) {
	if suit > Spade || rank == 0 || rank > King {
		return Unknown, fmt.Errorf("invalid card %d, %d", suit, rank)
	}
	return Card{suit: suit, rank: rank, known: true}, nil
}

// IsUnknown reports whether c is the Unknown sentinel.
func (c Card) IsUnknown() bool {
	return !c.known
}

// Suit returns the suit value of the Card (0-3: clubs, diamonds, hearts, spades).
func (c Card) Suit() uint8 {
	return c.suit
}

// Rank returns the rank value of the Card (1-13: ace through king).
func (c Card) Rank() uint8 {
	return c.rank
}

// IntToCard converts a raw card number (1-52) to a Card. Card numbers map to suits in order
// (clubs, diamonds, hearts, spades) with ranks 1-13 within each suit. Returns an error
// if the card number is outside the valid range.
func IntToCard(rawCard int) (Card, error) {
	if rawCard > 52 || rawCard < 1 {
		return Unknown, fmt.Errorf("raw card %d out of range", rawCard)
	}
	suit := uint8((rawCard - 1) / 13)
	rank := uint8((rawCard-1)%13 + 1)
	return NewCard(suit, rank)
}

// CardToInt is the inverse of IntToCard. Unknown maps to 0.
func CardToInt(card Card) int {
	if card.IsUnknown() {
		return 0
	}
	return int(card.suit)*13 + int(card.rank)
}

const (
	suitLetters = "cdhs"
	rankLetters = "A23456789TJQK"
)

// ParseCard reads the two letter form used in fixtures and logs: the suit
// (c, d, h, s) followed by the rank (A, 2..9, T, J, Q, K), e.g. "hA" or "sT".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Unknown, fmt.Errorf("invalid card %q", s)
	}
	suit := strings.IndexByte(suitLetters, s[0])
	rank := strings.IndexByte(rankLetters, strings.ToUpper(s[1:])[0])
	if suit < 0 || rank < 0 {
		return Unknown, fmt.Errorf("invalid card %q", s)
	}
	return NewCard(uint8(suit), uint8(rank+1))
}

// MustParseCards parses a space separated list of cards and panics on error.
func MustParseCards(s string) []Card {
	var cards []Card
	for _, f := range strings.Fields(s) {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// Code returns the two letter form accepted by ParseCard, "??" for Unknown.
func (c Card) Code() string {
	if c.IsUnknown() {
		return "??"
	}
	return string([]byte{suitLetters[c.suit], rankLetters[c.rank-1]})
}

// String returns a human-readable representation of the Card using suit symbols
// (♣, ♦, ♥, ♠) and rank abbreviations (A, J, Q, K, or number).
func (c Card) String() string {
	if c.IsUnknown() {
		return FaceDown
	}
	var suit string
	switch c.suit {
	case Club:
		suit = "♣"
	case Diamond:
		suit = "♦"
	case Heart:
		suit = "♥"
	case Spade:
		suit = "♠"
	}

	var rankStr string
	switch c.rank {
	case Ace:
		rankStr = "A"
	case Jack:
		rankStr = "J"
	case Queen:
		rankStr = "Q"
	case King:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", c.rank)
	}
	return rankStr + suit
}

// MarshalText encodes the card in its two letter form.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}
