package poker

import (
	"fmt"

	"github.com/luca-patrignani/heads-up-poker/domain/deck"
)

// PokerDeck wraps a two-party dealing scheme and provides poker-specific
// card handling: it knows which deck positions belong to which player and
// converts the raw cards of the scheme into Cards.
//
// Deck positions:
//   - 0, 1: Alice's hole cards
//   - 2, 3: Bob's hole cards
//   - 4-8: flop, turn and river
type PokerDeck struct {
	deck.Dealer
}

// NewPokerDeck wraps d.
func NewPokerDeck(d deck.Dealer) PokerDeck {
	return PokerDeck{Dealer: d}
}

// HolePositions returns the deck positions of p's hole cards.
func HolePositions(p PlayerID) []int {
	return []int{2 * int(p), 2*int(p) + 1}
}

// BoardPositions returns the deck positions of the community cards opened
// at step.
func BoardPositions(step Step) ([]int, error) {
	first, count, err := PublicCardsRange(step)
	if err != nil {
		return nil, err
	}
	pos := make([]int, count)
	for i := range pos {
		pos[i] = 4 + first + i
	}
	return pos, nil
}

// OpenCards opens positions with the counterpart's keys.
//
// Parameters:
//   - positions: deck positions to open
//   - keys: the counterpart's unlocking material for positions
//
// Returns the cards in the order of positions.
func (d PokerDeck) OpenCards(positions []int, keys []byte) ([]Card, error) {
	raw, err := d.Dealer.Open(positions, keys)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, len(raw))
	for i, r := range raw {
		c, err := IntToCard(r)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", positions[i], err)
		}
		cards[i] = c
	}
	return cards, nil
}
