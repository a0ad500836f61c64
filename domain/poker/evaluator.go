package poker

import (
	"fmt"

	"github.com/paulhankin/poker"
)

// Hand is a player's two hole cards followed by the five community cards.
type Hand [7]Card

// Ordering is the result of comparing two hands.
type Ordering int8

const (
	HandsTie Ordering = iota
	HandAWins
	HandBWins
)

func (o Ordering) String() string {
	switch o {
	case HandAWins:
		return "a-wins"
	case HandBWins:
		return "b-wins"
	}
	return "tie"
}

// Oracle ranks complete hands. Implementations must be deterministic and
// consistent with standard poker hand ranking.
type Oracle interface {
	Compare(a, b Hand) (Ordering, error)
	Name(h Hand) (string, error)
}

// EvalOracle is the Oracle backed by the paulhankin/poker 7-card evaluator.
type EvalOracle struct{}

func (EvalOracle) Compare(a, b Hand) (Ordering, error) {
	ca, err := toEvalCards(a)
	if err != nil {
		return HandsTie, err
	}
	cb, err := toEvalCards(b)
	if err != nil {
		return HandsTie, err
	}
	sa, sb := poker.Eval7(&ca), poker.Eval7(&cb)
	switch {
	case sa > sb:
		return HandAWins, nil
	case sa < sb:
		return HandBWins, nil
	}
	return HandsTie, nil
}

// Name describes the best five cards of h, e.g. "three of a kind, 3s".
func (EvalOracle) Name(h Hand) (string, error) {
	c, err := toEvalCards(h)
	if err != nil {
		return "", err
	}
	return poker.Describe(c[:])
}

func toEvalCards(h Hand) ([7]poker.Card, error) {
	var out [7]poker.Card
	for i, c := range h {
		if c.IsUnknown() {
			return out, fmt.Errorf("card %d of hand is not revealed", i)
		}
		pc, err := poker.MakeCard(poker.Suit(c.suit), poker.Rank(c.rank))
		if err != nil {
			return out, fmt.Errorf("invalid card at idx %d: %w", i, err)
		}
		out[i] = pc
	}
	return out, nil
}
