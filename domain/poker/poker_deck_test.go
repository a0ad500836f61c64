package poker

import (
	"errors"
	"testing"

	"github.com/luca-patrignani/heads-up-poker/domain/deck"
)

// fixtureOrder puts the given cards on top of an otherwise ordered deck.
func fixtureOrder(top string) []int {
	var order []int
	used := map[int]bool{}
	for _, c := range MustParseCards(top) {
		order = append(order, CardToInt(c))
		used[CardToInt(c)] = true
	}
	for i := 1; i <= deck.DeckSize; i++ {
		if !used[i] {
			order = append(order, i)
		}
	}
	return order
}

func TestPositions(t *testing.T) {
	if h := HolePositions(Alice); h[0] != 0 || h[1] != 1 {
		t.Fatalf("unexpected alice positions %v", h)
	}
	if h := HolePositions(Bob); h[0] != 2 || h[1] != 3 {
		t.Fatalf("unexpected bob positions %v", h)
	}
	flop, err := BoardPositions(StepOpenFlop)
	if err != nil {
		t.Fatal(err)
	}
	if len(flop) != 3 || flop[0] != 4 || flop[2] != 6 {
		t.Fatalf("unexpected flop positions %v", flop)
	}
	river, _ := BoardPositions(StepOpenRiver)
	if len(river) != 1 || river[0] != 8 {
		t.Fatalf("unexpected river positions %v", river)
	}
	if _, err := BoardPositions(StepFlopBet); !errors.Is(err, ErrInvalidCardsProofStep) {
		t.Fatalf("expected %v, got %v", ErrInvalidCardsProofStep, err)
	}
}

func TestOpenCards(t *testing.T) {
	alice := deck.NewTrustedDeck(0, fixtureOrder("hA dQ hJ h9 c7 s6 c4 d3 h2"))
	bob := deck.NewTrustedDeck(1, nil)
	m0, err := alice.Deal(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bob.Deal(1, m0); err != nil {
		t.Fatal(err)
	}

	keys, err := alice.Keys(HolePositions(Bob))
	if err != nil {
		t.Fatal(err)
	}
	cards, err := NewPokerDeck(bob).OpenCards(HolePositions(Bob), keys)
	if err != nil {
		t.Fatal(err)
	}
	want := MustParseCards("hJ h9")
	if cards[0] != want[0] || cards[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, cards)
	}

	flop, _ := BoardPositions(StepOpenFlop)
	if _, err := NewPokerDeck(bob).OpenCards(flop, keys); err == nil {
		t.Fatal("expected error opening the flop with hole card keys")
	}
}
