package deck

import (
	"fmt"
	"math/rand/v2"
)

// TrustedDeck is a Dealer for tests and local play: rank 0 decides the
// order of the deck and ships it in clear during the handshake, and a key
// is simply the card at that position. Both peers know every card, so it
// gives no secrecy at all; masking is still enforced by the caller, which
// only learns what Open returns.
type TrustedDeck struct {
	rank  int
	order []int
	round int
}

// NewTrustedDeck returns the trusted Dealer of rank. order lists the raw
// cards (1-52) from position 0 onwards and is only read on rank 0.
func NewTrustedDeck(rank int, order []int) *TrustedDeck {
	d := &TrustedDeck{rank: rank, round: rank}
	if rank == 0 {
		d.order = append([]int(nil), order...)
	}
	return d
}

// NewSeededTrustedDeck is a TrustedDeck whose order is a permutation drawn
// from seed.
func NewSeededTrustedDeck(rank int, seed uint64) *TrustedDeck {
	perm := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Perm(DeckSize)
	for i := range perm {
		perm[i]++
	}
	return NewTrustedDeck(rank, perm)
}

func (d *TrustedDeck) Deal(round int, in []byte) ([]byte, error) {
	if round != d.round {
		return nil, fmt.Errorf("rank %d cannot deal round %d, expected %d", d.rank, round, d.round)
	}
	var out []byte
	switch round {
	case 0:
		if err := validOrder(d.order); err != nil {
			return nil, err
		}
		out = make([]byte, DeckSize)
		for i, c := range d.order {
			out[i] = byte(c)
		}
	case 1:
		order := make([]int, len(in))
		for i, b := range in {
			order[i] = int(b)
		}
		if err := validOrder(order); err != nil {
			return nil, err
		}
		d.order = order
	case 2, 3, 4:
	default:
		return nil, fmt.Errorf("unknown round %d", round)
	}
	d.round += 2
	return out, nil
}

func (d *TrustedDeck) Checkpoint() func() {
	saved := *d
	return func() { *d = saved }
}

func (d *TrustedDeck) Keys(positions []int) ([]byte, error) {
	if d.order == nil {
		return nil, fmt.Errorf("deck is not dealt yet")
	}
	keys := make([]byte, len(positions))
	for i, p := range positions {
		if p < 0 || p >= DeckSize {
			return nil, fmt.Errorf("position %d out of range", p)
		}
		keys[i] = byte(d.order[p])
	}
	return keys, nil
}

func (d *TrustedDeck) Open(positions []int, keys []byte) ([]int, error) {
	if d.order == nil {
		return nil, fmt.Errorf("deck is not dealt yet")
	}
	if len(keys) != len(positions) {
		return nil, fmt.Errorf("expected %d keys, got %d", len(positions), len(keys))
	}
	cards := make([]int, len(positions))
	for i, p := range positions {
		if p < 0 || p >= DeckSize {
			return nil, fmt.Errorf("position %d out of range", p)
		}
		if int(keys[i]) != d.order[p] {
			return nil, fmt.Errorf("position %d does not open to a card", p)
		}
		cards[i] = d.order[p]
	}
	return cards, nil
}

func validOrder(order []int) error {
	if len(order) != DeckSize {
		return fmt.Errorf("deck has %d cards", len(order))
	}
	var seen [DeckSize + 1]bool
	for i, c := range order {
		if c < 1 || c > DeckSize || seen[c] {
			return fmt.Errorf("invalid card %d at position %d", c, i)
		}
		seen[c] = true
	}
	return nil
}
