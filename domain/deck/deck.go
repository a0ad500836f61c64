package deck

import (
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/protobuf"
)

// DeckSize is the number of cards of a French deck.
const DeckSize = 52

// HandshakeRounds is the number of Deal calls, counted over both peers,
// needed before every position of the deck can be opened.
const HandshakeRounds = 5

// Dealer is one side of a two-party dealing scheme.
//
// Rank 0 deals the even handshake rounds and rank 1 the odd ones. Once the
// handshake is over, a position is opened by combining the unlocking keys
// of both peers: each side only hands out keys for positions the other one
// is entitled to see.
type Dealer interface {
	// Deal consumes the counterpart's payload of the previous round (nil for
	// round 0) and returns the payload of round. The last round returns nil.
	Deal(round int, in []byte) ([]byte, error)
	// Keys returns this peer's unlocking material for positions.
	Keys(positions []int) ([]byte, error)
	// Open strips both locks from positions and returns the raw cards (1-52).
	Open(positions []int, keys []byte) ([]int, error)
	// Checkpoint returns a function that puts the dealer back to where it
	// is now, so a Deal whose payload is later rejected can be replayed.
	Checkpoint() func()
}

var suite suites.Suite = suites.MustFind("Ed25519")

// Deck deals with commutative encryption over the Ed25519 group: a card is
// a point, a lock is multiplication by a secret scalar, and locks commute.
//
// Rounds:
//  0. rank 0 locks every card with one key and shuffles
//  1. rank 1 does the same on top
//  2. rank 0 swaps its deck key for one key per position
//  3. rank 1 does the same; the result is the dealt deck
//  4. rank 0 stores the dealt deck
type Deck struct {
	rank           int
	cardCollection []kyber.Point // The index of the array represents the value of the card.
	encryptedDeck  []kyber.Point // the dealt deck, set at the end of the handshake
	secretKey      kyber.Scalar
	cardKeys       []kyber.Scalar
	round          int
}

type pointsMsg struct {
	Points [][]byte
}

type keysMsg struct {
	Keys [][]byte
}

// NewDeck returns the Deck of the peer with the given rank (0 or 1).
func NewDeck(rank int) *Deck {
	return &Deck{
		rank:           rank,
		cardCollection: cardCollection(),
		round:          rank,
	}
}

// cardCollection maps every card to a point nobody knows the discrete log of.
func cardCollection() []kyber.Point {
	cards := make([]kyber.Point, DeckSize+1)
	cards[0] = suite.Point().Null()
	for i := 1; i <= DeckSize; i++ {
		seed := []byte(fmt.Sprintf("heads-up-poker/card/%d", i))
		cards[i] = suite.Point().Pick(suite.XOF(seed))
	}
	return cards
}

func (d *Deck) Deal(round int, in []byte) ([]byte, error) {
	if round != d.round {
		return nil, fmt.Errorf("rank %d cannot deal round %d, expected %d", d.rank, round, d.round)
	}
	var out []kyber.Point
	switch round {
	case 0:
		out = d.shuffle(d.cardCollection[1:])
	case 1, 2, 3, 4:
		deck, err := decodePoints(in)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		switch round {
		case 1:
			out = d.shuffle(deck)
		case 2:
			out = d.relock(deck)
		case 3:
			out = d.relock(deck)
			d.encryptedDeck = out
		case 4:
			d.encryptedDeck = deck
			d.round = HandshakeRounds
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("unknown round %d", round)
	}
	d.round += 2
	return encodePoints(out)
}

// Checkpoint saves the round and the key material. Deal never mutates the
// saved slices in place, so a shallow copy is enough.
func (d *Deck) Checkpoint() func() {
	saved := *d
	return func() { *d = saved }
}

func (d *Deck) Keys(positions []int) ([]byte, error) {
	if d.cardKeys == nil {
		return nil, fmt.Errorf("deck is not dealt yet")
	}
	msg := keysMsg{Keys: make([][]byte, len(positions))}
	for i, p := range positions {
		if p < 0 || p >= DeckSize {
			return nil, fmt.Errorf("position %d out of range", p)
		}
		b, err := d.cardKeys[p].MarshalBinary()
		if err != nil {
			return nil, err
		}
		msg.Keys[i] = b
	}
	return protobuf.Encode(&msg)
}

func (d *Deck) Open(positions []int, keys []byte) ([]int, error) {
	if d.encryptedDeck == nil {
		return nil, fmt.Errorf("deck is not dealt yet")
	}
	var msg keysMsg
	if err := protobuf.Decode(keys, &msg); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	if len(msg.Keys) != len(positions) {
		return nil, fmt.Errorf("expected %d keys, got %d", len(positions), len(msg.Keys))
	}
	cards := make([]int, len(positions))
	for i, p := range positions {
		if p < 0 || p >= DeckSize {
			return nil, fmt.Errorf("position %d out of range", p)
		}
		theirs := suite.Scalar()
		if err := theirs.UnmarshalBinary(msg.Keys[i]); err != nil {
			return nil, fmt.Errorf("key of position %d: %w", p, err)
		}
		cj := d.encryptedDeck[p].Clone()
		cj.Mul(suite.Scalar().Inv(d.cardKeys[p]), cj)
		cj.Mul(suite.Scalar().Inv(theirs), cj)
		card := d.lookup(cj)
		if card == 0 {
			return nil, fmt.Errorf("position %d does not open to a card", p)
		}
		cards[i] = card
	}
	return cards, nil
}

func (d *Deck) lookup(p kyber.Point) int {
	for i := 1; i <= DeckSize; i++ {
		if d.cardCollection[i].Equal(p) {
			return i
		}
	}
	return 0
}

func encodePoints(points []kyber.Point) ([]byte, error) {
	msg := pointsMsg{Points: make([][]byte, len(points))}
	for i, p := range points {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		msg.Points[i] = b
	}
	return protobuf.Encode(&msg)
}

// decodePoints reads a full deck and rejects repeated points.
func decodePoints(data []byte) ([]kyber.Point, error) {
	var msg pointsMsg
	if err := protobuf.Decode(data, &msg); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if len(msg.Points) != DeckSize {
		return nil, fmt.Errorf("deck has %d cards", len(msg.Points))
	}
	seen := make(map[string]struct{}, DeckSize)
	points := make([]kyber.Point, DeckSize)
	for i, b := range msg.Points {
		if _, dup := seen[string(b)]; dup {
			return nil, fmt.Errorf("card %d is repeated", i)
		}
		seen[string(b)] = struct{}{}
		points[i] = suite.Point()
		if err := points[i].UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
	}
	return points, nil
}
