package deck

import (
	"math/rand/v2"

	"go.dedis.ch/kyber/v4"
)

// shuffle locks every card with a fresh deck key and permutes the result.
func (d *Deck) shuffle(deck []kyber.Point) []kyber.Point {
	x := suite.Scalar().Pick(suite.RandomStream())
	d.secretKey = x
	perm := permutation(len(deck))
	out := make([]kyber.Point, len(deck))
	for i := range deck {
		out[i] = suite.Point().Mul(x, deck[perm[i]])
	}
	return out
}

// relock removes the deck key and locks each position with its own key.
func (d *Deck) relock(deck []kyber.Point) []kyber.Point {
	xInv := suite.Scalar().Inv(d.secretKey)
	d.cardKeys = make([]kyber.Scalar, len(deck))
	out := make([]kyber.Point, len(deck))
	for i, c := range deck {
		k := suite.Scalar().Pick(suite.RandomStream())
		d.cardKeys[i] = k
		out[i] = suite.Point().Mul(suite.Scalar().Mul(k, xInv), c)
	}
	return out
}

// Helper function to generate a random permutation of size permSize,
// driven by a ChaCha8 stream seeded from the suite's secure randomness.
func permutation(permSize int) []int {
	var seed [32]byte
	suite.RandomStream().XORKeyStream(seed[:], seed[:])
	return rand.New(rand.NewChaCha8(seed)).Perm(permSize)
}
