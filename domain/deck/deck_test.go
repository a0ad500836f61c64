package deck

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/protobuf"
)

// deal runs the whole handshake between a (rank 0) and b (rank 1).
func deal(t *testing.T, a, b Dealer) {
	t.Helper()
	peers := [2]Dealer{a, b}
	var msg []byte
	for round := range HandshakeRounds {
		out, err := peers[round%2].Deal(round, msg)
		require.NoError(t, err, "round %d", round)
		msg = out
	}
	require.Nil(t, msg)
}

func allPositions() []int {
	pos := make([]int, DeckSize)
	for i := range pos {
		pos[i] = i
	}
	return pos
}

// openAll opens every position on both sides and checks they agree.
func openAll(t *testing.T, a, b Dealer) []int {
	t.Helper()
	pos := allPositions()
	keysA, err := a.Keys(pos)
	require.NoError(t, err)
	keysB, err := b.Keys(pos)
	require.NoError(t, err)
	seenByA, err := a.Open(pos, keysB)
	require.NoError(t, err)
	seenByB, err := b.Open(pos, keysA)
	require.NoError(t, err)
	require.Equal(t, seenByA, seenByB)
	return seenByA
}

func requirePermutation(t *testing.T, cards []int) {
	t.Helper()
	require.Len(t, cards, DeckSize)
	seen := map[int]bool{}
	for _, c := range cards {
		require.True(t, c >= 1 && c <= DeckSize, "card %d", c)
		require.False(t, seen[c], "card %d dealt twice", c)
		seen[c] = true
	}
}

func TestDeckDealsAPermutation(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	deal(t, a, b)
	requirePermutation(t, openAll(t, a, b))
}

func TestDeckShufflesDifferently(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	deal(t, a, b)
	first := openAll(t, a, b)

	c, d := NewDeck(0), NewDeck(1)
	deal(t, c, d)
	require.NotEqual(t, first, openAll(t, c, d))
}

func TestDeckKeysArePerPosition(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	deal(t, a, b)
	pos := []int{0, 1}
	keysA, err := a.Keys(pos)
	require.NoError(t, err)
	expected, err := b.Open(pos, keysA)
	require.NoError(t, err)

	// Keys of other positions do not open these.
	wrong, err := a.Keys([]int{2, 3})
	require.NoError(t, err)
	got, err := b.Open(pos, wrong)
	if err == nil {
		require.NotEqual(t, expected, got)
	}
}

func TestDeckRejectsOutOfOrderRounds(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	_, err := a.Deal(1, nil)
	require.Error(t, err)
	_, err = b.Deal(0, nil)
	require.Error(t, err)

	m0, err := a.Deal(0, nil)
	require.NoError(t, err)
	_, err = a.Deal(0, nil)
	require.Error(t, err)
	_, err = b.Deal(1, m0)
	require.NoError(t, err)
}

func TestDeckRejectsMalformedDecks(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	m0, err := a.Deal(0, nil)
	require.NoError(t, err)

	var msg pointsMsg
	require.NoError(t, protobuf.Decode(m0, &msg))

	short, err := protobuf.Encode(&pointsMsg{Points: msg.Points[:51]})
	require.NoError(t, err)
	_, err = b.Deal(1, short)
	require.ErrorContains(t, err, "51 cards")

	dup := append([][]byte{}, msg.Points...)
	dup[7] = dup[3]
	repeated, err := protobuf.Encode(&pointsMsg{Points: dup})
	require.NoError(t, err)
	_, err = b.Deal(1, repeated)
	require.ErrorContains(t, err, "repeated")

	_, err = b.Deal(1, []byte{0xff, 0xff})
	require.Error(t, err)
}

func TestDeckNotDealtYet(t *testing.T) {
	a := NewDeck(0)
	_, err := a.Keys([]int{0})
	require.Error(t, err)
	_, err = a.Open([]int{0}, nil)
	require.Error(t, err)
}

func TestDeckPositionOutOfRange(t *testing.T) {
	a, b := NewDeck(0), NewDeck(1)
	deal(t, a, b)
	_, err := a.Keys([]int{DeckSize})
	require.Error(t, err)
	keys, err := a.Keys([]int{0})
	require.NoError(t, err)
	_, err = b.Open([]int{-1}, keys)
	require.Error(t, err)
	_, err = b.Open([]int{0, 1}, keys)
	require.ErrorContains(t, err, "expected 2 keys")
}

func TestCardCollectionIsDistinct(t *testing.T) {
	cards := cardCollection()
	seen := map[string]bool{}
	for i := 1; i <= DeckSize; i++ {
		b, err := cards[i].MarshalBinary()
		require.NoError(t, err)
		require.False(t, seen[string(b)])
		seen[string(b)] = true
	}
	var null kyber.Point = suite.Point().Null()
	require.True(t, cards[0].Equal(null))
}

func TestPermutation(t *testing.T) {
	perm := permutation(DeckSize)
	cards := make([]int, len(perm))
	for i, p := range perm {
		cards[i] = p + 1
	}
	requirePermutation(t, cards)
}

func TestCheckpointReplaysTheLastRound(t *testing.T) {
	for name, peers := range map[string][2]Dealer{
		"kyber":   {NewDeck(0), NewDeck(1)},
		"trusted": {NewSeededTrustedDeck(0, 1), NewSeededTrustedDeck(1, 1)},
	} {
		t.Run(name, func(t *testing.T) {
			a, b := peers[0], peers[1]
			var msg []byte
			for round := range HandshakeRounds - 1 {
				out, err := peers[round%2].Deal(round, msg)
				require.NoError(t, err, "round %d", round)
				msg = out
			}

			restore := a.Checkpoint()
			_, err := a.Deal(HandshakeRounds-1, msg)
			require.NoError(t, err)
			_, err = a.Deal(HandshakeRounds-1, msg)
			require.Error(t, err, "the last round is dealt once")

			restore()
			_, err = a.Deal(HandshakeRounds-1, msg)
			require.NoError(t, err)
			requirePermutation(t, openAll(t, a, b))
		})
	}
}
