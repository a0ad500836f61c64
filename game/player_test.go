package game

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/heads-up-poker/domain/deck"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/ledger"
)

const (
	// Alice holds an ace, Bob a jack, nothing pairs.
	aliceWins = "hA dQ hJ h9 c7 s6 c4 d3 h2"
	bobWins   = "hJ h9 hA dQ c7 s6 c4 d3 h2"
	// Both play threes full of nothing: trips with the same kickers.
	splitPot = "s3 h2 s4 c3 cJ sT c9 d3 h3"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixtureOrder puts the given cards on top of an otherwise ordered deck.
func fixtureOrder(top string) []int {
	var order []int
	used := map[int]bool{}
	for _, c := range poker.MustParseCards(top) {
		order = append(order, poker.CardToInt(c))
		used[poker.CardToInt(c)] = true
	}
	for i := 1; i <= deck.DeckSize; i++ {
		if !used[i] {
			order = append(order, i)
		}
	}
	return order
}

type pair struct {
	alice, bob *Player
}

func (p pair) seat(id poker.PlayerID) *Player {
	if id == poker.Alice {
		return p.alice
	}
	return p.bob
}

func newPair(t *testing.T, top string, aliceOpts, bobOpts []Option) pair {
	t.Helper()
	aliceOpts = append([]Option{WithDealer(deck.NewTrustedDeck(0, fixtureOrder(top))), WithLogger(quiet)}, aliceOpts...)
	bobOpts = append([]Option{WithDealer(deck.NewTrustedDeck(1, nil)), WithLogger(quiet)}, bobOpts...)
	alice, err := NewPlayer(poker.Alice, poker.NewMoney(100), poker.NewMoney(300), poker.NewMoney(10), aliceOpts...)
	require.NoError(t, err)
	bob, err := NewPlayer(poker.Bob, poker.NewMoney(100), poker.NewMoney(300), poker.NewMoney(10), bobOpts...)
	require.NoError(t, err)
	return pair{alice: alice, bob: bob}
}

// handshake deals the cards and checks the status of every call.
func handshake(t *testing.T, p pair) {
	t.Helper()
	out, err := p.alice.CreateHandshake()
	require.NoError(t, err)
	require.Equal(t, Success, out.Status)

	seats := [2]*Player{p.bob, p.alice}
	want := []Status{Continued, Continued, Continued, Success, Success}
	msg := out.Message
	for i, status := range want {
		require.NotEmpty(t, msg, "message %d", i)
		out, err = seats[i%2].ProcessHandshake(msg)
		require.NoError(t, err, "message %d", i)
		require.Equal(t, status, out.Status, "message %d", i)
		msg = out.Message
	}
	require.Empty(t, msg)
	require.Equal(t, poker.StepPreflopBet, p.alice.Step())
	require.Equal(t, poker.StepPreflopBet, p.bob.Step())
}

// bet makes the current player bet and delivers every resulting message
// until nothing is left to send.
func bet(t *testing.T, p pair, a poker.ActionType, amount uint64) Outcome {
	t.Helper()
	sender := p.seat(p.alice.CurrentPlayer())
	require.True(t, sender.MyTurn(), "%s is not expected to bet", sender.Me())
	out, err := sender.CreateBet(a, poker.NewMoney(amount))
	require.NoError(t, err)
	receiver := p.seat(sender.Me().Opponent())
	msg := out.Message
	for len(msg) > 0 {
		reply, err := receiver.ProcessBet(msg)
		require.NoError(t, err)
		msg = reply.Message
		sender, receiver = receiver, sender
	}
	return out
}

func checkDown(t *testing.T, p pair) {
	t.Helper()
	bet(t, p, poker.ActionCall, 0)
	for !p.alice.Drained() {
		bet(t, p, poker.ActionCheck, 0)
	}
	require.True(t, p.bob.Drained())
}

func requireSameOutcome(t *testing.T, p pair) {
	t.Helper()
	a, b := p.alice.Game(), p.bob.Game()
	require.Equal(t, a.Winner, b.Winner)
	require.Equal(t, a.FundsShare, b.FundsShare)
	require.Equal(t, a.Muck, b.Muck)
	require.Equal(t, a.PublicCards, b.PublicCards)
}

func TestHandshakeDealsHoleCards(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)

	require.Equal(t, poker.MustParseCards("hA dQ"), []poker.Card{p.alice.PrivateCard(0), p.alice.PrivateCard(1)})
	require.Equal(t, poker.MustParseCards("hJ h9"), []poker.Card{p.bob.PrivateCard(0), p.bob.PrivateCard(1)})
	require.True(t, p.alice.OpponentCard(0).IsUnknown())
	require.True(t, p.bob.OpponentCard(1).IsUnknown())
	for i := range 5 {
		require.True(t, p.alice.PublicCard(i).IsUnknown())
	}
	require.Equal(t, p.alice.MatchID(), p.bob.MatchID())
	require.True(t, p.alice.MyTurn())
	require.False(t, p.bob.MyTurn())
}

func TestCheckDownAliceWins(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	g := p.bob.Game()
	require.Equal(t, poker.Alice, g.Winner)
	require.False(t, g.Muck)
	require.Equal(t, poker.NewMoney(20), g.FundsShare[poker.Alice])
	require.Equal(t, poker.MustParseCards("hA dQ"), []poker.Card{p.bob.OpponentCard(0), p.bob.OpponentCard(1)})
	require.Equal(t, poker.MustParseCards("c7 s6 c4 d3 h2"), g.PublicCards[:])
	require.Equal(t, poker.StepGameOver, p.alice.Step())

	name, err := p.bob.HandName(poker.Alice)
	require.NoError(t, err)
	require.NotEmpty(t, name)
}

func TestLoserMucks(t *testing.T) {
	p := newPair(t, bobWins, nil, nil)
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	require.Equal(t, poker.Bob, p.alice.Winner())
	require.True(t, p.bob.Game().Muck)
	// Alice closed the river, so Bob showed first and Alice gave up.
	require.True(t, p.bob.OpponentCard(0).IsUnknown())
	require.False(t, p.alice.OpponentCard(0).IsUnknown())
	bal, err := p.bob.Game().Balance(poker.Bob)
	require.NoError(t, err)
	require.Equal(t, poker.NewMoney(310), bal)
}

func TestAlwaysRevealShowsLosingHand(t *testing.T) {
	p := newPair(t, bobWins, []Option{WithAlwaysReveal()}, nil)
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	require.Equal(t, poker.Bob, p.bob.Winner())
	require.False(t, p.bob.Game().Muck)
	require.Equal(t, poker.MustParseCards("hJ h9"), []poker.Card{p.bob.OpponentCard(0), p.bob.OpponentCard(1)})
}

func TestSplitPot(t *testing.T) {
	p := newPair(t, splitPot, nil, nil)
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	g := p.alice.Game()
	require.Equal(t, poker.Tie, g.Winner)
	require.False(t, g.Muck)
	require.Equal(t, poker.NewMoney(10), g.FundsShare[poker.Alice])
	require.Equal(t, poker.NewMoney(10), g.FundsShare[poker.Bob])
	require.False(t, p.alice.OpponentCard(0).IsUnknown())
	require.False(t, p.bob.OpponentCard(0).IsUnknown())
}

func TestFoldPreflop(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	bet(t, p, poker.ActionFold, 0)

	require.True(t, p.alice.Drained())
	require.True(t, p.bob.Drained())
	requireSameOutcome(t, p)
	g := p.alice.Game()
	require.Equal(t, poker.Bob, g.Winner)
	require.True(t, g.Muck)
	require.Equal(t, poker.NewMoney(15), g.FundsShare[poker.Bob])
	require.True(t, p.alice.OpponentCard(0).IsUnknown())
	require.True(t, p.bob.OpponentCard(0).IsUnknown())
}

func TestFoldAfterRaiseOnTheTurn(t *testing.T) {
	p := newPair(t, bobWins, nil, nil)
	handshake(t, p)
	bet(t, p, poker.ActionRaise, 10) // alice
	bet(t, p, poker.ActionCall, 0)   // bob
	bet(t, p, poker.ActionCheck, 0)  // bob
	bet(t, p, poker.ActionCheck, 0)  // alice
	require.Equal(t, poker.Turn, p.alice.Game().Phase)
	require.False(t, p.bob.PublicCard(3).IsUnknown())
	require.True(t, p.bob.PublicCard(4).IsUnknown())

	out := bet(t, p, poker.ActionRaise, 30) // bob
	require.Equal(t, poker.NewMoney(30), out.Amount)
	require.Equal(t, poker.Bob, p.alice.Game().LastAggressor)
	bet(t, p, poker.ActionFold, 0) // alice

	requireSameOutcome(t, p)
	require.Equal(t, poker.Bob, p.alice.Winner())
	require.Equal(t, poker.NewMoney(70), p.alice.Game().FundsShare[poker.Bob])
	require.True(t, p.bob.Drained())
}

func TestNextMessageAuthor(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	require.Equal(t, poker.Alice, p.alice.NextMsgAuthor())
	require.Equal(t, poker.Alice, p.bob.NextMsgAuthor())

	// A bet that leaves the round open hands the word to the opponent.
	out, err := p.alice.CreateBet(poker.ActionCall, poker.Money{})
	require.NoError(t, err)
	require.Equal(t, Success, out.Status)
	require.Equal(t, poker.Bob, p.alice.NextMsgAuthor())
	_, err = p.bob.ProcessBet(out.Message)
	require.NoError(t, err)
	require.Equal(t, poker.Bob, p.bob.NextMsgAuthor())

	// Closing the round waits for the opponent's keys.
	out, err = p.bob.CreateBet(poker.ActionCheck, poker.Money{})
	require.NoError(t, err)
	require.Equal(t, Continued, out.Status)
	require.Equal(t, poker.StepOpenFlop, p.bob.Step())
	require.Equal(t, poker.Alice, p.bob.NextMsgAuthor())
	require.False(t, p.bob.MyTurn())

	reveal, err := p.alice.ProcessBet(out.Message)
	require.NoError(t, err)
	require.Equal(t, Success, reveal.Status)
	require.Equal(t, poker.ActionCheck, reveal.Action)
	require.NotEmpty(t, reveal.Message)
	require.Equal(t, poker.StepFlopBet, p.alice.Step())
	require.Equal(t, poker.Bob, p.alice.NextMsgAuthor())

	done, err := p.bob.ProcessBet(reveal.Message)
	require.NoError(t, err)
	require.Empty(t, done.Message)
	require.Equal(t, poker.Bob, p.bob.NextMsgAuthor())
	require.True(t, p.bob.MyTurn())
	require.Equal(t, p.alice.Game().PublicCards, p.bob.Game().PublicCards)
	require.False(t, p.bob.PublicCard(2).IsUnknown())
	require.True(t, p.bob.PublicCard(3).IsUnknown())
}

func TestBetOutOfTurn(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	_, err := p.alice.CreateBet(poker.ActionCall, poker.Money{})
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	handshake(t, p)
	before := p.bob.Game()
	_, err = p.bob.CreateBet(poker.ActionCheck, poker.Money{})
	require.ErrorIs(t, err, poker.ErrInvalidMove)
	after := p.bob.Game()
	require.Equal(t, poker.ErrInvalidMove, after.Error)
	after.Error = before.Error
	require.Equal(t, before, after)
	require.Equal(t, poker.StepPreflopBet, p.bob.Step())
}

func TestRejectedBetIsRolledBack(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)

	_, err := p.alice.CreateBet(poker.ActionRaise, poker.NewMoney(5))
	require.ErrorIs(t, err, poker.ErrBetBelowMinimum)
	require.Equal(t, poker.ErrBetBelowMinimum, p.alice.Game().Error)
	require.True(t, p.alice.MyTurn())

	_, err = p.alice.CreateBet(poker.ActionCheck, poker.Money{})
	require.ErrorIs(t, err, poker.ErrBetsNotEqual)

	// A valid bet clears the recorded error.
	bet(t, p, poker.ActionCall, 0)
	require.Equal(t, poker.NoError, p.alice.Game().Error)
}

func TestProcessRejectsForgedBets(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	before := p.bob.Game()

	forged, err := message{Kind: uint32(kindBet), Action: uint32(poker.ActionRaise), Amount: poker.NewMoney(1000).Bytes()}.encode()
	require.NoError(t, err)
	_, err = p.bob.ProcessBet(forged)
	require.ErrorIs(t, err, poker.ErrBetAboveMaximum)

	garbage := []byte{0xde, 0xad, 0xbe, 0xef}
	_, err = p.bob.ProcessBet(garbage)
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	_, err = p.bob.ProcessBet(nil)
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	muck, err := message{Kind: uint32(kindMuck)}.encode()
	require.NoError(t, err)
	_, err = p.bob.ProcessBet(muck)
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	after := p.bob.Game()
	after.Error = before.Error
	require.Equal(t, before, after)

	// The genuine bet still goes through.
	bet(t, p, poker.ActionCall, 0)
	require.True(t, p.bob.MyTurn())
}

func TestReplayedMessageIsRejected(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	out, err := p.alice.CreateBet(poker.ActionCall, poker.Money{})
	require.NoError(t, err)
	_, err = p.bob.ProcessBet(out.Message)
	require.NoError(t, err)
	_, err = p.bob.ProcessBet(out.Message)
	require.ErrorIs(t, err, poker.ErrInvalidMove)
	require.True(t, p.bob.MyTurn())
}

func TestHandshakeErrors(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	_, err := p.bob.CreateHandshake()
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	m0, err := p.alice.CreateHandshake()
	require.NoError(t, err)
	_, err = p.alice.CreateHandshake()
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	m1, err := p.bob.ProcessHandshake(m0.Message)
	require.NoError(t, err)

	// A message of another match.
	msg, err := decodeMessage(m1.Message)
	require.NoError(t, err)
	msg.MatchID = uuid.NewString()
	other, err := msg.encode()
	require.NoError(t, err)
	_, err = p.alice.ProcessHandshake(other)
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	// A bet during the handshake.
	_, err = p.alice.ProcessHandshake(mustEncode(t, message{Kind: uint32(kindBet), MatchID: p.alice.MatchID().String(), Round: 1}))
	require.ErrorIs(t, err, poker.ErrInvalidMove)

	// Nothing was lost: the genuine message still works.
	_, err = p.alice.ProcessHandshake(m1.Message)
	require.NoError(t, err)
}

func TestForgedHoleKeysDoNotBreakTheHandshake(t *testing.T) {
	pairs := map[string]func() pair{
		"trusted": func() pair { return newPair(t, aliceWins, nil, nil) },
		"kyber": func() pair {
			alice, err := NewPlayer(poker.Alice, poker.NewMoney(100), poker.NewMoney(100), poker.NewMoney(2), WithLogger(quiet))
			require.NoError(t, err)
			bob, err := NewPlayer(poker.Bob, poker.NewMoney(100), poker.NewMoney(100), poker.NewMoney(2), WithLogger(quiet))
			require.NoError(t, err)
			return pair{alice: alice, bob: bob}
		},
	}
	for name, newP := range pairs {
		t.Run(name, func(t *testing.T) {
			p := newP()
			m0, err := p.alice.CreateHandshake()
			require.NoError(t, err)
			m1, err := p.bob.ProcessHandshake(m0.Message)
			require.NoError(t, err)
			m2, err := p.alice.ProcessHandshake(m1.Message)
			require.NoError(t, err)
			m3, err := p.bob.ProcessHandshake(m2.Message)
			require.NoError(t, err)

			// Bob's keys of the flop instead of Alice's hole cards.
			msg, err := decodeMessage(m3.Message)
			require.NoError(t, err)
			msg.Keys, err = p.bob.deck.Keys([]int{4, 5})
			require.NoError(t, err)
			before := p.alice.Game()
			_, err = p.alice.ProcessHandshake(mustEncode(t, msg))
			require.ErrorIs(t, err, poker.ErrInvalidMove)
			after := p.alice.Game()
			after.Error = before.Error
			require.Equal(t, before, after)
			require.Equal(t, poker.StepHandshake, p.alice.Step())

			// The genuine message still completes the dealing.
			m4, err := p.alice.ProcessHandshake(m3.Message)
			require.NoError(t, err)
			require.Equal(t, Success, m4.Status)
			out, err := p.bob.ProcessHandshake(m4.Message)
			require.NoError(t, err)
			require.Equal(t, Success, out.Status)
			checkDown(t, p)
			requireSameOutcome(t, p)
		})
	}
}

func TestRejectedFirstMessageKeepsTheLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := newPair(t, aliceWins, nil, []Option{WithLogger(logger)})

	forgedID := uuid.NewString()
	_, err := p.bob.ProcessHandshake(mustEncode(t, message{Kind: uint32(kindHandshake), Round: 0, MatchID: forgedID, Data: []byte{1, 2, 3}}))
	require.ErrorIs(t, err, poker.ErrInvalidMove)
	require.Equal(t, uuid.Nil, p.bob.MatchID())

	handshake(t, p)
	require.NotContains(t, buf.String(), "match="+forgedID)
	require.Contains(t, buf.String(), "match="+p.alice.MatchID().String())
}

// tieOracle calls every showdown a tie.
type tieOracle struct{ poker.EvalOracle }

func (tieOracle) Compare(poker.Hand, poker.Hand) (poker.Ordering, error) { return poker.HandsTie, nil }

func TestWithOracle(t *testing.T) {
	p := newPair(t, aliceWins, []Option{WithOracle(tieOracle{})}, []Option{WithOracle(tieOracle{})})
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	g := p.bob.Game()
	require.Equal(t, poker.Tie, g.Winner)
	require.Equal(t, poker.NewMoney(10), g.FundsShare[poker.Alice])
	require.Equal(t, poker.NewMoney(10), g.FundsShare[poker.Bob])
}

func TestHandshakeOverRejectsHandshakeMessages(t *testing.T) {
	p := newPair(t, aliceWins, nil, nil)
	handshake(t, p)
	_, err := p.bob.ProcessHandshake(mustEncode(t, message{Kind: uint32(kindHandshake), Round: 4}))
	require.ErrorIs(t, err, poker.ErrInvalidMove)
}

func mustEncode(t *testing.T, m message) []byte {
	t.Helper()
	b, err := m.encode()
	require.NoError(t, err)
	return b
}

func TestWithMatchID(t *testing.T) {
	id := uuid.New()
	p := newPair(t, aliceWins, []Option{WithMatchID(id)}, []Option{WithMatchID(uuid.New())})
	require.Equal(t, uuid.Nil, p.bob.MatchID())
	handshake(t, p)
	require.Equal(t, id, p.alice.MatchID())
	require.Equal(t, id, p.bob.MatchID())
}

func TestTranscripts(t *testing.T) {
	aliceLog, bobLog := ledger.NewBlockchain(""), ledger.NewBlockchain("")
	p := newPair(t, aliceWins, []Option{WithLedger(aliceLog)}, []Option{WithLedger(bobLog)})
	handshake(t, p)
	checkDown(t, p)

	require.NoError(t, aliceLog.Verify())
	require.NoError(t, bobLog.Verify())
	for _, bc := range []*ledger.Blockchain{aliceLog, bobLog} {
		genesis, err := bc.GetByIndex(0)
		require.NoError(t, err)
		require.Equal(t, p.alice.MatchID().String(), genesis.Metadata.MatchID)
	}

	// Every message one side sent is one the other received, in order.
	sent := func(bc *ledger.Blockchain, dir ledger.Direction) []string {
		var digests []string
		for i := 1; i < bc.Len(); i++ {
			b, err := bc.GetByIndex(i)
			require.NoError(t, err)
			if b.Entry.Direction == dir {
				digests = append(digests, b.Entry.Digest)
			}
		}
		return digests
	}
	require.Equal(t, sent(aliceLog, ledger.Sent), sent(bobLog, ledger.Received))
	require.Equal(t, sent(bobLog, ledger.Sent), sent(aliceLog, ledger.Received))
	require.Same(t, aliceLog, p.alice.Transcript())
}

func TestKyberDealer(t *testing.T) {
	alice, err := NewPlayer(poker.Alice, poker.NewMoney(100), poker.NewMoney(100), poker.NewMoney(2))
	require.NoError(t, err)
	bob, err := NewPlayer(poker.Bob, poker.NewMoney(100), poker.NewMoney(100), poker.NewMoney(2))
	require.NoError(t, err)
	p := pair{alice: alice, bob: bob}
	handshake(t, p)
	checkDown(t, p)

	requireSameOutcome(t, p)
	require.NotEqual(t, poker.Nobody, p.alice.Winner())
	for i := range 2 {
		require.False(t, p.alice.PrivateCard(i).IsUnknown())
		require.False(t, p.bob.PrivateCard(i).IsUnknown())
	}
	seen := map[poker.Card]bool{}
	for _, c := range []poker.Card{
		p.alice.PrivateCard(0), p.alice.PrivateCard(1), p.bob.PrivateCard(0), p.bob.PrivateCard(1),
		p.alice.PublicCard(0), p.alice.PublicCard(1), p.alice.PublicCard(2), p.alice.PublicCard(3), p.alice.PublicCard(4),
	} {
		require.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}
}

func TestNewPlayerErrors(t *testing.T) {
	_, err := NewPlayer(poker.Tie, poker.NewMoney(100), poker.NewMoney(100), poker.NewMoney(10))
	require.ErrorIs(t, err, poker.ErrInvalidPlayer)
	_, err = NewPlayer(poker.Alice, poker.NewMoney(100), poker.NewMoney(5), poker.NewMoney(10))
	require.ErrorIs(t, err, poker.ErrInsufficientFunds)
}
