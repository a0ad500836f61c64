package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/luca-patrignani/heads-up-poker/domain/deck"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/ledger"
)

// Status tells whether the exchange started by a call is settled.
type Status int

const (
	Success Status = iota
	// Continued means further messages must be processed before the local
	// action is settled.
	Continued
)

func (s Status) String() string {
	if s == Continued {
		return "continued"
	}
	return "success"
}

// Outcome is the result of a create or process call.
type Outcome struct {
	// Message must be delivered to the counterpart unless empty.
	Message []byte
	Status  Status
	// Action and Amount are the bet a ProcessBet call replayed.
	Action poker.ActionType
	Amount poker.Money
}

// Player drives one side of a match. It is not safe for concurrent use.
type Player struct {
	me    poker.PlayerID
	state poker.GameState
	step  poker.Step
	// round is the index of the next handshake message.
	round int

	deck         poker.PokerDeck
	oracle       poker.Oracle
	logger       *slog.Logger
	transcript   *ledger.Blockchain
	alwaysReveal bool
	matchID      uuid.UUID
}

// NewPlayer creates the driver of seat me for a hand where Alice brings
// aliceFunds, Bob brings bobFunds and the big blind is bigBlind. Both peers
// must agree on these values out of band.
func NewPlayer(me poker.PlayerID, aliceFunds, bobFunds, bigBlind poker.Money, opts ...Option) (*Player, error) {
	if !me.Valid() {
		return nil, poker.ErrInvalidPlayer
	}
	state, err := poker.NewGameState(aliceFunds, bobFunds, bigBlind)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	p := Player{
		me:     me,
		state:  state,
		step:   poker.StepInit,
		deck:   poker.NewPokerDeck(deck.NewDeck(int(me))),
		oracle: poker.EvalOracle{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if me == poker.Alice {
		p.matchID = uuid.New()
	}
	for _, opt := range opts {
		p = opt(p)
	}
	p.logger = p.logger.With("player", me.String())
	return &p, nil
}

func (p *Player) Me() poker.PlayerID { return p.me }

func (p *Player) Step() poker.Step { return p.step }

// MatchID is the id Alice generated; Bob learns it from the first handshake
// message.
func (p *Player) MatchID() uuid.UUID { return p.matchID }

// Game returns a copy of the game state as this player is allowed to see it.
func (p *Player) Game() poker.GameState { return p.state.Masked(p.me) }

func (p *Player) CurrentPlayer() poker.PlayerID { return p.state.CurrentPlayer }

func (p *Player) NextMsgAuthor() poker.PlayerID { return p.state.NextMsgAuthor }

func (p *Player) Winner() poker.PlayerID { return p.state.Winner }

// Drained reports whether the match is over and no message is pending.
func (p *Player) Drained() bool {
	return p.step == poker.StepGameOver && p.state.NextMsgAuthor == poker.Nobody
}

// MyTurn reports whether the player is expected to bet now.
func (p *Player) MyTurn() bool {
	return p.step.IsBetting() && p.state.CurrentPlayer == p.me && p.state.NextMsgAuthor == p.me
}

func (p *Player) PrivateCard(i int) poker.Card { return p.state.Players[p.me].Cards[i] }

func (p *Player) OpponentCard(i int) poker.Card {
	return p.Game().Players[p.me.Opponent()].Cards[i]
}

func (p *Player) PublicCard(i int) poker.Card { return p.state.PublicCards[i] }

// Transcript is the ledger set with WithLedger, or nil.
func (p *Player) Transcript() *ledger.Blockchain { return p.transcript }

// HandName describes the best hand of who, once all of its cards are known.
func (p *Player) HandName(who poker.PlayerID) (string, error) {
	h, err := p.Game().Hand(who)
	if err != nil {
		return "", err
	}
	return p.oracle.Name(h)
}

// transition runs fn as an atomic step: on failure the player is restored
// to where it was and the error kind is recorded on the game state.
func (p *Player) transition(op string, in []byte, fn func() (Outcome, error)) (Outcome, error) {
	state, step, round, matchID, logger := p.state, p.step, p.round, p.matchID, p.logger
	phase := p.state.Phase
	restoreDeck := p.deck.Checkpoint()

	out, err := fn()
	if err != nil {
		p.state, p.step, p.round, p.matchID, p.logger = state, step, round, matchID, logger
		restoreDeck()
		var ge poker.GameError
		if errors.As(err, &ge) {
			err = fmt.Errorf("%s: %w", op, err)
		} else {
			ge = poker.ErrInvalidMove
			err = fmt.Errorf("%s: %w: %w", op, ge, err)
		}
		p.state.Error = ge
		p.logger.Warn("rejected", "op", op, "step", p.step.String(), "error", err)
		return Outcome{}, err
	}
	p.state.Error = poker.NoError

	p.logger.Debug(op,
		"step", p.step.String(),
		"status", out.Status.String(),
		"next_msg_author", p.state.NextMsgAuthor.String(),
		"out", len(out.Message),
	)
	if p.state.RoundClosed(phase) {
		p.logger.Info("phase", "from", phase.String(), "to", p.state.Phase.String())
	}
	p.record(in, out.Message)
	return out, nil
}

func (p *Player) record(in, out []byte) {
	if p.transcript == nil {
		return
	}
	if p.transcript.Len() == 1 {
		if err := p.transcript.SetMatchID(p.matchID.String()); err != nil {
			p.logger.Error("transcript", "error", err)
		}
	}
	step := p.step.String()
	if len(in) > 0 {
		if err := p.transcript.Record(ledger.Received, kindOf(in), step, in, int(p.me.Opponent())); err != nil {
			p.logger.Error("transcript", "error", err)
		}
	}
	if len(out) > 0 {
		if err := p.transcript.Record(ledger.Sent, kindOf(out), step, out, int(p.me)); err != nil {
			p.logger.Error("transcript", "error", err)
		}
	}
}

// finish ends the exchange: nobody is expected to send anything else.
func (p *Player) finish() {
	p.step = poker.StepGameOver
	p.state.NextMsgAuthor = poker.Nobody
	shares := p.state.FundsShare
	p.logger.Info("game over",
		"winner", p.state.Winner.String(),
		"alice_share", shares[poker.Alice].String(),
		"bob_share", shares[poker.Bob].String(),
		"muck", p.state.Muck,
	)
}

func (p *Player) setCards(who poker.PlayerID, cards []poker.Card) {
	copy(p.state.Players[who].Cards[:], cards)
}

func (p *Player) setPublic(step poker.Step, cards []poker.Card) {
	first, _, _ := poker.PublicCardsRange(step)
	copy(p.state.PublicCards[first:], cards)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", poker.ErrInvalidMove, fmt.Sprintf(format, args...))
}
