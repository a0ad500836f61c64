package game

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/luca-patrignani/heads-up-poker/domain/deck"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/ledger"
)

// Option configures a Player.
type Option func(Player) Player

// WithLogger sets the diagnostics sink. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p Player) Player {
		p.logger = logger
		return p
	}
}

// WithDealer replaces the commutative encryption deck.
func WithDealer(d deck.Dealer) Option {
	return func(p Player) Player {
		p.deck = poker.NewPokerDeck(d)
		return p
	}
}

// WithOracle replaces the hand evaluator used at showdown.
func WithOracle(o poker.Oracle) Option {
	return func(p Player) Player {
		p.oracle = o
		return p
	}
}

// WithLedger records every message sent and processed on bc.
func WithLedger(bc *ledger.Blockchain) Option {
	return func(p Player) Player {
		p.transcript = bc
		return p
	}
}

// WithAlwaysReveal makes the player show its hole cards at showdown even
// when it loses.
func WithAlwaysReveal() Option {
	return func(p Player) Player {
		p.alwaysReveal = true
		return p
	}
}

// WithMatchID sets the match id Alice announces in the handshake. It is
// ignored on Bob, who adopts Alice's.
func WithMatchID(id uuid.UUID) Option {
	return func(p Player) Player {
		if p.me == poker.Alice {
			p.matchID = id
		}
		return p
	}
}
