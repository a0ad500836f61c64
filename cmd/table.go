package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/game"
	"github.com/luca-patrignani/heads-up-poker/wire"
)

// chooser picks the next bet of a player whose turn it is.
type chooser func(p *game.Player) (poker.ActionType, poker.Money)

// table runs both seats of a match in one process. Messages travel as
// wire frames through one inbox per seat, in order.
type table struct {
	players  [2]*game.Player
	inbox    [2]bytes.Buffer
	compress bool
	logger   *slog.Logger
	// onBet is called after every accepted bet.
	onBet func(p *game.Player, a poker.ActionType, amount poker.Money)
	// onReject is called when a chosen bet is refused.
	onReject func(p *game.Player, err error)
	// maxRejects bounds consecutive refused bets, zero means no bound.
	maxRejects int
}

func (t *table) send(from poker.PlayerID, msg []byte) error {
	if len(msg) == 0 {
		return nil
	}
	var frame []byte
	var err error
	if t.compress {
		frame, err = wire.CompressAndWrap(msg)
	} else {
		frame, err = wire.Wrap(msg)
	}
	if err != nil {
		return fmt.Errorf("frame message of %s: %w", from, err)
	}
	_, err = t.inbox[from.Opponent()].Write(frame)
	return err
}

func (t *table) next(seat poker.PlayerID) ([]byte, error) {
	if t.compress {
		return wire.UnwrapAndDecompressNext(&t.inbox[seat])
	}
	return wire.UnwrapNext(&t.inbox[seat])
}

// deliver processes at most one pending message per seat and forwards the
// replies. It reports whether anything was processed.
func (t *table) deliver() (bool, error) {
	progressed := false
	for seat, p := range t.players {
		if t.inbox[seat].Len() == 0 {
			continue
		}
		msg, err := t.next(poker.PlayerID(seat))
		if err != nil {
			return false, fmt.Errorf("read message for %s: %w", p.Me(), err)
		}
		var out game.Outcome
		switch p.Step() {
		case poker.StepInit, poker.StepHandshake:
			out, err = p.ProcessHandshake(msg)
		default:
			out, err = p.ProcessBet(msg)
		}
		if err != nil {
			return false, err
		}
		if err := t.send(p.Me(), out.Message); err != nil {
			return false, err
		}
		progressed = true
	}
	return progressed, nil
}

func (t *table) actor() *game.Player {
	for _, p := range t.players {
		if p.MyTurn() {
			return p
		}
	}
	return nil
}

func (t *table) drained() bool {
	return t.players[poker.Alice].Drained() && t.players[poker.Bob].Drained()
}

// play deals the cards and lets choose decide every bet until both seats
// are drained.
func (t *table) play(choose chooser) error {
	out, err := t.players[poker.Alice].CreateHandshake()
	if err != nil {
		return err
	}
	if err := t.send(poker.Alice, out.Message); err != nil {
		return err
	}

	rejects := 0
	for !t.drained() {
		progressed, err := t.deliver()
		if err != nil {
			return err
		}
		if progressed {
			continue
		}
		p := t.actor()
		if p == nil {
			return fmt.Errorf("match is stuck: no message pending and nobody to act")
		}
		a, amount := choose(p)
		out, err := p.CreateBet(a, amount)
		if err != nil {
			if t.onReject != nil {
				t.onReject(p, err)
			}
			if rejects++; t.maxRejects > 0 && rejects > t.maxRejects {
				return err
			}
			continue
		}
		rejects = 0
		t.logger.Debug("bet", "player", p.Me().String(), "action", a.String(), "amount", amount.String())
		if t.onBet != nil {
			t.onBet(p, a, amount)
		}
		if err := t.send(p.Me(), out.Message); err != nil {
			return err
		}
	}
	return nil
}

// botChooser checks when it can, calls when it can afford it and folds
// otherwise.
func botChooser(p *game.Player) (poker.ActionType, poker.Money) {
	g := p.Game()
	me, opp := g.Players[p.Me()], g.Players[p.Me().Opponent()]
	switch {
	case me.Bets.Equal(opp.Bets):
		return poker.ActionCheck, poker.Money{}
	case !opp.Bets.Greater(me.TotalFunds):
		return poker.ActionCall, poker.Money{}
	}
	return poker.ActionFold, poker.Money{}
}
