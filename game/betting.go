package game

import (
	"fmt"

	"github.com/luca-patrignani/heads-up-poker/domain/poker"
)

// CreateBet places the player's own bet and returns the message announcing
// it.
//
// Parameters:
//   - a: the action to take
//   - amount: the raise increment, ignored for other actions
//
// The Outcome is Continued when the bet closed a betting round: the
// counterpart must answer with the keys of the new community cards, or with
// its hole cards when the river closed.
func (p *Player) CreateBet(a poker.ActionType, amount poker.Money) (Outcome, error) {
	if a != poker.ActionRaise {
		amount = poker.Money{}
	}
	return p.transition("create bet", nil, func() (Outcome, error) {
		if !p.MyTurn() {
			return Outcome{}, invalid("not %s's turn to bet at step %s", p.me, p.step)
		}
		before := p.state.Phase
		if err := poker.PlaceBet(&p.state, a, amount); err != nil {
			return Outcome{}, err
		}
		msg := message{Kind: uint32(kindBet), Action: uint32(a), Amount: amount.Bytes()}
		res := Outcome{Status: Success, Action: a, Amount: amount}
		opp := p.me.Opponent()

		switch {
		case p.state.Winner != poker.Nobody:
			p.finish()
		case p.state.Phase == before:
			p.state.NextMsgAuthor = opp
		case p.state.Phase == poker.Showdown:
			// The counterpart shows first.
			p.step = poker.StepShowdown
			p.state.NextMsgAuthor = opp
			res.Status = Continued
		default:
			p.step = poker.OpenStep(p.state.Phase)
			pos, err := poker.BoardPositions(p.step)
			if err != nil {
				return Outcome{}, err
			}
			if msg.Keys, err = p.deck.Keys(pos); err != nil {
				return Outcome{}, fmt.Errorf("board keys: %w", err)
			}
			p.state.NextMsgAuthor = opp
			res.Status = Continued
		}

		out, err := msg.encode()
		if err != nil {
			return Outcome{}, err
		}
		res.Message = out
		return res, nil
	})
}

// ProcessBet consumes a betting message of the counterpart: one of its
// bets, the keys answering a round closed by this player, or its showdown
// decision.
func (p *Player) ProcessBet(in []byte) (Outcome, error) {
	return p.transition("process bet", in, func() (Outcome, error) {
		if p.state.NextMsgAuthor != p.me.Opponent() {
			return Outcome{}, invalid("%s is not expecting a message", p.me)
		}
		msg, err := decodeMessage(in)
		if err != nil {
			return Outcome{}, err
		}
		switch msg.kind() {
		case kindBet:
			return p.processOpponentBet(msg)
		case kindReveal:
			return p.processReveal(msg)
		case kindShow:
			return p.processShow(msg)
		case kindMuck:
			return p.processMuck()
		}
		return Outcome{}, invalid("unexpected %s message", msg.kind())
	})
}

func (p *Player) processOpponentBet(msg message) (Outcome, error) {
	opp := p.me.Opponent()
	if !p.step.IsBetting() || p.state.CurrentPlayer != opp {
		return Outcome{}, invalid("%s may not bet at step %s", opp, p.step)
	}
	a := poker.ActionType(msg.Action)
	amount, err := poker.MoneyFromBytes(msg.Amount)
	if err != nil {
		return Outcome{}, err
	}
	before := p.state.Phase
	if err := poker.PlaceBet(&p.state, a, amount); err != nil {
		return Outcome{}, err
	}
	res := Outcome{Status: Success, Action: a, Amount: amount}

	switch {
	case p.state.Winner != poker.Nobody:
		p.finish()
		return res, nil

	case p.state.Phase == before:
		p.state.NextMsgAuthor = p.me
		return res, nil

	case p.state.Phase == poker.Showdown:
		// The player who did not close the river shows first.
		keys, err := p.deck.Keys(poker.HolePositions(p.me))
		if err != nil {
			return Outcome{}, fmt.Errorf("hole keys: %w", err)
		}
		p.state.Players[p.me].Revealed = true
		p.step = poker.StepShowdown
		p.state.NextMsgAuthor = opp
		res.Status = Continued
		res.Message, err = message{Kind: uint32(kindShow), Keys: keys}.encode()
		return res, err
	}

	step := poker.OpenStep(p.state.Phase)
	pos, err := poker.BoardPositions(step)
	if err != nil {
		return Outcome{}, err
	}
	cards, err := p.deck.OpenCards(pos, msg.Keys)
	if err != nil {
		return Outcome{}, fmt.Errorf("open %s: %w", step, err)
	}
	keys, err := p.deck.Keys(pos)
	if err != nil {
		return Outcome{}, fmt.Errorf("board keys: %w", err)
	}
	p.setPublic(step, cards)
	p.step = poker.BetStep(p.state.Phase)
	p.state.NextMsgAuthor = p.state.CurrentPlayer
	res.Message, err = message{Kind: uint32(kindReveal), Keys: keys}.encode()
	return res, err
}

// processReveal completes a round this player closed.
func (p *Player) processReveal(msg message) (Outcome, error) {
	pos, err := poker.BoardPositions(p.step)
	if err != nil {
		return Outcome{}, invalid("no community cards to open at step %s", p.step)
	}
	cards, err := p.deck.OpenCards(pos, msg.Keys)
	if err != nil {
		return Outcome{}, fmt.Errorf("open %s: %w", p.step, err)
	}
	p.setPublic(p.step, cards)
	p.step = poker.BetStep(p.state.Phase)
	p.state.NextMsgAuthor = p.state.CurrentPlayer
	return Outcome{Status: Success}, nil
}

// processShow opens the counterpart's hole cards and resolves the hand. The
// player who closed the river then shows its own cards, or mucks when it
// lost.
func (p *Player) processShow(msg message) (Outcome, error) {
	if p.step != poker.StepShowdown {
		return Outcome{}, invalid("unexpected show at step %s", p.step)
	}
	opp := p.me.Opponent()
	cards, err := p.deck.OpenCards(poker.HolePositions(opp), msg.Keys)
	if err != nil {
		return Outcome{}, fmt.Errorf("open %s hole cards: %w", opp, err)
	}
	p.setCards(opp, cards)
	p.state.Players[opp].Revealed = true
	if err := poker.ResolveShowdown(&p.state, p.oracle); err != nil {
		return Outcome{}, err
	}

	res := Outcome{Status: Success}
	if !p.state.Players[p.me].Revealed {
		winner := p.state.Winner
		if winner == p.me || winner == poker.Tie || p.alwaysReveal {
			keys, err := p.deck.Keys(poker.HolePositions(p.me))
			if err != nil {
				return Outcome{}, fmt.Errorf("hole keys: %w", err)
			}
			p.state.Players[p.me].Revealed = true
			p.state.Muck = winner != poker.Tie && !p.state.Players[winner.Opponent()].Revealed
			res.Message, err = message{Kind: uint32(kindShow), Keys: keys}.encode()
			if err != nil {
				return Outcome{}, err
			}
		} else {
			res.Message, err = message{Kind: uint32(kindMuck)}.encode()
			if err != nil {
				return Outcome{}, err
			}
		}
	}
	p.finish()
	return res, nil
}

// processMuck ends a hand where this player showed first and the
// counterpart gave up without showing.
func (p *Player) processMuck() (Outcome, error) {
	if p.step != poker.StepShowdown || !p.state.Players[p.me].Revealed {
		return Outcome{}, invalid("unexpected muck at step %s", p.step)
	}
	if err := poker.Concede(&p.state, p.me); err != nil {
		return Outcome{}, err
	}
	p.finish()
	return Outcome{Status: Success}, nil
}
