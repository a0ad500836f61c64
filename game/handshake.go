package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/luca-patrignani/heads-up-poker/domain/deck"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
)

// CreateHandshake starts the dealing. Only Alice may call it, once.
func (p *Player) CreateHandshake() (Outcome, error) {
	return p.transition("create handshake", nil, func() (Outcome, error) {
		if p.me != poker.Alice || p.step != poker.StepInit {
			return Outcome{}, invalid("%s cannot start the handshake at step %s", p.me, p.step)
		}
		data, err := p.deck.Deal(0, nil)
		if err != nil {
			return Outcome{}, fmt.Errorf("deal round 0: %w", err)
		}
		out, err := message{Kind: uint32(kindHandshake), Round: 0, MatchID: p.matchID.String(), Data: data}.encode()
		if err != nil {
			return Outcome{}, err
		}
		p.step = poker.StepHandshake
		p.round = 1
		p.state.NextMsgAuthor = poker.Bob
		return Outcome{Message: out, Status: Success}, nil
	})
}

// ProcessHandshake consumes the counterpart's handshake message. It returns
// Continued while the dealing goes on and Success on the call that reveals
// the player's own hole cards.
func (p *Player) ProcessHandshake(in []byte) (Outcome, error) {
	return p.transition("process handshake", in, func() (Outcome, error) {
		if p.step != poker.StepInit && p.step != poker.StepHandshake {
			return Outcome{}, invalid("handshake is over")
		}
		if p.state.NextMsgAuthor != p.me.Opponent() {
			return Outcome{}, invalid("%s is not expecting a message", p.me)
		}
		msg, err := decodeMessage(in)
		if err != nil {
			return Outcome{}, err
		}
		if msg.kind() != kindHandshake || int(msg.Round) != p.round {
			return Outcome{}, invalid("expected handshake message %d, got %s %d", p.round, msg.kind(), msg.Round)
		}
		if err := p.checkMatchID(msg); err != nil {
			return Outcome{}, err
		}
		out, err := p.handshakeStep(msg)
		if err == nil && msg.Round == 0 {
			p.logger = p.logger.With("match", p.matchID.String())
		}
		return out, err
	})
}

func (p *Player) checkMatchID(msg message) error {
	id, err := uuid.Parse(msg.MatchID)
	if err != nil {
		return fmt.Errorf("match id: %w", err)
	}
	if msg.Round == 0 {
		p.matchID = id
		return nil
	}
	if id != p.matchID {
		return invalid("message of match %s, playing %s", id, p.matchID)
	}
	return nil
}

func (p *Player) handshakeStep(msg message) (Outcome, error) {
	round := int(msg.Round)
	reply := message{Kind: uint32(kindHandshake), Round: uint32(round + 1), MatchID: p.matchID.String()}
	res := Outcome{Status: Continued}

	switch round {
	case 0, 1, 2:
		data, err := p.deck.Deal(round+1, msg.Data)
		if err != nil {
			return Outcome{}, fmt.Errorf("deal round %d: %w", round+1, err)
		}
		reply.Data = data
		if round == 2 {
			// The dealt deck exists: Alice can be handed her hole cards.
			keys, err := p.deck.Keys(poker.HolePositions(poker.Alice))
			if err != nil {
				return Outcome{}, err
			}
			reply.Keys = keys
		}
		p.step = poker.StepHandshake
		p.state.NextMsgAuthor = p.me.Opponent()

	case 3:
		if _, err := p.deck.Deal(round+1, msg.Data); err != nil {
			return Outcome{}, fmt.Errorf("deal round %d: %w", round+1, err)
		}
		if err := p.learnHoleCards(msg.Keys); err != nil {
			return Outcome{}, err
		}
		keys, err := p.deck.Keys(poker.HolePositions(poker.Bob))
		if err != nil {
			return Outcome{}, err
		}
		reply.Keys = keys
		res.Status = Success
		p.state.NextMsgAuthor = poker.Alice
		p.step = poker.StepPreflopBet

	case 4:
		if err := p.learnHoleCards(msg.Keys); err != nil {
			return Outcome{}, err
		}
		p.round = deck.HandshakeRounds
		p.state.NextMsgAuthor = poker.Alice
		p.step = poker.StepPreflopBet
		return Outcome{Status: Success}, nil

	default:
		return Outcome{}, invalid("unknown handshake round %d", round)
	}

	out, err := reply.encode()
	if err != nil {
		return Outcome{}, err
	}
	p.round = round + 2
	res.Message = out
	return res, nil
}

func (p *Player) learnHoleCards(keys []byte) error {
	cards, err := p.deck.OpenCards(poker.HolePositions(p.me), keys)
	if err != nil {
		return fmt.Errorf("open hole cards: %w", err)
	}
	p.setCards(p.me, cards)
	p.logger.Debug("hole cards", "cards", fmt.Sprint(cards))
	return nil
}
