package poker

import "fmt"

// Step is the position of a protocol driver in the hand. Betting steps
// alternate with the steps that open community cards.
type Step uint8

const (
	StepInit Step = iota
	StepHandshake
	StepPreflopBet
	StepOpenFlop
	StepFlopBet
	StepOpenTurn
	StepTurnBet
	StepOpenRiver
	StepRiverBet
	StepShowdown
	StepGameOver
)

var stepNames = [...]string{
	"init", "handshake", "preflop-bet", "open-flop", "flop-bet", "open-turn",
	"turn-bet", "open-river", "river-bet", "showdown", "game-over",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", uint8(s))
}

// IsBetting reports whether s waits for a wager.
func (s Step) IsBetting() bool {
	switch s {
	case StepPreflopBet, StepFlopBet, StepTurnBet, StepRiverBet:
		return true
	}
	return false
}

// OpenStep is the step that reveals the community cards of phase p. It is
// only defined for Flop, Turn and River.
func OpenStep(p Phase) Step {
	switch p {
	case Flop:
		return StepOpenFlop
	case Turn:
		return StepOpenTurn
	case River:
		return StepOpenRiver
	}
	return StepShowdown
}

// BetStep is the betting step of phase p.
func BetStep(p Phase) Step {
	switch p {
	case PreFlop:
		return StepPreflopBet
	case Flop:
		return StepFlopBet
	case Turn:
		return StepTurnBet
	case River:
		return StepRiverBet
	}
	return StepShowdown
}

// PublicCardsRange returns the index in GameState.PublicCards of the first
// community card opened at step, and how many are opened.
func PublicCardsRange(step Step) (first, count int, err error) {
	switch step {
	case StepOpenFlop:
		return 0, 3, nil
	case StepOpenTurn:
		return 3, 1, nil
	case StepOpenRiver:
		return 4, 1, nil
	}
	return 0, 0, ErrInvalidCardsProofStep
}

// firstToAct is Alice preflop, Bob on every later street.
func firstToAct(p Phase) PlayerID {
	if p == PreFlop {
		return Alice
	}
	return Bob
}

// closeRound moves to the next phase. Leaving the river ends the betting:
// the showdown itself is resolved once hole cards are exchanged.
func (g *GameState) closeRound() {
	g.Phase++
	if g.Phase == Showdown {
		g.CurrentPlayer = Nobody
		return
	}
	g.CurrentPlayer = firstToAct(g.Phase)
}

// RoundClosed reports whether the last successful bet moved the game from
// phase before to a later phase.
func (g GameState) RoundClosed(before Phase) bool {
	return g.Phase > before
}
