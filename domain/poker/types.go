package poker

import "fmt"

// PlayerID identifies one of the two seats.
type PlayerID int

const (
	Nobody PlayerID = -1
	Alice  PlayerID = 0
	Bob    PlayerID = 1
	// Tie is only meaningful as GameState.Winner.
	Tie PlayerID = 2
)

// Opponent returns the other seat. It must only be called on Alice or Bob.
func (p PlayerID) Opponent() PlayerID {
	return 1 - p
}

// Valid reports whether p is Alice or Bob.
func (p PlayerID) Valid() bool {
	return p == Alice || p == Bob
}

func (p PlayerID) String() string {
	switch p {
	case Nobody:
		return "nobody"
	case Alice:
		return "alice"
	case Bob:
		return "bob"
	case Tie:
		return "tie"
	}
	return fmt.Sprintf("player(%d)", int(p))
}

// Phase is a betting round or the terminal showdown stage. Phases are
// ordered and only move forward.
type Phase uint8

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

type ActionType uint8

const (
	ActionCheck ActionType = iota
	ActionCall
	ActionRaise
	ActionFold
)

func (a ActionType) String() string {
	switch a {
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionFold:
		return "fold"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Player is one side of the table.
type Player struct {
	ID         PlayerID
	Cards      [2]Card
	TotalFunds Money
	// Bets is the amount escrowed so far in the hand. It accumulates across
	// betting rounds and never exceeds TotalFunds.
	Bets Money
	// Revealed is set once the hole cards have been opened to the opponent.
	Revealed bool
}
