package poker

import "fmt"

// GameError is a rejected operation. Every failure of the betting engine and
// of the protocol driver is reported as one of these kinds and recorded on
// GameState.Error.
type GameError int

// NoError is the GameState.Error value after a successful operation.
const NoError GameError = 0

const (
	ErrInvalidMove GameError = iota + 1
	ErrBetBelowMinimum
	ErrBetAboveMaximum
	ErrBetsNotEqual
	ErrOpponentBetNotHigher
	ErrBetAlreadyHigher
	ErrInsufficientFunds
	ErrInvalidPlayer
	ErrEndOfStream
	ErrInvalidCardsProofStep
)

var errorText = map[GameError]string{
	NoError:                  "success",
	ErrInvalidMove:           "invalid move",
	ErrBetBelowMinimum:       "bet below minimum",
	ErrBetAboveMaximum:       "bet above maximum",
	ErrBetsNotEqual:          "bets not equal",
	ErrOpponentBetNotHigher:  "opponent bet not higher",
	ErrBetAlreadyHigher:      "bet already higher",
	ErrInsufficientFunds:     "insufficient funds",
	ErrInvalidPlayer:         "invalid player",
	ErrEndOfStream:           "end of stream",
	ErrInvalidCardsProofStep: "invalid cards proof step",
}

func (e GameError) Error() string {
	if s, ok := errorText[e]; ok {
		return s
	}
	return fmt.Sprintf("game error %d", int(e))
}
