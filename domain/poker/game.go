package poker

// GameState is the whole hand as seen by one peer. Each peer owns its own
// instance and only ever stores the cards it is entitled to know.
type GameState struct {
	Players     [2]Player
	PublicCards [5]Card
	Phase       Phase
	// CurrentPlayer is whose bet is awaited, Nobody once the game is over.
	CurrentPlayer PlayerID
	// NextMsgAuthor is whose protocol message is awaited, Nobody once the
	// exchange is drained. It is maintained by the protocol driver.
	NextMsgAuthor PlayerID
	LastAggressor PlayerID
	// Muck is true when the losing or folding side's hole cards stay hidden
	// from the opponent.
	Muck       bool
	Winner     PlayerID
	FundsShare [2]Money
	Error      GameError
	BigBlind   Money
}

// NewGameState starts a hand with the forced blinds posted: Alice, first to
// act preflop, posts half the big blind and Bob posts the full big blind.
//
// Parameters:
//   - aliceFunds, bobFunds: total funds each side brings to the hand
//   - bigBlind: forced bet of Bob, also the minimum raise
//
// Returns ErrInvalidMove for a zero big blind and ErrInsufficientFunds when a
// side cannot post its blind.
func NewGameState(aliceFunds, bobFunds, bigBlind Money) (GameState, error) {
	if bigBlind.IsZero() {
		return GameState{}, ErrInvalidMove
	}
	smallBlind, _ := bigBlind.Halve()
	if aliceFunds.Less(smallBlind) || bobFunds.Less(bigBlind) {
		return GameState{}, ErrInsufficientFunds
	}
	return GameState{
		Players: [2]Player{
			{ID: Alice, TotalFunds: aliceFunds, Bets: smallBlind},
			{ID: Bob, TotalFunds: bobFunds, Bets: bigBlind},
		},
		Phase:         PreFlop,
		CurrentPlayer: Alice,
		NextMsgAuthor: Alice,
		LastAggressor: Bob,
		Winner:        Nobody,
		BigBlind:      bigBlind,
	}, nil
}

// Pot is the sum of both players' bets.
func (g GameState) Pot() Money {
	return g.Players[Alice].Bets.Add(g.Players[Bob].Bets)
}

// Hand returns the two hole cards of p followed by the five public cards.
func (g GameState) Hand(p PlayerID) (Hand, error) {
	if !p.Valid() {
		return Hand{}, ErrInvalidPlayer
	}
	var h Hand
	h[0], h[1] = g.Players[p].Cards[0], g.Players[p].Cards[1]
	copy(h[2:], g.PublicCards[:])
	return h, nil
}

// Masked returns a copy of g as viewer is allowed to see it: the opponent's
// hole cards are Unknown unless the opponent revealed them.
func (g GameState) Masked(viewer PlayerID) GameState {
	for i := range g.Players {
		p := &g.Players[i]
		if p.ID != viewer && !p.Revealed {
			p.Cards = [2]Card{Unknown, Unknown}
		}
	}
	return g
}

// Balance is what p walks away with: the funds not put at risk plus the
// share of the pot awarded at the end of the hand.
func (g GameState) Balance(p PlayerID) (Money, error) {
	if !p.Valid() {
		return Money{}, ErrInvalidPlayer
	}
	pl := g.Players[p]
	return pl.TotalFunds.Sub(pl.Bets).Add(g.FundsShare[p]), nil
}

// fail records err on the state and returns it.
func (g *GameState) fail(err GameError) error {
	g.Error = err
	return err
}
