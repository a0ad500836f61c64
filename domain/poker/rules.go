package poker

// PlaceBet validates and applies a wager of the current player.
//
// amount is only read for ActionRaise, where it is the increment over the
// opponent's bet. On failure the error is recorded on g.Error and nothing
// else changes.
func PlaceBet(g *GameState, a ActionType, amount Money) error {
	if g.Winner != Nobody || !g.CurrentPlayer.Valid() {
		return g.fail(ErrInvalidMove)
	}
	cur := g.CurrentPlayer
	me := &g.Players[cur]
	opp := &g.Players[cur.Opponent()]

	switch a {
	case ActionFold:
		g.Winner = cur.Opponent()
		g.Phase = Showdown
		g.Muck = true
		g.CurrentPlayer = g.Winner
		g.awardPot()

	case ActionCheck:
		if !me.Bets.Equal(opp.Bets) {
			return g.fail(ErrBetsNotEqual)
		}
		if cur != firstToAct(g.Phase) {
			g.closeRound()
		} else {
			g.CurrentPlayer = cur.Opponent()
		}

	case ActionCall:
		if !opp.Bets.Greater(me.Bets) {
			return g.fail(ErrOpponentBetNotHigher)
		}
		if opp.Bets.Greater(me.TotalFunds) {
			return g.fail(ErrInsufficientFunds)
		}
		me.Bets = opp.Bets
		// Completing the big blind leaves Bob his option.
		if g.Phase == PreFlop && me.Bets.Equal(g.BigBlind) {
			g.CurrentPlayer = cur.Opponent()
		} else {
			g.closeRound()
		}

	case ActionRaise:
		if amount.Less(g.BigBlind) {
			return g.fail(ErrBetBelowMinimum)
		}
		if me.Bets.Greater(opp.Bets) {
			return g.fail(ErrBetAlreadyHigher)
		}
		if amount.Greater(opp.TotalFunds.Sub(opp.Bets)) {
			return g.fail(ErrBetAboveMaximum)
		}
		total := opp.Bets.Add(amount)
		if total.Greater(me.TotalFunds) {
			return g.fail(ErrInsufficientFunds)
		}
		me.Bets = total
		g.LastAggressor = cur
		g.CurrentPlayer = cur.Opponent()

	default:
		return g.fail(ErrInvalidMove)
	}

	g.Error = NoError
	return nil
}
