package poker

import "fmt"

// ResolveShowdown decides the winner of a hand that reached the end of the
// river betting, from both fully known hands.
//
// The winner takes the whole pot; a tie splits it evenly with the odd unit,
// if any, going to Alice who acted first. The loser's hole cards are mucked
// unless they were already revealed.
func ResolveShowdown(g *GameState, o Oracle) error {
	if g.Winner != Nobody || g.Phase != Showdown {
		return g.fail(ErrInvalidMove)
	}
	a, _ := g.Hand(Alice)
	b, _ := g.Hand(Bob)
	ord, err := o.Compare(a, b)
	if err != nil {
		g.fail(ErrInvalidMove)
		return fmt.Errorf("compare hands: %w: %w", ErrInvalidMove, err)
	}
	switch ord {
	case HandAWins:
		g.Winner = Alice
	case HandBWins:
		g.Winner = Bob
	default:
		g.Winner = Tie
	}
	g.awardPot()
	g.Muck = g.Winner != Tie && !g.Players[g.Winner.Opponent()].Revealed
	g.CurrentPlayer = Nobody
	g.Error = NoError
	return nil
}

// Concede ends a hand at showdown in favour of winner without looking at the
// loser's cards: the loser chose to muck.
func Concede(g *GameState, winner PlayerID) error {
	if g.Winner != Nobody || g.Phase != Showdown {
		return g.fail(ErrInvalidMove)
	}
	if !winner.Valid() {
		return g.fail(ErrInvalidPlayer)
	}
	g.Winner = winner
	g.awardPot()
	g.Muck = true
	g.CurrentPlayer = Nobody
	g.Error = NoError
	return nil
}

func (g *GameState) awardPot() {
	pot := g.Pot()
	switch g.Winner {
	case Alice, Bob:
		g.FundsShare[g.Winner] = pot
		g.FundsShare[g.Winner.Opponent()] = Money{}
	case Tie:
		half, rem := pot.Halve()
		g.FundsShare[Alice] = half.Add(rem)
		g.FundsShare[Bob] = half
	}
}
