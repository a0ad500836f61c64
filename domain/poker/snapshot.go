package poker

import "encoding/json"

// PlayerSnapshot is the diagnostic form of a Player.
type PlayerSnapshot struct {
	ID         PlayerID `json:"id"`
	TotalFunds Money    `json:"total_funds"`
	Bets       Money    `json:"bets"`
	Cards      [2]Card  `json:"cards"`
	Revealed   bool     `json:"revealed"`
}

// Snapshot is a structured view of a GameState for logs and user
// interfaces. It plays no part in the protocol.
type Snapshot struct {
	Phase         string            `json:"phase"`
	CurrentPlayer PlayerID          `json:"current_player"`
	NextMsgAuthor PlayerID          `json:"next_msg_author"`
	Error         GameError         `json:"error"`
	ErrorText     string            `json:"error_text"`
	Winner        PlayerID          `json:"winner"`
	PublicCards   [5]Card           `json:"public_cards"`
	Players       [2]PlayerSnapshot `json:"players"`
	FundsShare    [2]Money          `json:"funds_share"`
	LastAggressor PlayerID          `json:"last_aggressor"`
	Muck          bool              `json:"muck"`
	BigBlind      Money             `json:"big_blind"`
}

// Snapshot returns the diagnostic view of g.
func (g GameState) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         g.Phase.String(),
		CurrentPlayer: g.CurrentPlayer,
		NextMsgAuthor: g.NextMsgAuthor,
		Error:         g.Error,
		ErrorText:     g.Error.Error(),
		Winner:        g.Winner,
		PublicCards:   g.PublicCards,
		FundsShare:    g.FundsShare,
		LastAggressor: g.LastAggressor,
		Muck:          g.Muck,
		BigBlind:      g.BigBlind,
	}
	for i, p := range g.Players {
		s.Players[i] = PlayerSnapshot{
			ID:         p.ID,
			TotalFunds: p.TotalFunds,
			Bets:       p.Bets,
			Cards:      p.Cards,
			Revealed:   p.Revealed,
		}
	}
	return s
}

// MarshalJSON encodes the snapshot of g.
func (g GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}
