// Package game implements the per-peer protocol driver of a heads-up mental
// poker match.
//
// # Core Types
//
// Player: One side of the match. It owns a poker.GameState and advances it
// only through create/process calls: CreateHandshake and ProcessHandshake
// deal the cards, CreateBet and ProcessBet carry the wagers. Every call
// returns an Outcome whose Message, when not empty, must be delivered to the
// counterpart, which feeds it to its own Process call.
//
// Outcome: The message to forward, whether the exchange for the local
// action is settled (Success) or still waits for a reply (Continued), and
// the action and amount a ProcessBet call observed.
//
// # Turn Taking
//
// The game state tracks two independent markers: CurrentPlayer is whose bet
// is awaited, NextMsgAuthor is whose message is awaited. They differ when a
// phase boundary needs an automatic reply, for instance when the player who
// closes a betting round must receive the counterpart's keys to see the new
// community cards. Calls made out of turn fail with poker.ErrInvalidMove and
// leave the player untouched.
//
// # Dealing
//
// Cards are dealt by a deck.Dealer. The default is the commutative
// encryption deck of package deck; tests use deck.TrustedDeck. A Player only
// ever stores the cards the dealer opened for it, so its game state is
// already masked for its owner.
package game
