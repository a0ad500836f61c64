// Package poker implements the domain logic of a heads-up Texas Hold'em
// hand, including the betting rules, pot shares, hand evaluation and game
// flow.
//
// # Core Types
//
// GameState: The complete state of a hand as one peer sees it: both
// players, community cards, phase, turn markers, winner and pot shares.
//
// Player: A single seat with its funds, its bets and its hole cards.
//
// Card: A playing card with suit and rank, or Unknown when the viewer may
// not see it.
//
// Money: An exact chip amount.
//
// # Game Flow
//
// A hand progresses through phases: PreFlop → Flop → Turn → River → Showdown.
// Alice posts the small blind and acts first preflop, Bob posts the big
// blind and acts first on every later street. PlaceBet validates and applies
// one wager and closes betting rounds.
//
// # Hand Evaluation
//
// ResolveShowdown asks an Oracle to compare both 7-card hands. The winner
// takes the pot; a tie splits it evenly.
package poker
