// Package game runs a single hand of no-limit Texas Hold'em.
//
// A Hand owns an ordered set of seats for the duration of one hand. It posts
// blinds (seat 0 small, seat 1 big), deals hole cards, runs the four betting
// streets and settles the pot, including multi-way side pots.
//
// # Basic Usage
//
//	seats := []*game.Seat{
//	    game.NewSeat("alice", 500, aliceAgent),
//	    game.NewSeat("bob", 500, bobAgent),
//	}
//	h, err := game.NewHand(randutil.New(42), seats, 5, 10,
//	    game.WithLogger(logger),
//	    game.WithLogWriter(game.NewFileLogWriter("history")))
//	if err != nil {
//	    return err
//	}
//	result, err := h.Play(ctx)
//
// # Decisions
//
// Each seat's Agent is asked for an Action through a TableView snapshot.
// Requests are bounded by a per-decision timeout on an injectable
// quartz.Clock; an agent that times out checks when nothing is owed and
// folds otherwise.
//
// # Determinism
//
// All randomness comes from the injected RNG (or a stacked deck via
// WithDeck), so a seed fully reproduces a hand given the same decisions.
package game
