package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/evaluator"
	"github.com/lox/holdem/internal/randutil"
)

// EvalCmd evaluates hands given in compact notation. Hands that make seven
// cards with the board are ranked; two-card hands also get an equity
// estimate against random opponents.
type EvalCmd struct {
	Hands     []string `arg:"" help:"Hole cards per hand, e.g. AsKd QhQc"`
	Board     string   `short:"b" help:"Community cards, e.g. 2c7h9dTc3s"`
	Opponents int      `default:"1" help:"Random opponents for equity estimation"`
	Samples   int      `default:"20000" help:"Monte Carlo samples for equity estimation"`
	Seed      int64    `help:"Seed for equity sampling (random if unset)"`
}

func (c *EvalCmd) Run() error {
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)
	styles := display.DefaultStyles()

	var (
		strengths []evaluator.HandStrength
		ranked    []string
	)
	for _, h := range c.Hands {
		hole, err := deck.ParseCards(h)
		if err != nil {
			return fmt.Errorf("hand %q: %w", h, err)
		}
		line := styles.Cards(hole)

		if len(hole)+len(board) == 7 {
			st, err := evaluator.Evaluate(append(hole, board...))
			if err != nil {
				return fmt.Errorf("hand %q: %w", h, err)
			}
			strengths = append(strengths, st)
			ranked = append(ranked, h)
			line += "  " + st.String()
		}
		if len(hole) == 2 {
			eq, err := evaluator.EstimateEquity(context.Background(), hole, board, c.Opponents, c.Samples, rng)
			if err != nil {
				return fmt.Errorf("hand %q: %w", h, err)
			}
			line += fmt.Sprintf("  equity %.1f%% vs %d", eq*100, c.Opponents)
			if len(board) == 0 {
				line += fmt.Sprintf("  (%s, top %.0f%%)", deck.StartingHandKey(hole), (1-deck.HandPercentile(hole))*100)
			}
		}
		fmt.Println(line)
	}

	if len(strengths) > 1 {
		best := []int{0}
		for i := 1; i < len(strengths); i++ {
			switch evaluator.Compare(strengths[i], strengths[best[0]]) {
			case 1:
				best = []int{i}
			case 0:
				best = append(best, i)
			}
		}
		var names []string
		for _, i := range best {
			names = append(names, ranked[i])
		}
		fmt.Println(styles.Success.Render("Best: " + strings.Join(names, ", ")))
	}
	return nil
}
