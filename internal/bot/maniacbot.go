package bot

import (
	"context"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/evaluator"
	"github.com/lox/holdem/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger.WithPrefix("maniacbot")}
}

func (m *ManiacBot) Decide(ctx context.Context, view game.TableView) (game.Action, error) {
	me := view.Me()
	roll := m.rng.Float64()

	var action game.Action
	if view.Owed() == 0 {
		switch {
		case roll >= 0.85:
			action = game.CheckAction()
		case me.Chips <= 20*view.BigBlind || roll < 0.25:
			action = shove(view)
		default:
			// three quarters of the way from the minimum raise to all-in
			lo, hi := view.MinRaiseTo(), view.MaxRaiseTo()
			action = raiseTo(view, lo+(hi-lo)*3/4)
		}
	} else {
		score, err := evaluator.HandStrengthScore(ctx, view.Hole, view.Community, m.rng)
		if err != nil {
			return game.Action{}, err
		}
		// even a maniac lets the worst hands go some of the time
		switch {
		case roll < 0.4 || score >= 0.7:
			action = shove(view)
		case score < 0.2 && roll >= 0.7:
			action = game.FoldAction()
		default:
			action = game.CallAction()
		}
	}

	m.logger.Debug("Decision", "seat", me.Name, "action", action)
	return action, nil
}
