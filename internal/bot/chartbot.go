package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
)

const (
	chartPushPercentile = 0.85
	chartPlayPercentile = 0.50
	chartShortStackBB   = 20
)

// ChartBot plays a push-fold preflop chart and checks or calls after the
// flop.
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger.WithPrefix("chartbot")}
}

func (c *ChartBot) Decide(_ context.Context, view game.TableView) (game.Action, error) {
	if view.Street != game.Preflop {
		return passive(view), nil
	}

	pct := deck.HandPercentile(view.Hole)
	me := view.Me()
	var action game.Action
	switch {
	case pct >= chartPushPercentile && me.Chips <= chartShortStackBB*view.BigBlind:
		action = shove(view)
	case pct >= chartPushPercentile:
		action = raiseTo(view, 3*view.TableBet)
	case pct >= chartPlayPercentile:
		action = passive(view)
	default:
		action = checkOrFold(view)
	}

	c.logger.Debug("Decision",
		"seat", me.Name,
		"hand", deck.StartingHandKey(view.Hole),
		"percentile", pct,
		"action", action)
	return action, nil
}
