package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/game"
)

// CallBot checks or calls every street and never raises.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger.WithPrefix("callbot")}
}

func (c *CallBot) Decide(_ context.Context, view game.TableView) (game.Action, error) {
	action := passive(view)
	c.logger.Debug("Decision", "seat", view.Me().Name, "action", action, "owed", view.Owed())
	return action, nil
}
