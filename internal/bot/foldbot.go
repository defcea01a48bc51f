package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/game"
)

// FoldBot checks when it can and folds to any bet.
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger.WithPrefix("foldbot")}
}

func (f *FoldBot) Decide(_ context.Context, view game.TableView) (game.Action, error) {
	action := checkOrFold(view)
	f.logger.Debug("Decision", "seat", view.Me().Name, "action", action)
	return action, nil
}
