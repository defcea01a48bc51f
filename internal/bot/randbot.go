package bot

import (
	"context"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/game"
)

// RandBot picks uniformly among the legal actions. Raise sizes are uniform
// between the minimum raise and just below all-in.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("randbot")}
}

func (r *RandBot) Decide(_ context.Context, view game.TableView) (game.Action, error) {
	legal := LegalActions(view)
	action := legal[r.rng.IntN(len(legal))]
	if action.Kind == game.Raise {
		lo, hi := view.MinRaiseTo(), view.MaxRaiseTo()-1
		action = game.RaiseTo(lo + r.rng.IntN(hi-lo+1))
	}
	r.logger.Debug("Decision", "seat", view.Me().Name, "action", action)
	return action, nil
}

// LegalActions lists one action of each kind the acting seat may take. The
// Raise entry carries the minimum legal total.
func LegalActions(view game.TableView) []game.Action {
	me := view.Me()
	owed := view.Owed()

	legal := []game.Action{game.FoldAction()}
	if owed == 0 {
		legal = append(legal, game.CheckAction())
	} else {
		legal = append(legal, game.CallAction())
	}
	if view.CanRaise && view.MinRaiseTo() < view.MaxRaiseTo() {
		legal = append(legal, game.RaiseTo(view.MinRaiseTo()))
	}
	if me.Chips > 0 && (view.CanRaise || me.Chips <= owed) {
		legal = append(legal, game.AllInAction())
	}
	return legal
}
