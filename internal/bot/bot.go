// Package bot provides decision providers for seats: scripted strategies,
// an interactive console player and a websocket client for remote agents.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/game"
)

// Factory builds a scripted bot.
type Factory func(rng *rand.Rand, logger *log.Logger) game.Agent

var factories = map[string]Factory{
	"call":   func(_ *rand.Rand, l *log.Logger) game.Agent { return NewCallBot(l) },
	"fold":   func(_ *rand.Rand, l *log.Logger) game.Agent { return NewFoldBot(l) },
	"random": func(r *rand.Rand, l *log.Logger) game.Agent { return NewRandBot(r, l) },
	"chart":  func(_ *rand.Rand, l *log.Logger) game.Agent { return NewChartBot(l) },
	"tag":    func(r *rand.Rand, l *log.Logger) game.Agent { return NewTAGBot(r, l) },
	"maniac": func(r *rand.Rand, l *log.Logger) game.Agent { return NewManiacBot(r, l) },
}

// Kinds lists the scripted bot names accepted by New.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New creates a scripted bot by name.
func New(kind string, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (want one of %v)", kind, Kinds())
	}
	return f(rng, logger), nil
}

// passive checks when nothing is owed and calls otherwise.
func passive(view game.TableView) game.Action {
	if view.Owed() == 0 {
		return game.CheckAction()
	}
	return game.CallAction()
}

// checkOrFold checks when nothing is owed and folds otherwise.
func checkOrFold(view game.TableView) game.Action {
	if view.Owed() == 0 {
		return game.CheckAction()
	}
	return game.FoldAction()
}

// raiseTo turns a desired street total into a legal aggressive action:
// raised to at least the minimum, converted to all-in when the stack cannot
// cover it, or downgraded to a call when raising is closed.
func raiseTo(view game.TableView, to int) game.Action {
	if !view.CanRaise {
		return passive(view)
	}
	to = max(to, view.MinRaiseTo())
	if to >= view.MaxRaiseTo() {
		return game.AllInAction()
	}
	return game.RaiseTo(to)
}

// shove goes all-in if allowed, otherwise calls.
func shove(view game.TableView) game.Action {
	if !view.CanRaise && view.Me().Chips > view.Owed() {
		return passive(view)
	}
	return game.AllInAction()
}
