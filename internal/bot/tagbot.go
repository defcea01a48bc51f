package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/evaluator"
	"github.com/lox/holdem/internal/game"
)

const tagEquitySamples = 300

// TAGBot is a tight-aggressive bot. Preflop it plays from the starting hand
// chart; after the flop it estimates equity against the live opponents and
// bets strong hands, calls when the price is right and folds otherwise.
type TAGBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger.WithPrefix("tagbot")}
}

func (t *TAGBot) Decide(ctx context.Context, view game.TableView) (game.Action, error) {
	strength, err := t.strength(ctx, view)
	if err != nil {
		return game.Action{}, err
	}

	owed := view.Owed()
	potOdds := 0.0
	if owed > 0 {
		potOdds = float64(owed) / float64(view.Pot+owed)
	}

	var action game.Action
	switch {
	case strength >= 0.8:
		action = raiseTo(view, view.TableBet+max(view.Pot, view.BigBlind))
	case strength >= 0.6 && owed == 0 && t.rng.Float64() < 0.5:
		action = raiseTo(view, view.TableBet+max(view.Pot/2, view.BigBlind))
	case owed == 0:
		action = game.CheckAction()
	case strength > potOdds && strength >= 0.35:
		action = game.CallAction()
	default:
		action = game.FoldAction()
	}

	t.logger.Debug("Decision",
		"seat", view.Me().Name,
		"street", view.Street,
		"strength", fmt.Sprintf("%.2f", strength),
		"potOdds", fmt.Sprintf("%.2f", potOdds),
		"action", action)
	return action, nil
}

func (t *TAGBot) strength(ctx context.Context, view game.TableView) (float64, error) {
	if view.Street == game.Preflop {
		return deck.HandPercentile(view.Hole), nil
	}
	opponents := 0
	for i, s := range view.Seats {
		if i != view.Acting && s.InGame {
			opponents++
		}
	}
	if opponents == 0 {
		return 1, nil
	}
	return evaluator.EstimateEquity(ctx, view.Hole, view.Community, opponents, tagEquitySamples, t.rng)
}
