package game

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/deck"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// passiveAgent checks when it can and calls otherwise.
var passiveAgent = AgentFunc(func(_ context.Context, v TableView) (Action, error) {
	if v.Owed() == 0 {
		return CheckAction(), nil
	}
	return CallAction(), nil
})

// scriptedAgent plays queued actions, then falls back to passive play.
type scriptedAgent struct {
	mu      sync.Mutex
	actions []Action
	views   []TableView
}

func script(actions ...Action) *scriptedAgent {
	return &scriptedAgent{actions: actions}
}

func (s *scriptedAgent) Decide(ctx context.Context, v TableView) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
	if len(s.actions) == 0 {
		return passiveAgent(ctx, v)
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *scriptedAgent) seen() []TableView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TableView(nil), s.views...)
}

// randomAgent picks uniformly among legal actions.
type randomAgent struct {
	rng *rand.Rand
}

func (r randomAgent) Decide(_ context.Context, v TableView) (Action, error) {
	me := v.Me()
	options := []Action{CallAction()}
	if v.Owed() > 0 {
		options = append(options, FoldAction())
	} else {
		options = append(options, CheckAction())
	}
	if v.CanRaise {
		options = append(options, AllInAction())
		if lo, hi := v.MinRaiseTo(), v.MaxRaiseTo(); hi >= lo {
			options = append(options, RaiseTo(lo+r.rng.IntN(hi-lo+1)))
		}
	} else if me.Chips <= v.Owed() {
		options = append(options, AllInAction())
	}
	return options[r.rng.IntN(len(options))], nil
}

// stackedDeck deals holes in seat order, then the five board cards.
func stackedDeck(t *testing.T, holes []string, board string) *deck.Deck {
	t.Helper()
	var cards []deck.Card
	for _, h := range holes {
		cards = append(cards, deck.MustParseCards(h)...)
	}
	cards = append(cards, deck.MustParseCards(board)...)
	require.Len(t, cards, len(holes)*2+5)
	// pad with the unused cards so the deck holds 52
	used := make(map[deck.Card]bool)
	for _, c := range cards {
		used[c] = true
	}
	for _, c := range deck.Standard() {
		if !used[c] {
			cards = append(cards, c)
		}
	}
	return deck.NewDeckFromCards(cards)
}

func newSeats(stacks []int, agents ...Agent) []*Seat {
	seats := make([]*Seat, len(stacks))
	for i, chips := range stacks {
		var a Agent = passiveAgent
		if i < len(agents) && agents[i] != nil {
			a = agents[i]
		}
		seats[i] = NewSeat(fmt.Sprintf("p%d", i), chips, a)
	}
	return seats
}

func totalChips(seats []*Seat) int {
	total := 0
	for _, s := range seats {
		total += s.Chips
	}
	return total
}
