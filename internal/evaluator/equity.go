package evaluator

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/deck"
)

// parallelThreshold is the sample count above which work is split across
// goroutines.
const parallelThreshold = 500

// CardSet is a bitset of cards keyed by deck.Card.Index.
type CardSet uint64

// Add adds a card to the set
func (cs *CardSet) Add(card deck.Card) {
	*cs |= 1 << card.Index()
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card deck.Card) bool {
	return cs&(1<<card.Index()) != 0
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards []deck.Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

type tally struct {
	wins, ties, samples float64
}

// EstimateEquity estimates the share of the pot hole cards win against a
// number of opponents holding random cards, completing the board at random.
// Ties count as a share split between the tied hands.
func EstimateEquity(ctx context.Context, hole, board []deck.Card, opponents, samples int, rng *rand.Rand) (float64, error) {
	if len(hole) != 2 {
		return 0, fmt.Errorf("equity needs 2 hole cards, got %d", len(hole))
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("board has %d cards", len(board))
	}
	if opponents < 1 || 2+2*opponents+5 > 52 {
		return 0, fmt.Errorf("invalid opponent count %d", opponents)
	}
	if samples <= 0 {
		return 0, nil
	}

	used := NewCardSet(hole)
	for _, c := range board {
		if used.Contains(c) {
			return 0, fmt.Errorf("%s: %w", c, ErrDuplicateCard)
		}
		used.Add(c)
	}
	var available []deck.Card
	for _, c := range deck.Standard() {
		if !used.Contains(c) {
			available = append(available, c)
		}
	}

	workers := 1
	if samples >= parallelThreshold {
		workers = min(runtime.NumCPU(), 8)
	}

	results := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := samples / workers
		if w < samples%workers {
			n++
		}
		// independent stream per worker
		workerRNG := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
		g.Go(func() error {
			res, err := runEquityWorker(ctx, hole, board, available, opponents, n, workerRNG)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total tally
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.samples += r.samples
	}
	if total.samples == 0 {
		return 0, nil
	}
	return (total.wins + total.ties) / total.samples, nil
}

func runEquityWorker(ctx context.Context, hole, board, available []deck.Card, opponents, samples int, rng *rand.Rand) (tally, error) {
	var t tally
	pool := make([]deck.Card, len(available))
	hero := make([]deck.Card, 7)
	opp := make([]deck.Card, 7)
	need := 5 - len(board) + 2*opponents

	for i := range samples {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}
		copy(pool, available)
		// partial Fisher-Yates: the first `need` cards are the draw
		for j := range need {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}

		copy(hero, hole)
		copy(hero[2:], board)
		copy(hero[2+len(board):], pool[:5-len(board)])
		heroStrength := evaluate7(hero)

		beaten := false
		tied := 1
		drawn := pool[5-len(board):]
		for o := range opponents {
			copy(opp, drawn[2*o:2*o+2])
			copy(opp[2:], hero[2:])
			switch Compare(evaluate7(opp), heroStrength) {
			case 1:
				beaten = true
			case 0:
				tied++
			}
			if beaten {
				break
			}
		}

		t.samples++
		switch {
		case beaten:
		case tied > 1:
			t.ties += 1 / float64(tied)
		default:
			t.wins++
		}
	}
	return t, nil
}

// HandStrengthScore blends made-hand category and equity into a 0-1 score
// for bots. It runs a small simulation against one random opponent.
func HandStrengthScore(ctx context.Context, hole, board []deck.Card, rng *rand.Rand) (float64, error) {
	if len(board) == 0 {
		return deck.HandPercentile(hole), nil
	}
	return EstimateEquity(ctx, hole, board, 1, 300, rng)
}
