package game

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/randutil"
)

func TestHeadsUpNoRaise(t *testing.T) {
	t.Parallel()

	seats := newSeats([]int{500, 500})
	d := stackedDeck(t, []string{"2c7d", "AsAh"}, "Kd9s4c3h8d")
	h, err := NewHand(nil, seats, 5, 10, WithDeck(d), WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := h.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, res.Pot)
	require.Len(t, res.Settlement.Pots, 1)
	assert.Equal(t, []string{"p1"}, res.Settlement.Pots[0].Winners)
	assert.Equal(t, -10, res.Net["p0"])
	assert.Equal(t, 10, res.Net["p1"])
	assert.Equal(t, 490, seats[0].Chips)
	assert.Equal(t, 510, seats[1].Chips)
	assert.Equal(t, 10, seats[1].TotalProfit)
	assert.Len(t, res.Board, 5)
}

func TestEveryoneFoldsToBigBlind(t *testing.T) {
	t.Parallel()

	seats := newSeats([]int{500, 500, 500}, script(FoldAction()), nil, script(FoldAction()))
	h, err := NewHand(randutil.New(1), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := h.Play(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Board, "no board is dealt once one seat remains")
	assert.Equal(t, 15, res.Pot)
	assert.Equal(t, map[string]int{"p0": -5, "p1": 5, "p2": 0}, res.Net)
	assert.Empty(t, res.Settlement.Strengths)
	assert.Equal(t, 1500, totalChips(seats))
}

func TestThreeWaySidePot(t *testing.T) {
	t.Parallel()

	// p2 opens to 300, p0 is all-in for 100, p1 calls.
	seats := newSeats([]int{100, 500, 500},
		script(AllInAction()),
		script(CallAction()),
		script(RaiseTo(300)),
	)
	d := stackedDeck(t, []string{"AsAd", "KsKd", "QsQd"}, "2c7h9dTc3s")
	h, err := NewHand(nil, seats, 5, 10, WithDeck(d), WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := h.Play(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Settlement.Pots, 2)
	main, side := res.Settlement.Pots[0], res.Settlement.Pots[1]
	assert.Equal(t, 300, main.Amount)
	assert.Equal(t, []string{"p0"}, main.Winners)
	assert.ElementsMatch(t, []string{"p0", "p1", "p2"}, main.Eligible)
	assert.Equal(t, 400, side.Amount)
	assert.Equal(t, []string{"p1"}, side.Winners)
	assert.ElementsMatch(t, []string{"p1", "p2"}, side.Eligible)

	assert.Equal(t, 300, seats[0].Chips)
	assert.Equal(t, 600, seats[1].Chips)
	assert.Equal(t, 200, seats[2].Chips)
	assert.Equal(t, 1100, totalChips(seats))
}

func TestPreflopOrderAndBigBlindOption(t *testing.T) {
	t.Parallel()

	sb, bb, utg := script(), script(), script()
	seats := newSeats([]int{500, 500, 500}, sb, bb, utg)
	h, err := NewHand(randutil.New(3), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, utg.seen())
	first := utg.seen()[0]
	assert.Equal(t, Preflop, first.Street)
	assert.Equal(t, 10, first.TableBet)
	assert.Equal(t, 10, first.Owed())
	assert.Equal(t, 15, first.Pot)

	// big blind is asked even though everyone only called
	require.NotEmpty(t, bb.seen())
	assert.Equal(t, Preflop, bb.seen()[0].Street)
	assert.Equal(t, 0, bb.seen()[0].Owed())

	// postflop the first seat opens
	var flop []TableView
	for _, v := range sb.seen() {
		if v.Street == Flop {
			flop = append(flop, v)
		}
	}
	require.NotEmpty(t, flop)
	assert.Len(t, flop[0].Community, 3)
	assert.Equal(t, 0, flop[0].TableBet)
}

func TestInvalidActionAbortsHand(t *testing.T) {
	t.Parallel()

	seats := newSeats([]int{500, 500}, script(CheckAction()))
	h, err := NewHand(randutil.New(5), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(context.Background())
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestInvalidDeltaAbortsHand(t *testing.T) {
	t.Parallel()

	oversized := AgentFunc(func(_ context.Context, v TableView) (Action, error) {
		return ActionFromDelta(v.Me().Chips+100, v)
	})
	seats := newSeats([]int{500, 500}, oversized, oversized)
	h, err := NewHand(randutil.New(5), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(context.Background())
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestFoldOnFlopLeavesChipsInPot(t *testing.T) {
	t.Parallel()

	// p2 calls preflop, then folds to the flop while holding the best hand.
	seats := newSeats([]int{500, 500, 500}, nil, nil, script(CallAction(), FoldAction()))
	d := stackedDeck(t, []string{"KsKd", "QsQd", "AsAd"}, "2c7h9dTc3s")
	h, err := NewHand(nil, seats, 5, 10, WithDeck(d), WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := h.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, res.Pot)
	assert.Len(t, res.Board, 5)
	assert.NotContains(t, res.Settlement.Strengths, "p2", "a folded seat is never evaluated")
	assert.Len(t, res.Settlement.Strengths, 2)
	require.Len(t, res.Settlement.Pots, 1)
	assert.Equal(t, []string{"p0"}, res.Settlement.Pots[0].Winners)
	assert.Equal(t, map[string]int{"p0": 20, "p1": -10, "p2": -10}, res.Net)
	assert.Equal(t, 1500, totalChips(seats))
}

func TestBlindsSkipSeatSittingOut(t *testing.T) {
	t.Parallel()

	utg := script()
	seats := newSeats([]int{0, 500, 500, 500}, nil, nil, nil, utg)
	h, err := NewHand(randutil.New(8), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := h.Play(context.Background())
	require.NoError(t, err)

	blinds := res.Log.Betting[0].Actions
	require.Len(t, blinds, 2)
	assert.Equal(t, "p1", blinds[0].Seat)
	assert.Equal(t, 5, blinds[0].Amount)
	assert.Equal(t, "p2", blinds[1].Seat)
	assert.Equal(t, 10, blinds[1].Amount)

	require.NotEmpty(t, utg.seen())
	first := utg.seen()[0]
	assert.Equal(t, Preflop, first.Street)
	assert.Equal(t, 10, first.Owed())
	assert.Equal(t, 15, first.Pot)

	assert.Equal(t, 0, res.Net["p0"])
	assert.NotContains(t, res.Log.Cards.Hole, "p0")
	assert.Equal(t, 1500, totalChips(seats))
}

func TestDeckPrecondition(t *testing.T) {
	t.Parallel()

	stacks := make([]int, 24)
	for i := range stacks {
		stacks[i] = 100
	}
	h, err := NewHand(randutil.New(1), newSeats(stacks), 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(context.Background())
	require.ErrorIs(t, err, ErrDeckExhausted)
}

func TestNewHandValidation(t *testing.T) {
	t.Parallel()

	rng := randutil.New(1)
	_, err := NewHand(rng, newSeats([]int{100}), 5, 10)
	assert.ErrorIs(t, err, ErrTooFewSeats)

	dup := newSeats([]int{100, 100})
	dup[1].Name = dup[0].Name
	_, err = NewHand(rng, dup, 5, 10)
	assert.ErrorIs(t, err, ErrDuplicateSeat)

	_, err = NewHand(rng, newSeats([]int{100, 100}), 10, 5)
	assert.Error(t, err)

	_, err = NewHand(nil, newSeats([]int{100, 100}), 5, 10)
	assert.Error(t, err)

	h, err := NewHand(rng, newSeats([]int{100, 0}), 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = h.Play(context.Background())
	assert.ErrorIs(t, err, ErrTooFewSeats)
}

func TestHandIsSingleUse(t *testing.T) {
	t.Parallel()

	h, err := NewHand(randutil.New(9), newSeats([]int{100, 100}), 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = h.Play(context.Background())
	require.NoError(t, err)
	_, err = h.Play(context.Background())
	assert.Error(t, err)
}

func TestSeededHandsAreReproducible(t *testing.T) {
	t.Parallel()

	play := func() *Result {
		h, err := NewHand(randutil.New(77), newSeats([]int{500, 500, 500}), 5, 10, WithLogger(quietLogger()))
		require.NoError(t, err)
		res, err := h.Play(context.Background())
		require.NoError(t, err)
		return res
	}
	a, b := play(), play()
	assert.Equal(t, a.HandID, b.HandID)
	assert.Equal(t, a.Board, b.Board)
	assert.Equal(t, a.Net, b.Net)
}

func TestChipConservationWithRandomPlay(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 300; seed++ {
		rng := randutil.New(seed)
		n := 2 + rng.IntN(5)
		stacks := make([]int, n)
		agents := make([]Agent, n)
		for i := range stacks {
			stacks[i] = 1 + rng.IntN(600)
			agents[i] = randomAgent{rng: randutil.New(seed*31 + int64(i))}
		}
		seats := newSeats(stacks, agents...)
		before := totalChips(seats)

		h, err := NewHand(rng, seats, 5, 10, WithLogger(quietLogger()))
		require.NoError(t, err)
		res, err := h.Play(context.Background())
		if err != nil {
			// only tables with fewer than two funded seats may refuse to play
			require.ErrorIs(t, err, ErrTooFewSeats, "seed %d", seed)
			continue
		}

		require.Equal(t, before, totalChips(seats), "seed %d", seed)
		require.Equal(t, res.Pot, res.Settlement.Total(), "seed %d", seed)
		sumNet := 0
		for _, s := range seats {
			require.GreaterOrEqual(t, s.Chips, 0)
			sumNet += res.Net[s.Name]
			if !s.InGame {
				require.LessOrEqual(t, res.Net[s.Name], 0, "folded seat %s won chips (seed %d)", s.Name, seed)
			}
		}
		require.Zero(t, sumNet, "seed %d", seed)
	}
}

func TestFileLogWriter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seats := newSeats([]int{500, 500})
	d := stackedDeck(t, []string{"2c7d", "AsAh"}, "Kd9s4c3h8d")
	h, err := NewHand(nil, seats, 5, 10,
		WithDeck(d),
		WithLabel("table-0-hand-1"),
		WithHandID("hand-1"),
		WithLogger(quietLogger()),
		WithLogWriter(NewFileLogWriter(dir)))
	require.NoError(t, err)
	_, err = h.Play(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "table-0-hand-1.json"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)

	var betting struct {
		HandID  string   `json:"hand_id"`
		Betting []LapLog `json:"betting"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &betting))
	assert.Equal(t, "hand-1", betting.HandID)
	require.NotEmpty(t, betting.Betting)
	assert.Equal(t, "small blind", betting.Betting[0].Actions[0].Action)
	assert.Equal(t, "big blind", betting.Betting[0].Actions[1].Action)

	var cards struct {
		Cards CardLog `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &cards))
	assert.Equal(t, "AsAh", cards.Cards.Hole["p1"])
	assert.Equal(t, "Kd9s4c", cards.Cards.Flop)
	assert.Equal(t, "8d", cards.Cards.River)
	assert.Contains(t, cards.Cards.Strength["p1"], "One Pair")

	var pots struct {
		Pots []SidePot `json:"pots"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &pots))
	require.Len(t, pots.Pots, 1)
	assert.Equal(t, 20, pots.Pots[0].Amount)

	assert.Contains(t, lines[3], `"summary":"500->510, total_profit: 10"`)
}

type feedbackAgent struct {
	Agent
	got []Feedback
}

func (f *feedbackAgent) Feedback(_ context.Context, fb Feedback) error {
	f.got = append(f.got, fb)
	return nil
}

func TestFeedbackDelivered(t *testing.T) {
	t.Parallel()

	learner := &feedbackAgent{Agent: passiveAgent}
	seats := newSeats([]int{500, 500}, learner)
	d := stackedDeck(t, []string{"2c7d", "AsAh"}, "Kd9s4c3h8d")
	h, err := NewHand(nil, seats, 5, 10, WithDeck(d), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = h.Play(context.Background())
	require.NoError(t, err)

	require.Len(t, learner.got, 1)
	fb := learner.got[0]
	assert.Equal(t, []string{"p1"}, fb.Winners)
	assert.ElementsMatch(t, []string{"p0", "p1"}, fb.Players)
	assert.Equal(t, -10, fb.Net)
	assert.Len(t, fb.Board, 5)
}

type failingLogWriter struct{ err error }

func (w failingLogWriter) WriteHandLog(*HandLog) error { return w.err }

func TestMultiLogWriter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	boom := assert.AnError
	w := MultiLogWriter{failingLogWriter{boom}, NewFileLogWriter(dir)}

	err := w.WriteHandLog(&HandLog{HandID: "x", Label: "multi"})
	assert.ErrorIs(t, err, boom)
	assert.FileExists(t, filepath.Join(dir, "multi.json"), "later writers still run")
	assert.NoError(t, MultiLogWriter{NopLogWriter{}}.WriteHandLog(&HandLog{}))
}
