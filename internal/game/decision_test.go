package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/randutil"
)

// blockingAgent never answers until its context ends.
var blockingAgent = AgentFunc(func(ctx context.Context, _ TableView) (Action, error) {
	<-ctx.Done()
	return Action{}, ctx.Err()
})

func TestDecisionTimeoutAppliesDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		owed bool
		want Action
	}{
		{name: "nothing owed checks", owed: false, want: CheckAction()},
		{name: "facing a bet folds", owed: true, want: FoldAction()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mockClock := quartz.NewMock(t)
			seats := newSeats([]int{500, 500}, blockingAgent)
			h, err := NewHand(randutil.New(1), seats, 5, 10,
				WithClock(mockClock),
				WithDecisionTimeout(5*time.Second),
				WithLogger(quietLogger()))
			require.NoError(t, err)
			for _, s := range seats {
				s.resetForHand()
			}
			h.betting = NewBettingRound(Flop, 2, 10)
			if tt.owed {
				_, err := h.applyAction(1, RaiseTo(20))
				require.NoError(t, err)
			}

			done := make(chan decision, 1)
			go func() {
				d, err := h.requestDecision(context.Background(), seats[0], h.view(0))
				assert.NoError(t, err)
				done <- d
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case d := <-done:
					assert.Equal(t, tt.want, d.Action)
					assert.Equal(t, "timeout", d.Fallback)
					return
				default:
				}
				mockClock.Advance(1 * time.Second).MustWait(ctx)
				time.Sleep(time.Millisecond)
			}
		})
	}
}

func TestDecisionAgentErrorFallsBack(t *testing.T) {
	t.Parallel()

	failing := AgentFunc(func(context.Context, TableView) (Action, error) {
		return Action{}, errors.New("connection reset")
	})
	seats := newSeats([]int{500, 500}, failing)
	h, err := NewHand(randutil.New(1), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)
	for _, s := range seats {
		s.resetForHand()
	}
	h.betting = NewBettingRound(Flop, 2, 10)

	d, err := h.requestDecision(context.Background(), seats[0], h.view(0))
	require.NoError(t, err)
	assert.Equal(t, CheckAction(), d.Action)
	assert.Equal(t, "agent error", d.Fallback)
}

func TestDecisionCancelledContextAbortsHand(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seats := newSeats([]int{500, 500}, blockingAgent, blockingAgent)
	h, err := NewHand(randutil.New(1), seats, 5, 10,
		WithDecisionTimeout(0),
		WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecisionAbortErrorStopsHand(t *testing.T) {
	t.Parallel()

	quitting := AgentFunc(func(context.Context, TableView) (Action, error) {
		return Action{}, fmt.Errorf("player left: %w", ErrAbortHand)
	})
	seats := newSeats([]int{500, 500}, quitting, quitting)
	h, err := NewHand(randutil.New(1), seats, 5, 10, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = h.Play(context.Background())
	require.ErrorIs(t, err, ErrAbortHand)
}
