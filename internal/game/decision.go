package game

import (
	"context"
	"errors"
	"time"
)

type decisionResult struct {
	action Action
	err    error
}

// decision is the outcome of a request. Fallback names why the default
// action was applied instead of the agent's answer, if it was.
type decision struct {
	Action   Action
	Fallback string
}

// defaultAction is applied when an agent fails to answer in time.
func defaultAction(view TableView) Action {
	if view.Owed() == 0 {
		return CheckAction()
	}
	return FoldAction()
}

// requestDecision asks the seat's agent for an action, bounded by the hand's
// decision timeout. Agent errors and timeouts fall back to defaultAction.
// Cancellation of ctx and errors wrapping ErrAbortHand or ErrInvalidAction
// (an answer that cannot be turned into a legal action) are returned.
func (h *Hand) requestDecision(ctx context.Context, seat *Seat, view TableView) (decision, error) {
	logger := h.logger.With("seat", seat.Name, "street", view.Street)

	decideCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan decisionResult, 1)
	go func() {
		a, err := seat.Agent.Decide(decideCtx, view)
		results <- decisionResult{action: a, err: err}
	}()

	var timeout <-chan struct{}
	if h.decisionTimeout > 0 {
		fired := make(chan struct{})
		timer := h.clock.AfterFunc(h.decisionTimeout, func() {
			close(fired)
		})
		defer timer.Stop()
		timeout = fired
	}

	select {
	case r := <-results:
		if r.err != nil {
			if ctx.Err() != nil {
				return decision{}, ctx.Err()
			}
			if errors.Is(r.err, ErrAbortHand) || errors.Is(r.err, ErrInvalidAction) {
				return decision{}, r.err
			}
			fallback := defaultAction(view)
			logger.Warn("Agent failed, applying default action", "error", r.err, "action", fallback)
			return decision{Action: fallback, Fallback: "agent error"}, nil
		}
		return decision{Action: r.action}, nil
	case <-timeout:
		fallback := defaultAction(view)
		logger.Warn("Decision timed out", "timeout", h.decisionTimeout.Round(time.Millisecond), "action", fallback)
		return decision{Action: fallback, Fallback: "timeout"}, nil
	case <-ctx.Done():
		return decision{}, ctx.Err()
	}
}
