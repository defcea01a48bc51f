package game

import (
	"context"

	"github.com/lox/holdem/internal/deck"
)

// TableView is the immutable snapshot an agent decides from. Only the
// acting seat's hole cards are included.
type TableView struct {
	HandID    string
	Street    Street
	Community []deck.Card
	Pot       int
	TableBet  int
	MinRaise  int
	BigBlind  int
	Seats     []SeatView
	Acting    int
	Hole      []deck.Card
	// CanRaise is false when the acting seat already acted and the bet was
	// since raised only by a short all-in; it may then only call or fold.
	CanRaise bool
}

// Me returns the acting seat.
func (v TableView) Me() SeatView {
	return v.Seats[v.Acting]
}

// Owed is the amount the acting seat must add to match the table bet.
func (v TableView) Owed() int {
	return max(v.TableBet-v.Seats[v.Acting].CurrentBet, 0)
}

// MinRaiseTo is the smallest legal raise total, ignoring stack size.
func (v TableView) MinRaiseTo() int {
	return v.TableBet + v.MinRaise
}

// MaxRaiseTo is the street total reached by going all-in.
func (v TableView) MaxRaiseTo() int {
	me := v.Me()
	return me.CurrentBet + me.Chips
}

// Agent supplies decisions for a seat. Decide should honour ctx
// cancellation; a request that outlives the decision timeout is abandoned.
type Agent interface {
	Decide(ctx context.Context, view TableView) (Action, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, view TableView) (Action, error)

func (f AgentFunc) Decide(ctx context.Context, view TableView) (Action, error) {
	return f(ctx, view)
}

// Feedback is delivered to learning agents once the hand settles. Players
// and Winners describe the first sub-pot.
type Feedback struct {
	HandID  string
	Players []string
	Winners []string
	Seats   []SeatView
	Board   []deck.Card
	Net     int // the receiving seat's chip change this hand
}

// FeedbackReceiver is implemented by agents that learn from results.
type FeedbackReceiver interface {
	Feedback(ctx context.Context, fb Feedback) error
}
