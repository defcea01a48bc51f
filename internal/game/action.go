package game

import "fmt"

// ActionKind identifies a betting action.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	AllIn
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "all in"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// ParseActionKind parses the names produced by ActionKind.String. "allin"
// is accepted for AllIn.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "all in", "allin", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q: %w", s, ErrInvalidAction)
}

// Action is a seat's decision. For Raise, To is the seat's total
// commitment on the street after raising; it is ignored otherwise.
type Action struct {
	Kind ActionKind
	To   int
}

func FoldAction() Action  { return Action{Kind: Fold} }
func CheckAction() Action { return Action{Kind: Check} }
func CallAction() Action  { return Action{Kind: Call} }
func AllInAction() Action { return Action{Kind: AllIn} }

// RaiseTo raises the seat's street commitment to total.
func RaiseTo(total int) Action { return Action{Kind: Raise, To: total} }

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise to %d", a.To)
	}
	return a.Kind.String()
}

// ActionFromDelta converts the integer decision used by learned agents:
// -1 folds, 0 checks and a positive value commits that many more chips.
// A delta covering the whole stack is an all-in; one that exactly meets the
// table bet is a call; anything else is a raise to the resulting total.
func ActionFromDelta(delta int, view TableView) (Action, error) {
	me := view.Seats[view.Acting]
	switch {
	case delta == -1:
		return FoldAction(), nil
	case delta == 0:
		return CheckAction(), nil
	case delta < -1:
		return Action{}, fmt.Errorf("delta %d: %w", delta, ErrInvalidAction)
	case delta > me.Chips:
		return Action{}, fmt.Errorf("delta %d exceeds stack %d: %w", delta, me.Chips, ErrInvalidAction)
	case delta == me.Chips:
		return AllInAction(), nil
	case me.CurrentBet+delta == view.TableBet:
		return CallAction(), nil
	default:
		return RaiseTo(me.CurrentBet + delta), nil
	}
}
