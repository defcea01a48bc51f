package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/statistics"
)

// Cards formats cards with suit colours, e.g. "[A♠ K♥]".
func (s *Styles) Cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}
	formatted := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
			formatted[i] = s.RedCard.Render(c.String())
		} else {
			formatted[i] = s.BlackCard.Render(c.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// View renders the acting seat's perspective of the table.
func (s *Styles) View(v game.TableView) string {
	var b strings.Builder
	me := v.Me()
	fmt.Fprintf(&b, "%s  %s\n", s.Header.Render(strings.ToUpper(v.Street.String())), s.Info.Render(v.HandID))
	fmt.Fprintf(&b, "Board: %s  Pot: %d\n", s.Cards(v.Community), v.Pot)
	fmt.Fprintf(&b, "%s\n", s.HandInfo.Render(fmt.Sprintf("Your hand: %s", s.Cards(v.Hole))))

	for i, seat := range v.Seats {
		status := ""
		switch {
		case !seat.InGame:
			status = " (folded)"
		case seat.Chips == 0:
			status = " (all-in)"
		}
		marker := ""
		if i == v.Acting {
			marker = " <-- you"
		}
		fmt.Fprintf(&b, "  %-10s chips %5d  bet %4d%s%s\n", seat.Name, seat.Chips, seat.CurrentBet, status, marker)
	}

	fmt.Fprintf(&b, "%s", s.Actions.Render(s.actionsLine(v, me)))
	return s.Panel.Render(b.String())
}

func (s *Styles) actionsLine(v game.TableView, me game.SeatView) string {
	owed := v.Owed()
	actions := []string{"[fold]"}
	if owed == 0 {
		actions = append(actions, "[check]")
	} else {
		actions = append(actions, fmt.Sprintf("[call %d]", min(owed, me.Chips)))
	}
	if v.CanRaise && v.MinRaiseTo() < v.MaxRaiseTo() {
		actions = append(actions, fmt.Sprintf("[raise %d-%d]", v.MinRaiseTo(), v.MaxRaiseTo()-1))
	}
	if me.Chips > 0 && (v.CanRaise || me.Chips <= owed) {
		actions = append(actions, fmt.Sprintf("[allin %d]", me.Chips))
	}
	return "Actions: " + strings.Join(actions, " ")
}

// Result renders a settled hand: board, pots and each seat's net change.
func (s *Styles) Result(r *game.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  board %s\n", s.Header.Render("Hand "+r.Label), s.Cards(r.Board))
	for i, p := range r.Settlement.Pots {
		fmt.Fprintf(&b, "  pot %d: %d to %s\n", i+1, p.Amount, strings.Join(p.Winners, ", "))
	}

	names := make([]string, 0, len(r.Net))
	for name := range r.Net {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		net := r.Net[name]
		line := fmt.Sprintf("  %-10s %+d", name, net)
		if st, ok := r.Settlement.Strengths[name]; ok {
			line += "  " + st.String()
		}
		switch {
		case net > 0:
			line = s.Success.Render(line)
		case net < 0:
			line = s.Error.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Standings renders cumulative profit per seat, highest first, followed by
// win rate in big blinds when stats are given.
func (s *Styles) Standings(title string, profit map[string]int, stats map[string]*statistics.Statistics) string {
	names := make([]string, 0, len(profit))
	for name := range profit {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if profit[names[i]] != profit[names[j]] {
			return profit[names[i]] > profit[names[j]]
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.WriteString(s.Header.Render(title) + "\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-10s %+6d", name, profit[name])
		if st := stats[name]; st != nil && st.Hands > 0 {
			lo, hi := st.ConfidenceInterval95()
			fmt.Fprintf(&b, "  %+.2f bb/hand [%+.2f, %+.2f]  won %d at showdown, %d without",
				st.Mean(), lo, hi, st.ShowdownWins, st.NonShowdownWins)
		}
		b.WriteString("\n")
	}
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
