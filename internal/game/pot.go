package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/evaluator"
)

// SidePot is one layer of the pot, contested by the seats that matched its
// contribution level.
type SidePot struct {
	Amount       int      `json:"pot"`
	Contributors []string `json:"contributors"`
	Eligible     []string `json:"players"`
	Winners      []string `json:"winners"`
}

// Settlement is the outcome of distributing the pot.
type Settlement struct {
	Pots      []SidePot
	Payouts   map[string]int // chips credited to each seat
	Strengths map[string]evaluator.HandStrength
}

// Settle distributes every chip committed this hand among the seats still
// in the hand and credits their stacks.
//
// In-game seats are ordered by total commitment. Each distinct commitment
// level forms a sub-pot holding what every seat (folded or not) committed
// between the previous level and this one; it is contested by the seats
// that reached the level. Ties split evenly and any odd chip goes to the
// last winner in that order. A sub-pot with a single eligible seat is
// awarded without evaluation, so the board may be incomplete when everyone
// else folded.
func Settle(seats []*Seat, board []deck.Card) (*Settlement, error) {
	var contenders []*Seat
	for _, s := range seats {
		if s.InGame {
			contenders = append(contenders, s)
		}
	}
	if len(contenders) == 0 {
		return nil, ErrNoEligibleWinner
	}
	sort.SliceStable(contenders, func(i, j int) bool {
		return contenders[i].TotalBet < contenders[j].TotalBet
	})

	st := &Settlement{
		Payouts:   make(map[string]int, len(contenders)),
		Strengths: make(map[string]evaluator.HandStrength, len(contenders)),
	}
	if len(contenders) > 1 {
		for _, s := range contenders {
			h, err := evaluator.Evaluate(append(slices.Clone(s.Hole), board...))
			if err != nil {
				return nil, fmt.Errorf("evaluate %s: %w", s.Name, err)
			}
			st.Strengths[s.Name] = h
		}
	}

	type layer struct {
		pot      SidePot
		eligible []*Seat
	}
	var layers []layer
	prev := 0
	for _, c := range contenders {
		level := c.TotalBet
		if level <= prev {
			continue
		}
		l := layer{}
		for _, s := range seats {
			if s.TotalBet > prev {
				l.pot.Amount += min(s.TotalBet, level) - prev
				l.pot.Contributors = append(l.pot.Contributors, s.Name)
			}
		}
		for _, s := range contenders {
			if s.TotalBet >= level {
				l.eligible = append(l.eligible, s)
				l.pot.Eligible = append(l.pot.Eligible, s.Name)
			}
		}
		prev = level
		if l.pot.Amount > 0 {
			layers = append(layers, l)
		}
	}

	// chips a folded seat committed above the top contender level join the
	// last pot
	for _, s := range seats {
		if s.TotalBet <= prev {
			continue
		}
		if len(layers) == 0 {
			layers = append(layers, layer{eligible: contenders})
			for _, c := range contenders {
				layers[0].pot.Eligible = append(layers[0].pot.Eligible, c.Name)
			}
		}
		last := &layers[len(layers)-1]
		last.pot.Amount += s.TotalBet - prev
		if !slices.Contains(last.pot.Contributors, s.Name) {
			last.pot.Contributors = append(last.pot.Contributors, s.Name)
		}
	}

	for _, l := range layers {
		pot := l.pot
		winners := bestSeats(l.eligible, st.Strengths)
		share := pot.Amount / len(winners)
		for _, w := range winners {
			pot.Winners = append(pot.Winners, w.Name)
			st.Payouts[w.Name] += share
		}
		st.Payouts[winners[len(winners)-1].Name] += pot.Amount - share*len(winners)
		st.Pots = append(st.Pots, pot)
	}

	for _, s := range contenders {
		s.Chips += st.Payouts[s.Name]
	}
	return st, nil
}

// bestSeats returns the seats tied for the strongest hand, in order.
func bestSeats(eligible []*Seat, strengths map[string]evaluator.HandStrength) []*Seat {
	if len(eligible) == 1 {
		return eligible
	}
	var best []*Seat
	var bestStrength evaluator.HandStrength
	for _, s := range eligible {
		h := strengths[s.Name]
		switch {
		case len(best) == 0:
			best, bestStrength = []*Seat{s}, h
		default:
			switch evaluator.Compare(h, bestStrength) {
			case 1:
				best, bestStrength = []*Seat{s}, h
			case 0:
				best = append(best, s)
			}
		}
	}
	return best
}

// Total returns the sum of all sub-pots.
func (st *Settlement) Total() int {
	total := 0
	for _, p := range st.Pots {
		total += p.Amount
	}
	return total
}
