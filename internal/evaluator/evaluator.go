// Package evaluator ranks seven-card Texas Hold'em hands and estimates
// equity by Monte Carlo simulation.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/holdem/internal/deck"
)

var (
	// ErrCardCount is returned when Evaluate is not given exactly 7 cards.
	ErrCardCount = errors.New("evaluate needs exactly 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrInvalidCard is returned for a rank or suit outside the standard deck.
	ErrInvalidCard = errors.New("invalid card")
)

// combos7 lists the 21 ways to choose 5 of 7 indices.
var combos7 = func() [][5]int {
	var out [][5]int
	for a := 0; a < 7; a++ {
		for b := a + 1; b < 7; b++ {
			// skip indices a and b
			var c [5]int
			n := 0
			for i := 0; i < 7; i++ {
				if i != a && i != b {
					c[n] = i
					n++
				}
			}
			out = append(out, c)
		}
	}
	return out
}()

// Evaluate returns the best HandStrength over every five-card subset of
// exactly seven cards (two hole cards plus five community cards).
func Evaluate(cards []deck.Card) (HandStrength, error) {
	if len(cards) != 7 {
		return HandStrength{}, fmt.Errorf("got %d cards: %w", len(cards), ErrCardCount)
	}
	var seen [52]bool
	for _, c := range cards {
		if !c.Valid() {
			return HandStrength{}, fmt.Errorf("%v: %w", c, ErrInvalidCard)
		}
		if seen[c.Index()] {
			return HandStrength{}, fmt.Errorf("%s: %w", c, ErrDuplicateCard)
		}
		seen[c.Index()] = true
	}
	return evaluate7(cards), nil
}

// MustEvaluate is Evaluate for callers that already validated the cards.
func MustEvaluate(cards []deck.Card) HandStrength {
	h, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return h
}

func evaluate7(cards []deck.Card) HandStrength {
	var best HandStrength
	for i, idx := range combos7 {
		five := [5]deck.Card{cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]]}
		h := EvaluateFive(five)
		if i == 0 || Compare(h, best) > 0 {
			best = h
		}
	}
	return best
}

// EvaluateFive classifies exactly five cards. Categories are tried from
// strongest to weakest; the first match wins.
func EvaluateFive(five [5]deck.Card) HandStrength {
	cards := five[:]
	sorted := make([]deck.Card, 5)
	copy(sorted, cards)
	// Suit is only a stable secondary key so output is deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		return sorted[i].Suit < sorted[j].Suit
	})

	groups := groupRanks(sorted)
	flush := isFlush(sorted)
	top, straight := straightTop(sorted)

	switch {
	case straight && flush:
		return HandStrength{Category: StraightFlush, Tiebreak: []deck.Rank{top}, Cards: orderStraight(sorted, top)}
	case groups[0].count == 4:
		return HandStrength{Category: FourOfAKind, Tiebreak: groupTiebreak(groups), Cards: orderGroups(sorted, groups)}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandStrength{Category: FullHouse, Tiebreak: groupTiebreak(groups), Cards: orderGroups(sorted, groups)}
	case flush:
		return HandStrength{Category: Flush, Tiebreak: ranksOf(sorted), Cards: sorted}
	case straight:
		return HandStrength{Category: Straight, Tiebreak: []deck.Rank{top}, Cards: orderStraight(sorted, top)}
	case groups[0].count == 3:
		return HandStrength{Category: ThreeOfAKind, Tiebreak: groupTiebreak(groups), Cards: orderGroups(sorted, groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandStrength{Category: TwoPair, Tiebreak: groupTiebreak(groups), Cards: orderGroups(sorted, groups)}
	case groups[0].count == 2:
		return HandStrength{Category: OnePair, Tiebreak: groupTiebreak(groups), Cards: orderGroups(sorted, groups)}
	default:
		return HandStrength{Category: HighCard, Tiebreak: ranksOf(sorted), Cards: sorted}
	}
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// groupRanks buckets rank-sorted cards, ordered by count then rank, both
// descending.
func groupRanks(sorted []deck.Card) []rankGroup {
	var groups []rankGroup
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func groupTiebreak(groups []rankGroup) []deck.Rank {
	out := make([]deck.Rank, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}

func orderGroups(sorted []deck.Card, groups []rankGroup) []deck.Card {
	out := make([]deck.Card, 0, 5)
	for _, g := range groups {
		for _, c := range sorted {
			if c.Rank == g.rank {
				out = append(out, c)
			}
		}
	}
	return out
}

func ranksOf(sorted []deck.Card) []deck.Rank {
	out := make([]deck.Rank, len(sorted))
	for i, c := range sorted {
		out[i] = c.Rank
	}
	return out
}

func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightTop reports the top rank of a straight in rank-sorted cards. The
// wheel (A-2-3-4-5) is a five-high straight.
func straightTop(sorted []deck.Card) (deck.Rank, bool) {
	for i := 1; i < 5; i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return 0, false
		}
	}
	if sorted[0].Rank-sorted[4].Rank == 4 {
		return sorted[0].Rank, true
	}
	if sorted[0].Rank == deck.Ace && sorted[1].Rank == deck.Five && sorted[4].Rank == deck.Two {
		return deck.Five, true
	}
	return 0, false
}

func orderStraight(sorted []deck.Card, top deck.Rank) []deck.Card {
	if top != deck.Five || sorted[0].Rank != deck.Ace {
		return sorted
	}
	// wheel: ace plays low
	return append(append([]deck.Card{}, sorted[1:]...), sorted[0])
}
