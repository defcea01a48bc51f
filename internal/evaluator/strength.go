package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/holdem/internal/deck"
)

// Category is the class of a five-card hand. Higher is stronger.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandStrength is the comparable value of a hand: its category, then a
// tiebreak list of ranks compared left to right.
type HandStrength struct {
	Category Category
	Tiebreak []deck.Rank
	// Cards holds the five cards that make the hand. It never takes part
	// in comparison.
	Cards []deck.Card
}

// Compare returns -1, 0 or 1 when a is weaker than, equal to or stronger
// than b. Category strictly dominates the tiebreak.
func Compare(a, b HandStrength) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] < b.Tiebreak[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.Tiebreak) < len(b.Tiebreak):
		return -1
	case len(a.Tiebreak) > len(b.Tiebreak):
		return 1
	}
	return 0
}

// Compare is a method form of Compare.
func (h HandStrength) Compare(other HandStrength) int {
	return Compare(h, other)
}

// String summarises the hand, e.g. "Full House [K♠ K♥ K♦ 9♣ 9♠]".
func (h HandStrength) String() string {
	if len(h.Cards) == 0 {
		ranks := make([]string, len(h.Tiebreak))
		for i, r := range h.Tiebreak {
			ranks[i] = r.String()
		}
		return fmt.Sprintf("%s (%s)", h.Category, strings.Join(ranks, " "))
	}
	return fmt.Sprintf("%s [%s]", h.Category, deck.FormatCards(h.Cards))
}
