package deck

import "sync"

// startingHandOrder lists all 169 starting hands from strongest to weakest
// preflop.
var startingHandOrder = []string{
	"AA", "KK", "QQ", "AKs", "JJ", "AQs", "KQs", "AJs", "KJs", "TT", "AKo", "ATs",
	"QJs", "KTs", "QTs", "JTs", "99", "AQo", "A9s", "KQo", "88", "K9s", "T9s", "A8s",
	"Q9s", "J9s", "AJo", "A5s", "77", "A7s", "KJo", "A4s", "A3s", "A6s", "QJo", "66",
	"K8s", "T8s", "A2s", "98s", "J8s", "ATo", "Q8s", "K7s", "KTo", "55", "JTo", "87s",
	"QTo", "44", "22", "33", "K6s", "97s", "K5s", "76s", "T7s", "K4s", "K2s", "K3s",
	"Q7s", "86s", "65s", "J7s", "54s", "Q6s", "75s", "96s", "Q5s", "64s", "Q4s", "Q3s",
	"T9o", "T6s", "Q2s", "A9o", "53s", "85s", "J6s", "J9o", "K9o", "J5s", "Q9o", "43s",
	"74s", "J4s", "J3s", "95s", "J2s", "63s", "A8o", "52s", "T5s", "84s", "T4s", "T3s",
	"42s", "T2s", "98o", "T8o", "A5o", "A7o", "73s", "A4o", "32s", "94s", "93s", "J8o",
	"A3o", "62s", "92s", "K8o", "A6o", "87o", "Q8o", "83s", "A2o", "82s", "97o", "72s",
	"76o", "K7o", "65o", "T7o", "K6o", "86o", "54o", "K5o", "J7o", "75o", "Q7o", "K4o",
	"K3o", "96o", "K2o", "64o", "Q6o", "53o", "85o", "T6o", "Q5o", "43o", "Q4o", "Q3o",
	"74o", "Q2o", "J6o", "63o", "J5o", "95o", "52o", "J4o", "J3o", "42o", "J2o", "84o",
	"T5o", "T4o", "32o", "T3o", "73o", "T2o", "62o", "94o", "93o", "92o", "83o", "82o",
	"72o",
}

var startingHands = sync.OnceValue(func() map[string]float64 {
	last := float64(len(startingHandOrder) - 1)
	m := make(map[string]float64, len(startingHandOrder))
	for i, key := range startingHandOrder {
		m[key] = 1 - float64(i)/last
	}
	return m
})

// HandPercentile returns the preflop percentile of two hole cards, from 1.0
// for AA down to 0.0 for 72o. Anything other than exactly two cards ranks
// as the worst hand.
func HandPercentile(hole []Card) float64 {
	return startingHands()[StartingHandKey(hole)]
}

// StartingHandKey returns the canonical starting hand name, e.g. "AKs",
// "72o" or "TT".
func StartingHandKey(hole []Card) string {
	if len(hole) != 2 {
		return "72o"
	}
	hi, lo := hole[0], hole[1]
	if lo.Rank > hi.Rank {
		hi, lo = lo, hi
	}
	key := hi.Rank.String() + lo.Rank.String()
	switch {
	case hi.Rank == lo.Rank:
		return key
	case hi.Suit == lo.Suit:
		return key + "s"
	default:
		return key + "o"
	}
}
