// Package statistics accumulates per-seat results over a run of hands,
// measured in big blinds.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdem/internal/game"
)

// BigPotBB is the pot size, in big blinds, from which a hand counts as a
// big pot.
const BigPotBB = 50

// HandResult is one seat's outcome of a single hand.
type HandResult struct {
	NetBB    float64 // chips won or lost, in big blinds
	Showdown bool    // hand strengths were compared
	PotBB    float64 // final pot, in big blinds
}

// Statistics tracks one seat's results.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares, for variance
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // wins and losses at showdown
	NonShowdownBB   float64 // wins and losses without one
	AllBB           float64

	MaxPotBB  float64
	BigPots   int
	BigPotsBB float64
}

// Mean returns big blinds won per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add records one hand.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	s.Values = append(s.Values, r.NetBB)
	s.AllBB += r.NetBB

	if r.Showdown {
		s.ShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.NonShowdownWins++
		}
	}

	if r.PotBB > s.MaxPotBB {
		s.MaxPotBB = r.PotBB
	}
	if r.PotBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += r.NetBB
	}
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated result at p, between 0 and 1.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced reports whether the showdown split accounts for every
// recorded big blind.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the accumulated figures are consistent.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("recorded %d values for %d hands", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins (%d) exceed hands (%d)", wins, s.Hands)
	}
	return nil
}

// Table collects statistics for every seat at a table.
type Table struct {
	bigBlind float64
	seats    map[string]*Statistics
}

// NewTable tracks the named seats. bigBlind must be positive.
func NewTable(bigBlind int, seats ...string) *Table {
	t := &Table{bigBlind: float64(bigBlind), seats: make(map[string]*Statistics, len(seats))}
	for _, name := range seats {
		t.seats[name] = &Statistics{}
	}
	return t
}

// Record adds a completed hand for every tracked seat. Seats missing from
// the result's net map (sitting out) are not counted for that hand.
func (t *Table) Record(res *game.Result) {
	showdown := res.Settlement != nil && len(res.Settlement.Strengths) > 0
	for name, st := range t.seats {
		net, ok := res.Net[name]
		if !ok {
			continue
		}
		st.Add(HandResult{
			NetBB:    float64(net) / t.bigBlind,
			Showdown: showdown,
			PotBB:    float64(res.Pot) / t.bigBlind,
		})
	}
}

// Seat returns a seat's statistics, or nil for an unknown seat.
func (t *Table) Seat(name string) *Statistics {
	return t.seats[name]
}

// Seats returns every seat's statistics keyed by name.
func (t *Table) Seats() map[string]*Statistics {
	return t.seats
}
