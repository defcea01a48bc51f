package game

import "github.com/lox/holdem/internal/deck"

// Seat is one participant in a hand. Chips and TotalProfit persist across
// hands; the remaining fields are reset when a hand starts.
type Seat struct {
	Name        string
	Chips       int
	Hole        []deck.Card
	InGame      bool // false once folded
	CurrentBet  int  // committed on the current street
	TotalBet    int  // committed this hand
	TotalProfit int
	Agent       Agent
}

// NewSeat creates a seat with a starting stack.
func NewSeat(name string, chips int, agent Agent) *Seat {
	return &Seat{Name: name, Chips: chips, Agent: agent}
}

func (s *Seat) resetForHand() {
	s.Hole = nil
	s.CurrentBet = 0
	s.TotalBet = 0
	s.InGame = s.Chips > 0
}

// commit moves chips from the stack into the pot.
func (s *Seat) commit(amount int) {
	s.Chips -= amount
	s.CurrentBet += amount
	s.TotalBet += amount
}

// SeatView is the public, read-only state of a seat.
type SeatView struct {
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	CurrentBet int    `json:"current_bet"`
	TotalBet   int    `json:"total_bet"`
	InGame     bool   `json:"in_game"`
}

func (s *Seat) view() SeatView {
	return SeatView{
		Name:       s.Name,
		Chips:      s.Chips,
		CurrentBet: s.CurrentBet,
		TotalBet:   s.TotalBet,
		InGame:     s.InGame,
	}
}
