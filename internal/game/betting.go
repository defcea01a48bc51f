package game

import (
	"context"
	"fmt"
	"slices"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return fmt.Sprintf("street(%d)", int(s))
	}
}

// ParseStreet parses the names produced by Street.String.
func ParseStreet(name string) (Street, error) {
	for s := Preflop; s <= River; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown street %q", name)
}

// BettingRound is the state of one street of betting.
type BettingRound struct {
	Street        Street
	TableBet      int // highest street commitment any seat must match
	MinRaise      int // smallest legal raise increment
	LastAggressor int // seat of the last full raise, -1 if none
	Lap           int
	// acted records which seats have acted since the last full raise.
	acted []bool
}

// NewBettingRound creates the state for a street. Preflop opens with the
// big blind as the table bet.
func NewBettingRound(street Street, numSeats, bigBlind int) *BettingRound {
	br := &BettingRound{
		Street:        street,
		MinRaise:      bigBlind,
		LastAggressor: -1,
		acted:         make([]bool, numSeats),
	}
	if street == Preflop {
		br.TableBet = bigBlind
	}
	return br
}

// FirstToAct is the seat that opens a street: preflop the seat after the big
// blind (seat 2 when seats 0 and 1 post, wrapping to the small blind
// heads-up), otherwise seat 0.
func FirstToAct(street Street, numSeats, bigBlindSeat int) int {
	if street == Preflop {
		return (bigBlindSeat + 1) % numSeats
	}
	return 0
}

// needsAction reports whether seat i must still be asked on this street.
func (br *BettingRound) needsAction(s *Seat, i int) bool {
	if !s.InGame || s.Chips == 0 {
		return false
	}
	return !br.acted[i] || s.CurrentBet < br.TableBet
}

// canRaise reports whether raising is open to seat i. A seat that acted and
// then faced only a short all-in may call or fold but not re-raise.
func (br *BettingRound) canRaise(i int) bool {
	return !br.acted[i]
}

// runStreet queries seats in order, lap after lap, until every eligible seat
// has acted since the last full raise and matched the table bet, or only
// one seat remains in the hand.
func (h *Hand) runStreet(ctx context.Context, street Street) error {
	n := len(h.seats)
	br := NewBettingRound(street, n, h.bigBlind)
	h.betting = br

	if h.countWithChips() < 2 && !h.anyOwes(br) {
		h.logger.Debug("Skipping betting, fewer than two seats can act", "street", street)
		return nil
	}

	start := FirstToAct(street, n, h.bigBlindSeat)
	for br.Lap = 1; ; br.Lap++ {
		var entries []ActionRecord
		for k := range n {
			if h.countInGame() <= 1 {
				break
			}
			i := (start + k) % n
			seat := h.seats[i]
			if !br.needsAction(seat, i) {
				continue
			}

			d, err := h.requestDecision(ctx, seat, h.view(i))
			if err != nil {
				return fmt.Errorf("%s decision for %s: %w", street, seat.Name, err)
			}
			rec, err := h.applyAction(i, d.Action)
			if err != nil {
				return fmt.Errorf("%s %s by %s: %w", street, d.Action, seat.Name, err)
			}
			rec.Note = d.Fallback
			entries = append(entries, rec)

			h.logger.Debug("Action",
				"street", street,
				"lap", br.Lap,
				"seat", seat.Name,
				"action", rec.Action,
				"amount", rec.Amount,
				"tableBet", br.TableBet,
				"pot", h.pot)
		}
		if len(entries) == 0 {
			return nil
		}
		h.log.Betting = append(h.log.Betting, LapLog{Street: street.String(), Lap: br.Lap, Actions: entries})
		if h.countInGame() <= 1 {
			return nil
		}
	}
}

// applyAction validates and applies an action for seat i.
func (h *Hand) applyAction(i int, a Action) (ActionRecord, error) {
	br := h.betting
	s := h.seats[i]
	owed := br.TableBet - s.CurrentBet
	label := a.Kind
	amount := 0

	switch a.Kind {
	case Fold:
		s.InGame = false
	case Check:
		if owed > 0 {
			return ActionRecord{}, fmt.Errorf("cannot check facing %d: %w", owed, ErrInvalidAction)
		}
	case Call:
		if owed <= 0 {
			label = Check
			break
		}
		amount = min(owed, s.Chips)
	case Raise:
		if a.To <= br.TableBet {
			return ActionRecord{}, fmt.Errorf("raise to %d does not exceed table bet %d: %w", a.To, br.TableBet, ErrInvalidAction)
		}
		amount = a.To - s.CurrentBet
		if amount > s.Chips {
			return ActionRecord{}, fmt.Errorf("raise needs %d but stack is %d: %w", amount, s.Chips, ErrInvalidAction)
		}
		if !br.canRaise(i) {
			return ActionRecord{}, fmt.Errorf("raising is closed to this seat: %w", ErrInvalidAction)
		}
		if amount < s.Chips && a.To-br.TableBet < br.MinRaise {
			return ActionRecord{}, fmt.Errorf("raise of %d is below minimum %d: %w", a.To-br.TableBet, br.MinRaise, ErrInvalidAction)
		}
	case AllIn:
		amount = s.Chips
		if s.CurrentBet+amount > br.TableBet && !br.canRaise(i) {
			return ActionRecord{}, fmt.Errorf("all-in would raise but raising is closed to this seat: %w", ErrInvalidAction)
		}
	default:
		return ActionRecord{}, fmt.Errorf("unknown action kind %d: %w", a.Kind, ErrInvalidAction)
	}

	if amount > 0 {
		s.commit(amount)
		h.pot += amount
	}
	br.acted[i] = true

	if s.CurrentBet > br.TableBet {
		increment := s.CurrentBet - br.TableBet
		br.TableBet = s.CurrentBet
		label = Raise
		if increment >= br.MinRaise {
			br.MinRaise = increment
			br.LastAggressor = i
			for j := range br.acted {
				br.acted[j] = j == i
			}
		}
	} else if amount > 0 {
		label = Call
	}
	if amount > 0 && s.Chips == 0 {
		label = AllIn
	}

	return ActionRecord{
		Seat:     s.Name,
		Action:   label.String(),
		Amount:   amount,
		Bet:      s.CurrentBet,
		TableBet: br.TableBet,
		Chips:    s.Chips,
	}, nil
}

// view builds the snapshot offered to seat i.
func (h *Hand) view(i int) TableView {
	br := h.betting
	seats := make([]SeatView, len(h.seats))
	for j, s := range h.seats {
		seats[j] = s.view()
	}
	s := h.seats[i]
	return TableView{
		HandID:    h.ID,
		Street:    br.Street,
		Community: slices.Clone(h.board),
		Pot:       h.pot,
		TableBet:  br.TableBet,
		MinRaise:  br.MinRaise,
		BigBlind:  h.bigBlind,
		Seats:     seats,
		Acting:    i,
		Hole:      slices.Clone(s.Hole),
		CanRaise:  br.canRaise(i) && s.Chips > br.TableBet-s.CurrentBet,
	}
}

func (h *Hand) countInGame() int {
	n := 0
	for _, s := range h.seats {
		if s.InGame {
			n++
		}
	}
	return n
}

// anyOwes reports whether a seat with chips has yet to match the table bet.
func (h *Hand) anyOwes(br *BettingRound) bool {
	for _, s := range h.seats {
		if s.InGame && s.Chips > 0 && s.CurrentBet < br.TableBet {
			return true
		}
	}
	return false
}

func (h *Hand) countWithChips() int {
	n := 0
	for _, s := range h.seats {
		if s.InGame && s.Chips > 0 {
			n++
		}
	}
	return n
}
