package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/deck"
)

// Hand runs one hand of no-limit hold'em over an ordered set of seats.
// A Hand is single use.
type Hand struct {
	ID    string
	Label string

	seats      []*Seat
	smallBlind int
	bigBlind   int
	// bigBlindSeat is the index of the seat that posted the big blind.
	bigBlindSeat int

	deck    *deck.Deck
	board   []deck.Card
	pot     int
	betting *BettingRound

	clock           quartz.Clock
	decisionTimeout time.Duration
	logger          *log.Logger
	writer          LogWriter
	log             *HandLog
	played          bool
}

// Result summarises a completed hand.
type Result struct {
	HandID     string
	Label      string
	Board      []deck.Card
	Pot        int
	Settlement *Settlement
	// Net is each seat's chip change over the hand.
	Net map[string]int
	Log *HandLog
}

// NewHand prepares a hand. The RNG shuffles the deck and seeds the hand ID;
// it may be nil only when WithDeck is given.
//
// Example usage:
//
//	h, err := NewHand(randutil.New(42), seats, 5, 10,
//	    WithDecisionTimeout(5*time.Second))
func NewHand(rng *rand.Rand, seats []*Seat, smallBlind, bigBlind int, opts ...HandOption) (*Hand, error) {
	cfg := defaultHandConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(seats) < 2 {
		return nil, ErrTooFewSeats
	}
	names := make(map[string]bool, len(seats))
	for i, s := range seats {
		if s == nil || s.Name == "" {
			return nil, fmt.Errorf("seat %d has no name", i)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("%q: %w", s.Name, ErrDuplicateSeat)
		}
		names[s.Name] = true
		if s.Agent == nil {
			return nil, fmt.Errorf("seat %q has no agent", s.Name)
		}
		if s.Chips < 0 {
			return nil, fmt.Errorf("seat %q has negative chips", s.Name)
		}
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", smallBlind, bigBlind)
	}
	if rng == nil && cfg.deck == nil {
		return nil, errors.New("a hand needs an rng or a deck")
	}

	d := cfg.deck
	if d == nil {
		d = deck.NewDeck(rng)
	}
	id := cfg.id
	if id == "" {
		id = newHandID(rng)
	}
	label := cfg.label
	if label == "" {
		label = id
	}

	return &Hand{
		ID:              id,
		Label:           label,
		seats:           seats,
		smallBlind:      smallBlind,
		bigBlind:        bigBlind,
		deck:            d,
		clock:           cfg.clock,
		decisionTimeout: cfg.decisionTimeout,
		logger:          cfg.logger.With("hand", label),
		writer:          cfg.writer,
		log:             newHandLog(id, label, smallBlind, bigBlind),
	}, nil
}

// newHandID derives a UUID from the RNG so seeded runs name hands
// identically.
func newHandID(rng *rand.Rand) string {
	if rng == nil {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

// Seats returns the seats in table order.
func (h *Hand) Seats() []*Seat {
	return h.seats
}

// Board returns the community cards dealt so far.
func (h *Hand) Board() []deck.Card {
	return slices.Clone(h.board)
}

// Pot returns the chips committed so far, blinds included.
func (h *Hand) Pot() int {
	return h.pot
}

// Play runs the hand from blinds to settlement. Any error aborts the hand.
func (h *Hand) Play(ctx context.Context) (*Result, error) {
	if h.played {
		return nil, errors.New("hand already played")
	}
	h.played = true

	before := make([]int, len(h.seats))
	for i, s := range h.seats {
		before[i] = s.Chips
		s.resetForHand()
	}
	if h.countInGame() < 2 {
		return nil, ErrTooFewSeats
	}

	h.logger.Info("Starting hand", "seats", len(h.seats), "blinds", fmt.Sprintf("%d/%d", h.smallBlind, h.bigBlind))

	h.postBlinds()

	if need := h.countInGame()*2 + 5; need > h.deck.Remaining() {
		return nil, fmt.Errorf("need %d cards but deck holds %d: %w", need, h.deck.Remaining(), ErrDeckExhausted)
	}
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	for street := Preflop; street <= River; street++ {
		if street > Preflop {
			if h.countInGame() < 2 {
				break
			}
			if err := h.dealStreet(street); err != nil {
				return nil, err
			}
		}
		if err := h.runStreet(ctx, street); err != nil {
			return nil, err
		}
	}

	settlement, err := Settle(h.seats, h.board)
	if err != nil {
		return nil, fmt.Errorf("settle hand %s: %w", h.Label, err)
	}
	h.log.Pots = settlement.Pots
	if len(settlement.Strengths) > 0 {
		h.log.Cards.Strength = make(map[string]string, len(settlement.Strengths))
		for name, st := range settlement.Strengths {
			h.log.Cards.Strength[name] = st.String()
		}
	}

	result := &Result{
		HandID:     h.ID,
		Label:      h.Label,
		Board:      slices.Clone(h.board),
		Pot:        h.pot,
		Settlement: settlement,
		Net:        make(map[string]int, len(h.seats)),
		Log:        h.log,
	}
	for i, s := range h.seats {
		net := s.Chips - before[i]
		s.TotalProfit += net
		result.Net[s.Name] = net
		rec := ChipRecord{
			Seat:        s.Name,
			Before:      before[i],
			After:       s.Chips,
			TotalProfit: s.TotalProfit,
		}
		rec.Summary = rec.String()
		h.log.Chips = append(h.log.Chips, rec)
	}

	for _, p := range settlement.Pots {
		h.logger.Info("Pot awarded", "amount", p.Amount, "winners", p.Winners)
	}

	h.sendFeedback(ctx, settlement, result.Net)

	if err := h.writer.WriteHandLog(h.log); err != nil {
		return result, fmt.Errorf("write hand log: %w", err)
	}
	return result, nil
}

// postBlinds takes the blinds from the first two seats in the hand, so a
// seat sitting out passes its blind to the next funded seat.
func (h *Hand) postBlinds() {
	var blindSeats []int
	for i, s := range h.seats {
		if s.InGame {
			blindSeats = append(blindSeats, i)
		}
		if len(blindSeats) == 2 {
			break
		}
	}
	h.bigBlindSeat = blindSeats[1]

	blinds := []struct {
		seat   int
		amount int
		label  string
	}{
		{blindSeats[0], h.smallBlind, "small blind"},
		{blindSeats[1], h.bigBlind, "big blind"},
	}
	var entries []ActionRecord
	for _, b := range blinds {
		s := h.seats[b.seat]
		posted := min(b.amount, s.Chips)
		s.commit(posted)
		h.pot += posted
		entries = append(entries, ActionRecord{
			Seat:     s.Name,
			Action:   b.label,
			Amount:   posted,
			Bet:      s.CurrentBet,
			TableBet: h.bigBlind,
			Chips:    s.Chips,
		})
		h.logger.Debug("Posted blind", "seat", s.Name, "blind", b.label, "amount", posted)
	}
	h.log.Betting = append(h.log.Betting, LapLog{Street: Preflop.String(), Lap: 0, Actions: entries})
}

func (h *Hand) dealHoleCards() error {
	for _, s := range h.seats {
		if !s.InGame {
			continue
		}
		cards, err := h.deck.DrawN(2)
		if err != nil {
			return fmt.Errorf("deal hole cards to %s: %w", s.Name, err)
		}
		s.Hole = cards
		h.log.Cards.Hole[s.Name] = deck.CompactCards(cards)
	}
	return nil
}

func (h *Hand) dealStreet(street Street) error {
	n := 1
	if street == Flop {
		n = 3
	}
	cards, err := h.deck.DrawN(n)
	if err != nil {
		return fmt.Errorf("deal %s: %w", street, err)
	}
	h.board = append(h.board, cards...)
	switch street {
	case Flop:
		h.log.Cards.Flop = deck.CompactCards(cards)
	case Turn:
		h.log.Cards.Turn = deck.CompactCards(cards)
	case River:
		h.log.Cards.River = deck.CompactCards(cards)
	}
	for _, s := range h.seats {
		s.CurrentBet = 0
	}
	h.logger.Debug("Dealt street", "street", street, "board", deck.FormatCards(h.board))
	return nil
}

func (h *Hand) sendFeedback(ctx context.Context, st *Settlement, net map[string]int) {
	if len(st.Pots) == 0 {
		return
	}
	seats := make([]SeatView, len(h.seats))
	for i, s := range h.seats {
		seats[i] = s.view()
	}
	first := st.Pots[0]
	for _, s := range h.seats {
		fr, ok := s.Agent.(FeedbackReceiver)
		if !ok {
			continue
		}
		fb := Feedback{
			HandID:  h.ID,
			Players: slices.Clone(first.Eligible),
			Winners: slices.Clone(first.Winners),
			Seats:   seats,
			Board:   slices.Clone(h.board),
			Net:     net[s.Name],
		}
		if err := fr.Feedback(ctx, fb); err != nil {
			h.logger.Warn("Feedback delivery failed", "seat", s.Name, "error", err)
		}
	}
}
