package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem/internal/fileutil"
	"github.com/lox/holdem/internal/game"
)

var ErrMalformedLog = errors.New("phh: malformed hand log")

// Encode writes the hand history as TOML.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// FromHandLog converts a completed hand. Seats that were dealt no cards sat
// the hand out and are left out.
func FromHandLog(l *game.HandLog) (*HandHistory, error) {
	h := &HandHistory{
		Variant: Variant,
		MinBet:  l.BigBlind,
		HandID:  l.HandID,
		Table:   l.Label,
	}

	index := make(map[string]int)
	for _, rec := range l.Chips {
		if l.Cards.Hole[rec.Seat] == "" {
			continue
		}
		index[rec.Seat] = len(h.Players)
		h.Players = append(h.Players, rec.Seat)
		h.StartingStacks = append(h.StartingStacks, rec.Before)
		h.FinishingStacks = append(h.FinishingStacks, rec.After)
	}
	n := len(h.Players)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d players dealt in", ErrMalformedLog, n)
	}
	h.Antes = make([]int, n)
	h.BlindsOrStraddles = make([]int, n)
	committed := make([]int, n)
	player := func(name string) (string, int, error) {
		i, ok := index[name]
		if !ok {
			return "", 0, fmt.Errorf("%w: unknown seat %q", ErrMalformedLog, name)
		}
		return fmt.Sprintf("p%d", i+1), i, nil
	}

	boards := []struct{ street, cards string }{
		{game.Flop.String(), l.Cards.Flop},
		{game.Turn.String(), l.Cards.Turn},
		{game.River.String(), l.Cards.River},
	}
	dealt := 0
	dealTo := func(street string) {
		for dealt < len(boards) && boards[dealt].cards != "" {
			b := boards[dealt]
			h.Actions = append(h.Actions, "d db "+b.cards)
			dealt++
			if b.street == street {
				return
			}
		}
	}

	holeDealt := false
	dealHole := func() {
		if holeDealt {
			return
		}
		holeDealt = true
		for i, name := range h.Players {
			h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, l.Cards.Hole[name]))
		}
	}

	street, streetBet := game.Preflop.String(), 0
	for _, lap := range l.Betting {
		if lap.Street == game.Preflop.String() && lap.Lap == 0 {
			for _, rec := range lap.Actions {
				_, i, err := player(rec.Seat)
				if err != nil {
					return nil, err
				}
				h.BlindsOrStraddles[i] = rec.Amount
				committed[i] += rec.Amount
				streetBet = max(streetBet, rec.Bet)
			}
			continue
		}
		dealHole()
		if lap.Street != street {
			dealTo(lap.Street)
			street, streetBet = lap.Street, 0
		}
		for _, rec := range lap.Actions {
			p, i, err := player(rec.Seat)
			if err != nil {
				return nil, err
			}
			committed[i] += rec.Amount
			action, err := formatAction(p, rec, streetBet)
			if err != nil {
				return nil, err
			}
			h.Actions = append(h.Actions, action)
			streetBet = max(streetBet, rec.Bet)
		}
	}
	dealHole()
	dealTo("")

	for i, name := range h.Players {
		if l.Cards.Strength[name] != "" {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", i+1, l.Cards.Hole[name]))
		}
	}

	h.Winnings = make([]int, n)
	for i := range h.Players {
		h.Winnings[i] = h.FinishingStacks[i] - h.StartingStacks[i] + committed[i]
	}
	return h, nil
}

// formatAction renders one betting action. Bets and raises carry the
// seat's street total; an all-in that does not raise is a call.
func formatAction(p string, rec game.ActionRecord, streetBet int) (string, error) {
	kind, err := game.ParseActionKind(rec.Action)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	switch kind {
	case game.Fold:
		return p + " f", nil
	case game.Check, game.Call:
		return p + " cc", nil
	case game.AllIn:
		if rec.Bet <= streetBet {
			return p + " cc", nil
		}
	}
	return fmt.Sprintf("%s cbr %d", p, rec.Bet), nil
}

// Writer saves each hand to <dir>/<label>.phh.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) WriteHandLog(l *game.HandLog) error {
	h, err := FromHandLog(l)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, h); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create hand history directory: %w", err)
	}
	name := l.Label
	if name == "" {
		name = l.HandID
	}
	return fileutil.WriteFileAtomic(filepath.Join(w.dir, name+".phh"), buf.Bytes(), 0o644)
}
