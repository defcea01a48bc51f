package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/holdem/internal/fileutil"
)

// ActionRecord is one entry in the betting log.
type ActionRecord struct {
	Seat     string `json:"seat"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`    // chips committed by this action
	Bet      int    `json:"bet"`       // seat's street total afterwards
	TableBet int    `json:"table_bet"` // table bet afterwards
	Chips    int    `json:"chips"`     // stack afterwards
	Note     string `json:"note,omitempty"`
}

// LapLog groups the actions of one pass around the table. Blinds are
// recorded as lap 0 of the preflop street.
type LapLog struct {
	Street  string         `json:"street"`
	Lap     int            `json:"lap"`
	Actions []ActionRecord `json:"actions"`
}

// CardLog records every card dealt and the showdown strengths.
type CardLog struct {
	Hole     map[string]string `json:"hole"`
	Flop     string            `json:"flop,omitempty"`
	Turn     string            `json:"turn,omitempty"`
	River    string            `json:"river,omitempty"`
	Strength map[string]string `json:"strength,omitempty"`
}

// ChipRecord summarises a seat's stack movement for the hand.
type ChipRecord struct {
	Seat        string `json:"seat"`
	Before      int    `json:"before"`
	After       int    `json:"after"`
	TotalProfit int    `json:"total_profit"`
	Summary     string `json:"summary"`
}

// String renders the record as "500->520, total_profit: 20".
func (r ChipRecord) String() string {
	return fmt.Sprintf("%d->%d, total_profit: %d", r.Before, r.After, r.TotalProfit)
}

// HandLog is the persisted record of a hand.
type HandLog struct {
	HandID  string       `json:"hand_id"`
	Label   string       `json:"label"`
	Betting []LapLog     `json:"betting"`
	Cards   CardLog      `json:"cards"`
	Pots    []SidePot    `json:"pots"`
	Chips   []ChipRecord `json:"chips"`

	SmallBlind int `json:"small_blind"`
	BigBlind   int `json:"big_blind"`
}

func newHandLog(id, label string, smallBlind, bigBlind int) *HandLog {
	return &HandLog{
		HandID:     id,
		Label:      label,
		Cards:      CardLog{Hole: make(map[string]string)},
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
	}
}

// Encode writes the log as four JSON lines: betting, cards, settlement and
// chip history.
func (l *HandLog) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	parts := []any{
		struct {
			HandID  string   `json:"hand_id"`
			Betting []LapLog `json:"betting"`
		}{l.HandID, l.Betting},
		struct {
			HandID string  `json:"hand_id"`
			Cards  CardLog `json:"cards"`
		}{l.HandID, l.Cards},
		struct {
			HandID string    `json:"hand_id"`
			Pots   []SidePot `json:"pots"`
		}{l.HandID, l.Pots},
		struct {
			HandID string       `json:"hand_id"`
			Chips  []ChipRecord `json:"chips"`
		}{l.HandID, l.Chips},
	}
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encode hand log: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// LogWriter persists hand logs.
type LogWriter interface {
	WriteHandLog(log *HandLog) error
}

// FileLogWriter writes each hand to <dir>/<label>.json.
type FileLogWriter struct {
	directory string
}

// NewFileLogWriter creates a file-based hand log writer
func NewFileLogWriter(directory string) *FileLogWriter {
	return &FileLogWriter{directory: directory}
}

// WriteHandLog writes the log atomically, replacing any earlier file with
// the same label.
func (w *FileLogWriter) WriteHandLog(log *HandLog) error {
	if err := os.MkdirAll(w.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create hand log directory: %w", err)
	}
	data, err := log.Encode()
	if err != nil {
		return err
	}
	name := log.Label
	if name == "" {
		name = log.HandID
	}
	return fileutil.WriteFileAtomic(filepath.Join(w.directory, name+".json"), data, 0o644)
}

// MultiLogWriter writes every log to each of its writers.
type MultiLogWriter []LogWriter

func (m MultiLogWriter) WriteHandLog(log *HandLog) error {
	var errs []error
	for _, w := range m {
		if err := w.WriteHandLog(log); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopLogWriter discards hand logs.
type NopLogWriter struct{}

func (NopLogWriter) WriteHandLog(*HandLog) error { return nil }
