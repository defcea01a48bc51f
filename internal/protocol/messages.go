// Package protocol defines the JSON messages exchanged with remote agents
// over a websocket. Every frame is a Message envelope whose Data holds one
// of the payload types below.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	// Engine -> agent
	TypeHello           MessageType = "hello"
	TypeDecisionRequest MessageType = "decision_request"
	TypeFeedback        MessageType = "feedback"

	// Agent -> engine
	TypeDecision MessageType = "decision"
	TypeError    MessageType = "error"
)

// Message is the envelope for every frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage wraps a payload in an envelope stamped with the current time.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", messageType, err)
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the payload into v after checking the message type.
func (m *Message) Decode(want MessageType, v any) error {
	if m.Type != want {
		return fmt.Errorf("expected %s message, got %s", want, m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Type, err)
	}
	return nil
}

// Hello introduces the seat an agent connection will play.
type Hello struct {
	Seat       string `json:"seat"`
	SmallBlind int    `json:"small_blind,omitempty"`
	BigBlind   int    `json:"big_blind,omitempty"`
}

// Player is the public state of one seat. Cards are in compact notation
// such as "As" or "Td".
type Player struct {
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	CurrentBet int    `json:"current_bet"`
	TotalBet   int    `json:"total_bet"`
	InGame     bool   `json:"in_game"`
}

// DecisionRequest asks the agent to act for its seat.
type DecisionRequest struct {
	HandID    string   `json:"hand_id"`
	Street    string   `json:"street"`
	Community []string `json:"community"`
	Hole      []string `json:"hole"`
	Pot       int      `json:"pot"`
	TableBet  int      `json:"table_bet"`
	MinRaise  int      `json:"min_raise"`
	BigBlind  int      `json:"big_blind"`
	Owed      int      `json:"owed"`
	CanRaise  bool     `json:"can_raise"`
	Acting    int      `json:"acting"`
	Players   []Player `json:"players"`
	// TimeoutMs is the time the engine waits before applying the default
	// action; zero means no limit.
	TimeoutMs int64 `json:"timeout_ms,omitempty"`
}

// Decision answers a DecisionRequest. Action is one of fold, check, call,
// raise or allin, with Amount the street total for a raise. Agents that
// think in chip deltas may instead set Delta (-1 fold, 0 check, otherwise
// chips to add) and leave Action empty.
type Decision struct {
	Action    string `json:"action,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	Delta     *int   `json:"delta,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Feedback reports a settled hand. Players and Winners describe the first
// sub-pot; Net is the receiving seat's chip change.
type Feedback struct {
	HandID  string   `json:"hand_id"`
	Players []string `json:"players"`
	Winners []string `json:"winners"`
	Board   []string `json:"board"`
	Seats   []Player `json:"seats"`
	Net     int      `json:"net"`
}

// Error reports a failure on either side.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
