package game

import (
	"errors"

	"github.com/lox/holdem/internal/deck"
)

var (
	// ErrInvalidAction is returned when a seat submits an illegal action.
	ErrInvalidAction = errors.New("invalid action")
	// ErrNoEligibleWinner is returned when settlement finds no seat in the hand.
	ErrNoEligibleWinner = errors.New("no eligible winner")
	// ErrTooFewSeats is returned when fewer than two seats can play.
	ErrTooFewSeats = errors.New("at least two seats with chips are required")
	// ErrDuplicateSeat is returned when two seats share a name.
	ErrDuplicateSeat = errors.New("duplicate seat name")
	// ErrAbortHand may be wrapped by an agent error to stop the hand instead
	// of applying the default action.
	ErrAbortHand = errors.New("hand aborted by agent")
	// ErrDeckExhausted is deck.ErrDeckExhausted, re-exported for callers of
	// this package.
	ErrDeckExhausted = deck.ErrDeckExhausted
)
