package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem/internal/deck"
)

// DefaultDecisionTimeout bounds each agent decision unless overridden.
const DefaultDecisionTimeout = 30 * time.Second

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

type handConfig struct {
	deck            *deck.Deck
	clock           quartz.Clock
	decisionTimeout time.Duration
	logger          *log.Logger
	writer          LogWriter
	label           string
	id              string
}

func defaultHandConfig() *handConfig {
	return &handConfig{
		clock:           quartz.NewReal(),
		decisionTimeout: DefaultDecisionTimeout,
		logger:          log.NewWithOptions(io.Discard, log.Options{}),
		writer:          NopLogWriter{},
	}
}

// WithDeck deals from a specific deck instead of shuffling one from the RNG.
func WithDeck(d *deck.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = d
	}
}

// WithClock sets the clock used for decision timeouts.
func WithClock(clock quartz.Clock) HandOption {
	return func(c *handConfig) {
		c.clock = clock
	}
}

// WithDecisionTimeout bounds each decision. Zero waits indefinitely.
func WithDecisionTimeout(d time.Duration) HandOption {
	return func(c *handConfig) {
		c.decisionTimeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// WithLogWriter sets where the hand log is persisted.
func WithLogWriter(w LogWriter) HandOption {
	return func(c *handConfig) {
		c.writer = w
	}
}

// WithLabel names the hand; file log writers use it as the file name.
func WithLabel(label string) HandOption {
	return func(c *handConfig) {
		c.label = label
	}
}

// WithHandID overrides the generated hand identifier.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.id = id
	}
}
