// Package session plays sequences of hands at one or more tables.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/statistics"
)

// Table is a table with its seats, playing the hands its configuration
// asks for. A Table owns all of its state, so separate tables may run
// concurrently.
type Table struct {
	cfg    config.TableConfig
	index  int
	seats  []*game.Seat
	closer []io.Closer

	clock   quartz.Clock
	logger  *log.Logger
	writer  game.LogWriter
	onHand  func(*game.Result)
	results []*game.Result
	stats   *statistics.Table
}

// Summary is the outcome of a table's run.
type Summary struct {
	Table  string
	Hands  int
	Profit map[string]int // TotalProfit per seat
	Chips  map[string]int // final stacks
	Stats  map[string]*statistics.Statistics
	// Stopped explains an early finish, such as every opponent going broke.
	Stopped string
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithLogWriter persists every hand log.
func WithLogWriter(w game.LogWriter) Option {
	return func(t *Table) { t.writer = w }
}

// WithClock sets the clock for decision timeouts.
func WithClock(c quartz.Clock) Option {
	return func(t *Table) { t.clock = c }
}

// OnHand is called after every completed hand.
func OnHand(fn func(*game.Result)) Option {
	return func(t *Table) { t.onHand = fn }
}

// NewTable seats the configured agents. index distinguishes tables sharing
// a seed so each deals different cards.
func NewTable(ctx context.Context, cfg config.TableConfig, index int, agents AgentFactory, opts ...Option) (*Table, error) {
	t := &Table{
		cfg:    cfg,
		index:  index,
		clock:  quartz.NewReal(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		writer: game.NopLogWriter{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("table", cfg.Name)

	rng := randutil.New(randutil.Derive(cfg.Seed, index, -1))
	for _, sc := range cfg.Seats {
		agent, err := agents(ctx, sc, rng)
		if err != nil {
			_ = t.Close()
			return nil, fmt.Errorf("table %s seat %s: %w", cfg.Name, sc.Name, err)
		}
		if c, ok := agent.(io.Closer); ok {
			t.closer = append(t.closer, c)
		}
		t.seats = append(t.seats, game.NewSeat(sc.Name, cfg.StartingChips, agent))
	}
	names := make([]string, len(t.seats))
	for i, s := range t.seats {
		names[i] = s.Name
	}
	t.stats = statistics.NewTable(cfg.BigBlind, names...)
	return t, nil
}

// Name returns the table's configured name.
func (t *Table) Name() string {
	return t.cfg.Name
}

// Seats returns the seats in table order.
func (t *Table) Seats() []*game.Seat {
	return t.seats
}

// Results returns every completed hand, in order.
func (t *Table) Results() []*game.Result {
	return t.results
}

// Run plays the configured number of hands. Unless carry-over is enabled
// every seat starts each hand with the starting stack; with carry-over the
// run stops early once fewer than two seats have chips.
func (t *Table) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{Table: t.cfg.Name}
	t.logger.Info("Starting table", "seats", len(t.seats), "hands", t.cfg.Hands, "carryOver", t.cfg.CarryOver)
	started := time.Now()

	for i := range t.cfg.Hands {
		if err := ctx.Err(); err != nil {
			return t.summarise(sum), err
		}
		t.prepareStacks()
		if funded := t.fundedSeats(); funded < 2 {
			sum.Stopped = fmt.Sprintf("only %d seat with chips", funded)
			t.logger.Info("Stopping table", "reason", sum.Stopped, "after", i)
			break
		}

		label := fmt.Sprintf("%s-%04d", t.cfg.Name, i+1)
		h, err := game.NewHand(randutil.New(randutil.Derive(t.cfg.Seed, t.index, i)), t.seats,
			t.cfg.SmallBlind, t.cfg.BigBlind,
			game.WithLabel(label),
			game.WithClock(t.clock),
			game.WithDecisionTimeout(t.cfg.Timeout()),
			game.WithLogger(t.logger),
			game.WithLogWriter(t.writer))
		if err != nil {
			return t.summarise(sum), fmt.Errorf("hand %s: %w", label, err)
		}
		res, err := h.Play(ctx)
		if err != nil {
			return t.summarise(sum), fmt.Errorf("hand %s: %w", label, err)
		}
		t.results = append(t.results, res)
		t.stats.Record(res)
		sum.Hands++
		if t.onHand != nil {
			t.onHand(res)
		}
	}

	t.logger.Info("Table finished", "hands", sum.Hands, "elapsed", time.Since(started).Round(time.Millisecond))
	return t.summarise(sum), nil
}

func (t *Table) prepareStacks() {
	if t.cfg.CarryOver {
		return
	}
	for _, s := range t.seats {
		s.Chips = t.cfg.StartingChips
	}
}

func (t *Table) fundedSeats() int {
	n := 0
	for _, s := range t.seats {
		if s.Chips > 0 {
			n++
		}
	}
	return n
}

func (t *Table) summarise(sum *Summary) *Summary {
	sum.Profit = make(map[string]int, len(t.seats))
	sum.Chips = make(map[string]int, len(t.seats))
	for _, s := range t.seats {
		sum.Profit[s.Name] = s.TotalProfit
		sum.Chips[s.Name] = s.Chips
	}
	sum.Stats = t.stats.Seats()
	return sum
}

// Close releases agent connections.
func (t *Table) Close() error {
	var first error
	for _, c := range t.closer {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RunTables runs independent tables concurrently. The first failure cancels
// the remaining tables; summaries are returned in table order.
func RunTables(ctx context.Context, tables []*Table) ([]*Summary, error) {
	summaries := make([]*Summary, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		g.Go(func() error {
			sum, err := t.Run(ctx)
			summaries[i] = sum
			return err
		})
	}
	err := g.Wait()
	return summaries, err
}
