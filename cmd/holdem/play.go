package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/phh"
	"github.com/lox/holdem/internal/session"
)

// PlayCmd runs the tables described by a configuration file.
type PlayCmd struct {
	Config    string        `short:"c" default:"holdem.hcl" help:"HCL table configuration (defaults are used if missing)"`
	Hands     int           `short:"n" help:"Override hands per table"`
	Seed      *int64        `help:"Override every table's seed"`
	CarryOver bool          `help:"Keep stacks between hands instead of resetting them"`
	Timeout   time.Duration `help:"Override the per-decision timeout"`
	Console   string        `help:"Play the named seat yourself from this terminal"`
	LogDir    string        `help:"Write one JSON log per hand to this directory"`
	PHH       bool          `name:"phh" help:"Also write PHH hand histories to the log directory"`
	LogLevel  string        `help:"Log level (debug|info|warn|error)"`
	Quiet     bool          `short:"q" help:"Only print final standings"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := setupLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	styles := display.DefaultStyles()
	fmt.Println(titleStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	fmt.Println()

	opts := []session.Option{session.WithLogger(logger)}
	if cfg.Log.Dir != "" {
		if err := os.MkdirAll(cfg.Log.Dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		writers := game.MultiLogWriter{game.NewFileLogWriter(cfg.Log.Dir)}
		if cfg.Log.PHH {
			writers = append(writers, phh.NewWriter(cfg.Log.Dir))
		}
		opts = append(opts, session.WithLogWriter(writers))
	}
	if !c.Quiet {
		var mu sync.Mutex
		opts = append(opts, session.OnHand(func(r *game.Result) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Println(styles.Result(r))
		}))
	}

	agents := session.Agents(os.Stdin, os.Stdout, styles, logger)
	var tables []*session.Table
	defer func() {
		for _, t := range tables {
			if err := t.Close(); err != nil {
				logger.Warn("Failed to close table", "table", t.Name(), "error", err)
			}
		}
	}()
	for i, tc := range cfg.Tables {
		if tc.Seed == 0 {
			tc.Seed = time.Now().UnixNano()
			logger.Info("Using random seed", "table", tc.Name, "seed", tc.Seed)
		}
		t, err := session.NewTable(ctx, tc, i, agents, opts...)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	summaries, runErr := session.RunTables(ctx, tables)
	for _, sum := range summaries {
		if sum == nil {
			continue
		}
		title := fmt.Sprintf("%s: %d hands", sum.Table, sum.Hands)
		if sum.Stopped != "" {
			title += " (" + sum.Stopped + ")"
		}
		fmt.Println(styles.Standings(title, sum.Profit, sum.Stats))
	}
	return runErr
}

func (c *PlayCmd) applyOverrides(cfg *config.Config) error {
	if c.LogDir != "" {
		cfg.Log.Dir = c.LogDir
	}
	if c.PHH {
		cfg.Log.PHH = true
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}

	consoleSeated := c.Console == ""
	for i := range cfg.Tables {
		t := &cfg.Tables[i]
		if c.Hands > 0 {
			t.Hands = c.Hands
		}
		if c.Seed != nil {
			t.Seed = *c.Seed
		}
		if c.CarryOver {
			t.CarryOver = true
		}
		if c.Timeout > 0 {
			t.DecisionTimeout = c.Timeout.String()
		}
		for j := range t.Seats {
			if c.Console != "" && t.Seats[j].Name == c.Console {
				t.Seats[j].Agent = config.AgentConsole
				consoleSeated = true
			}
		}
	}
	if !consoleSeated {
		return fmt.Errorf("no seat named %q", c.Console)
	}
	return nil
}
