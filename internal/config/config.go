// Package config loads table configuration from HCL.
//
// Example:
//
//	log {
//	  dir   = "hands"
//	  level = "info"
//	}
//
//	table "main" {
//	  small_blind      = 5
//	  big_blind        = 10
//	  starting_chips   = 500
//	  hands            = 100
//	  decision_timeout = "30s"
//	  seed             = 42
//
//	  seat "alice"   { agent = "tag" }
//	  seat "bob"     { agent = "chart" }
//	  seat "learner" {
//	    agent = "remote"
//	    url   = "ws://localhost:8090/agent"
//	  }
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem/internal/bot"
)

const (
	DefaultSmallBlind      = 5
	DefaultBigBlind        = 10
	DefaultStartingChips   = 500
	DefaultHands           = 10
	DefaultDecisionTimeout = "30s"
	DefaultLogLevel        = "info"
)

// Agent kinds handled outside the scripted bot registry.
const (
	AgentConsole = "console"
	AgentRemote  = "remote"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete configuration file.
type Config struct {
	Log    *LogSettings  `hcl:"log,block"`
	Tables []TableConfig `hcl:"table,block"`
}

// LogSettings controls process logging and hand log persistence.
type LogSettings struct {
	// Dir receives one <label>.json file per hand; empty disables hand logs.
	Dir   string `hcl:"dir,optional"`
	Level string `hcl:"level,optional"`
	// PHH also writes <label>.phh hand histories to Dir.
	PHH bool `hcl:"phh,optional"`
}

// TableConfig describes one table and the seats playing at it.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	// CarryOver keeps stacks between hands instead of resetting every seat
	// to StartingChips.
	CarryOver       bool         `hcl:"carry_over,optional"`
	Hands           int          `hcl:"hands,optional"`
	DecisionTimeout string       `hcl:"decision_timeout,optional"`
	Seed            int64        `hcl:"seed,optional"`
	Seats           []SeatConfig `hcl:"seat,block"`
}

// SeatConfig names a seat and the agent that plays it.
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Agent string `hcl:"agent"`
	URL   string `hcl:"url,optional"`
}

// Timeout returns the parsed decision timeout. Zero disables it.
func (t TableConfig) Timeout() time.Duration {
	d, _ := time.ParseDuration(t.DecisionTimeout)
	return d
}

// Default returns the configuration used when no file exists: one table of
// scripted bots.
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{
			Name: "main",
			Seats: []SeatConfig{
				{Name: "tag", Agent: "tag"},
				{Name: "chart", Agent: "chart"},
				{Name: "random", Agent: "random"},
				{Name: "caller", Agent: "call"},
			},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file, falling back to Default when it does not
// exist. Defaults are applied to unset values and the result is validated.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	return decode(file, diags)
}

// Parse decodes configuration from source bytes; filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	return decode(file, diags)
}

func decode(file *hcl.File, diags hcl.Diagnostics) (*Config, error) {
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.SmallBlind == 0 {
			t.SmallBlind = DefaultSmallBlind
		}
		if t.BigBlind == 0 {
			t.BigBlind = max(DefaultBigBlind, t.SmallBlind)
		}
		if t.StartingChips == 0 {
			t.StartingChips = DefaultStartingChips
		}
		if t.Hands == 0 {
			t.Hands = DefaultHands
		}
		if t.DecisionTimeout == "" {
			t.DecisionTimeout = DefaultDecisionTimeout
		}
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: no tables defined", ErrInvalidConfig)
	}

	known := append(bot.Kinds(), AgentConsole, AgentRemote)
	tableNames := make(map[string]bool)
	consoleSeats := 0
	for _, t := range c.Tables {
		if tableNames[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidConfig, t.Name)
		}
		tableNames[t.Name] = true

		switch {
		case t.SmallBlind <= 0:
			return fmt.Errorf("%w: table %q: small_blind must be positive", ErrInvalidConfig, t.Name)
		case t.BigBlind < t.SmallBlind:
			return fmt.Errorf("%w: table %q: big_blind %d below small_blind %d", ErrInvalidConfig, t.Name, t.BigBlind, t.SmallBlind)
		case t.StartingChips <= 0:
			return fmt.Errorf("%w: table %q: starting_chips must be positive", ErrInvalidConfig, t.Name)
		case t.Hands <= 0:
			return fmt.Errorf("%w: table %q: hands must be positive", ErrInvalidConfig, t.Name)
		case len(t.Seats) < 2:
			return fmt.Errorf("%w: table %q: at least two seats are required", ErrInvalidConfig, t.Name)
		case 2*len(t.Seats)+5 > 52:
			return fmt.Errorf("%w: table %q: %d seats cannot be dealt from one deck", ErrInvalidConfig, t.Name, len(t.Seats))
		}
		if d, err := time.ParseDuration(t.DecisionTimeout); err != nil || d < 0 {
			return fmt.Errorf("%w: table %q: bad decision_timeout %q", ErrInvalidConfig, t.Name, t.DecisionTimeout)
		}

		seatNames := make(map[string]bool)
		for _, s := range t.Seats {
			if seatNames[s.Name] {
				return fmt.Errorf("%w: table %q: duplicate seat %q", ErrInvalidConfig, t.Name, s.Name)
			}
			seatNames[s.Name] = true
			if !slices.Contains(known, s.Agent) {
				return fmt.Errorf("%w: seat %q: unknown agent %q (want one of %v)", ErrInvalidConfig, s.Name, s.Agent, known)
			}
			if s.Agent == AgentRemote && s.URL == "" {
				return fmt.Errorf("%w: seat %q: remote agent needs a url", ErrInvalidConfig, s.Name)
			}
			if s.Agent == AgentConsole {
				consoleSeats++
			}
		}
	}
	if consoleSeats > 1 {
		return fmt.Errorf("%w: only one console seat is supported", ErrInvalidConfig)
	}
	return nil
}
