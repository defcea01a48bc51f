package session

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func botAgents() AgentFactory {
	return Agents(strings.NewReader(""), io.Discard, display.PlainStyles(), quietLogger())
}

func tableConfig(t *testing.T, src string) config.TableConfig {
	t.Helper()
	cfg, err := config.Parse([]byte(src), "test.hcl")
	require.NoError(t, err)
	return cfg.Tables[0]
}

const fourBots = `
table "t1" {
  hands            = 30
  seed             = 11
  decision_timeout = "0s"
  seat "a" { agent = "tag" }
  seat "b" { agent = "random" }
  seat "c" { agent = "maniac" }
  seat "d" { agent = "chart" }
}
`

func TestRunResetsStacksEveryHand(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable(context.Background(), tableConfig(t, fourBots), 0, botAgents(), WithLogger(quietLogger()))
	require.NoError(t, err)

	var starts []int
	sum, err := tbl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, sum.Hands)
	assert.Empty(t, sum.Stopped)

	// profits are zero-sum and each hand was dealt from full stacks
	total := 0
	for _, p := range sum.Profit {
		total += p
	}
	assert.Equal(t, 0, total)

	require.Len(t, sum.Stats, 4)
	for name, st := range sum.Stats {
		assert.Equal(t, 30, st.Hands, name)
		assert.NoError(t, st.Validate(), name)
		assert.InDelta(t, float64(sum.Profit[name])/10, st.SumBB, 1e-9, name)
	}
	for _, res := range tbl.Results() {
		for _, rec := range res.Log.Chips {
			starts = append(starts, rec.Before)
		}
	}
	for _, s := range starts {
		assert.Equal(t, config.DefaultStartingChips, s)
	}
}

func TestRunCarryOverKeepsStacks(t *testing.T) {
	t.Parallel()

	src := `
table "t1" {
  hands            = 200
  seed             = 5
  carry_over       = true
  starting_chips   = 100
  decision_timeout = "0s"
  seat "a" { agent = "maniac" }
  seat "b" { agent = "maniac" }
}
`
	tbl, err := NewTable(context.Background(), tableConfig(t, src), 0, botAgents(), WithLogger(quietLogger()))
	require.NoError(t, err)

	sum, err := tbl.Run(context.Background())
	require.NoError(t, err)

	results := tbl.Results()
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		prev := map[string]int{}
		for _, rec := range results[i-1].Log.Chips {
			prev[rec.Seat] = rec.After
		}
		for _, rec := range results[i].Log.Chips {
			assert.Equal(t, prev[rec.Seat], rec.Before, "hand %d seat %s", i, rec.Seat)
		}
	}

	chips := 0
	for _, c := range sum.Chips {
		chips += c
	}
	assert.Equal(t, 200, chips)
	if sum.Hands < 200 {
		assert.NotEmpty(t, sum.Stopped)
	}
}

func TestRunIsReproducible(t *testing.T) {
	t.Parallel()

	run := func() map[string]int {
		tbl, err := NewTable(context.Background(), tableConfig(t, fourBots), 0, botAgents(), WithLogger(quietLogger()))
		require.NoError(t, err)
		sum, err := tbl.Run(context.Background())
		require.NoError(t, err)
		return sum.Profit
	}
	assert.Equal(t, run(), run())
}

func TestRunWritesHandLogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := `
table "logged" {
  hands = 3
  seed  = 1
  seat "a" { agent = "call" }
  seat "b" { agent = "call" }
}
`
	var seen []string
	tbl, err := NewTable(context.Background(), tableConfig(t, src), 0, botAgents(),
		WithLogger(quietLogger()),
		WithLogWriter(game.NewFileLogWriter(dir)),
		OnHand(func(r *game.Result) { seen = append(seen, r.Label) }))
	require.NoError(t, err)

	_, err = tbl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"logged-0001", "logged-0002", "logged-0003"}, seen)

	data, err := os.ReadFile(filepath.Join(dir, "logged-0002.json"))
	require.NoError(t, err)
	lines := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines++
	}
	assert.Equal(t, 4, lines)
}

func TestRunTablesConcurrently(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(fourBots+`
table "t2" {
  hands = 20
  seed  = 11
  seat "x" { agent = "call" }
  seat "y" { agent = "tag" }
  seat "z" { agent = "fold" }
}
`), "tables.hcl")
	require.NoError(t, err)

	var mu sync.Mutex
	hands := map[string]int{}
	var tables []*Table
	for i, tc := range cfg.Tables {
		tbl, err := NewTable(context.Background(), tc, i, botAgents(),
			WithLogger(quietLogger()),
			OnHand(func(r *game.Result) {
				mu.Lock()
				defer mu.Unlock()
				hands[strings.SplitN(r.Label, "-", 2)[0]]++
			}))
		require.NoError(t, err)
		tables = append(tables, tbl)
	}

	sums, err := RunTables(context.Background(), tables)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "t1", sums[0].Table)
	assert.Equal(t, 30, sums[0].Hands)
	assert.Equal(t, "t2", sums[1].Table)
	assert.Equal(t, 20, sums[1].Hands)
	assert.Equal(t, map[string]int{"t1": 30, "t2": 20}, hands)
}

func TestRunStopsOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tbl, err := NewTable(context.Background(), tableConfig(t, fourBots), 0, botAgents(), WithLogger(quietLogger()))
	require.NoError(t, err)
	sum, err := tbl.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Hands)
}

func TestRemoteSeatFromConfig(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(bot.NewHandler(bot.NewCallBot(quietLogger()), quietLogger()))
	defer srv.Close()

	src := `
table "remote" {
  hands = 5
  seed  = 3
  seat "local"   { agent = "chart" }
  seat "learner" {
    agent = "remote"
    url   = "ws` + strings.TrimPrefix(srv.URL, "http") + `"
  }
}
`
	tbl, err := NewTable(context.Background(), tableConfig(t, src), 0, botAgents(), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer tbl.Close()

	sum, err := tbl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Hands)
	for _, res := range tbl.Results() {
		for _, lap := range res.Log.Betting {
			for _, a := range lap.Actions {
				assert.Empty(t, a.Note, "remote seat should answer every request")
			}
		}
	}
}

func TestNewTableRejectsUnreachableRemote(t *testing.T) {
	t.Parallel()

	src := `
table "t" {
  seat "a" { agent = "call" }
  seat "b" {
    agent = "remote"
    url   = "ws://127.0.0.1:1/agent"
  }
}
`
	_, err := NewTable(context.Background(), tableConfig(t, src), 0, botAgents())
	assert.ErrorContains(t, err, "seat b")
}
