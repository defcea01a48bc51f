package bot

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	view := facing(game.Flop, "AsKd", 500, 0, 50)

	tests := []struct {
		line    string
		want    game.Action
		retry   bool
		wantErr error
	}{
		{line: "call", want: game.CallAction()},
		{line: "C", want: game.CallAction()},
		{line: "f", want: game.FoldAction()},
		{line: "raise 150", want: game.RaiseTo(150)},
		{line: "r 500", want: game.AllInAction()},
		{line: "allin", want: game.AllInAction()},
		{line: "check", retry: true},
		{line: "raise 55", retry: true},
		{line: "raise 900", retry: true},
		{line: "raise lots", retry: true},
		{line: "raise", retry: true},
		{line: "", retry: true},
		{line: "dance", retry: true},
		{line: "help", retry: true},
		{line: "quit", wantErr: ErrQuit},
	}

	for _, tt := range tests {
		got, msg, err := parseCommand(tt.line, view)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		if tt.retry {
			assert.NotEmpty(t, msg, tt.line)
			continue
		}
		assert.Empty(t, msg, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestConsoleAgentRepromptsUntilLegal(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("check\nraise 20\nraise 120\n")
	var out bytes.Buffer
	c := NewConsoleAgent(in, &out, display.PlainStyles(), quietLogger())

	got, err := c.Decide(context.Background(), facing(game.Turn, "AsKd", 500, 0, 50))
	require.NoError(t, err)
	assert.Equal(t, game.RaiseTo(120), got)
	assert.Contains(t, out.String(), "cannot check, 50 to call")
	assert.Contains(t, out.String(), "minimum raise is to 60")
}

func TestConsoleAgentEndOfInputQuits(t *testing.T) {
	t.Parallel()

	c := NewConsoleAgent(strings.NewReader(""), io.Discard, display.PlainStyles(), quietLogger())
	_, err := c.Decide(context.Background(), facing(game.Flop, "AsKd", 500, 0, 0))
	assert.ErrorIs(t, err, game.ErrAbortHand)
}

func TestConsoleAgentHonoursCancellation(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewConsoleAgent(pr, io.Discard, display.PlainStyles(), quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Decide(ctx, facing(game.Flop, "AsKd", 500, 0, 0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
