package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
)

// ErrQuit is returned when the console player asks to leave. It aborts the
// hand in progress.
var ErrQuit = fmt.Errorf("player quit: %w", game.ErrAbortHand)

// ConsoleAgent lets a person play a seat from a terminal. It prints the
// table and reads one command per line until a legal action is entered.
type ConsoleAgent struct {
	out    io.Writer
	styles *display.Styles
	logger *log.Logger

	once  sync.Once
	in    io.Reader
	lines chan string
	err   error
}

// NewConsoleAgent creates a console player reading from in and writing to
// out.
func NewConsoleAgent(in io.Reader, out io.Writer, styles *display.Styles, logger *log.Logger) *ConsoleAgent {
	return &ConsoleAgent{
		in:     in,
		out:    out,
		styles: styles,
		logger: logger.WithPrefix("console"),
	}
}

// start reads input in the background so Decide can honour cancellation.
func (c *ConsoleAgent) start() {
	c.once.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
			c.err = scanner.Err()
		}()
	})
}

func (c *ConsoleAgent) Decide(ctx context.Context, view game.TableView) (game.Action, error) {
	c.start()
	fmt.Fprintln(c.out, c.styles.View(view))

	for {
		fmt.Fprint(c.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return game.Action{}, ctx.Err()
		case l, ok := <-c.lines:
			if !ok {
				if c.err != nil {
					return game.Action{}, fmt.Errorf("read console: %w", c.err)
				}
				return game.Action{}, ErrQuit
			}
			line = l
		}

		action, msg, err := parseCommand(line, view)
		switch {
		case err != nil:
			return game.Action{}, err
		case msg != "":
			fmt.Fprintln(c.out, c.styles.Warning.Render(msg))
			continue
		}
		c.logger.Debug("Console action", "seat", view.Me().Name, "action", action)
		return action, nil
	}
}

// Feedback prints the outcome of the hand.
func (c *ConsoleAgent) Feedback(_ context.Context, fb game.Feedback) error {
	line := fmt.Sprintf("Hand %s: %s won %s, you net %+d",
		fb.HandID, strings.Join(fb.Winners, ", "), c.styles.Cards(fb.Board), fb.Net)
	if fb.Net >= 0 {
		line = c.styles.Success.Render(line)
	} else {
		line = c.styles.Error.Render(line)
	}
	_, err := fmt.Fprintln(c.out, line)
	return err
}

const consoleHelp = `Commands:
  check | k        check when nothing is owed
  call  | c        call the current bet
  raise | r <to>   raise your street total to <to>
  allin | a        commit every chip
  fold  | f        fold
  quit  | q        leave the table`

// parseCommand turns a console line into an action. A non-empty message
// means the line was not a legal action and the prompt should repeat.
func parseCommand(line string, view game.TableView) (game.Action, string, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Action{}, "enter an action, or 'help'", nil
	}

	me := view.Me()
	owed := view.Owed()
	switch fields[0] {
	case "check", "k", "ch":
		if owed > 0 {
			return game.Action{}, fmt.Sprintf("cannot check, %d to call", owed), nil
		}
		return game.CheckAction(), "", nil
	case "call", "c":
		return game.CallAction(), "", nil
	case "fold", "f":
		return game.FoldAction(), "", nil
	case "allin", "all", "a":
		if !view.CanRaise && me.Chips > owed {
			return game.Action{}, "raising is closed, call or fold", nil
		}
		return game.AllInAction(), "", nil
	case "raise", "r", "bet", "b":
		if len(fields) < 2 {
			return game.Action{}, "specify the total: raise <to>", nil
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return game.Action{}, fmt.Sprintf("invalid amount %q", fields[1]), nil
		}
		switch {
		case !view.CanRaise:
			return game.Action{}, "raising is closed, call or fold", nil
		case to == view.MaxRaiseTo():
			return game.AllInAction(), "", nil
		case to > view.MaxRaiseTo():
			return game.Action{}, fmt.Sprintf("you can raise to at most %d", view.MaxRaiseTo()), nil
		case to < view.MinRaiseTo():
			return game.Action{}, fmt.Sprintf("minimum raise is to %d", view.MinRaiseTo()), nil
		}
		return game.RaiseTo(to), "", nil
	case "help", "?":
		return game.Action{}, consoleHelp, nil
	case "quit", "q", "exit":
		return game.Action{}, "", ErrQuit
	}
	return game.Action{}, fmt.Sprintf("unknown command %q, type 'help'", fields[0]), nil
}
