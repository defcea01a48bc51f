package session

import (
	"context"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
)

// AgentFactory creates the agent for a configured seat. rng is the table's
// random source for scripted bots.
type AgentFactory func(ctx context.Context, seat config.SeatConfig, rng *rand.Rand) (game.Agent, error)

// Agents builds seats from configuration: console seats read in and write
// out, remote seats dial their url and everything else is a scripted bot.
func Agents(in io.Reader, out io.Writer, styles *display.Styles, logger *log.Logger, remoteOpts ...bot.RemoteOption) AgentFactory {
	return func(ctx context.Context, seat config.SeatConfig, rng *rand.Rand) (game.Agent, error) {
		switch seat.Agent {
		case config.AgentConsole:
			return bot.NewConsoleAgent(in, out, styles, logger), nil
		case config.AgentRemote:
			r, err := bot.DialRemote(ctx, seat.URL, seat.Name, logger, remoteOpts...)
			if err != nil {
				return nil, err
			}
			return r, nil
		default:
			botRNG := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
			return bot.New(seat.Agent, botRNG, logger)
		}
	}
}
