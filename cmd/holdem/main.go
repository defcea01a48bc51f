package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// version is set by ldflags during build
var version = "dev"

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Bold(true)
)

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play hands at one or more tables"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate seven-card hands and estimate equity"`
	Agent   AgentCmd         `cmd:"" help:"Serve a scripted bot as a remote agent over websocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("No-limit Texas Hold'em hand engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
