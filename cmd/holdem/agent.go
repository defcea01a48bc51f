package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/randutil"
)

// AgentCmd serves a scripted bot over websocket so engines can seat it as a
// remote agent. It doubles as a reference implementation for learned
// agents.
type AgentCmd struct {
	Bot      string `arg:"" default:"tag" help:"Bot to serve (call, fold, random, chart, tag, maniac)"`
	Addr     string `default:":8090" help:"Listen address"`
	Path     string `default:"/agent" help:"WebSocket endpoint path"`
	Seed     int64  `help:"Seed for the bot's random choices (random if unset)"`
	LogLevel string `default:"info" help:"Log level (debug|info|warn|error)"`
}

func (c *AgentCmd) Run() error {
	logger, err := setupLogger(c.LogLevel)
	if err != nil {
		return err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	agent, err := bot.New(c.Bot, randutil.New(seed), logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(c.Path, bot.NewHandler(agent, logger))
	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Serving remote agent", "bot", c.Bot, "addr", c.Addr, "path", c.Path, "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down agent server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
