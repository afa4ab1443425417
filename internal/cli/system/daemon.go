package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/remindue/internal/cli"
	"github.com/julianstephens/remindue/internal/engine"
	"github.com/julianstephens/remindue/internal/logger"
)

type DaemonCmd struct {
	RollInterval time.Duration `help:"How often to re-check for missed recurring due dates." default:"1h"`
}

// Run keeps the gateway alive so scheduled notifications actually fire and
// notification action buttons reach the engine.
func (c *DaemonCmd) Run(ctx *cli.Context) error {
	dispatcher := engine.NewDispatcher(ctx.Engine)
	dispatcher.Register(ctx.Gateway)

	if err := ctx.Gateway.StartActionListener(); err != nil {
		return fmt.Errorf("failed to start action listener: %w", err)
	}
	defer ctx.Gateway.Close()

	// Triggers from previous processes are gone; rebuild them before
	// catching up recurring due dates.
	if err := ctx.Engine.RearmAll(); err != nil {
		logger.Error("failed to re-arm notifications", "error", err)
	}
	if err := ctx.Engine.RollForward(); err != nil {
		logger.Error("roll-forward failed", "error", err)
	}

	fmt.Printf("remindue daemon running, actions on %s\n", ctx.Config.ActionListenAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(c.RollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ctx.Engine.RollForward(); err != nil {
				logger.Error("roll-forward failed", "error", err)
			}
		case s := <-sig:
			logger.Info("shutting down", "signal", s)
			fmt.Println("\nShutting down")
			return nil
		}
	}
}
