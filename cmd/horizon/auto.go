package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/autoplay"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
)

var (
	autoSteps     int
	autoRestBelow float64
	autoReport    time.Duration
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the game play itself",
	Long: `Turn auto-advance on and run one step per tick until interrupted,
the character is defeated, the top floor is cleared or --steps is reached.
The slot is saved when the run ends.`,
	RunE: runAuto,
}

func init() {
	autoCmd.Flags().IntVar(&autoSteps, "steps", 0, "stop after this many steps; zero runs until stopped")
	autoCmd.Flags().Float64Var(&autoRestBelow, "rest-below", 0.5, "rest between fights when HP falls under this fraction")
	autoCmd.Flags().DurationVar(&autoReport, "report", 10*time.Second, "how often to log progress")
}

func runAuto(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.resume(ctx, cfg.Slot); err != nil {
		return err
	}

	if err := autoRun(ctx, a.game, a.runnerConfig()); err != nil {
		return err
	}

	// the signal context may be done already; saving must still happen
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if cfg.Slot != "" {
		out, err := a.game.Save(saveCtx, &game.SaveInput{Slot: cfg.Slot})
		if err != nil {
			return errors.Wrap(err, "failed to save after auto run")
		}
		slog.Info("Auto run saved", "slot", out.Slot)
	}
	return nil
}

func (a *app) runnerConfig() *autoplay.Config {
	return &autoplay.Config{
		Balance:   a.balance,
		Interval:  cfg.TickInterval,
		RestBelow: autoRestBelow,
		MaxSteps:  autoSteps,
	}
}

// autoRun enables auto mode and drives the runner alongside a progress
// reporter. The reporter ends when the runner does.
func autoRun(ctx context.Context, svc game.Service, rc *autoplay.Config) error {
	rc.Game = svc
	runner, err := autoplay.NewRunner(rc)
	if err != nil {
		return errors.Wrap(err, "failed to create auto runner")
	}

	if _, err := svc.SetAuto(ctx, &game.SetAutoInput{Enabled: true}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runDone := make(chan struct{})

	g.Go(func() error {
		defer close(runDone)
		return runner.Run(gctx)
	})

	g.Go(func() error {
		if autoReport <= 0 {
			return nil
		}
		ticker := time.NewTicker(autoReport)
		defer ticker.Stop()
		for {
			select {
			case <-runDone:
				return nil
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				reportProgress(gctx, svc, runner.Steps())
			}
		}
	})

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "auto run failed")
	}

	reportProgress(ctx, svc, runner.Steps())
	return nil
}

func reportProgress(ctx context.Context, svc game.Service, steps int) {
	out, err := svc.GetState(context.WithoutCancel(ctx), &game.GetStateInput{})
	if err != nil {
		slog.Warn("Failed to read progress", "error", err)
		return
	}
	st := out.State
	slog.Info("Auto progress",
		"steps", steps,
		"floor", st.Tower.Floor,
		"level", st.Character.Level,
		"hp", st.Character.HP,
		"gold", st.Character.Gold,
		"auto", st.Battle.Auto,
	)
}
