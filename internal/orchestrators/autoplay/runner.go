// Package autoplay drives the game on a fixed interval while the auto flag is set
package autoplay

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/combat"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

// Game is the part of the game service the runner drives
type Game interface {
	GetState(ctx context.Context, input *game.GetStateInput) (*game.GetStateOutput, error)
	Explore(ctx context.Context, input *game.ExploreInput) (*game.ExploreOutput, error)
	ChallengeBoss(ctx context.Context, input *game.ChallengeBossInput) (*game.ChallengeBossOutput, error)
	AdvanceFloor(ctx context.Context, input *game.AdvanceFloorInput) (*game.AdvanceFloorOutput, error)
	Attack(ctx context.Context, input *game.AttackInput) (*game.AttackOutput, error)
	Rest(ctx context.Context, input *game.RestInput) (*game.RestOutput, error)
	SetAuto(ctx context.Context, input *game.SetAutoInput) (*game.SetAutoOutput, error)
}

// Step names the action a tick took
type Step string

// Steps
const (
	StepSkipped   Step = "skipped"
	StepStopped   Step = "stopped"
	StepAttack    Step = "attack"
	StepChallenge Step = "challenge"
	StepAdvance   Step = "advance"
	StepRest      Step = "rest"
	StepExplore   Step = "explore"
)

const (
	defaultInterval      = 500 * time.Millisecond
	defaultRestThreshold = 0.5
)

// Config holds the dependencies for the runner
type Config struct {
	Game     Game
	Balance  *balance.Config
	Interval time.Duration
	// RestBelow is the HP fraction under which the runner rests between fights
	RestBelow float64
	// MaxSteps stops the run after this many acting ticks; zero runs until stopped
	MaxSteps int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.Balance == nil {
		vb.RequiredField("Balance")
	}
	if c.Interval < 0 {
		vb.InvalidField("Interval", "must not be negative")
	}
	if c.RestBelow < 0 || c.RestBelow > 1 {
		vb.InvalidField("RestBelow", "must be within [0, 1]")
	}
	if c.MaxSteps < 0 {
		vb.InvalidField("MaxSteps", "must not be negative")
	}

	return vb.Build()
}

// Runner performs one step per tick and never overlaps two steps
type Runner struct {
	game      Game
	cfg       *balance.Config
	interval  time.Duration
	restBelow float64
	maxSteps  int

	inFlight atomic.Bool
	steps    atomic.Int64
}

// NewRunner creates a runner with the provided dependencies
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = defaultInterval
	}
	restBelow := cfg.RestBelow
	if restBelow == 0 {
		restBelow = defaultRestThreshold
	}

	return &Runner{
		game:      cfg.Game,
		cfg:       cfg.Balance,
		interval:  interval,
		restBelow: restBelow,
		maxSteps:  cfg.MaxSteps,
	}, nil
}

// Steps returns how many ticks have acted so far
func (r *Runner) Steps() int {
	return int(r.steps.Load())
}

// Run ticks until the context ends, the auto flag is cleared or MaxSteps is
// reached. Turning the flag off is noticed at the next tick.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("Auto-advance started", "interval", r.interval, "max_steps", r.maxSteps)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Auto-advance cancelled", "steps", r.Steps())
			return nil
		case <-ticker.C:
			step, err := r.Tick(ctx)
			if err != nil {
				return err
			}
			if step == StepStopped {
				slog.Info("Auto-advance stopped", "steps", r.Steps())
				return nil
			}
			if r.maxSteps > 0 && r.Steps() >= r.maxSteps {
				slog.Info("Auto-advance reached its step limit", "steps", r.Steps())
				return nil
			}
		}
	}
}

// Tick performs at most one step. A tick that arrives while another step
// is still resolving does nothing.
func (r *Runner) Tick(ctx context.Context) (Step, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return StepSkipped, nil
	}
	defer r.inFlight.Store(false)

	cur, err := r.game.GetState(ctx, &game.GetStateInput{})
	if err != nil {
		return "", errors.Wrap(err, "failed to read state")
	}
	st := cur.State
	if !st.Battle.Auto {
		return StepStopped, nil
	}

	step, err := r.act(ctx, st)
	if err != nil {
		if errors.IsRecoverable(err) {
			// the state moved under the decision; try again next tick
			slog.Debug("Auto step rejected", "step", step, "error", err)
			return step, nil
		}
		return step, err
	}

	r.steps.Add(1)
	return step, nil
}

func (r *Runner) act(ctx context.Context, st *entities.State) (Step, error) {
	if st.Battle.Enemy != nil {
		action := r.chooseAction(st)
		out, err := r.game.Attack(ctx, &game.AttackInput{Action: action})
		if err != nil {
			return StepAttack, err
		}
		if out.Exchange.Defeat {
			slog.Info("Auto-advance halted by defeat", "floor", st.Tower.Floor)
		}
		return StepAttack, nil
	}

	c := st.Character
	if c.HPMax > 0 && float64(c.HP) < float64(c.HPMax)*r.restBelow {
		_, err := r.game.Rest(ctx, &game.RestInput{})
		return StepRest, err
	}

	switch tower.PhaseOf(st.Tower) {
	case tower.PhaseMiniReady, tower.PhaseBossReady:
		_, err := r.game.ChallengeBoss(ctx, &game.ChallengeBossInput{})
		return StepChallenge, err
	case tower.PhaseCleared:
		out, err := r.game.AdvanceFloor(ctx, &game.AdvanceFloorInput{})
		if err != nil {
			return StepAdvance, err
		}
		if out.AtCap {
			slog.Info("Top floor cleared; turning auto-advance off", "floor", out.From)
			if _, err := r.game.SetAuto(ctx, &game.SetAutoInput{Enabled: false}); err != nil {
				return StepAdvance, err
			}
		}
		return StepAdvance, nil
	default:
		_, err := r.game.Explore(ctx, &game.ExploreInput{})
		return StepExplore, err
	}
}

// chooseAction spends the strongest resource available: a full execution
// gauge, then burst against bosses, then skill, then a basic attack.
func (r *Runner) chooseAction(st *entities.State) combat.Action {
	c := st.Character
	enemy := st.Battle.Enemy

	if c.ExecutionMax > 0 && c.Execution >= c.ExecutionMax {
		return combat.ActionExecute
	}
	bossFight := enemy.Class == entities.ClassMiniBoss || enemy.Class == entities.ClassBoss
	if bossFight && !st.Battle.Burst.Active && c.Resonance >= r.cfg.Burst.Cost {
		return combat.ActionBurst
	}
	if c.MP >= r.cfg.Combat.SkillCost {
		return combat.ActionSkill
	}
	return combat.ActionBasic
}
