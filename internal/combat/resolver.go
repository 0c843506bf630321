// Package combat resolves one attack exchange between the character and the
// current enemy. An exchange is PLAYER_ACT followed by ENEMY_ACT; the enemy
// is skipped when the player's action defeats it.
package combat

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// Action is a player action kind
type Action string

// Player actions
const (
	ActionBasic   Action = "basic"
	ActionSkill   Action = "skill"
	ActionBurst   Action = "burst"
	ActionExecute Action = "execute"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionBasic, ActionSkill, ActionBurst, ActionExecute:
		return true
	default:
		return false
	}
}

// Exchange is everything one Resolve call changed
type Exchange struct {
	Action Action

	Hit         bool
	Crit        bool
	DamageDealt int

	EnemyActed  bool
	DamageTaken int

	BurstActivated bool
	BurstExpired   bool

	// Victory carries the defeated enemy; the battle slot is already empty
	Victory bool
	Enemy   *entities.Enemy

	Defeat   bool
	GoldLost int

	Log []string
}

// Config holds the dependencies for the resolver
type Config struct {
	Source  chance.Source
	Balance *balance.Config
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.Balance == nil {
		vb.RequiredField("Balance")
	}

	return vb.Build()
}

// Resolver runs combat exchanges
type Resolver struct {
	src chance.Source
	cfg *balance.Config
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		src: cfg.Source,
		cfg: cfg.Balance,
	}, nil
}

// Resolve runs one exchange. Failed preconditions leave the state untouched.
func (r *Resolver) Resolve(state *entities.State, action Action) (*Exchange, error) {
	if !action.IsValid() {
		return nil, errors.InvalidArgumentf("unknown action %q", action)
	}
	enemy := state.Battle.Enemy
	if enemy == nil {
		return nil, errors.FailedPrecondition("no enemy present")
	}

	c := state.Character
	stats.Clamp(c, r.cfg)
	if err := r.checkCost(state, action); err != nil {
		return nil, err
	}

	ex := &Exchange{Action: action}
	state.Battle.Turn++
	burstWasActive := state.Battle.Burst.Active

	r.playerAct(state, ex)

	if enemy.HP == 0 {
		ex.Victory = true
		ex.Enemy = enemy.Clone()
		state.Battle.Enemy = nil
		r.log(state, ex, fmt.Sprintf("%s is destroyed", enemy.Name))
		return ex, nil
	}

	if burstWasActive && action != ActionBurst {
		if Tick(&state.Battle.Burst) {
			ex.BurstExpired = true
			r.log(state, ex, "burst fades")
		}
	}

	r.enemyAct(state, ex)
	return ex, nil
}

func (r *Resolver) checkCost(state *entities.State, action Action) error {
	c := state.Character
	switch action {
	case ActionSkill:
		if c.MP < r.cfg.Combat.SkillCost {
			return errors.FailedPreconditionf("skill needs %d MP, have %d", r.cfg.Combat.SkillCost, c.MP)
		}
	case ActionBurst:
		if state.Battle.Burst.Active {
			return errors.FailedPrecondition("burst is already active")
		}
		if c.Resonance < r.cfg.Burst.Cost {
			return errors.FailedPreconditionf("burst needs %d resonance, have %d", r.cfg.Burst.Cost, c.Resonance)
		}
	case ActionExecute:
		if c.Execution < c.ExecutionMax {
			return errors.FailedPreconditionf("execution gauge at %d/%d", c.Execution, c.ExecutionMax)
		}
	}
	return nil
}

func (r *Resolver) playerAct(state *entities.State, ex *Exchange) {
	c := state.Character
	enemy := state.Battle.Enemy
	cb := r.cfg.Combat
	eff := stats.Effective(c, r.cfg)

	switch ex.Action {
	case ActionBurst:
		c.Resonance -= r.cfg.Burst.Cost
		Activate(&state.Battle.Burst, r.cfg.Burst)
		ex.BurstActivated = true
		r.log(state, ex, fmt.Sprintf("burst engaged for %d turns", r.cfg.Burst.Turns))
		return

	case ActionExecute:
		c.Execution = 0
		ex.Hit = true
		mult := cb.ExecuteMultiplier * attackMult(state.Battle.Burst)
		ex.DamageDealt = Damage(eff.Attack, mult, enemy.Defense)

	case ActionBasic, ActionSkill:
		mult := 1.0
		if ex.Action == ActionSkill {
			c.MP -= cb.SkillCost
			mult = cb.SkillMultiplier
		}
		c.Execution = min(c.ExecutionMax, c.Execution+cb.ExecutionPerAction)

		ex.Hit = chance.Chance(r.src, eff.Hit)
		if !ex.Hit {
			r.log(state, ex, fmt.Sprintf("%s misses", ex.Action))
			return
		}
		ex.Crit = chance.Chance(r.src, eff.Crit)
		if ex.Crit {
			mult *= cb.CritMultiplier
		}
		mult *= attackMult(state.Battle.Burst)
		ex.DamageDealt = Damage(eff.Attack, mult, enemy.Defense)
	}

	enemy.HP = max(0, enemy.HP-ex.DamageDealt)
	c.Resonance = min(c.ResonanceMax, c.Resonance+cb.ResonancePerHit)

	line := fmt.Sprintf("%s hits %s for %d", ex.Action, enemy.Name, ex.DamageDealt)
	if ex.Crit {
		line += " (critical)"
	}
	r.log(state, ex, line)
}

func (r *Resolver) enemyAct(state *entities.State, ex *Exchange) {
	c := state.Character
	enemy := state.Battle.Enemy
	cb := r.cfg.Combat
	eff := stats.Effective(c, r.cfg)

	variance := chance.Between(r.src, cb.EnemyVarianceMin, cb.EnemyVarianceMax)
	dmg := Damage(enemy.Attack, variance, eff.Defense)
	if mult := incomingMult(state.Battle.Burst); mult != 1 {
		dmg = max(1, int(math.Floor(float64(dmg)*mult)))
	}

	ex.EnemyActed = true
	ex.DamageTaken = dmg
	c.HP = max(0, c.HP-dmg)
	r.log(state, ex, fmt.Sprintf("%s hits back for %d", enemy.Name, dmg))

	if c.HP == 0 {
		r.defeat(state, ex)
	}
}

// defeat is a soft reset, never a terminal state
func (r *Resolver) defeat(state *entities.State, ex *Exchange) {
	c := state.Character
	cb := r.cfg.Combat

	c.HP = max(1, int(math.Floor(float64(c.HPMax)*cb.DefeatHPFraction+1e-9)))
	ex.GoldLost = min(c.Gold, cb.DefeatGoldPenalty)
	c.Gold -= ex.GoldLost

	Clear(&state.Battle.Burst)
	state.Battle.Auto = false
	state.Battle.Enemy = nil

	ex.Defeat = true
	r.log(state, ex, fmt.Sprintf("frame down; recovered at %d HP, lost %d gold", c.HP, ex.GoldLost))
	slog.Info("character defeated",
		"character_id", c.ID,
		"hp", c.HP,
		"gold_lost", ex.GoldLost)
}

func (r *Resolver) log(state *entities.State, ex *Exchange, line string) {
	ex.Log = append(ex.Log, line)
	state.Battle.AppendLog(line, r.cfg.Combat.LogSize)
}

// Damage is max(1, floor(attack*mult) - defense)
func Damage(attack int, mult float64, defense int) int {
	raw := int(math.Floor(float64(attack)*mult + 1e-9))
	return max(1, raw-defense)
}
