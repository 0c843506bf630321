// Package tower sequences encounters on a floor: normals, at most one
// preempting elite, the mini-boss, then the boss that unlocks the next floor.
package tower

import (
	"context"
	"fmt"
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
)

// Config holds the dependencies for the sequencer
type Config struct {
	Source  chance.Source
	IDs     idgen.Generator
	Balance *balance.Config
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.IDs == nil {
		vb.RequiredField("IDs")
	}
	if c.Balance == nil {
		vb.RequiredField("Balance")
	}

	return vb.Build()
}

// Sequencer decides what the player may fight next
type Sequencer struct {
	src chance.Source
	ids idgen.Generator
	cfg *balance.Config
}

// NewSequencer creates a sequencer with the provided dependencies
func NewSequencer(cfg *Config) (*Sequencer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Sequencer{
		src: cfg.Source,
		ids: cfg.IDs,
		cfg: cfg.Balance,
	}, nil
}

// NewProgress returns the state of a fresh run on floor 1
func NewProgress(cfg *balance.Config) entities.FloorProgress {
	return entities.FloorProgress{
		Floor:           1,
		MaxFloor:        cfg.Tower.MaxFloor,
		HighestFloor:    1,
		NormalsRequired: cfg.Tower.NormalsRequired,
	}
}

// NextEncounter spawns the next NORMAL-phase fight. Once per floor, after at
// least one normal is down, an elite may take the slot instead.
func (s *Sequencer) NextEncounter(p *entities.FloorProgress) (*entities.Enemy, error) {
	if phase := PhaseOf(*p); phase != PhaseNormal {
		return nil, errors.FailedPreconditionf("no normal encounters left on floor %d (%s)", p.Floor, phase)
	}

	if !p.EliteSpawned && p.NormalsDefeated >= 1 && chance.Chance(s.src, s.cfg.Tower.EliteChance) {
		p.EliteSpawned = true
		return s.SpawnEnemy(p.Floor, entities.ClassElite), nil
	}
	return s.SpawnEnemy(p.Floor, entities.ClassNormal), nil
}

// Challenge spawns the mini-boss or boss, whichever the phase allows
func (s *Sequencer) Challenge(p *entities.FloorProgress) (*entities.Enemy, error) {
	switch phase := PhaseOf(*p); phase {
	case PhaseMiniReady:
		return s.SpawnEnemy(p.Floor, entities.ClassMiniBoss), nil
	case PhaseBossReady:
		return s.SpawnEnemy(p.Floor, entities.ClassBoss), nil
	case PhaseCleared:
		return nil, errors.FailedPreconditionf("floor %d boss already defeated", p.Floor)
	default:
		return nil, errors.FailedPreconditionf("%d normal encounters remain on floor %d", p.NormalsRemaining(), p.Floor).
			WithMeta("normals_remaining", p.NormalsRemaining())
	}
}

// RecordVictory updates the counters for a defeated enemy class and moves
// the phase machine when a threshold is crossed.
func (s *Sequencer) RecordVictory(ctx context.Context, p *entities.FloorProgress, class entities.EncounterClass) error {
	machine := newMachine(p)

	switch class {
	case entities.ClassNormal:
		p.NormalsDefeated = min(p.NormalsDefeated+1, p.NormalsRequired)
	case entities.ClassElite:
		p.EliteSpawned = true
		p.EliteDone = true
	case entities.ClassMiniBoss:
		p.MiniBossDone = true
	case entities.ClassBoss:
		p.BossDone = true
	default:
		return errors.InvalidArgumentf("unknown encounter class %q", class)
	}

	target := PhaseOf(*p)
	if target == Phase(machine.Current()) {
		return nil
	}
	if err := machine.Event(ctx, transitionFor[target]); err != nil {
		return errors.Wrapf(err, "floor %d phase %s cannot reach %s", p.Floor, machine.Current(), target)
	}
	return nil
}

// AdvanceResult reports a floor advance
type AdvanceResult struct {
	From  int
	To    int
	AtCap bool
}

// Advance moves to the next floor. Only a cleared floor may advance; at the
// top floor the request is a no-op reported as AtCap.
func (s *Sequencer) Advance(ctx context.Context, p *entities.FloorProgress) (*AdvanceResult, error) {
	machine := newMachine(p)
	if !machine.Can(EventAdvance) {
		return nil, errors.FailedPreconditionf("floor %d boss has not been defeated", p.Floor)
	}

	result := &AdvanceResult{From: p.Floor, To: p.Floor}
	if p.Floor >= p.MaxFloor {
		result.AtCap = true
		return result, nil
	}

	if err := machine.Event(ctx, EventAdvance); err != nil {
		return nil, errors.Wrapf(err, "advancing from floor %d", p.Floor)
	}
	result.To = p.Floor
	return result, nil
}

// EnemyLevel is 2*floor - 1 plus the class offset
func (s *Sequencer) EnemyLevel(floor int, class entities.EncounterClass) int {
	return max(1, 2*floor-1+s.cfg.Enemies.Classes[class].LevelOffset)
}

// SpawnEnemy instantiates an enemy template for the floor and class
func (s *Sequencer) SpawnEnemy(floor int, class entities.EncounterClass) *entities.Enemy {
	e := s.cfg.Enemies
	scaling := e.Classes[class]
	level := s.EnemyLevel(floor, class)

	scale := func(base, perLevel int, mult float64) int {
		if mult <= 0 {
			mult = 1
		}
		return max(1, int(math.Floor(float64(base+perLevel*level)*mult+1e-9)))
	}

	name := string(class)
	if names := e.Names[class]; len(names) > 0 {
		name = names[s.src.Intn(len(names))]
	}

	hp := scale(e.BaseHP, e.HPPerLevel, scaling.HPMult)
	return &entities.Enemy{
		ID:      s.ids.Generate(),
		Name:    name,
		Class:   class,
		Level:   level,
		HP:      hp,
		HPMax:   hp,
		Attack:  scale(e.BaseAttack, e.AttackPerLevel, scaling.AttackMult),
		Defense: scale(e.BaseDefense, e.DefensePerLevel, scaling.DefenseMult),
	}
}

// Hint is the one-line next-encounter hint
func (s *Sequencer) Hint(p entities.FloorProgress) string {
	switch PhaseOf(p) {
	case PhaseNormal:
		return fmt.Sprintf("%d encounters until the mini-boss", p.NormalsRemaining())
	case PhaseMiniReady:
		return "the mini-boss is waiting"
	case PhaseBossReady:
		return "the floor boss is waiting"
	default:
		if p.Floor >= p.MaxFloor {
			return "the top floor is cleared"
		}
		return fmt.Sprintf("floor %d cleared; advance to floor %d", p.Floor, p.Floor+1)
	}
}

// Summary is the floor progress query result
type Summary struct {
	Floor           int    `json:"floor"`
	MaxFloor        int    `json:"max_floor"`
	HighestFloor    int    `json:"highest_floor"`
	Phase           Phase  `json:"phase"`
	NormalsDefeated int    `json:"normals_defeated"`
	NormalsRequired int    `json:"normals_required"`
	EliteSpawned    bool   `json:"elite_spawned"`
	EliteDone       bool   `json:"elite_done"`
	MiniBossDone    bool   `json:"mini_boss_done"`
	BossDone        bool   `json:"boss_done"`
	CanAdvance      bool   `json:"can_advance"`
	AtCap           bool   `json:"at_cap"`
	Hint            string `json:"hint"`
}

// Summarize builds the progress summary
func (s *Sequencer) Summarize(p entities.FloorProgress) Summary {
	phase := PhaseOf(p)
	atCap := p.Floor >= p.MaxFloor
	return Summary{
		Floor:           p.Floor,
		MaxFloor:        p.MaxFloor,
		HighestFloor:    p.HighestFloor,
		Phase:           phase,
		NormalsDefeated: p.NormalsDefeated,
		NormalsRequired: p.NormalsRequired,
		EliteSpawned:    p.EliteSpawned,
		EliteDone:       p.EliteDone,
		MiniBossDone:    p.MiniBossDone,
		BossDone:        p.BossDone,
		CanAdvance:      phase == PhaseCleared && !atCap,
		AtCap:           atCap,
		Hint:            s.Hint(p),
	}
}
