// Package game owns the single game state and exposes every engine command and query
package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/combat"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/itemgen"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

const defaultCharacterName = "Frame"

// Service defines the engine's public operations. Commands run to completion
// one at a time; queries return copies that later commands never touch.
type Service interface {
	NewGame(ctx context.Context, input *NewGameInput) (*NewGameOutput, error)

	Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error)
	ChallengeBoss(ctx context.Context, input *ChallengeBossInput) (*ChallengeBossOutput, error)
	AdvanceFloor(ctx context.Context, input *AdvanceFloorInput) (*AdvanceFloorOutput, error)
	Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error)
	Rest(ctx context.Context, input *RestInput) (*RestOutput, error)
	SetAuto(ctx context.Context, input *SetAutoInput) (*SetAutoOutput, error)

	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)
	Enhance(ctx context.Context, input *EnhanceInput) (*EnhanceOutput, error)
	Dismantle(ctx context.Context, input *DismantleInput) (*DismantleOutput, error)
	Discard(ctx context.Context, input *DiscardInput) (*DiscardOutput, error)
	UseConsumable(ctx context.Context, input *UseConsumableInput) (*UseConsumableOutput, error)
	BuyConsumable(ctx context.Context, input *BuyConsumableInput) (*BuyConsumableOutput, error)

	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	ListSaves(ctx context.Context, input *ListSavesInput) (*ListSavesOutput, error)
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error)
	GetProgress(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error)
	GetEquipment(ctx context.Context, input *GetEquipmentInput) (*GetEquipmentOutput, error)
	GetBag(ctx context.Context, input *GetBagInput) (*GetBagOutput, error)
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	Balance  *balance.Config
	Source   chance.Source
	IDs      idgen.Generator
	EventBus events.EventBus
	Saves    saves.Repository

	// State resumes an existing game; nil starts a new one
	State *entities.State
	// Name is used for a new character
	Name string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Balance == nil {
		vb.RequiredField("Balance")
	}
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.IDs == nil {
		vb.RequiredField("IDs")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Saves == nil {
		vb.RequiredField("Saves")
	}

	return vb.Build()
}

type orchestrator struct {
	cfg      *balance.Config
	src      chance.Source
	ids      idgen.Generator
	bus      events.EventBus
	saves    saves.Repository
	resolver *combat.Resolver
	items    *itemgen.Generator
	floors   *tower.Sequencer

	mu    sync.Mutex
	state *entities.State
}

// NewOrchestrator creates a game orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	resolver, err := combat.NewResolver(&combat.Config{Source: cfg.Source, Balance: cfg.Balance})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat resolver")
	}
	items, err := itemgen.NewGenerator(&itemgen.Config{Source: cfg.Source, IDs: cfg.IDs, Balance: cfg.Balance})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create item generator")
	}
	floors, err := tower.NewSequencer(&tower.Config{Source: cfg.Source, IDs: cfg.IDs, Balance: cfg.Balance})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tower sequencer")
	}

	o := &orchestrator{
		cfg:      cfg.Balance,
		src:      cfg.Source,
		ids:      cfg.IDs,
		bus:      cfg.EventBus,
		saves:    cfg.Saves,
		resolver: resolver,
		items:    items,
		floors:   floors,
	}

	if cfg.State != nil {
		o.state = cfg.State.Clone()
		stats.Clamp(o.state.Character, o.cfg)
	} else {
		o.state = o.freshState(cfg.Name)
	}

	return o, nil
}

func (o *orchestrator) freshState(name string) *entities.State {
	if name == "" {
		name = defaultCharacterName
	}
	return &entities.State{
		Character: stats.NewCharacter(o.ids.Generate(), name, o.cfg),
		Tower:     tower.NewProgress(o.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst()},
	}
}

// mutate runs fn under the lock. A failed command restores the state it
// started from; events are published only after the lock is released.
func (o *orchestrator) mutate(ctx context.Context, op string, fn func(st *entities.State, out *outbox) error) error {
	var box outbox

	o.mu.Lock()
	backup := o.state.Clone()
	err := fn(o.state, &box)
	if err != nil {
		o.state = backup
	}
	o.mu.Unlock()

	if err != nil {
		slog.Debug("Command rejected", "op", op, "error", err)
		return err
	}

	o.publish(ctx, box.events)
	return nil
}

// read runs fn under the lock without a rollback copy
func (o *orchestrator) read(fn func(st *entities.State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.state)
}

// NewGame discards the current state and starts a fresh character
func (o *orchestrator) NewGame(ctx context.Context, input *NewGameInput) (*NewGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *NewGameOutput
	err := o.mutate(ctx, "new_game", func(st *entities.State, box *outbox) error {
		*st = *o.freshState(input.Name)
		out = &NewGameOutput{State: st.Clone()}
		box.add(EventGameStarted, st.Character, nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("New game started", "character_id", out.State.Character.ID, "name", out.State.Character.Name)
	return out, nil
}
