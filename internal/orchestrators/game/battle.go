package game

import (
	"context"
	"log/slog"
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/leveling"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

func requireNoEnemy(st *entities.State) error {
	if st.Battle.Enemy != nil {
		return errors.FailedPreconditionf("already fighting %s", st.Battle.Enemy.Name).
			WithMeta("enemy_id", st.Battle.Enemy.ID)
	}
	return nil
}

// startBattle puts a fresh enemy in the battle slot
func startBattle(st *entities.State, enemy *entities.Enemy) {
	st.Battle.Enemy = enemy
	st.Battle.Turn = 0
	st.Battle.Log = nil
}

// Explore searches the floor for a fight or an event
func (o *orchestrator) Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *ExploreOutput
	err := o.mutate(ctx, "explore", func(st *entities.State, box *outbox) error {
		if err := requireNoEnemy(st); err != nil {
			return err
		}
		stats.Clamp(st.Character, o.cfg)

		res, err := o.floors.Explore(st.Character, &st.Tower)
		if err != nil {
			return err
		}

		out = &ExploreOutput{Event: res.Event}
		if res.Event != nil {
			box.add(EventFloorEvent, st.Character.Clone(), nil, map[string]any{
				"event":   string(res.Event.Event),
				"message": res.Event.Message,
			})
		}
		if res.Enemy != nil {
			startBattle(st, res.Enemy)
			out.Enemy = res.Enemy.Clone()
			box.add(EventEncounterFound, st.Character.Clone(), res.Enemy.Clone(), map[string]any{
				"class": string(res.Enemy.Class),
				"floor": st.Tower.Floor,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ChallengeBoss starts the mini-boss or boss fight the floor is ready for
func (o *orchestrator) ChallengeBoss(ctx context.Context, input *ChallengeBossInput) (*ChallengeBossOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *ChallengeBossOutput
	err := o.mutate(ctx, "challenge_boss", func(st *entities.State, box *outbox) error {
		if err := requireNoEnemy(st); err != nil {
			return err
		}

		enemy, err := o.floors.Challenge(&st.Tower)
		if err != nil {
			return err
		}
		stats.Clamp(st.Character, o.cfg)
		startBattle(st, enemy)

		out = &ChallengeBossOutput{Enemy: enemy.Clone()}
		box.add(EventEncounterFound, st.Character.Clone(), enemy.Clone(), map[string]any{
			"class": string(enemy.Class),
			"floor": st.Tower.Floor,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// AdvanceFloor climbs once the floor boss is down
func (o *orchestrator) AdvanceFloor(ctx context.Context, input *AdvanceFloorInput) (*AdvanceFloorOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *AdvanceFloorOutput
	err := o.mutate(ctx, "advance_floor", func(st *entities.State, box *outbox) error {
		if err := requireNoEnemy(st); err != nil {
			return err
		}

		res, err := o.floors.Advance(ctx, &st.Tower)
		if err != nil {
			return err
		}

		out = &AdvanceFloorOutput{From: res.From, To: res.To, AtCap: res.AtCap}
		if !res.AtCap {
			box.add(EventFloorAdvanced, st.Character.Clone(), nil, map[string]any{
				"from": res.From,
				"to":   res.To,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.AtCap {
		slog.Info("Advance requested at the top floor", "floor", out.From)
	}
	return out, nil
}

// Attack resolves one exchange and pays out a victory
func (o *orchestrator) Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *AttackOutput
	err := o.mutate(ctx, "attack", func(st *entities.State, box *outbox) error {
		target := st.Battle.Enemy.Clone()

		ex, err := o.resolver.Resolve(st, input.Action)
		if err != nil {
			return err
		}

		out = &AttackOutput{Exchange: ex}
		data := map[string]any{
			"action":       string(ex.Action),
			"hit":          ex.Hit,
			"crit":         ex.Crit,
			"damage_dealt": ex.DamageDealt,
			"damage_taken": ex.DamageTaken,
		}
		if target != nil {
			box.add(EventExchange, st.Character.Clone(), target, data)
		}

		switch {
		case ex.Victory:
			victory, err := o.claimVictory(ctx, st, ex.Enemy, box)
			if err != nil {
				return err
			}
			out.Victory = victory
		case ex.Defeat:
			box.add(EventDefeat, st.Character.Clone(), target, map[string]any{
				"gold_lost": ex.GoldLost,
				"floor":     st.Tower.Floor,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// claimVictory credits the reward, rolls the drops and records the win with the sequencer
func (o *orchestrator) claimVictory(ctx context.Context, st *entities.State, enemy *entities.Enemy, box *outbox) (*VictoryResult, error) {
	c := st.Character
	reward := leveling.Rewards(enemy, o.cfg)

	c.Gold += reward.Gold
	c.Scrap += reward.Scrap
	before := c.Level
	gained := leveling.Grant(c, reward.Exp, o.cfg)

	res := &VictoryResult{
		Enemy:        enemy.Clone(),
		Reward:       reward,
		LevelsGained: gained,
		Level:        c.Level,
	}

	if chance.Chance(o.src, reward.EquipmentChance) {
		eq := o.items.Equipment(enemy.Level, enemy.Class)
		c.Bag.AddEquipment(eq)
		res.Equipment = eq.Clone()
		box.add(EventLoot, c.Clone(), nil, map[string]any{
			"item_id": eq.ID,
			"rarity":  string(eq.Rarity),
			"slot":    string(eq.Slot),
		})
	}
	if chance.Chance(o.src, reward.ConsumableChance) {
		if item := o.items.Consumable(enemy.Level); item != nil {
			c.Bag.AddConsumable(item)
			cp := *item
			res.Consumable = &cp
		}
	}

	if err := o.floors.RecordVictory(ctx, &st.Tower, enemy.Class); err != nil {
		return nil, err
	}
	res.Phase = tower.PhaseOf(st.Tower)

	box.add(EventVictory, c.Clone(), enemy.Clone(), map[string]any{
		"class": string(enemy.Class),
		"exp":   reward.Exp,
		"gold":  reward.Gold,
		"scrap": reward.Scrap,
	})
	if gained > 0 {
		box.add(EventLevelUp, c.Clone(), nil, map[string]any{
			"from": before,
			"to":   c.Level,
		})
		slog.Info("Level up", "character_id", c.ID, "from", before, "to", c.Level)
	}

	return res, nil
}

// Rest recovers part of HP and MP and a little resonance between fights
func (o *orchestrator) Rest(ctx context.Context, input *RestInput) (*RestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *RestOutput
	err := o.mutate(ctx, "rest", func(st *entities.State, _ *outbox) error {
		if err := requireNoEnemy(st); err != nil {
			return err
		}

		c := st.Character
		stats.Clamp(c, o.cfg)
		r := o.cfg.Rest

		hp := min(c.HPMax-c.HP, int(math.Floor(float64(c.HPMax)*r.HPFraction+1e-9)))
		mp := min(c.MPMax-c.MP, int(math.Floor(float64(c.MPMax)*r.MPFraction+1e-9)))
		res := min(c.ResonanceMax-c.Resonance, r.Resonance)

		c.HP += hp
		c.MP += mp
		c.Resonance += res

		out = &RestOutput{HP: hp, MP: mp, Resonance: res}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SetAuto toggles the auto-advance flag read by the autoplay loop
func (o *orchestrator) SetAuto(ctx context.Context, input *SetAutoInput) (*SetAutoOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	err := o.mutate(ctx, "set_auto", func(st *entities.State, _ *outbox) error {
		st.Battle.Auto = input.Enabled
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SetAutoOutput{Enabled: input.Enabled}, nil
}
