package game

import (
	"context"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/leveling"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// GetStats returns the character with its effective stats and maxima
func (o *orchestrator) GetStats(_ context.Context, input *GetStatsInput) (*GetStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetStatsOutput
	o.read(func(st *entities.State) {
		c := st.Character
		out = &GetStatsOutput{
			Character:     c.Clone(),
			Effective:     stats.Effective(c, o.cfg),
			Maxima:        stats.Maxima(c, o.cfg),
			NextThreshold: leveling.Threshold(c.Level, o.cfg.Leveling),
		}
	})
	return out, nil
}

// GetProgress returns the floor summary
func (o *orchestrator) GetProgress(_ context.Context, input *GetProgressInput) (*GetProgressOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetProgressOutput
	o.read(func(st *entities.State) {
		out = &GetProgressOutput{Summary: o.floors.Summarize(st.Tower)}
	})
	return out, nil
}

// GetEquipment returns the occupied slots with each item's final stats
func (o *orchestrator) GetEquipment(_ context.Context, input *GetEquipmentInput) (*GetEquipmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetEquipmentOutput
	o.read(func(st *entities.State) {
		c := st.Character
		out = &GetEquipmentOutput{
			SetPieces: stats.SetPieces(c),
			SetBonus:  stats.SetBonuses(c, o.cfg),
		}
		for _, slot := range entities.AllSlots() {
			item := c.Equipped[slot]
			if item == nil {
				continue
			}
			out.Items = append(out.Items, EquippedItem{
				Slot:  slot,
				Item:  item.Clone(),
				Final: stats.ItemFinal(item, o.cfg),
			})
		}
	})
	return out, nil
}

// GetBag returns copies of the bag contents and the currencies
func (o *orchestrator) GetBag(_ context.Context, input *GetBagInput) (*GetBagOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetBagOutput
	o.read(func(st *entities.State) {
		bag := st.Character.Bag.Clone()
		out = &GetBagOutput{
			Equipment:   bag.Equipment,
			Consumables: bag.Consumables,
			Gold:        st.Character.Gold,
			Scrap:       st.Character.Scrap,
		}
	})
	return out, nil
}

// GetBattle returns the enemy snapshot and battle flags
func (o *orchestrator) GetBattle(_ context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetBattleOutput
	o.read(func(st *entities.State) {
		b := st.Battle
		out = &GetBattleOutput{
			Enemy: b.Enemy.Clone(),
			Burst: b.Burst,
			Auto:  b.Auto,
			Turn:  b.Turn,
			Log:   append([]string(nil), b.Log...),
		}
	})
	return out, nil
}

// GetState returns a deep copy of the whole state
func (o *orchestrator) GetState(_ context.Context, input *GetStateInput) (*GetStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *GetStateOutput
	o.read(func(st *entities.State) {
		out = &GetStateOutput{State: st.Clone()}
	})
	return out, nil
}
