package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/forge"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// Equip moves a bag item into its own slot; an occupied slot swaps back to the bag
func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *EquipOutput
	err := o.mutate(ctx, "equip", func(st *entities.State, _ *outbox) error {
		c := st.Character

		item, ok := c.Bag.FindEquipment(input.ItemID)
		if !ok {
			if _, slot, equipped := c.FindEquipped(input.ItemID); equipped {
				return errors.FailedPreconditionf("item %s is already equipped in %s", input.ItemID, slot).
					WithMeta("item_id", input.ItemID)
			}
			return errors.InvalidReferencef("item %s is not in the bag", input.ItemID).
				WithMeta("item_id", input.ItemID)
		}
		if !item.Slot.IsValid() {
			return errors.InvalidArgumentf("item %s has no usable slot", input.ItemID)
		}

		c.Bag.RemoveEquipment(item.ID)
		replaced := c.Equipped[item.Slot]
		if replaced != nil {
			c.Bag.AddEquipment(replaced)
		}
		if c.Equipped == nil {
			c.Equipped = make(map[entities.Slot]*entities.Equipment)
		}
		c.Equipped[item.Slot] = item

		out = &EquipOutput{
			Slot:     item.Slot,
			Equipped: item.Clone(),
			Replaced: replaced.Clone(),
			Maxima:   stats.Clamp(c, o.cfg),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Unequip moves the item in a slot back to the bag
func (o *orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Slot.IsValid() {
		return nil, errors.InvalidArgumentf("unknown slot %q", input.Slot)
	}

	var out *UnequipOutput
	err := o.mutate(ctx, "unequip", func(st *entities.State, _ *outbox) error {
		c := st.Character

		item := c.Equipped[input.Slot]
		if item == nil {
			return errors.FailedPreconditionf("slot %s is empty", input.Slot)
		}
		delete(c.Equipped, input.Slot)
		c.Bag.AddEquipment(item)

		out = &UnequipOutput{
			Item:   item.Clone(),
			Maxima: stats.Clamp(c, o.cfg),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Enhance raises an owned item's enhancement level by one
func (o *orchestrator) Enhance(ctx context.Context, input *EnhanceInput) (*EnhanceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *EnhanceOutput
	err := o.mutate(ctx, "enhance", func(st *entities.State, box *outbox) error {
		res, err := forge.Enhance(st.Character, input.ItemID, o.cfg)
		if err != nil {
			return err
		}

		out = &EnhanceOutput{
			Item:     res.Item.Clone(),
			Gold:     res.Paid.Gold,
			Scrap:    res.Paid.Scrap,
			Equipped: res.Equipped,
			Final:    stats.ItemFinal(res.Item, o.cfg),
		}
		box.add(EventItemEnhanced, st.Character.Clone(), nil, map[string]any{
			"item_id":     res.Item.ID,
			"enhancement": res.Item.Enhancement,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Dismantle turns a bag item into scrap
func (o *orchestrator) Dismantle(ctx context.Context, input *DismantleInput) (*DismantleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *DismantleOutput
	err := o.mutate(ctx, "dismantle", func(st *entities.State, box *outbox) error {
		yield, err := forge.Dismantle(st.Character, input.ItemID, o.cfg)
		if err != nil {
			return err
		}

		out = &DismantleOutput{Scrap: yield, TotalScrap: st.Character.Scrap}
		box.add(EventItemDismantled, st.Character.Clone(), nil, map[string]any{
			"item_id": input.ItemID,
			"scrap":   yield,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Discard throws a bag item away for nothing
func (o *orchestrator) Discard(ctx context.Context, input *DiscardInput) (*DiscardOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *DiscardOutput
	err := o.mutate(ctx, "discard", func(st *entities.State, _ *outbox) error {
		item, err := forge.Discard(st.Character, input.ItemID)
		if err != nil {
			return err
		}
		out = &DiscardOutput{Item: item}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// UseConsumable applies a consumable and removes it from the bag. Using one
// on a resource that is already full is rejected so it is not wasted.
func (o *orchestrator) UseConsumable(ctx context.Context, input *UseConsumableInput) (*UseConsumableOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *UseConsumableOutput
	err := o.mutate(ctx, "use_consumable", func(st *entities.State, _ *outbox) error {
		c := st.Character
		item, ok := c.Bag.FindConsumable(input.ItemID)
		if !ok {
			return errors.InvalidReferencef("consumable %s is not in the bag", input.ItemID).
				WithMeta("item_id", input.ItemID)
		}

		stats.Clamp(c, o.cfg)

		var cur *int
		limit := 0
		switch item.Kind {
		case entities.ConsumableRepairKit:
			cur, limit = &c.HP, c.HPMax
		case entities.ConsumableEnergyCell:
			cur, limit = &c.MP, c.MPMax
		case entities.ConsumableResonanceCore:
			cur, limit = &c.Resonance, c.ResonanceMax
		case entities.ConsumableOverclockChip:
			cur, limit = &c.Execution, c.ExecutionMax
		default:
			return errors.InvalidArgumentf("consumable %s has unknown kind %q", item.ID, item.Kind)
		}

		if *cur >= limit {
			return errors.FailedPreconditionf("%s would have no effect", item.Name).
				WithMeta("kind", string(item.Kind))
		}

		restored := min(item.Amount, limit-*cur)
		*cur += restored
		c.Bag.RemoveConsumable(item.ID)

		out = &UseConsumableOutput{Kind: item.Kind, Restored: restored}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// BuyConsumable buys one consumable of a kind at the character's level
func (o *orchestrator) BuyConsumable(ctx context.Context, input *BuyConsumableInput) (*BuyConsumableOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *BuyConsumableOutput
	err := o.mutate(ctx, "buy_consumable", func(st *entities.State, _ *outbox) error {
		c := st.Character

		item, err := o.items.ConsumableOfKind(c.Level, input.Kind)
		if err != nil {
			return err
		}
		if c.Gold < item.Price {
			return errors.InsufficientFundsf("%s costs %d gold, have %d", item.Name, item.Price, c.Gold).
				WithMeta("gold_needed", item.Price)
		}

		c.Gold -= item.Price
		c.Bag.AddConsumable(item)

		cp := *item
		out = &BuyConsumableOutput{Item: &cp, Gold: c.Gold}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Consumable bought", "kind", input.Kind, "price", out.Item.Price)
	return out, nil
}
