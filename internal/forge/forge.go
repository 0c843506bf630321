// Package forge enhances equipment and recycles it into scrap.
// Both directions are one-way: there is no refund and no downgrade.
package forge

import (
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// Price is what one enhancement step costs
type Price struct {
	Gold  int `json:"gold"`
	Scrap int `json:"scrap"`
}

// EnhanceResult describes a successful enhancement
type EnhanceResult struct {
	Item     *entities.Equipment
	Paid     Price
	Equipped bool
}

// Cost prices the next enhancement step of eq. Strictly increasing in the
// current enhancement level and in base power.
func Cost(eq *entities.Equipment, cfg *balance.Config) Price {
	e := cfg.Enhancement
	step := eq.Enhancement + 1
	rarityCost := cfg.Rarities[eq.Rarity].EnhanceCost
	if rarityCost <= 0 {
		rarityCost = 1
	}

	gold := float64((e.GoldBase+e.GoldPerPower*eq.BasePower)*step) * rarityCost
	scrap := step * (e.ScrapBase + eq.BasePower/max(e.ScrapPowerDivisor, 1))

	return Price{
		Gold:  int(math.Floor(gold + 1e-9)),
		Scrap: scrap,
	}
}

// Enhance raises an owned item by one level, paying gold and scrap.
// Items may be enhanced in the bag or while equipped; equipped items
// trigger a maxima recompute.
func Enhance(c *entities.Character, itemID string, cfg *balance.Config) (*EnhanceResult, error) {
	eq, ok := c.FindOwned(itemID)
	if !ok {
		return nil, errors.InvalidReferencef("item %s is not owned", itemID)
	}
	if eq.Enhancement >= cfg.Enhancement.MaxLevel {
		return nil, errors.MaxLevelReachedf("%s is already +%d", eq.Name, eq.Enhancement).
			WithMeta("item_id", itemID)
	}

	price := Cost(eq, cfg)
	if c.Gold < price.Gold || c.Scrap < price.Scrap {
		return nil, errors.InsufficientFundsf("enhancing %s needs %d gold and %d scrap", eq.Name, price.Gold, price.Scrap).
			WithMeta("gold_needed", price.Gold).
			WithMeta("scrap_needed", price.Scrap)
	}

	c.Gold -= price.Gold
	c.Scrap -= price.Scrap
	eq.Enhancement++

	_, _, equipped := c.FindEquipped(itemID)
	if equipped {
		stats.Clamp(c, cfg)
	}

	return &EnhanceResult{
		Item:     eq,
		Paid:     price,
		Equipped: equipped,
	}, nil
}

// DismantleYield is rarity yield + floor(power/10) + 2*enhancement
func DismantleYield(eq *entities.Equipment, cfg *balance.Config) int {
	return cfg.Rarities[eq.Rarity].DismantleYield + eq.BasePower/10 + 2*eq.Enhancement
}

// Dismantle destroys a bag item and credits its scrap yield.
// Equipped items must be unequipped first.
func Dismantle(c *entities.Character, itemID string, cfg *balance.Config) (int, error) {
	eq, err := takeFromBag(c, itemID)
	if err != nil {
		return 0, err
	}

	yield := DismantleYield(eq, cfg)
	c.Scrap += yield
	return yield, nil
}

// Discard destroys a bag item with no yield
func Discard(c *entities.Character, itemID string) (*entities.Equipment, error) {
	return takeFromBag(c, itemID)
}

func takeFromBag(c *entities.Character, itemID string) (*entities.Equipment, error) {
	if _, slot, ok := c.FindEquipped(itemID); ok {
		return nil, errors.FailedPreconditionf("item %s is equipped in %s; unequip it first", itemID, slot)
	}
	eq, ok := c.Bag.RemoveEquipment(itemID)
	if !ok {
		return nil, errors.InvalidReferencef("item %s is not in the bag", itemID)
	}
	return eq, nil
}
