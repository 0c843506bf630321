// Package itemgen rolls equipment and consumable instances
package itemgen

import (
	"maps"
	"math"
	"slices"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
)

// affixOrder fixes iteration over the affix pool so scripted draws are stable
var affixOrder = []entities.AffixKind{
	entities.AffixKeen,
	entities.AffixBrutal,
	entities.AffixSturdy,
	entities.AffixVital,
	entities.AffixFocused,
	entities.AffixResonant,
	entities.AffixPrecise,
}

// Config holds the dependencies for the generator
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

// Generator produces loot and shop stock
type Generator struct {
	src chance.Source
	ids idgen.Generator
	cfg *balance.Config
}

// NewGenerator creates a generator with the provided dependencies
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Generator{
		src: cfg.Source,
		ids: cfg.IDs,
		cfg: cfg.Balance,
	}, nil
}

// Equipment rolls a new item dropped by an enemy of the given level and class.
// Draw order: slot, rarity, power, slot gates, affixes, set.
func (g *Generator) Equipment(level int, class entities.EncounterClass) *entities.Equipment {
	level = max(level, 1)

	slots := entities.AllSlots()
	slot := slots[g.src.Intn(len(slots))]
	rarity := g.Rarity(class)
	power := g.BasePower(level, rarity)

	eq := &entities.Equipment{
		ID:        g.ids.Generate(),
		Slot:      slot,
		Rarity:    rarity,
		BasePower: power,
		Base:      SlotStats(g.src, slot, power),
		Affixes:   g.affixes(rarity),
		Set:       g.set(rarity),
	}
	eq.Name = Name(eq, g.cfg)
	return eq
}

// Rarity buckets one draw against the cumulative table. Higher classes
// subtract a bias from the draw, floored at 0.
func (g *Generator) Rarity(class entities.EncounterClass) entities.Rarity {
	r := math.Max(0, g.src.Float64()-g.cfg.Items.ClassBias[class])
	for _, rarity := range entities.AllRarities() {
		if row, ok := g.cfg.Rarities[rarity]; ok && r < row.Threshold {
			return rarity
		}
	}
	return entities.RarityCommon
}

// BasePower is max(1, floor((2*level + U{0..level+4}) * rarityMult))
func (g *Generator) BasePower(level int, rarity entities.Rarity) int {
	roll := g.src.Intn(level + 5)
	mult := g.cfg.Rarities[rarity].PowerMult
	return max(1, int(math.Floor(float64(2*level+roll)*mult)))
}

func (g *Generator) affixes(rarity entities.Rarity) []entities.AffixKind {
	odds := g.cfg.Rarities[rarity].AffixOdds

	var pool []chance.Weighted[entities.AffixKind]
	for _, kind := range affixOrder {
		if w := g.cfg.Items.AffixWeights[kind]; w > 0 {
			pool = append(pool, chance.Weighted[entities.AffixKind]{Value: kind, Weight: w})
		}
	}

	var out []entities.AffixKind
	for _, p := range odds {
		if !chance.Chance(g.src, p) {
			break
		}
		kind, ok := chance.Pick(g.src, pool)
		if !ok {
			break
		}
		out = append(out, kind)
		pool = slices.DeleteFunc(pool, func(w chance.Weighted[entities.AffixKind]) bool {
			return w.Value == kind
		})
	}
	return out
}

func (g *Generator) set(rarity entities.Rarity) string {
	if rarity.Rank() < g.cfg.Items.SetMinRarity.Rank() || len(g.cfg.Sets) == 0 {
		return ""
	}
	if !chance.Chance(g.src, g.cfg.Items.SetChance) {
		return ""
	}
	ids := slices.Sorted(maps.Keys(g.cfg.Sets))
	return ids[g.src.Intn(len(ids))]
}

// Consumable rolls a consumable kind from the weighted table.
// Returns nil when no kind is stocked.
func (g *Generator) Consumable(level int) *entities.Consumable {
	var table []chance.Weighted[entities.ConsumableKind]
	for _, kind := range entities.AllConsumableKinds() {
		if row, ok := g.cfg.Consumables[kind]; ok {
			table = append(table, chance.Weighted[entities.ConsumableKind]{Value: kind, Weight: row.Weight})
		}
	}

	kind, ok := chance.Pick(g.src, table)
	if !ok {
		return nil
	}
	return g.consumable(level, kind, g.cfg.Consumables[kind])
}

// ConsumableOfKind builds a consumable of a fixed kind, used by the shop
func (g *Generator) ConsumableOfKind(level int, kind entities.ConsumableKind) (*entities.Consumable, error) {
	if !kind.IsValid() {
		return nil, errors.InvalidArgumentf("unknown consumable kind %q", kind)
	}
	row, ok := g.cfg.Consumables[kind]
	if !ok {
		return nil, errors.InvalidArgumentf("consumable kind %q is not stocked", kind)
	}
	return g.consumable(level, kind, row), nil
}

func (g *Generator) consumable(level int, kind entities.ConsumableKind, row balance.ConsumableConfig) *entities.Consumable {
	growth := max(level, 1) - 1
	amount := math.Floor(float64(row.BaseAmount) * (1 + row.AmountPerLevel*float64(growth)))

	return &entities.Consumable{
		ID:     g.ids.Generate(),
		Name:   row.Name,
		Kind:   kind,
		Amount: max(1, int(amount)),
		Price:  row.BasePrice + row.PricePerLevel*growth,
	}
}
