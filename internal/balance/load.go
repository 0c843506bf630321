package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
)

// Load overlays a YAML file on the defaults.
// If the file doesn't exist, returns defaults. Map entries in the file replace
// whole rows; scalar fields override individually.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading balance %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, fmt.Sprintf("parsing balance %s", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "balance %s", path)
	}

	return cfg, nil
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal balance")
	}
	return out, nil
}

// Validate rejects tables the engine cannot run with
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	ch := c.Character
	errors.ValidatePositive("character.base_hp", ch.BaseHP, vb)
	errors.ValidatePositive("character.base_mp", ch.BaseMP, vb)
	errors.ValidatePositive("character.base_resonance", ch.BaseResonance, vb)
	errors.ValidatePositive("character.execution_max", ch.ExecutionMax, vb)
	errors.ValidateProbability("character.crit_min", ch.CritMin, vb)
	errors.ValidateProbability("character.crit_max", ch.CritMax, vb)
	errors.ValidateProbability("character.hit_min", ch.HitMin, vb)
	errors.ValidateProbability("character.hit_max", ch.HitMax, vb)
	if ch.CritMin > ch.CritMax {
		vb.Field("character.crit_min", "must not exceed crit_max")
	}
	if ch.HitMin > ch.HitMax {
		vb.Field("character.hit_min", "must not exceed hit_max")
	}

	cb := c.Combat
	if cb.SkillMultiplier <= 1 {
		vb.Field("combat.skill_multiplier", "must be greater than 1")
	}
	if cb.CritMultiplier < 1 {
		vb.Field("combat.crit_multiplier", "must be at least 1")
	}
	if cb.EnemyVarianceMin <= 0 || cb.EnemyVarianceMin > cb.EnemyVarianceMax {
		vb.Field("combat.enemy_variance_min", "must be positive and not exceed enemy_variance_max")
	}
	errors.ValidateProbability("combat.defeat_hp_fraction", cb.DefeatHPFraction, vb)

	b := c.Burst
	errors.ValidatePositive("burst.cost", b.Cost, vb)
	errors.ValidatePositive("burst.turns", b.Turns, vb)
	if b.AttackMult <= 1 {
		vb.Field("burst.attack_mult", "must be greater than 1")
	}
	if b.IncomingMult <= 0 || b.IncomingMult >= 1 {
		vb.Field("burst.incoming_mult", "must be between 0 and 1")
	}

	for _, class := range entities.AllEncounterClasses() {
		reward, ok := c.Rewards.Classes[class]
		if !ok {
			vb.Fieldf("rewards.classes", "missing %s", class)
		} else {
			errors.ValidateProbability(fmt.Sprintf("rewards.classes.%s.equipment_chance", class), reward.EquipmentChance, vb)
			errors.ValidateProbability(fmt.Sprintf("rewards.classes.%s.consumable_chance", class), reward.ConsumableChance, vb)
		}
		if _, ok := c.Enemies.Classes[class]; !ok {
			vb.Fieldf("enemies.classes", "missing %s", class)
		}
		if len(c.Enemies.Names[class]) == 0 {
			vb.Fieldf("enemies.names", "missing %s", class)
		}
	}

	t := c.Tower
	errors.ValidatePositive("tower.max_floor", t.MaxFloor, vb)
	errors.ValidatePositive("tower.normals_required", t.NormalsRequired, vb)
	errors.ValidateProbability("tower.elite_chance", t.EliteChance, vb)
	errors.ValidateProbability("tower.event_chance", t.EventChance, vb)
	errors.ValidateProbability("tower.supply_fraction", t.SupplyFraction, vb)
	errors.ValidateProbability("tower.trap_fraction", t.TrapFraction, vb)

	errors.ValidatePositive("leveling.linear", c.Leveling.Linear, vb)
	errors.ValidatePositive("leveling.max_level", c.Leveling.MaxLevel, vb)

	errors.ValidatePositive("enhancement.max_level", c.Enhancement.MaxLevel, vb)
	if c.Enhancement.Scale < 0 {
		vb.Field("enhancement.scale", "must not be negative")
	}

	prev := 0.0
	for _, r := range entities.AllRarities() {
		row, ok := c.Rarities[r]
		if !ok {
			vb.Fieldf("rarities", "missing %s", r)
			continue
		}
		if row.Threshold < prev {
			vb.Fieldf(fmt.Sprintf("rarities.%s.threshold", r), "must not be below the tier above it")
		}
		prev = row.Threshold
		if row.PowerMult <= 0 {
			vb.Fieldf(fmt.Sprintf("rarities.%s.power_mult", r), "must be positive")
		}
		if len(row.AffixOdds) > 2 {
			vb.Fieldf(fmt.Sprintf("rarities.%s.affix_odds", r), "at most 2 affixes are allowed")
		}
	}
	if row, ok := c.Rarities[entities.RarityCommon]; ok && row.Threshold < 1 {
		vb.Field("rarities.common.threshold", "must be 1 so every draw lands in a tier")
	}

	if len(c.Items.AffixWeights) < 2 {
		vb.Field("items.affix_weights", "needs at least 2 affixes")
	}

	for kind, row := range c.Consumables {
		if !kind.IsValid() {
			vb.Fieldf("consumables", "unknown kind %s", kind)
		}
		if row.BaseAmount <= 0 {
			vb.Fieldf(fmt.Sprintf("consumables.%s.base_amount", kind), "must be positive")
		}
	}

	return vb.Build()
}
