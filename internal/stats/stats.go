// Package stats aggregates base stats, level growth and equipment into the
// numbers combat reads. Every function is pure except Clamp.
package stats

import (
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// ItemFinal returns an item's contribution: slot stats scaled by enhancement
// plus unscaled affix bonuses.
func ItemFinal(eq *entities.Equipment, cfg *balance.Config) entities.StatBundle {
	if eq == nil {
		return entities.StatBundle{}
	}
	e := cfg.Enhancement
	enh := min(max(eq.Enhancement, 0), e.MaxLevel)
	out := eq.Base.Scale(1 + float64(enh)*e.Scale)
	for _, affix := range eq.Affixes {
		out = out.Add(affix.Bonus(eq.BasePower))
	}
	return out
}

// SetPieces counts equipped items per set id
func SetPieces(c *entities.Character) map[string]int {
	counts := make(map[string]int)
	for _, eq := range c.EquippedItems() {
		if eq.Set != "" {
			counts[eq.Set]++
		}
	}
	return counts
}

// SetBonuses sums the 2- and 4-piece bonuses of every set with enough pieces equipped.
// Unknown set ids contribute nothing.
func SetBonuses(c *entities.Character, cfg *balance.Config) entities.StatBundle {
	var out entities.StatBundle
	for id, n := range SetPieces(c) {
		set, ok := cfg.Sets[id]
		if !ok {
			continue
		}
		if n >= 2 {
			out = out.Add(set.TwoPiece)
		}
		if n >= 4 {
			out = out.Add(set.FourPiece)
		}
	}
	return out
}

// Gear sums every equipped item and active set bonus
func Gear(c *entities.Character, cfg *balance.Config) entities.StatBundle {
	var out entities.StatBundle
	for _, eq := range c.EquippedItems() {
		out = out.Add(ItemFinal(eq, cfg))
	}
	return out.Add(SetBonuses(c, cfg))
}

// Effective returns the character's combat stats with crit and hit clamped
func Effective(c *entities.Character, cfg *balance.Config) entities.CombatStats {
	growth := max(c.Level, 1) - 1
	gear := Gear(c, cfg)
	ch := cfg.Character

	return entities.CombatStats{
		Attack:  c.Base.Attack + ch.AttackPerLevel*growth + gear.Attack,
		Defense: c.Base.Defense + ch.DefensePerLevel*growth + gear.Defense,
		Crit:    clampFloat(c.Base.Crit+gear.Crit, ch.CritMin, ch.CritMax),
		Hit:     clampFloat(c.Base.Hit+gear.Hit, ch.HitMin, ch.HitMax),
	}
}

// Maxima returns the level baseline plus equipped max boosts
func Maxima(c *entities.Character, cfg *balance.Config) entities.Maxima {
	growth := max(c.Level, 1) - 1
	gear := Gear(c, cfg)
	ch := cfg.Character

	return entities.Maxima{
		HP:        max(1, ch.BaseHP+ch.HPPerLevel*growth+gear.HP),
		MP:        max(0, ch.BaseMP+ch.MPPerLevel*growth+gear.MP),
		Resonance: max(0, ch.BaseResonance+ch.ResonancePerLevel*growth+gear.Resonance),
	}
}

// Clamp recomputes the maxima and pulls every current resource into [0, max].
// Run it after anything that can move a maximum.
func Clamp(c *entities.Character, cfg *balance.Config) entities.Maxima {
	m := Maxima(c, cfg)
	c.HPMax = m.HP
	c.MPMax = m.MP
	c.ResonanceMax = m.Resonance
	c.ExecutionMax = cfg.Character.ExecutionMax

	c.HP = clampInt(c.HP, 0, c.HPMax)
	c.MP = clampInt(c.MP, 0, c.MPMax)
	c.Resonance = clampInt(c.Resonance, 0, c.ResonanceMax)
	c.Execution = clampInt(c.Execution, 0, c.ExecutionMax)
	return m
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
