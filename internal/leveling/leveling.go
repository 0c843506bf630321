// Package leveling converts level currency into levels and prices victories
package leveling

import (
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// Threshold is the currency needed to leave level: linear*L + quadratic*L*(L-1)
func Threshold(level int, cfg balance.LevelingConfig) int {
	l := max(level, 1)
	return cfg.Linear*l + cfg.Quadratic*l*(l-1)
}

// Grant credits level currency and converts it into as many levels as it
// pays for. Each level-up recomputes the maxima and refills HP and MP.
// Currency keeps accumulating at the max level.
func Grant(c *entities.Character, amount int, cfg *balance.Config) int {
	c.LevelCurrency += max(amount, 0)

	gained := 0
	for c.Level < cfg.Leveling.MaxLevel {
		need := Threshold(c.Level, cfg.Leveling)
		if c.LevelCurrency < need {
			break
		}
		c.LevelCurrency -= need
		c.Level++
		gained++
	}

	if gained > 0 {
		m := stats.Clamp(c, cfg)
		c.HP = m.HP
		c.MP = m.MP
	}
	return gained
}

// Reward is what a defeated enemy pays out
type Reward struct {
	Exp              int     `json:"exp"`
	Gold             int     `json:"gold"`
	Scrap            int     `json:"scrap"`
	EquipmentChance  float64 `json:"-"`
	ConsumableChance float64 `json:"-"`
}

// Rewards prices a defeated enemy by its level and encounter class
func Rewards(enemy *entities.Enemy, cfg *balance.Config) Reward {
	r := cfg.Rewards
	row := r.Classes[enemy.Class]
	lvl := max(enemy.Level, 1)

	return Reward{
		Exp:              int(math.Floor(float64(r.BaseExp+r.ExpPerLevel*lvl)*row.ExpMult + 1e-9)),
		Gold:             int(math.Floor(float64(r.BaseGold+r.GoldPerLevel*lvl)*row.GoldMult + 1e-9)),
		Scrap:            row.Scrap,
		EquipmentChance:  row.EquipmentChance,
		ConsumableChance: row.ConsumableChance,
	}
}
