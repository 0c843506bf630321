package stats

import (
	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// NewCharacter returns a level-1 frame with full health and MP
func NewCharacter(id, name string, cfg *balance.Config) *entities.Character {
	ch := cfg.Character
	c := &entities.Character{
		ID:    id,
		Name:  name,
		Level: 1,
		Gold:  ch.StartGold,
		Base: entities.CombatStats{
			Attack:  ch.BaseAttack,
			Defense: ch.BaseDefense,
			Crit:    ch.BaseCrit,
			Hit:     ch.BaseHit,
		},
		Resonance: ch.StartResonance,
		Equipped:  make(map[entities.Slot]*entities.Equipment),
	}
	m := Clamp(c, cfg)
	c.HP = m.HP
	c.MP = m.MP
	return c
}
