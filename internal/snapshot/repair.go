package snapshot

import (
	"fmt"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

// Repair defaults missing fields and re-establishes every state invariant.
// It returns a description of each fix; a healthy state yields none.
func Repair(state *entities.State, cfg *balance.Config) []string {
	r := &repairer{cfg: cfg, seen: make(map[string]bool)}

	if state.Character == nil {
		state.Character = stats.NewCharacter(r.freshID(), "Frame", cfg)
		r.fix("character missing, started a new frame")
	}
	r.character(state.Character)
	r.tower(&state.Tower)
	r.battle(&state.Battle)

	before := *state.Character
	stats.Clamp(state.Character, cfg)
	if before.HP != state.Character.HP || before.HPMax != state.Character.HPMax ||
		before.MP != state.Character.MP || before.MPMax != state.Character.MPMax ||
		before.Resonance != state.Character.Resonance || before.ResonanceMax != state.Character.ResonanceMax ||
		before.Execution != state.Character.Execution || before.ExecutionMax != state.Character.ExecutionMax {
		r.fix("resources clamped to maxima")
	}
	return r.fixes
}

type repairer struct {
	cfg   *balance.Config
	fixes []string
	seen  map[string]bool
	next  int
}

func (r *repairer) fix(format string, args ...any) {
	r.fixes = append(r.fixes, fmt.Sprintf(format, args...))
}

func (r *repairer) character(c *entities.Character) {
	if c.ID == "" {
		c.ID = r.freshID()
		r.fix("character id defaulted")
	}
	if c.Level < 1 {
		c.Level = 1
		r.fix("level raised to 1")
	}
	if c.Level > r.cfg.Leveling.MaxLevel {
		c.Level = r.cfg.Leveling.MaxLevel
		r.fix("level lowered to %d", c.Level)
	}
	nonNegative := map[string]*int{
		"level_currency": &c.LevelCurrency,
		"gold":           &c.Gold,
		"scrap":          &c.Scrap,
	}
	for name, v := range nonNegative {
		if *v < 0 {
			*v = 0
			r.fix("%s raised to 0", name)
		}
	}
	if c.Base == (entities.CombatStats{}) {
		ch := r.cfg.Character
		c.Base = entities.CombatStats{Attack: ch.BaseAttack, Defense: ch.BaseDefense, Crit: ch.BaseCrit, Hit: ch.BaseHit}
		r.fix("base stats defaulted")
	}

	if c.Equipped == nil {
		c.Equipped = make(map[entities.Slot]*entities.Equipment)
	}
	var evicted []*entities.Equipment
	for _, slot := range sortedSlots(c.Equipped) {
		eq := c.Equipped[slot]
		switch {
		case eq == nil:
			delete(c.Equipped, slot)
		case !slot.IsValid():
			delete(c.Equipped, slot)
			evicted = append(evicted, eq)
			r.fix("item in unknown slot %q moved to bag", slot)
		default:
			if eq.Slot == "" {
				eq.Slot = slot
			}
			if eq.Slot != slot {
				delete(c.Equipped, slot)
				evicted = append(evicted, eq)
				r.fix("%s item in %s moved to bag", eq.Slot, slot)
				continue
			}
			if !r.item(eq) {
				delete(c.Equipped, slot)
			}
		}
	}

	bag := make([]*entities.Equipment, 0, len(c.Bag.Equipment)+len(evicted))
	for _, eq := range append(c.Bag.Equipment, evicted...) {
		if eq == nil || !r.item(eq) {
			continue
		}
		bag = append(bag, eq)
	}
	if len(bag) == 0 && c.Bag.Equipment == nil {
		bag = nil
	}
	c.Bag.Equipment = bag

	if c.Bag.Consumables != nil {
		consumables := make([]*entities.Consumable, 0, len(c.Bag.Consumables))
		for _, item := range c.Bag.Consumables {
			if item == nil || !item.Kind.IsValid() {
				r.fix("dropped unknown consumable")
				continue
			}
			if item.ID == "" || r.seen[item.ID] {
				item.ID = r.freshID()
				r.fix("consumable id reassigned to %s", item.ID)
			}
			r.seen[item.ID] = true
			if item.Amount < 1 {
				item.Amount = 1
				r.fix("consumable %s amount raised to 1", item.ID)
			}
			consumables = append(consumables, item)
		}
		c.Bag.Consumables = consumables
	}
}

// item repairs one equipment instance and reports whether it is kept.
// An id already owned elsewhere is a duplicate and is dropped.
func (r *repairer) item(eq *entities.Equipment) bool {
	if eq.ID == "" {
		eq.ID = r.freshID()
		r.fix("item id reassigned to %s", eq.ID)
	}
	if r.seen[eq.ID] {
		r.fix("duplicate item %s dropped", eq.ID)
		return false
	}
	r.seen[eq.ID] = true

	if !eq.Slot.IsValid() {
		r.fix("item %s has unknown slot %q, dropped", eq.ID, eq.Slot)
		return false
	}
	if !eq.Rarity.IsValid() {
		eq.Rarity = entities.RarityCommon
		r.fix("item %s rarity defaulted", eq.ID)
	}
	if eq.BasePower < 1 {
		eq.BasePower = 1
		r.fix("item %s base power raised to 1", eq.ID)
	}
	if limit := r.cfg.Enhancement.MaxLevel; eq.Enhancement < 0 || eq.Enhancement > limit {
		eq.Enhancement = min(max(eq.Enhancement, 0), limit)
		r.fix("item %s enhancement clamped to %d", eq.ID, eq.Enhancement)
	}
	if affixes := dedupeAffixes(eq.Affixes); len(affixes) != len(eq.Affixes) {
		eq.Affixes = affixes
		r.fix("item %s affixes trimmed", eq.ID)
	}
	if eq.Set != "" {
		if _, ok := r.cfg.Sets[eq.Set]; !ok {
			r.fix("item %s unknown set %q cleared", eq.ID, eq.Set)
			eq.Set = ""
		}
	}
	return true
}

func (r *repairer) freshID() string {
	for {
		r.next++
		id := fmt.Sprintf("recovered_%d", r.next)
		if !r.seen[id] {
			return id
		}
	}
}

func (r *repairer) tower(p *entities.FloorProgress) {
	t := r.cfg.Tower
	if p.MaxFloor <= 0 {
		p.MaxFloor = t.MaxFloor
		r.fix("max floor defaulted")
	}
	if p.NormalsRequired <= 0 {
		p.NormalsRequired = t.NormalsRequired
		r.fix("normals required defaulted")
	}
	if p.Floor < 1 || p.Floor > p.MaxFloor {
		p.Floor = min(max(p.Floor, 1), p.MaxFloor)
		r.fix("floor clamped to %d", p.Floor)
	}
	if p.HighestFloor < p.Floor {
		p.HighestFloor = p.Floor
	}
	if p.NormalsDefeated < 0 || p.NormalsDefeated > p.NormalsRequired {
		p.NormalsDefeated = min(max(p.NormalsDefeated, 0), p.NormalsRequired)
		r.fix("normals defeated clamped")
	}
	if p.BossDone && !p.MiniBossDone {
		p.MiniBossDone = true
		r.fix("boss cleared implies mini-boss cleared")
	}
	if p.MiniBossDone && p.NormalsDefeated < p.NormalsRequired {
		p.NormalsDefeated = p.NormalsRequired
		r.fix("mini-boss cleared implies normals cleared")
	}
	if p.EliteDone && !p.EliteSpawned {
		p.EliteSpawned = true
	}
}

func (r *repairer) battle(b *entities.Battle) {
	burst := b.Burst
	switch {
	case !burst.Active:
		if burst != entities.NeutralBurst() {
			b.Burst = entities.NeutralBurst()
			r.fix("inactive burst reset to neutral")
		}
	case burst.TurnsLeft <= 0:
		b.Burst = entities.NeutralBurst()
		r.fix("expired burst cleared")
	default:
		if burst.TurnsLeft > r.cfg.Burst.Turns {
			b.Burst.TurnsLeft = r.cfg.Burst.Turns
			r.fix("burst turns clamped")
		}
		if burst.AttackMult <= 0 {
			b.Burst.AttackMult = r.cfg.Burst.AttackMult
			r.fix("burst attack multiplier defaulted")
		}
		if burst.IncomingMult <= 0 {
			b.Burst.IncomingMult = r.cfg.Burst.IncomingMult
			r.fix("burst incoming multiplier defaulted")
		}
	}

	if e := b.Enemy; e != nil {
		if e.HPMax <= 0 || e.HP <= 0 {
			b.Enemy = nil
			r.fix("dead or empty enemy cleared")
		} else {
			if !e.Class.IsValid() {
				e.Class = entities.ClassNormal
				r.fix("enemy class defaulted")
			}
			if e.HP > e.HPMax {
				e.HP = e.HPMax
				r.fix("enemy hp clamped")
			}
		}
	}
	if b.Turn < 0 {
		b.Turn = 0
	}
	if limit := r.cfg.Combat.LogSize; limit > 0 && len(b.Log) > limit {
		b.Log = append([]string(nil), b.Log[len(b.Log)-limit:]...)
		r.fix("combat log trimmed")
	}
}

func dedupeAffixes(in []entities.AffixKind) []entities.AffixKind {
	if in == nil {
		return nil
	}
	out := make([]entities.AffixKind, 0, len(in))
	seen := make(map[entities.AffixKind]bool, len(in))
	for _, a := range in {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// sortedSlots walks known slots in order, then any unknown keys
func sortedSlots(m map[entities.Slot]*entities.Equipment) []entities.Slot {
	out := make([]entities.Slot, 0, len(m))
	for _, slot := range entities.AllSlots() {
		if _, ok := m[slot]; ok {
			out = append(out, slot)
		}
	}
	for slot := range m {
		if !slot.IsValid() {
			out = append(out, slot)
		}
	}
	return out
}
