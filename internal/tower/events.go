package tower

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
)

// ExploreResult is either a floor event or a spawned encounter
type ExploreResult struct {
	Event *EventResult
	Enemy *entities.Enemy
}

// EventResult records what a floor event changed
type EventResult struct {
	Event     entities.FloorEvent `json:"event"`
	HP        int                 `json:"hp,omitempty"`
	MP        int                 `json:"mp,omitempty"`
	Resonance int                 `json:"resonance,omitempty"`
	Scrap     int                 `json:"scrap,omitempty"`
	Gold      int                 `json:"gold,omitempty"`
	Message   string              `json:"message"`

	// Enemy is set only by an ambush
	Enemy *entities.Enemy `json:"-"`
}

// Explore rolls the explore action. In the NORMAL phase it is a fight unless
// the event gate passes; once the normals are cleared it only finds events.
func (s *Sequencer) Explore(c *entities.Character, p *entities.FloorProgress) (*ExploreResult, error) {
	if PhaseOf(*p) == PhaseNormal && !chance.Chance(s.src, s.cfg.Tower.EventChance) {
		enemy, err := s.NextEncounter(p)
		if err != nil {
			return nil, err
		}
		return &ExploreResult{Enemy: enemy}, nil
	}

	ev := s.ApplyEvent(c, p, s.RollEvent())
	return &ExploreResult{Event: ev, Enemy: ev.Enemy}, nil
}

// RollEvent draws an event kind from the weighted table
func (s *Sequencer) RollEvent() entities.FloorEvent {
	var table []chance.Weighted[entities.FloorEvent]
	for _, ev := range entities.AllFloorEvents() {
		table = append(table, chance.Weighted[entities.FloorEvent]{
			Value:  ev,
			Weight: s.cfg.Tower.EventWeights[ev],
		})
	}
	ev, ok := chance.Pick(s.src, table)
	if !ok {
		return entities.EventSupply
	}
	return ev
}

// ApplyEvent applies a floor event to the character. Only an ambush spawns
// an enemy; it brings the floor's elite, or a normal foe once the elite has
// already appeared. Outside the NORMAL phase a spent ambush finds nothing.
func (s *Sequencer) ApplyEvent(c *entities.Character, p *entities.FloorProgress, ev entities.FloorEvent) *EventResult {
	t := s.cfg.Tower
	out := &EventResult{Event: ev}

	switch ev {
	case entities.EventSupply:
		hp := fraction(c.HPMax, t.SupplyFraction)
		mp := fraction(c.MPMax, t.SupplyFraction)
		out.HP = min(hp, c.HPMax-c.HP)
		out.MP = min(mp, c.MPMax-c.MP)
		c.HP += out.HP
		c.MP += out.MP
		out.Message = fmt.Sprintf("supply crate: +%d HP, +%d MP", out.HP, out.MP)

	case entities.EventTrap:
		dmg := max(1, fraction(c.HPMax, t.TrapFraction))
		before := c.HP
		c.HP = max(1, c.HP-dmg)
		out.HP = c.HP - before
		out.Message = fmt.Sprintf("trap triggered: %d damage", before-c.HP)

	case entities.EventResonance:
		out.Resonance = min(t.ResonanceSurge, c.ResonanceMax-c.Resonance)
		c.Resonance += out.Resonance
		out.Message = fmt.Sprintf("resonance surge: +%d", out.Resonance)

	case entities.EventScrap:
		out.Scrap = t.ScrapCacheBase + t.ScrapCachePerFloor*p.Floor
		c.Scrap += out.Scrap
		out.Message = fmt.Sprintf("scrap cache: +%d scrap", out.Scrap)

	case entities.EventMerchant:
		out.Gold = t.MerchantGoldBase + t.MerchantGoldPerFloor*p.Floor
		c.Gold += out.Gold
		out.Message = fmt.Sprintf("a merchant pays %d gold for salvage", out.Gold)

	case entities.EventAmbush:
		switch {
		case PhaseOf(*p) != PhaseNormal:
			out.Message = "signs of an ambush, but the corridor is empty"
		case !p.EliteSpawned:
			p.EliteSpawned = true
			out.Enemy = s.SpawnEnemy(p.Floor, entities.ClassElite)
			out.Message = fmt.Sprintf("ambush! %s attacks", out.Enemy.Name)
		default:
			out.Enemy = s.SpawnEnemy(p.Floor, entities.ClassNormal)
			out.Message = fmt.Sprintf("ambush! %s attacks", out.Enemy.Name)
		}
	}
	return out
}

func fraction(v int, f float64) int {
	return int(math.Floor(float64(v)*f + 1e-9))
}
