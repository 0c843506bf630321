package itemgen

import (
	"math"
	"strings"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
)

// Independent gates on the secondary slot stats
const (
	weaponCritGate = 0.30
	headHitGate    = 0.25
	armsHitGate    = 0.30
	accCritGate    = 0.25
	accHitGate     = 0.25
)

// SlotStats maps (slot, power) to the item's base stats. Primary stats are
// fixed per slot; secondary crit/hit stats each pass an independent gate.
func SlotStats(src chance.Source, slot entities.Slot, power int) entities.StatBundle {
	p := float64(power)
	floor := func(v float64) int { return int(math.Floor(v)) }
	crit := math.Min(0.04, p*0.0008)
	hit := math.Min(0.03, p*0.0005)

	var out entities.StatBundle
	switch slot {
	case entities.SlotWeaponL, entities.SlotWeaponR:
		out.Attack = power
		if chance.Chance(src, weaponCritGate) {
			out.Crit = crit
		}
	case entities.SlotHead:
		out.Defense = floor(p * 0.5)
		out.HP = power
		if chance.Chance(src, headHitGate) {
			out.Hit = hit
		}
	case entities.SlotBody:
		out.HP = power * 4
		out.Defense = floor(p * 0.6)
	case entities.SlotArms:
		out.Attack = floor(p / 2)
		out.Defense = floor(p / 4)
		if chance.Chance(src, armsHitGate) {
			out.Hit = hit
		}
	case entities.SlotLegs:
		out.Resonance = power
		out.Defense = floor(p / 3)
	case entities.SlotAcc1, entities.SlotAcc2:
		out.MP = power
		if chance.Chance(src, accCritGate) {
			out.Crit = crit
		}
		if chance.Chance(src, accHitGate) {
			out.Hit = hit
		}
	}
	return out
}

var slotNouns = map[entities.Slot]string{
	entities.SlotWeaponL: "Arc Blade",
	entities.SlotWeaponR: "Pulse Driver",
	entities.SlotHead:    "Sensor Visor",
	entities.SlotBody:    "Chassis Plate",
	entities.SlotArms:    "Servo Gauntlets",
	entities.SlotLegs:    "Strider Greaves",
	entities.SlotAcc1:    "Signal Core",
	entities.SlotAcc2:    "Relay Charm",
}

var affixTitles = map[entities.AffixKind]string{
	entities.AffixKeen:     "Keen",
	entities.AffixBrutal:   "Brutal",
	entities.AffixSturdy:   "Sturdy",
	entities.AffixVital:    "Vital",
	entities.AffixFocused:  "Focused",
	entities.AffixResonant: "Resonant",
	entities.AffixPrecise:  "Precise",
}

// Name renders "[Set] [first affix] <slot noun>", e.g. "Tempest Keen Arc Blade"
func Name(eq *entities.Equipment, cfg *balance.Config) string {
	var parts []string
	if set, ok := cfg.Sets[eq.Set]; ok {
		parts = append(parts, set.Name)
	}
	if len(eq.Affixes) > 0 {
		parts = append(parts, affixTitles[eq.Affixes[0]])
	}
	noun, ok := slotNouns[eq.Slot]
	if !ok {
		noun = "Salvage"
	}
	parts = append(parts, noun)
	return strings.Join(parts, " ")
}
