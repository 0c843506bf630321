package entities

import "math"

// Slot is an equipment slot on the frame
type Slot string

// Equipment slots
const (
	SlotWeaponL Slot = "weapon_l"
	SlotWeaponR Slot = "weapon_r"
	SlotHead    Slot = "head"
	SlotBody    Slot = "body"
	SlotArms    Slot = "arms"
	SlotLegs    Slot = "legs"
	SlotAcc1    Slot = "acc1"
	SlotAcc2    Slot = "acc2"
)

// String returns the string representation of the slot
func (s Slot) String() string {
	return string(s)
}

// IsValid checks if the slot is one of the fixed frame slots
func (s Slot) IsValid() bool {
	switch s {
	case SlotWeaponL, SlotWeaponR, SlotHead, SlotBody, SlotArms, SlotLegs, SlotAcc1, SlotAcc2:
		return true
	default:
		return false
	}
}

// AllSlots returns every slot in display order
func AllSlots() []Slot {
	return []Slot{
		SlotWeaponL,
		SlotWeaponR,
		SlotHead,
		SlotBody,
		SlotArms,
		SlotLegs,
		SlotAcc1,
		SlotAcc2,
	}
}

// Rarity is the ordered item tier
type Rarity string

// Rarity tiers, lowest first
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rank orders rarities; unknown values rank as common
func (r Rarity) Rank() int {
	switch r {
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	default:
		return 0
	}
}

// IsValid checks if the rarity is known
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	default:
		return false
	}
}

// AllRarities returns the tiers from highest to lowest
func AllRarities() []Rarity {
	return []Rarity{RarityLegendary, RarityEpic, RarityRare, RarityCommon}
}

// AffixKind names a fixed-formula modifier rolled at generation time
type AffixKind string

// Affixes
const (
	AffixKeen     AffixKind = "keen"
	AffixBrutal   AffixKind = "brutal"
	AffixSturdy   AffixKind = "sturdy"
	AffixVital    AffixKind = "vital"
	AffixFocused  AffixKind = "focused"
	AffixResonant AffixKind = "resonant"
	AffixPrecise  AffixKind = "precise"
)

// Bonus computes the affix contribution from an item's base power.
// Integer bonuses are at least 1 so a low-power affix is never empty.
func (a AffixKind) Bonus(power int) StatBundle {
	p := float64(power)
	atLeastOne := func(v float64) int {
		return max(1, int(math.Floor(v)))
	}

	switch a {
	case AffixKeen:
		return StatBundle{Crit: math.Min(0.06, p*0.001)}
	case AffixBrutal:
		return StatBundle{Attack: atLeastOne(p * 0.2)}
	case AffixSturdy:
		return StatBundle{Defense: atLeastOne(p * 0.15)}
	case AffixVital:
		return StatBundle{HP: atLeastOne(p)}
	case AffixFocused:
		return StatBundle{MP: atLeastOne(p * 0.5)}
	case AffixResonant:
		return StatBundle{Resonance: atLeastOne(p * 0.4)}
	case AffixPrecise:
		return StatBundle{Hit: math.Min(0.05, p*0.0008)}
	default:
		return StatBundle{}
	}
}

// Equipment is a generated equipment instance.
// Slot, Rarity, BasePower, Base and Affixes never change after generation.
type Equipment struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slot        Slot        `json:"slot"`
	Rarity      Rarity      `json:"rarity"`
	BasePower   int         `json:"base_power"`
	Base        StatBundle  `json:"base"`
	Affixes     []AffixKind `json:"affixes,omitempty"`
	Set         string      `json:"set,omitempty"`
	Enhancement int         `json:"enhancement"`
}

// Clone returns a deep copy
func (e *Equipment) Clone() *Equipment {
	if e == nil {
		return nil
	}
	out := *e
	if e.Affixes != nil {
		out.Affixes = append([]AffixKind(nil), e.Affixes...)
	}
	return &out
}

// ConsumableKind is the effect a consumable applies
type ConsumableKind string

// Consumable kinds
const (
	ConsumableRepairKit     ConsumableKind = "repair_kit"
	ConsumableEnergyCell    ConsumableKind = "energy_cell"
	ConsumableResonanceCore ConsumableKind = "resonance_core"
	ConsumableOverclockChip ConsumableKind = "overclock_chip"
)

// IsValid checks if the kind is known
func (k ConsumableKind) IsValid() bool {
	switch k {
	case ConsumableRepairKit, ConsumableEnergyCell, ConsumableResonanceCore, ConsumableOverclockChip:
		return true
	default:
		return false
	}
}

// AllConsumableKinds returns every kind in shop order
func AllConsumableKinds() []ConsumableKind {
	return []ConsumableKind{ConsumableRepairKit, ConsumableEnergyCell, ConsumableResonanceCore, ConsumableOverclockChip}
}

// Consumable is a single-use item
type Consumable struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Kind   ConsumableKind `json:"kind"`
	Amount int            `json:"amount"`
	Price  int            `json:"price"`
}

// Bag holds unequipped items
type Bag struct {
	Equipment   []*Equipment  `json:"equipment"`
	Consumables []*Consumable `json:"consumables"`
}

// FindEquipment returns the bag item with the given id
func (b *Bag) FindEquipment(id string) (*Equipment, bool) {
	for _, e := range b.Equipment {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// RemoveEquipment takes an item out of the bag
func (b *Bag) RemoveEquipment(id string) (*Equipment, bool) {
	for i, e := range b.Equipment {
		if e.ID == id {
			b.Equipment = append(b.Equipment[:i], b.Equipment[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

// AddEquipment puts an item in the bag
func (b *Bag) AddEquipment(e *Equipment) {
	b.Equipment = append(b.Equipment, e)
}

// FindConsumable returns the consumable with the given id
func (b *Bag) FindConsumable(id string) (*Consumable, bool) {
	for _, c := range b.Consumables {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// RemoveConsumable takes a consumable out of the bag
func (b *Bag) RemoveConsumable(id string) (*Consumable, bool) {
	for i, c := range b.Consumables {
		if c.ID == id {
			b.Consumables = append(b.Consumables[:i], b.Consumables[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// AddConsumable puts a consumable in the bag
func (b *Bag) AddConsumable(c *Consumable) {
	b.Consumables = append(b.Consumables, c)
}

// Clone returns a deep copy
func (b Bag) Clone() Bag {
	out := Bag{
		Equipment:   make([]*Equipment, len(b.Equipment)),
		Consumables: make([]*Consumable, len(b.Consumables)),
	}
	for i, e := range b.Equipment {
		out.Equipment[i] = e.Clone()
	}
	for i, c := range b.Consumables {
		cc := *c
		out.Consumables[i] = &cc
	}
	return out
}
