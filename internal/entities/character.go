package entities

// EntityTypeCharacter is the core.Entity type of the player frame
const EntityTypeCharacter = "character"

// Character is the player-controlled frame
type Character struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`

	// LevelCurrency accumulates from victories and is consumed by level-ups
	LevelCurrency int `json:"level_currency"`

	HP           int `json:"hp"`
	HPMax        int `json:"hp_max"`
	MP           int `json:"mp"`
	MPMax        int `json:"mp_max"`
	Resonance    int `json:"resonance"`
	ResonanceMax int `json:"resonance_max"`
	Execution    int `json:"execution"`
	ExecutionMax int `json:"execution_max"`

	Gold  int `json:"gold"`
	Scrap int `json:"scrap"`

	Base     CombatStats         `json:"base"`
	Equipped map[Slot]*Equipment `json:"equipped"`
	Bag      Bag                 `json:"bag"`
}

// GetID returns the character's ID
func (c *Character) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// EquippedItems returns the equipped items in slot order
func (c *Character) EquippedItems() []*Equipment {
	var out []*Equipment
	for _, slot := range AllSlots() {
		if e := c.Equipped[slot]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// FindEquipped returns the slot holding the item with the given id
func (c *Character) FindEquipped(id string) (*Equipment, Slot, bool) {
	for slot, e := range c.Equipped {
		if e != nil && e.ID == id {
			return e, slot, true
		}
	}
	return nil, "", false
}

// FindOwned looks an item up in the bag first, then in the slots
func (c *Character) FindOwned(id string) (*Equipment, bool) {
	if e, ok := c.Bag.FindEquipment(id); ok {
		return e, true
	}
	e, _, ok := c.FindEquipped(id)
	return e, ok
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Equipped = make(map[Slot]*Equipment, len(c.Equipped))
	for slot, e := range c.Equipped {
		if e != nil {
			out.Equipped[slot] = e.Clone()
		}
	}
	out.Bag = c.Bag.Clone()
	return &out
}
