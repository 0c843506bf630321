package game

import (
	"time"

	"github.com/KirkDiggler/alloy-horizon/internal/combat"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/leveling"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

// NewGameInput defines the request for starting over
type NewGameInput struct {
	Name string
}

// NewGameOutput defines the response for starting over
type NewGameOutput struct {
	State *entities.State
}

// ExploreInput defines the request for exploring the current floor
type ExploreInput struct{}

// ExploreOutput carries either a floor event or the enemy that was found
type ExploreOutput struct {
	Event *tower.EventResult
	Enemy *entities.Enemy
}

// ChallengeBossInput defines the request for fighting the floor's mini-boss or boss
type ChallengeBossInput struct{}

// ChallengeBossOutput defines the response for a boss challenge
type ChallengeBossOutput struct {
	Enemy *entities.Enemy
}

// AdvanceFloorInput defines the request for climbing to the next floor
type AdvanceFloorInput struct{}

// AdvanceFloorOutput defines the response for a floor advance
type AdvanceFloorOutput struct {
	From  int
	To    int
	AtCap bool
}

// AttackInput defines the request for one combat exchange
type AttackInput struct {
	Action combat.Action
}

// AttackOutput defines the response for one combat exchange
type AttackOutput struct {
	Exchange *combat.Exchange
	// Victory is set when the exchange killed the enemy
	Victory *VictoryResult
}

// VictoryResult is everything a won encounter paid out
type VictoryResult struct {
	Enemy        *entities.Enemy
	Reward       leveling.Reward
	LevelsGained int
	Level        int
	Equipment    *entities.Equipment
	Consumable   *entities.Consumable
	Phase        tower.Phase
}

// EquipInput defines the request for equipping a bag item
type EquipInput struct {
	ItemID string
}

// EquipOutput defines the response for equipping
type EquipOutput struct {
	Slot     entities.Slot
	Equipped *entities.Equipment
	// Replaced is the item moved back to the bag, if the slot was occupied
	Replaced *entities.Equipment
	Maxima   entities.Maxima
}

// UnequipInput defines the request for emptying a slot
type UnequipInput struct {
	Slot entities.Slot
}

// UnequipOutput defines the response for unequipping
type UnequipOutput struct {
	Item   *entities.Equipment
	Maxima entities.Maxima
}

// EnhanceInput defines the request for enhancing an item
type EnhanceInput struct {
	ItemID string
}

// EnhanceOutput defines the response for an enhancement
type EnhanceOutput struct {
	Item     *entities.Equipment
	Gold     int
	Scrap    int
	Equipped bool
	Final    entities.StatBundle
}

// DismantleInput defines the request for dismantling a bag item
type DismantleInput struct {
	ItemID string
}

// DismantleOutput defines the response for a dismantle
type DismantleOutput struct {
	Scrap      int
	TotalScrap int
}

// DiscardInput defines the request for throwing a bag item away
type DiscardInput struct {
	ItemID string
}

// DiscardOutput defines the response for a discard
type DiscardOutput struct {
	Item *entities.Equipment
}

// UseConsumableInput defines the request for using a consumable
type UseConsumableInput struct {
	ItemID string
}

// UseConsumableOutput reports how much the consumable actually restored
type UseConsumableOutput struct {
	Kind     entities.ConsumableKind
	Restored int
}

// BuyConsumableInput defines the request for buying from the merchant
type BuyConsumableInput struct {
	Kind entities.ConsumableKind
}

// BuyConsumableOutput defines the response for a purchase
type BuyConsumableOutput struct {
	Item *entities.Consumable
	Gold int
}

// RestInput defines the request for resting between fights
type RestInput struct{}

// RestOutput reports what resting restored
type RestOutput struct {
	HP        int
	MP        int
	Resonance int
}

// SetAutoInput toggles the auto-advance flag
type SetAutoInput struct {
	Enabled bool
}

// SetAutoOutput defines the response for SetAuto
type SetAutoOutput struct {
	Enabled bool
}

// SaveInput defines the request for saving to a slot
type SaveInput struct {
	Slot string
}

// SaveOutput defines the response for a save
type SaveOutput struct {
	Slot    string
	SavedAt time.Time
	Version int
}

// LoadInput defines the request for loading a slot
type LoadInput struct {
	Slot string
}

// LoadOutput defines the response for a load
type LoadOutput struct {
	State *entities.State
}

// ListSavesInput defines the request for listing save slots
type ListSavesInput struct{}

// SaveSlot describes one stored save
type SaveSlot struct {
	Slot    string
	SavedAt time.Time
	Version int
}

// ListSavesOutput defines the response for listing saves
type ListSavesOutput struct {
	Slots []SaveSlot
}

// ExportInput defines the request for exporting the state as a blob
type ExportInput struct{}

// ExportOutput carries the base64 save blob
type ExportOutput struct {
	Blob string
}

// ImportInput defines the request for replacing the state from a blob
type ImportInput struct {
	Blob string
}

// ImportOutput defines the response for an import
type ImportOutput struct {
	State *entities.State
}

// GetStatsInput defines the request for the stat query
type GetStatsInput struct{}

// GetStatsOutput carries the character and its derived numbers
type GetStatsOutput struct {
	Character     *entities.Character
	Effective     entities.CombatStats
	Maxima        entities.Maxima
	NextThreshold int
}

// GetProgressInput defines the request for the floor progress query
type GetProgressInput struct{}

// GetProgressOutput carries the floor summary including the next-encounter hint
type GetProgressOutput struct {
	Summary tower.Summary
}

// GetEquipmentInput defines the request for the equipped items query
type GetEquipmentInput struct{}

// EquippedItem is one occupied slot with the item's final stats
type EquippedItem struct {
	Slot  entities.Slot
	Item  *entities.Equipment
	Final entities.StatBundle
}

// GetEquipmentOutput carries the occupied slots in display order
type GetEquipmentOutput struct {
	Items     []EquippedItem
	SetPieces map[string]int
	SetBonus  entities.StatBundle
}

// GetBagInput defines the request for the bag query
type GetBagInput struct{}

// GetBagOutput carries copies of the bag contents
type GetBagOutput struct {
	Equipment   []*entities.Equipment
	Consumables []*entities.Consumable
	Gold        int
	Scrap       int
}

// GetBattleInput defines the request for the battle query
type GetBattleInput struct{}

// GetBattleOutput carries the enemy snapshot and the battle flags
type GetBattleOutput struct {
	Enemy *entities.Enemy
	Burst entities.BurstState
	Auto  bool
	Turn  int
	Log   []string
}

// GetStateInput defines the request for a full state copy
type GetStateInput struct{}

// GetStateOutput carries a deep copy of the whole state
type GetStateOutput struct {
	State *entities.State
}
