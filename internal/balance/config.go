// Package balance holds every tuning number of the game as configuration data.
//
// Reward, enemy and loot tables are hand-tuned; they are kept here rather than
// in the engine so a file can override them without a rebuild.
package balance

import (
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// Config is the full balance table
type Config struct {
	Character   CharacterConfig                              `yaml:"character"`
	Combat      CombatConfig                                 `yaml:"combat"`
	Burst       BurstConfig                                  `yaml:"burst"`
	Rewards     RewardsConfig                                `yaml:"rewards"`
	Enemies     EnemiesConfig                                `yaml:"enemies"`
	Tower       TowerConfig                                  `yaml:"tower"`
	Leveling    LevelingConfig                               `yaml:"leveling"`
	Rest        RestConfig                                   `yaml:"rest"`
	Enhancement EnhancementConfig                            `yaml:"enhancement"`
	Rarities    map[entities.Rarity]RarityConfig             `yaml:"rarities"`
	Items       ItemConfig                                   `yaml:"items"`
	Sets        map[string]SetConfig                         `yaml:"sets"`
	Consumables map[entities.ConsumableKind]ConsumableConfig `yaml:"consumables"`
}

// CharacterConfig is the class baseline and per-level growth
type CharacterConfig struct {
	BaseAttack      int     `yaml:"base_attack"`
	BaseDefense     int     `yaml:"base_defense"`
	BaseCrit        float64 `yaml:"base_crit"`
	BaseHit         float64 `yaml:"base_hit"`
	AttackPerLevel  int     `yaml:"attack_per_level"`
	DefensePerLevel int     `yaml:"defense_per_level"`

	BaseHP            int `yaml:"base_hp"`
	HPPerLevel        int `yaml:"hp_per_level"`
	BaseMP            int `yaml:"base_mp"`
	MPPerLevel        int `yaml:"mp_per_level"`
	BaseResonance     int `yaml:"base_resonance"`
	ResonancePerLevel int `yaml:"resonance_per_level"`
	StartResonance    int `yaml:"start_resonance"`
	ExecutionMax      int `yaml:"execution_max"`
	StartGold         int `yaml:"start_gold"`

	CritMin float64 `yaml:"crit_min"`
	CritMax float64 `yaml:"crit_max"`
	HitMin  float64 `yaml:"hit_min"`
	HitMax  float64 `yaml:"hit_max"`
}

// CombatConfig drives the resolver
type CombatConfig struct {
	SkillMultiplier    float64 `yaml:"skill_multiplier"`
	SkillCost          int     `yaml:"skill_cost"`
	CritMultiplier     float64 `yaml:"crit_multiplier"`
	EnemyVarianceMin   float64 `yaml:"enemy_variance_min"`
	EnemyVarianceMax   float64 `yaml:"enemy_variance_max"`
	DefeatHPFraction   float64 `yaml:"defeat_hp_fraction"`
	DefeatGoldPenalty  int     `yaml:"defeat_gold_penalty"`
	ResonancePerHit    int     `yaml:"resonance_per_hit"`
	ExecutionPerAction int     `yaml:"execution_per_action"`
	ExecuteMultiplier  float64 `yaml:"execute_multiplier"`
	LogSize            int     `yaml:"log_size"`
}

// BurstConfig is the burst buff
type BurstConfig struct {
	Cost         int     `yaml:"cost"`
	Turns        int     `yaml:"turns"`
	AttackMult   float64 `yaml:"attack_mult"`
	IncomingMult float64 `yaml:"incoming_mult"`
}

// RewardsConfig converts a defeated enemy into currency
type RewardsConfig struct {
	BaseExp      int                                     `yaml:"base_exp"`
	ExpPerLevel  int                                     `yaml:"exp_per_level"`
	BaseGold     int                                     `yaml:"base_gold"`
	GoldPerLevel int                                     `yaml:"gold_per_level"`
	Classes      map[entities.EncounterClass]ClassReward `yaml:"classes"`
}

// ClassReward is the per-class multiplier row
type ClassReward struct {
	ExpMult          float64 `yaml:"exp_mult"`
	GoldMult         float64 `yaml:"gold_mult"`
	Scrap            int     `yaml:"scrap"`
	EquipmentChance  float64 `yaml:"equipment_chance"`
	ConsumableChance float64 `yaml:"consumable_chance"`
}

// EnemiesConfig builds enemy instances for a floor
type EnemiesConfig struct {
	BaseHP          int                                      `yaml:"base_hp"`
	HPPerLevel      int                                      `yaml:"hp_per_level"`
	BaseAttack      int                                      `yaml:"base_attack"`
	AttackPerLevel  int                                      `yaml:"attack_per_level"`
	BaseDefense     int                                      `yaml:"base_defense"`
	DefensePerLevel int                                      `yaml:"defense_per_level"`
	Classes         map[entities.EncounterClass]ClassScaling `yaml:"classes"`
	Names           map[entities.EncounterClass][]string     `yaml:"names"`
}

// ClassScaling is the per-class strength row
type ClassScaling struct {
	LevelOffset int     `yaml:"level_offset"`
	HPMult      float64 `yaml:"hp_mult"`
	AttackMult  float64 `yaml:"attack_mult"`
	DefenseMult float64 `yaml:"defense_mult"`
}

// TowerConfig is the floor structure and explore table
type TowerConfig struct {
	MaxFloor        int                         `yaml:"max_floor"`
	NormalsRequired int                         `yaml:"normals_required"`
	EliteChance     float64                     `yaml:"elite_chance"`
	EventChance     float64                     `yaml:"event_chance"`
	EventWeights    map[entities.FloorEvent]int `yaml:"event_weights"`

	SupplyFraction       float64 `yaml:"supply_fraction"`
	TrapFraction         float64 `yaml:"trap_fraction"`
	ResonanceSurge       int     `yaml:"resonance_surge"`
	ScrapCacheBase       int     `yaml:"scrap_cache_base"`
	ScrapCachePerFloor   int     `yaml:"scrap_cache_per_floor"`
	MerchantGoldBase     int     `yaml:"merchant_gold_base"`
	MerchantGoldPerFloor int     `yaml:"merchant_gold_per_floor"`
}

// LevelingConfig is the level currency curve: threshold(L) = Linear*L + Quadratic*L*(L-1)
type LevelingConfig struct {
	Linear    int `yaml:"linear"`
	Quadratic int `yaml:"quadratic"`
	MaxLevel  int `yaml:"max_level"`
}

// RestConfig is the out-of-combat recovery action
type RestConfig struct {
	HPFraction float64 `yaml:"hp_fraction"`
	MPFraction float64 `yaml:"mp_fraction"`
	Resonance  int     `yaml:"resonance"`
}

// EnhancementConfig caps and prices enhancement steps
type EnhancementConfig struct {
	MaxLevel int `yaml:"max_level"`
	// Scale is the fraction of slot stats each level adds
	Scale             float64 `yaml:"scale"`
	GoldBase          int     `yaml:"gold_base"`
	GoldPerPower      int     `yaml:"gold_per_power"`
	ScrapBase         int     `yaml:"scrap_base"`
	ScrapPowerDivisor int     `yaml:"scrap_power_divisor"`
}

// RarityConfig is one row of the rarity table
type RarityConfig struct {
	// Threshold is the cumulative upper bound of the draw for this tier
	Threshold      float64   `yaml:"threshold"`
	PowerMult      float64   `yaml:"power_mult"`
	DismantleYield int       `yaml:"dismantle_yield"`
	EnhanceCost    float64   `yaml:"enhance_cost"`
	AffixOdds      []float64 `yaml:"affix_odds,omitempty"`
}

// ItemConfig tunes generation odds
type ItemConfig struct {
	ClassBias    map[entities.EncounterClass]float64 `yaml:"class_bias"`
	SetChance    float64                             `yaml:"set_chance"`
	SetMinRarity entities.Rarity                     `yaml:"set_min_rarity"`
	AffixWeights map[entities.AffixKind]int          `yaml:"affix_weights"`
}

// SetConfig is a gear set and its piece bonuses
type SetConfig struct {
	Name      string              `yaml:"name"`
	TwoPiece  entities.StatBundle `yaml:"two_piece"`
	FourPiece entities.StatBundle `yaml:"four_piece"`
}

// ConsumableConfig scales a consumable kind by level
type ConsumableConfig struct {
	Name           string  `yaml:"name"`
	Weight         int     `yaml:"weight"`
	BaseAmount     int     `yaml:"base_amount"`
	AmountPerLevel float64 `yaml:"amount_per_level"`
	BasePrice      int     `yaml:"base_price"`
	PricePerLevel  int     `yaml:"price_per_level"`
}
