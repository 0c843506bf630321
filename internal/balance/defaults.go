package balance

import (
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// Default returns the shipped balance table
func Default() *Config {
	return &Config{
		Character: CharacterConfig{
			BaseAttack:        10,
			BaseDefense:       5,
			BaseCrit:          0.05,
			BaseHit:           0.85,
			AttackPerLevel:    2,
			DefensePerLevel:   1,
			BaseHP:            100,
			HPPerLevel:        12,
			BaseMP:            50,
			MPPerLevel:        4,
			BaseResonance:     100,
			ResonancePerLevel: 2,
			StartResonance:    30,
			ExecutionMax:      100,
			StartGold:         50,
			CritMin:           0,
			CritMax:           0.40,
			HitMin:            0.65,
			HitMax:            0.99,
		},
		Combat: CombatConfig{
			SkillMultiplier:    1.6,
			SkillCost:          10,
			CritMultiplier:     1.75,
			EnemyVarianceMin:   0.9,
			EnemyVarianceMax:   1.2,
			DefeatHPFraction:   0.30,
			DefeatGoldPenalty:  25,
			ResonancePerHit:    4,
			ExecutionPerAction: 5,
			ExecuteMultiplier:  3.0,
			LogSize:            50,
		},
		Burst: BurstConfig{
			Cost:         40,
			Turns:        3,
			AttackMult:   1.5,
			IncomingMult: 0.7,
		},
		Rewards: RewardsConfig{
			BaseExp:      8,
			ExpPerLevel:  4,
			BaseGold:     5,
			GoldPerLevel: 3,
			Classes: map[entities.EncounterClass]ClassReward{
				entities.ClassNormal:   {ExpMult: 1.0, GoldMult: 1.0, Scrap: 0, EquipmentChance: 0.35, ConsumableChance: 0.15},
				entities.ClassElite:    {ExpMult: 1.8, GoldMult: 1.8, Scrap: 2, EquipmentChance: 0.75, ConsumableChance: 0.25},
				entities.ClassMiniBoss: {ExpMult: 2.5, GoldMult: 2.5, Scrap: 4, EquipmentChance: 1.0, ConsumableChance: 0.35},
				entities.ClassBoss:     {ExpMult: 4.0, GoldMult: 4.0, Scrap: 8, EquipmentChance: 1.0, ConsumableChance: 0.5},
			},
		},
		Enemies: EnemiesConfig{
			BaseHP:          30,
			HPPerLevel:      12,
			BaseAttack:      6,
			AttackPerLevel:  3,
			BaseDefense:     2,
			DefensePerLevel: 1,
			Classes: map[entities.EncounterClass]ClassScaling{
				entities.ClassNormal:   {LevelOffset: 0, HPMult: 1.0, AttackMult: 1.0, DefenseMult: 1.0},
				entities.ClassElite:    {LevelOffset: 1, HPMult: 1.6, AttackMult: 1.25, DefenseMult: 1.2},
				entities.ClassMiniBoss: {LevelOffset: 2, HPMult: 2.4, AttackMult: 1.4, DefenseMult: 1.35},
				entities.ClassBoss:     {LevelOffset: 3, HPMult: 3.5, AttackMult: 1.6, DefenseMult: 1.5},
			},
			Names: map[entities.EncounterClass][]string{
				entities.ClassNormal:   {"Scout Drone", "Rust Crawler", "Sentry Frame", "Scrap Hound"},
				entities.ClassElite:    {"Vanguard Hunter", "Arc Stalker"},
				entities.ClassMiniBoss: {"Floor Warden"},
				entities.ClassBoss:     {"Tower Overseer"},
			},
		},
		Tower: TowerConfig{
			MaxFloor:        30,
			NormalsRequired: 5,
			EliteChance:     0.2,
			EventChance:     0.25,
			EventWeights: map[entities.FloorEvent]int{
				entities.EventSupply:    30,
				entities.EventTrap:      20,
				entities.EventResonance: 20,
				entities.EventScrap:     15,
				entities.EventAmbush:    5,
				entities.EventMerchant:  10,
			},
			SupplyFraction:       0.25,
			TrapFraction:         0.10,
			ResonanceSurge:       15,
			ScrapCacheBase:       2,
			ScrapCachePerFloor:   1,
			MerchantGoldBase:     10,
			MerchantGoldPerFloor: 5,
		},
		Leveling: LevelingConfig{
			Linear:    30,
			Quadratic: 10,
			MaxLevel:  99,
		},
		Rest: RestConfig{
			HPFraction: 0.4,
			MPFraction: 0.4,
			Resonance:  10,
		},
		Enhancement: EnhancementConfig{
			MaxLevel:          10,
			Scale:             0.06,
			GoldBase:          20,
			GoldPerPower:      5,
			ScrapBase:         2,
			ScrapPowerDivisor: 10,
		},
		Rarities: map[entities.Rarity]RarityConfig{
			entities.RarityLegendary: {Threshold: 0.03, PowerMult: 2.1, DismantleYield: 20, EnhanceCost: 2.0, AffixOdds: []float64{1, 0.6}},
			entities.RarityEpic:      {Threshold: 0.13, PowerMult: 1.6, DismantleYield: 10, EnhanceCost: 1.5, AffixOdds: []float64{1, 0.3}},
			entities.RarityRare:      {Threshold: 0.38, PowerMult: 1.25, DismantleYield: 5, EnhanceCost: 1.2, AffixOdds: []float64{0.5}},
			entities.RarityCommon:    {Threshold: 1.0, PowerMult: 1.0, DismantleYield: 2, EnhanceCost: 1.0},
		},
		Items: ItemConfig{
			ClassBias: map[entities.EncounterClass]float64{
				entities.ClassNormal:   0,
				entities.ClassElite:    0.05,
				entities.ClassMiniBoss: 0.08,
				entities.ClassBoss:     0.12,
			},
			SetChance:    0.15,
			SetMinRarity: entities.RarityEpic,
			AffixWeights: map[entities.AffixKind]int{
				entities.AffixKeen:     3,
				entities.AffixBrutal:   4,
				entities.AffixSturdy:   4,
				entities.AffixVital:    4,
				entities.AffixFocused:  3,
				entities.AffixResonant: 2,
				entities.AffixPrecise:  3,
			},
		},
		Sets: map[string]SetConfig{
			"vanguard": {
				Name:      "Vanguard",
				TwoPiece:  entities.StatBundle{Defense: 6},
				FourPiece: entities.StatBundle{HP: 60},
			},
			"tempest": {
				Name:      "Tempest",
				TwoPiece:  entities.StatBundle{Crit: 0.03},
				FourPiece: entities.StatBundle{Attack: 12},
			},
			"harmonic": {
				Name:      "Harmonic",
				TwoPiece:  entities.StatBundle{Resonance: 20},
				FourPiece: entities.StatBundle{Hit: 0.04},
			},
		},
		Consumables: map[entities.ConsumableKind]ConsumableConfig{
			entities.ConsumableRepairKit:     {Name: "Repair Kit", Weight: 40, BaseAmount: 30, AmountPerLevel: 0.1, BasePrice: 15, PricePerLevel: 3},
			entities.ConsumableEnergyCell:    {Name: "Energy Cell", Weight: 30, BaseAmount: 15, AmountPerLevel: 0.1, BasePrice: 12, PricePerLevel: 2},
			entities.ConsumableResonanceCore: {Name: "Resonance Core", Weight: 20, BaseAmount: 20, AmountPerLevel: 0.05, BasePrice: 25, PricePerLevel: 3},
			entities.ConsumableOverclockChip: {Name: "Overclock Chip", Weight: 10, BaseAmount: 25, AmountPerLevel: 0.05, BasePrice: 30, PricePerLevel: 4},
		},
	}
}
