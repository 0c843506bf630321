package snapshot_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/snapshot"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

type SnapshotTestSuite struct {
	suite.Suite
	cfg   *balance.Config
	state *entities.State
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}

func (s *SnapshotTestSuite) SetupTest() {
	s.cfg = balance.Default()

	c := stats.NewCharacter("char-1", "Tester", s.cfg)
	c.Level = 4
	c.LevelCurrency = 17
	c.Gold = 321
	c.Scrap = 12
	c.Execution = 35
	c.Equipped[entities.SlotWeaponL] = &entities.Equipment{
		ID:          "item_1",
		Name:        "Tempest Keen Arc Blade",
		Slot:        entities.SlotWeaponL,
		Rarity:      entities.RarityEpic,
		BasePower:   22,
		Base:        entities.StatBundle{Attack: 22, Crit: 0.0176},
		Affixes:     []entities.AffixKind{entities.AffixKeen, entities.AffixBrutal},
		Set:         "tempest",
		Enhancement: 3,
	}
	c.Bag.AddEquipment(&entities.Equipment{
		ID:        "item_2",
		Name:      "Chassis Plate",
		Slot:      entities.SlotBody,
		Rarity:    entities.RarityCommon,
		BasePower: 9,
		Base:      entities.StatBundle{HP: 36, Defense: 5},
	})
	c.Bag.AddConsumable(&entities.Consumable{ID: "item_3", Name: "Repair Kit", Kind: entities.ConsumableRepairKit, Amount: 30, Price: 15})
	stats.Clamp(c, s.cfg)
	c.HP = 77

	progress := tower.NewProgress(s.cfg)
	progress.Floor = 3
	progress.HighestFloor = 3
	progress.NormalsDefeated = 2
	progress.EliteSpawned = true

	s.state = &entities.State{
		Character: c,
		Tower:     progress,
		Battle: entities.Battle{
			Enemy: &entities.Enemy{ID: "enemy_9", Name: "Scout Drone", Class: entities.ClassNormal, Level: 5, HP: 40, HPMax: 90, Attack: 21, Defense: 7},
			Burst: entities.BurstState{Active: true, TurnsLeft: 2, AttackMult: 1.5, IncomingMult: 0.7},
			Turn:  6,
			Log:   []string{"basic hits Scout Drone for 12"},
		},
	}
}

func (s *SnapshotTestSuite) TestRoundTrip() {
	data, err := snapshot.Encode(s.state)
	s.Require().NoError(err)

	restored, err := snapshot.Decode(data, s.cfg)
	s.Require().NoError(err)

	s.Assert().Equal(s.state, restored)
	s.Assert().Equal(stats.Effective(s.state.Character, s.cfg), stats.Effective(restored.Character, s.cfg))
	s.Assert().Equal(stats.Maxima(s.state.Character, s.cfg), stats.Maxima(restored.Character, s.cfg))
	s.Assert().Equal(s.state.Character.Bag, restored.Character.Bag)
	s.Assert().Equal(s.state.Tower, restored.Tower)
}

func (s *SnapshotTestSuite) TestHealthyStateNeedsNoRepair() {
	s.Assert().Empty(snapshot.Repair(s.state.Clone(), s.cfg))
}

func (s *SnapshotTestSuite) TestBlobRoundTrip() {
	blob, err := snapshot.EncodeBlob(s.state)
	s.Require().NoError(err)

	restored, err := snapshot.DecodeBlob(blob, s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal(s.state, restored)

	restored, err = snapshot.DecodeBlob("data:application/json;base64,"+blob, s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal(s.state, restored)
}

func (s *SnapshotTestSuite) TestDecodeErrors() {
	_, err := snapshot.Decode([]byte("{not json"), s.cfg)
	s.Require().Error(err)
	s.Assert().True(errors.IsDataLoss(err))

	_, err = snapshot.Decode([]byte("null"), s.cfg)
	s.Require().Error(err)
	s.Assert().True(errors.IsDataLoss(err))

	_, err = snapshot.Decode([]byte(`{"version": 99, "state": {}}`), s.cfg)
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = snapshot.DecodeBlob("%%%", s.cfg)
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = snapshot.Encode(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

const v1Save = `{
  "player": {
    "level": 3, "exp": 40,
    "hp": 80, "hpMax": 124, "mp": 20, "mpMax": 58,
    "coh": 55, "cohMax": 104, "exe": 15, "exeMax": 100,
    "gold": 120,
    "atk": 10, "def": 5, "crit": 0.05, "hit": 0.85,
    "equips": {
      "weaponL": {"id": "w1", "name": "Arc Blade", "rarity": "rare", "basePower": 12, "base": {"attack": 12}, "enh": 2},
      "weaponR": null,
      "head": null
    },
    "bag": [
      {"id": "b1", "name": "Pulse Driver", "slot": "weaponR", "rarity": "common", "basePower": 5, "base": {"attack": 5}},
      {"id": "c1", "name": "Repair Kit", "kind": "repair_kit", "amount": 30, "price": 15}
    ]
  },
  "battle": {"burst": {"active": true, "turns": 2}},
  "floor": 4
}`

func (s *SnapshotTestSuite) TestDecodeV1() {
	state, err := snapshot.Decode([]byte(v1Save), s.cfg)
	s.Require().NoError(err)

	c := state.Character
	s.Assert().Equal(3, c.Level)
	s.Assert().Equal(40, c.LevelCurrency)
	s.Assert().Equal(80, c.HP)
	s.Assert().Equal(124, c.HPMax)
	s.Assert().Equal(55, c.Resonance)
	s.Assert().Equal(104, c.ResonanceMax)
	s.Assert().Equal(15, c.Execution)
	s.Assert().Equal(120, c.Gold)
	s.Assert().Equal(0, c.Scrap)
	s.Assert().Equal(entities.CombatStats{Attack: 10, Defense: 5, Crit: 0.05, Hit: 0.85}, c.Base)

	s.Require().Len(c.Equipped, 1)
	w := c.Equipped[entities.SlotWeaponL]
	s.Require().NotNil(w)
	s.Assert().Equal("w1", w.ID)
	s.Assert().Equal(entities.SlotWeaponL, w.Slot)
	s.Assert().Equal(12, w.BasePower)
	s.Assert().Equal(2, w.Enhancement)

	s.Require().Len(c.Bag.Equipment, 1)
	s.Assert().Equal(entities.SlotWeaponR, c.Bag.Equipment[0].Slot)
	s.Require().Len(c.Bag.Consumables, 1)
	s.Assert().Equal(entities.ConsumableRepairKit, c.Bag.Consumables[0].Kind)

	s.Assert().Equal(4, state.Tower.Floor)
	s.Assert().Equal(4, state.Tower.HighestFloor)
	s.Assert().Equal(30, state.Tower.MaxFloor)
	s.Assert().Equal(5, state.Tower.NormalsRequired)

	s.Assert().Equal(entities.BurstState{Active: true, TurnsLeft: 2, AttackMult: 1.5, IncomingMult: 0.7}, state.Battle.Burst)
}

func (s *SnapshotTestSuite) TestDecodeV1EquippedSlotNames() {
	doc := `{"player": {
	  "equips": {"weaponL": {"id": "w1", "slot": "weaponL", "rarity": "rare", "basePower": 12, "base": {"attack": 12}}},
	  "bag": [{"id": "b1", "slot": "weaponR", "rarity": "common", "basePower": 5, "base": {"attack": 5}}]
	}}`

	state, err := snapshot.Decode([]byte(doc), s.cfg)
	s.Require().NoError(err)

	c := state.Character
	s.Require().Len(c.Equipped, 1)
	w := c.Equipped[entities.SlotWeaponL]
	s.Require().NotNil(w)
	s.Assert().Equal("w1", w.ID)
	s.Assert().Equal(entities.SlotWeaponL, w.Slot)
	s.Require().Len(c.Bag.Equipment, 1)
	s.Assert().Equal("b1", c.Bag.Equipment[0].ID)
}

func (s *SnapshotTestSuite) TestDecodeV2() {
	doc := `{
	  "version": 2,
	  "player": {"id": "p", "level": 2, "exp": 10, "hp": 50, "gold": 5,
	             "base": {"attack": 12, "defense": 6, "crit": 0.05, "hit": 0.85},
	             "equipped": {}, "bag": {"equipment": [], "consumables": []}},
	  "floor": {"floor": 2, "normals_defeated": 3},
	  "battle": {"burst": {"active": false}}
	}`

	state, err := snapshot.Decode([]byte(doc), s.cfg)
	s.Require().NoError(err)

	s.Assert().Equal(10, state.Character.LevelCurrency)
	s.Assert().Equal(12, state.Character.Base.Attack)
	s.Assert().Equal(112, state.Character.HPMax)
	s.Assert().Equal(3, state.Tower.NormalsDefeated)
	s.Assert().Equal(2, state.Tower.Floor)
	s.Assert().Equal(entities.NeutralBurst(), state.Battle.Burst)
}

func (s *SnapshotTestSuite) TestMigrationIsIdempotent() {
	var doc snapshot.Raw
	s.Require().NoError(json.Unmarshal([]byte(v1Save), &doc))

	once := snapshot.Migrate(doc, 1)
	onceJSON, err := json.Marshal(once)
	s.Require().NoError(err)

	var again snapshot.Raw
	s.Require().NoError(json.Unmarshal(onceJSON, &again))
	twiceJSON, err := json.Marshal(snapshot.Migrate(again, 1))
	s.Require().NoError(err)

	s.Assert().JSONEq(string(onceJSON), string(twiceJSON))
	s.Assert().Equal(float64(snapshot.CurrentVersion), once["version"])
}

func (s *SnapshotTestSuite) TestTypeMismatchIsRepaired() {
	doc := `{"version": 3, "state": {
	  "character": {"id": "p", "level": "three", "gold": 50, "hp": "full"},
	  "tower": {"floor": "top"}
	}}`

	state, err := snapshot.Decode([]byte(doc), s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal(1, state.Character.Level)
	s.Assert().Equal(50, state.Character.Gold)
	s.Assert().Equal(0, state.Character.HP)
	s.Assert().Equal(1, state.Tower.Floor)
	s.Assert().Equal(entities.CombatStats{Attack: 10, Defense: 5, Crit: 0.05, Hit: 0.85}, state.Character.Base)
}

func (s *SnapshotTestSuite) TestMissingStateStartsFresh() {
	state, err := snapshot.Decode([]byte(`{"version": 3}`), s.cfg)
	s.Require().NoError(err)
	s.Require().NotNil(state.Character)
	s.Assert().Equal(1, state.Character.Level)
	s.Assert().Equal(100, state.Character.HP)
	s.Assert().Equal(tower.NewProgress(s.cfg), state.Tower)
}

func (s *SnapshotTestSuite) TestRecoveredCharacterID() {
	state, err := snapshot.Decode([]byte(`{"version": 3}`), s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal("recovered_1", state.Character.ID)

	state, err = snapshot.Decode([]byte(`{"version": 3, "state": {"character": {"level": 2}}}`), s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal("recovered_1", state.Character.ID)
	s.Assert().Equal(2, state.Character.Level)
}

func (s *SnapshotTestSuite) TestRepair() {
	c := s.state.Character
	w := c.Equipped[entities.SlotWeaponL]
	w.Enhancement = 14
	w.Affixes = []entities.AffixKind{entities.AffixKeen, entities.AffixKeen, entities.AffixVital, entities.AffixBrutal}
	// same item in the bag as well as equipped
	c.Bag.AddEquipment(w.Clone())
	// body item sitting in the head slot
	c.Equipped[entities.SlotHead] = &entities.Equipment{ID: "item_8", Slot: entities.SlotBody, Rarity: "mythic", BasePower: 0}
	c.HP = 5000
	c.Gold = -3
	s.state.Tower.BossDone = true
	s.state.Battle.Burst = entities.BurstState{Active: false, TurnsLeft: 2, AttackMult: 3}

	fixes := snapshot.Repair(s.state, s.cfg)
	s.Assert().NotEmpty(fixes)

	s.Assert().Equal(10, w.Enhancement)
	s.Assert().Equal([]entities.AffixKind{entities.AffixKeen, entities.AffixVital}, w.Affixes)
	s.Assert().Nil(c.Equipped[entities.SlotHead])

	ids := map[string]int{}
	for _, eq := range c.Bag.Equipment {
		ids[eq.ID]++
	}
	s.Assert().Equal(map[string]int{"item_2": 1, "item_8": 1}, ids)

	moved, ok := c.Bag.FindEquipment("item_8")
	s.Require().True(ok)
	s.Assert().Equal(entities.RarityCommon, moved.Rarity)
	s.Assert().Equal(1, moved.BasePower)

	s.Assert().Equal(c.HPMax, c.HP)
	s.Assert().Equal(0, c.Gold)
	s.Assert().True(s.state.Tower.MiniBossDone)
	s.Assert().Equal(5, s.state.Tower.NormalsDefeated)
	s.Assert().Equal(entities.NeutralBurst(), s.state.Battle.Burst)
}

func (s *SnapshotTestSuite) TestRepairClampsEnhancementToBalance() {
	s.cfg.Enhancement.MaxLevel = 5
	w := s.state.Character.Equipped[entities.SlotWeaponL]
	w.Enhancement = 8

	snapshot.Repair(s.state, s.cfg)
	s.Assert().Equal(5, w.Enhancement)
}

func (s *SnapshotTestSuite) TestEncodeIsVersioned() {
	data, err := snapshot.Encode(s.state)
	s.Require().NoError(err)

	var doc map[string]any
	s.Require().NoError(json.Unmarshal(data, &doc))
	s.Assert().Equal(float64(snapshot.CurrentVersion), doc["version"])

	blob, err := snapshot.EncodeBlob(s.state)
	s.Require().NoError(err)
	raw, err := base64.StdEncoding.DecodeString(blob)
	s.Require().NoError(err)
	s.Assert().JSONEq(string(data), string(raw))
}
