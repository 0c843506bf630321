package game_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/combat"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/clock"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

// recordingBus keeps the type of every published event
type recordingBus struct {
	mu    sync.Mutex
	types []string
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.types = append(b.types, e.Type())
	return nil
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingBus) Unsubscribe(_ string) error { return nil }
func (b *recordingBus) Clear(_ string)             {}
func (b *recordingBus) ClearAll()                  {}

func (b *recordingBus) published() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.types...)
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *balance.Config
	script *chance.Script
	bus    *recordingBus
	repo   *saves.InMemoryRepository
	state  *entities.State
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = balance.Default()
	s.script = chance.NewScript()
	s.bus = &recordingBus{}
	s.repo = saves.NewInMemory(clock.NewFixed(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	s.state = &entities.State{
		Character: stats.NewCharacter("char-1", "Tester", s.cfg),
		Tower:     tower.NewProgress(s.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst()},
	}
}

func (s *OrchestratorTestSuite) service() game.Service {
	svc, err := game.NewOrchestrator(&game.Config{
		Balance:  s.cfg,
		Source:   s.script,
		IDs:      idgen.NewSequential("id"),
		EventBus: s.bus,
		Saves:    s.repo,
		State:    s.state,
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) currentState(svc game.Service) *entities.State {
	out, err := svc.GetState(s.ctx, &game.GetStateInput{})
	s.Require().NoError(err)
	return out.State
}

func (s *OrchestratorTestSuite) weakEnemy() *entities.Enemy {
	return &entities.Enemy{
		ID:     "enemy-1",
		Name:   "Scout Drone",
		Class:  entities.ClassNormal,
		Level:  1,
		HP:     1,
		HPMax:  42,
		Attack: 9,
	}
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := game.NewOrchestrator(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = game.NewOrchestrator(&game.Config{Balance: s.cfg})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestNewGameStartsFresh() {
	s.state.Character.Gold = 999
	svc := s.service()

	out, err := svc.NewGame(s.ctx, &game.NewGameInput{Name: "Nova"})
	s.Require().NoError(err)

	s.Assert().Equal("Nova", out.State.Character.Name)
	s.Assert().Equal(1, out.State.Character.Level)
	s.Assert().Equal(s.cfg.Character.StartGold, out.State.Character.Gold)
	s.Assert().Equal(1, out.State.Tower.Floor)
	s.Assert().Equal([]string{game.EventGameStarted}, s.bus.published())
}

func (s *OrchestratorTestSuite) TestExploreFindsEncounter() {
	// event gate misses so the floor spawns its first normal
	s.script.Floats(0.9)
	svc := s.service()

	out, err := svc.Explore(s.ctx, &game.ExploreInput{})
	s.Require().NoError(err)
	s.Require().NotNil(out.Enemy)
	s.Assert().Nil(out.Event)
	s.Assert().Equal(entities.ClassNormal, out.Enemy.Class)
	s.Assert().Equal(42, out.Enemy.HP)

	battle, err := svc.GetBattle(s.ctx, &game.GetBattleInput{})
	s.Require().NoError(err)
	s.Assert().Equal(out.Enemy, battle.Enemy)
	s.Assert().Equal([]string{game.EventEncounterFound}, s.bus.published())

	_, err = svc.Explore(s.ctx, &game.ExploreInput{})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestExploreEvent() {
	// event gate passes, weighted pick lands on supply
	s.script.Floats(0.1).Ints(0)
	s.state.Character.HP = 10
	svc := s.service()

	out, err := svc.Explore(s.ctx, &game.ExploreInput{})
	s.Require().NoError(err)
	s.Require().NotNil(out.Event)
	s.Assert().Nil(out.Enemy)
	s.Assert().Equal(entities.EventSupply, out.Event.Event)
	s.Assert().Greater(s.currentState(svc).Character.HP, 10)
	s.Assert().Equal([]string{game.EventFloorEvent}, s.bus.published())
}

func (s *OrchestratorTestSuite) TestAttackWithoutEnemy() {
	svc := s.service()

	_, err := svc.Attack(s.ctx, &game.AttackInput{Action: combat.ActionBasic})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))
	s.Assert().Empty(s.bus.published())
}

func (s *OrchestratorTestSuite) TestAttackVictoryPaysOut() {
	s.state.Battle.Enemy = s.weakEnemy()
	// hit, no crit, equipment drops, common rarity; the rest fall back to 0.5
	s.script.Floats(0.0, 0.99, 0.0, 0.99)
	svc := s.service()

	out, err := svc.Attack(s.ctx, &game.AttackInput{Action: combat.ActionBasic})
	s.Require().NoError(err)
	s.Require().True(out.Exchange.Victory)
	s.Require().NotNil(out.Victory)

	v := out.Victory
	s.Assert().Equal(12, v.Reward.Exp)
	s.Assert().Equal(8, v.Reward.Gold)
	s.Assert().Equal(0, v.LevelsGained)
	s.Require().NotNil(v.Equipment)
	s.Assert().Equal(entities.SlotWeaponL, v.Equipment.Slot)
	s.Assert().Equal(entities.RarityCommon, v.Equipment.Rarity)
	s.Assert().Equal(2, v.Equipment.BasePower)
	s.Assert().Nil(v.Consumable)
	s.Assert().Equal(tower.PhaseNormal, v.Phase)

	st := s.currentState(svc)
	s.Assert().Nil(st.Battle.Enemy)
	s.Assert().Equal(s.cfg.Character.StartGold+8, st.Character.Gold)
	s.Assert().Equal(12, st.Character.LevelCurrency)
	s.Assert().Equal(1, st.Tower.NormalsDefeated)
	s.Require().Len(st.Character.Bag.Equipment, 1)
	s.Assert().Equal(v.Equipment.ID, st.Character.Bag.Equipment[0].ID)

	s.Assert().Equal([]string{game.EventExchange, game.EventLoot, game.EventVictory}, s.bus.published())
}

func (s *OrchestratorTestSuite) TestAttackVictoryLevelsUp() {
	s.state.Battle.Enemy = s.weakEnemy()
	s.state.Character.LevelCurrency = 25
	s.state.Character.HP = 5
	// hit, no crit, no drops
	s.script.Floats(0.0, 0.99, 0.99, 0.99)
	svc := s.service()

	out, err := svc.Attack(s.ctx, &game.AttackInput{Action: combat.ActionBasic})
	s.Require().NoError(err)
	s.Require().NotNil(out.Victory)
	s.Assert().Equal(1, out.Victory.LevelsGained)
	s.Assert().Equal(2, out.Victory.Level)

	st := s.currentState(svc)
	s.Assert().Equal(7, st.Character.LevelCurrency)
	s.Assert().Equal(st.Character.HPMax, st.Character.HP, "level-up refills HP")
	s.Assert().Contains(s.bus.published(), game.EventLevelUp)
}

func (s *OrchestratorTestSuite) TestAttackDefeat() {
	s.state.Character.HP = 1
	s.state.Battle.Auto = true
	enemy := s.weakEnemy()
	enemy.HP = 500
	enemy.Attack = 500
	s.state.Battle.Enemy = enemy
	// miss; enemy variance falls back to 0.5
	s.script.Floats(0.99)
	svc := s.service()

	out, err := svc.Attack(s.ctx, &game.AttackInput{Action: combat.ActionBasic})
	s.Require().NoError(err)
	s.Assert().True(out.Exchange.Defeat)
	s.Assert().Nil(out.Victory)

	st := s.currentState(svc)
	s.Assert().Equal(30, st.Character.HP)
	s.Assert().Equal(s.cfg.Character.StartGold-25, st.Character.Gold)
	s.Assert().False(st.Battle.Auto)
	s.Assert().Nil(st.Battle.Enemy)
	s.Assert().Equal([]string{game.EventExchange, game.EventDefeat}, s.bus.published())
}

func (s *OrchestratorTestSuite) TestChallengeBoss() {
	svc := s.service()

	_, err := svc.ChallengeBoss(s.ctx, &game.ChallengeBossInput{})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))

	s.state.Tower.NormalsDefeated = s.cfg.Tower.NormalsRequired
	svc = s.service()

	out, err := svc.ChallengeBoss(s.ctx, &game.ChallengeBossInput{})
	s.Require().NoError(err)
	s.Assert().Equal(entities.ClassMiniBoss, out.Enemy.Class)
	s.Assert().Equal("Floor Warden", out.Enemy.Name)
}

func (s *OrchestratorTestSuite) TestAdvanceFloor() {
	svc := s.service()
	_, err := svc.AdvanceFloor(s.ctx, &game.AdvanceFloorInput{})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))

	s.state.Tower.NormalsDefeated = s.cfg.Tower.NormalsRequired
	s.state.Tower.MiniBossDone = true
	s.state.Tower.BossDone = true
	svc = s.service()

	out, err := svc.AdvanceFloor(s.ctx, &game.AdvanceFloorInput{})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.From)
	s.Assert().Equal(2, out.To)
	s.Assert().False(out.AtCap)

	progress, err := svc.GetProgress(s.ctx, &game.GetProgressInput{})
	s.Require().NoError(err)
	s.Assert().Equal(2, progress.Summary.Floor)
	s.Assert().Equal(tower.PhaseNormal, progress.Summary.Phase)
	s.Assert().Equal(0, progress.Summary.NormalsDefeated)
	s.Assert().NotEmpty(progress.Summary.Hint)
	s.Assert().Contains(s.bus.published(), game.EventFloorAdvanced)
}

func (s *OrchestratorTestSuite) TestEquipAndUnequip() {
	armor := &entities.Equipment{
		ID:        "item-1",
		Slot:      entities.SlotBody,
		Rarity:    entities.RarityCommon,
		BasePower: 10,
		Base:      entities.StatBundle{HP: 40, Defense: 6},
	}
	s.state.Character.Bag.AddEquipment(armor)
	svc := s.service()

	out, err := svc.Equip(s.ctx, &game.EquipInput{ItemID: "item-1"})
	s.Require().NoError(err)
	s.Assert().Equal(entities.SlotBody, out.Slot)
	s.Assert().Nil(out.Replaced)
	s.Assert().Equal(140, out.Maxima.HP)

	equipment, err := svc.GetEquipment(s.ctx, &game.GetEquipmentInput{})
	s.Require().NoError(err)
	s.Require().Len(equipment.Items, 1)
	s.Assert().Equal(40, equipment.Items[0].Final.HP)

	bag, err := svc.GetBag(s.ctx, &game.GetBagInput{})
	s.Require().NoError(err)
	s.Assert().Empty(bag.Equipment)

	_, err = svc.Equip(s.ctx, &game.EquipInput{ItemID: "item-1"})
	s.Assert().True(errors.IsFailedPrecondition(err))
	_, err = svc.Equip(s.ctx, &game.EquipInput{ItemID: "missing"})
	s.Assert().True(errors.IsInvalidReference(err))

	un, err := svc.Unequip(s.ctx, &game.UnequipInput{Slot: entities.SlotBody})
	s.Require().NoError(err)
	s.Assert().Equal("item-1", un.Item.ID)
	s.Assert().Equal(100, un.Maxima.HP)

	_, err = svc.Unequip(s.ctx, &game.UnequipInput{Slot: entities.SlotBody})
	s.Assert().True(errors.IsFailedPrecondition(err))
	_, err = svc.Unequip(s.ctx, &game.UnequipInput{Slot: "tail"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestUnequipClampsResources() {
	s.state.Character.Equipped[entities.SlotBody] = &entities.Equipment{
		ID:        "item-1",
		Slot:      entities.SlotBody,
		Rarity:    entities.RarityCommon,
		BasePower: 10,
		Base:      entities.StatBundle{HP: 40},
	}
	s.state.Character.HP = 140
	svc := s.service()

	_, err := svc.Unequip(s.ctx, &game.UnequipInput{Slot: entities.SlotBody})
	s.Require().NoError(err)

	st := s.currentState(svc)
	s.Assert().Equal(100, st.Character.HPMax)
	s.Assert().Equal(100, st.Character.HP)
}

func (s *OrchestratorTestSuite) TestEquipSwapsOccupiedSlot() {
	s.state.Character.Equipped[entities.SlotHead] = &entities.Equipment{ID: "old", Slot: entities.SlotHead, Rarity: entities.RarityCommon, BasePower: 1}
	s.state.Character.Bag.AddEquipment(&entities.Equipment{ID: "new", Slot: entities.SlotHead, Rarity: entities.RarityRare, BasePower: 5})
	svc := s.service()

	out, err := svc.Equip(s.ctx, &game.EquipInput{ItemID: "new"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Replaced)
	s.Assert().Equal("old", out.Replaced.ID)

	st := s.currentState(svc)
	s.Assert().Equal("new", st.Character.Equipped[entities.SlotHead].ID)
	s.Require().Len(st.Character.Bag.Equipment, 1)
	s.Assert().Equal("old", st.Character.Bag.Equipment[0].ID)
}

func (s *OrchestratorTestSuite) TestFailedCommandLeavesStateUnchanged() {
	s.state.Character.Gold = 0
	s.state.Character.Bag.AddEquipment(&entities.Equipment{ID: "item-1", Slot: entities.SlotArms, Rarity: entities.RarityEpic, BasePower: 30})
	svc := s.service()
	before := s.currentState(svc)

	_, err := svc.Enhance(s.ctx, &game.EnhanceInput{ItemID: "item-1"})
	s.Require().Error(err)
	s.Assert().True(errors.IsInsufficientFunds(err))

	s.Assert().Equal(before, s.currentState(svc))
	s.Assert().Empty(s.bus.published())
}

func (s *OrchestratorTestSuite) TestEnhanceAndDismantle() {
	s.state.Character.Gold = 10_000
	s.state.Character.Scrap = 100
	s.state.Character.Bag.AddEquipment(&entities.Equipment{
		ID:        "item-1",
		Slot:      entities.SlotWeaponR,
		Rarity:    entities.RarityCommon,
		BasePower: 20,
		Base:      entities.StatBundle{Attack: 20},
	})
	svc := s.service()

	enh, err := svc.Enhance(s.ctx, &game.EnhanceInput{ItemID: "item-1"})
	s.Require().NoError(err)
	s.Assert().Equal(1, enh.Item.Enhancement)
	s.Assert().Equal(21, enh.Final.Attack)
	s.Assert().False(enh.Equipped)

	// common yield 2 + 20/10 + 2*1
	dis, err := svc.Dismantle(s.ctx, &game.DismantleInput{ItemID: "item-1"})
	s.Require().NoError(err)
	s.Assert().Equal(6, dis.Scrap)
	s.Assert().Equal(100-enh.Scrap+6, dis.TotalScrap)

	_, err = svc.Dismantle(s.ctx, &game.DismantleInput{ItemID: "item-1"})
	s.Assert().True(errors.IsInvalidReference(err))
	s.Assert().Equal([]string{game.EventItemEnhanced, game.EventItemDismantled}, s.bus.published())
}

func (s *OrchestratorTestSuite) TestDiscard() {
	s.state.Character.Bag.AddEquipment(&entities.Equipment{ID: "item-1", Slot: entities.SlotLegs, Rarity: entities.RarityCommon, BasePower: 3})
	svc := s.service()

	out, err := svc.Discard(s.ctx, &game.DiscardInput{ItemID: "item-1"})
	s.Require().NoError(err)
	s.Assert().Equal("item-1", out.Item.ID)

	bag, err := svc.GetBag(s.ctx, &game.GetBagInput{})
	s.Require().NoError(err)
	s.Assert().Empty(bag.Equipment)
}

func (s *OrchestratorTestSuite) TestUseConsumable() {
	s.state.Character.HP = 50
	s.state.Character.Bag.AddConsumable(&entities.Consumable{ID: "kit-1", Name: "Repair Kit", Kind: entities.ConsumableRepairKit, Amount: 30})
	s.state.Character.Bag.AddConsumable(&entities.Consumable{ID: "kit-2", Name: "Repair Kit", Kind: entities.ConsumableRepairKit, Amount: 30})
	svc := s.service()

	out, err := svc.UseConsumable(s.ctx, &game.UseConsumableInput{ItemID: "kit-1"})
	s.Require().NoError(err)
	s.Assert().Equal(30, out.Restored)

	// only 20 missing
	out, err = svc.UseConsumable(s.ctx, &game.UseConsumableInput{ItemID: "kit-2"})
	s.Require().NoError(err)
	s.Assert().Equal(20, out.Restored)

	st := s.currentState(svc)
	s.Assert().Equal(100, st.Character.HP)
	s.Assert().Empty(st.Character.Bag.Consumables)

	_, err = svc.UseConsumable(s.ctx, &game.UseConsumableInput{ItemID: "kit-1"})
	s.Assert().True(errors.IsInvalidReference(err))
}

func (s *OrchestratorTestSuite) TestUseConsumableOnFullResourceIsRejected() {
	s.state.Character.Bag.AddConsumable(&entities.Consumable{ID: "cell-1", Name: "Energy Cell", Kind: entities.ConsumableEnergyCell, Amount: 15})
	svc := s.service()

	_, err := svc.UseConsumable(s.ctx, &game.UseConsumableInput{ItemID: "cell-1"})
	s.Require().Error(err)
	s.Assert().True(errors.IsFailedPrecondition(err))

	bag, err := svc.GetBag(s.ctx, &game.GetBagInput{})
	s.Require().NoError(err)
	s.Assert().Len(bag.Consumables, 1)
}

func (s *OrchestratorTestSuite) TestBuyConsumable() {
	svc := s.service()

	out, err := svc.BuyConsumable(s.ctx, &game.BuyConsumableInput{Kind: entities.ConsumableRepairKit})
	s.Require().NoError(err)
	s.Assert().Equal(15, out.Item.Price)
	s.Assert().Equal(30, out.Item.Amount)
	s.Assert().Equal(s.cfg.Character.StartGold-15, out.Gold)

	_, err = svc.BuyConsumable(s.ctx, &game.BuyConsumableInput{Kind: "elixir"})
	s.Assert().True(errors.IsInvalidArgument(err))

	s.state.Character.Gold = 10
	svc = s.service()
	_, err = svc.BuyConsumable(s.ctx, &game.BuyConsumableInput{Kind: entities.ConsumableRepairKit})
	s.Assert().True(errors.IsInsufficientFunds(err))
}

func (s *OrchestratorTestSuite) TestRest() {
	s.state.Character.HP = 10
	s.state.Character.MP = 0
	svc := s.service()

	out, err := svc.Rest(s.ctx, &game.RestInput{})
	s.Require().NoError(err)
	s.Assert().Equal(40, out.HP)
	s.Assert().Equal(20, out.MP)
	s.Assert().Equal(10, out.Resonance)

	st := s.currentState(svc)
	s.Assert().Equal(50, st.Character.HP)
	s.Assert().Equal(20, st.Character.MP)
	s.Assert().Equal(s.cfg.Character.StartResonance+10, st.Character.Resonance)

	s.state.Battle.Enemy = s.weakEnemy()
	svc = s.service()
	_, err = svc.Rest(s.ctx, &game.RestInput{})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestSetAuto() {
	svc := s.service()

	out, err := svc.SetAuto(s.ctx, &game.SetAutoInput{Enabled: true})
	s.Require().NoError(err)
	s.Assert().True(out.Enabled)

	battle, err := svc.GetBattle(s.ctx, &game.GetBattleInput{})
	s.Require().NoError(err)
	s.Assert().True(battle.Auto)
}

func (s *OrchestratorTestSuite) TestSaveAndLoad() {
	s.state.Character.Gold = 321
	s.state.Tower.NormalsDefeated = 3
	s.state.Character.Bag.AddEquipment(&entities.Equipment{ID: "item-1", Slot: entities.SlotAcc1, Rarity: entities.RarityRare, BasePower: 12, Base: entities.StatBundle{MP: 12}})
	svc := s.service()

	saved, err := svc.Save(s.ctx, &game.SaveInput{Slot: "main"})
	s.Require().NoError(err)
	s.Assert().Equal("main", saved.Slot)
	s.Assert().Equal(3, saved.Version)

	statsBefore, err := svc.GetStats(s.ctx, &game.GetStatsInput{})
	s.Require().NoError(err)

	_, err = svc.NewGame(s.ctx, &game.NewGameInput{})
	s.Require().NoError(err)
	_, err = svc.SetAuto(s.ctx, &game.SetAutoInput{Enabled: true})
	s.Require().NoError(err)

	loaded, err := svc.Load(s.ctx, &game.LoadInput{Slot: "main"})
	s.Require().NoError(err)
	s.Assert().Equal(321, loaded.State.Character.Gold)
	s.Assert().Equal(3, loaded.State.Tower.NormalsDefeated)
	s.Assert().False(loaded.State.Battle.Auto)

	statsAfter, err := svc.GetStats(s.ctx, &game.GetStatsInput{})
	s.Require().NoError(err)
	s.Assert().Equal(statsBefore.Effective, statsAfter.Effective)
	s.Assert().Equal(statsBefore.Maxima, statsAfter.Maxima)

	bag, err := svc.GetBag(s.ctx, &game.GetBagInput{})
	s.Require().NoError(err)
	s.Require().Len(bag.Equipment, 1)
	s.Assert().Equal("item-1", bag.Equipment[0].ID)

	list, err := svc.ListSaves(s.ctx, &game.ListSavesInput{})
	s.Require().NoError(err)
	s.Require().Len(list.Slots, 1)
	s.Assert().Equal("main", list.Slots[0].Slot)

	s.Assert().Contains(s.bus.published(), game.EventGameLoaded)
}

func (s *OrchestratorTestSuite) TestLoadMissingSlot() {
	svc := s.service()

	_, err := svc.Load(s.ctx, &game.LoadInput{Slot: "empty"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestExportImport() {
	s.state.Tower.NormalsDefeated = 4
	s.state.Character.Scrap = 17
	svc := s.service()

	exported, err := svc.Export(s.ctx, &game.ExportInput{})
	s.Require().NoError(err)
	s.Assert().NotEmpty(exported.Blob)

	progressBefore, err := svc.GetProgress(s.ctx, &game.GetProgressInput{})
	s.Require().NoError(err)

	_, err = svc.NewGame(s.ctx, &game.NewGameInput{})
	s.Require().NoError(err)

	imported, err := svc.Import(s.ctx, &game.ImportInput{Blob: exported.Blob})
	s.Require().NoError(err)
	s.Assert().Equal(17, imported.State.Character.Scrap)

	progressAfter, err := svc.GetProgress(s.ctx, &game.GetProgressInput{})
	s.Require().NoError(err)
	s.Assert().Equal(progressBefore, progressAfter)

	_, err = svc.Import(s.ctx, &game.ImportInput{Blob: "%%%"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestQueriesReturnCopies() {
	s.state.Character.Bag.AddEquipment(&entities.Equipment{ID: "item-1", Slot: entities.SlotHead, Rarity: entities.RarityCommon, BasePower: 1})
	svc := s.service()

	st := s.currentState(svc)
	st.Character.Gold = 0
	st.Character.Bag.Equipment[0].Enhancement = 9

	bag, err := svc.GetBag(s.ctx, &game.GetBagInput{})
	s.Require().NoError(err)
	s.Assert().Equal(s.cfg.Character.StartGold, bag.Gold)
	s.Assert().Equal(0, bag.Equipment[0].Enhancement)
}

func (s *OrchestratorTestSuite) TestConcurrentCommandsAndQueries() {
	s.state.Character.Bag.AddConsumable(&entities.Consumable{ID: "kit-1", Kind: entities.ConsumableRepairKit, Amount: 5})
	svc := s.service()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Rest(s.ctx, &game.RestInput{})
		}()
		go func() {
			defer wg.Done()
			out, err := svc.GetStats(s.ctx, &game.GetStatsInput{})
			if err == nil {
				s.Assert().LessOrEqual(out.Character.HP, out.Character.HPMax)
			}
		}()
	}
	wg.Wait()
}

func (s *OrchestratorTestSuite) TestNilInputs() {
	svc := s.service()

	_, err := svc.Explore(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
	_, err = svc.Attack(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
	_, err = svc.GetState(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}
