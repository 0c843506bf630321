package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
	savesmock "github.com/KirkDiggler/alloy-horizon/internal/repositories/saves/mock"
	"github.com/KirkDiggler/alloy-horizon/internal/snapshot"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
	"github.com/KirkDiggler/alloy-horizon/internal/testutils/mocks"
	"github.com/KirkDiggler/alloy-horizon/internal/tower"
)

type PersistenceTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	mockRepo *savesmock.MockRepository
	bus      *recordingBus
	cfg      *balance.Config
	svc      game.Service
}

func TestPersistenceSuite(t *testing.T) {
	suite.Run(t, new(PersistenceTestSuite))
}

func (s *PersistenceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = savesmock.NewMockRepository(s.ctrl)
	s.bus = &recordingBus{}
	s.cfg = balance.Default()

	st := &entities.State{
		Character: stats.NewCharacter("char-1", "Tester", s.cfg),
		Tower:     tower.NewProgress(s.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst(), Auto: true},
	}

	svc, err := game.NewOrchestrator(&game.Config{
		Balance:  s.cfg,
		Source:   chance.NewScript(),
		IDs:      idgen.NewSequential("id"),
		EventBus: s.bus,
		Saves:    s.mockRepo,
		State:    st,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *PersistenceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PersistenceTestSuite) TestSaveWritesCurrentVersion() {
	var written saves.SaveInput
	mocks.ExpectSaveWrite(s.ctx, s.mockRepo, "slot-a").
		Do(func(_ context.Context, input saves.SaveInput) { written = input })

	out, err := s.svc.Save(s.ctx, &game.SaveInput{Slot: "slot-a"})
	s.Require().NoError(err)
	s.Assert().Equal("slot-a", out.Slot)
	s.Assert().Equal(mocks.SavedAt, out.SavedAt)
	s.Assert().Equal(snapshot.CurrentVersion, out.Version)

	restored, err := snapshot.Decode(written.Data, s.cfg)
	s.Require().NoError(err)
	s.Assert().Equal("Tester", restored.Character.Name)
}

func (s *PersistenceTestSuite) TestSaveStorageFailureKeepsCode() {
	mocks.ExpectSaveWriteError(s.ctx, s.mockRepo, errors.Internal("connection reset"))

	_, err := s.svc.Save(s.ctx, &game.SaveInput{Slot: "slot-a"})
	s.Require().Error(err)
	s.Assert().True(errors.IsInternal(err))
	s.Assert().False(errors.IsRecoverable(err))
}

func (s *PersistenceTestSuite) TestLoadReplacesStateAndClearsAuto() {
	saved := &entities.State{
		Character: stats.NewCharacter("char-9", "Veteran", s.cfg),
		Tower:     tower.NewProgress(s.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst(), Auto: true},
	}
	saved.Tower.Floor = 4
	saved.Tower.HighestFloor = 4
	data, err := snapshot.Encode(saved)
	s.Require().NoError(err)

	mocks.ExpectSaveGet(s.ctx, s.mockRepo, "slot-b", data, nil)

	out, err := s.svc.Load(s.ctx, &game.LoadInput{Slot: "slot-b"})
	s.Require().NoError(err)
	s.Assert().Equal("Veteran", out.State.Character.Name)
	s.Assert().Equal(4, out.State.Tower.Floor)
	s.Assert().False(out.State.Battle.Auto)
	s.Assert().Contains(s.bus.published(), game.EventGameLoaded)
}

func (s *PersistenceTestSuite) TestLoadSkipsRestoredIDs() {
	saved := &entities.State{
		Character: stats.NewCharacter("id_7", "Veteran", s.cfg),
		Tower:     tower.NewProgress(s.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst()},
	}
	saved.Character.Bag.AddConsumable(&entities.Consumable{
		ID: "id_12", Name: "Repair Kit", Kind: entities.ConsumableRepairKit, Amount: 30, Price: 15,
	})
	data, err := snapshot.Encode(saved)
	s.Require().NoError(err)
	mocks.ExpectSaveGet(s.ctx, s.mockRepo, "slot-d", data, nil)

	_, err = s.svc.Load(s.ctx, &game.LoadInput{Slot: "slot-d"})
	s.Require().NoError(err)

	out, err := s.svc.BuyConsumable(s.ctx, &game.BuyConsumableInput{Kind: entities.ConsumableEnergyCell})
	s.Require().NoError(err)
	s.Assert().Equal("id_13", out.Item.ID)
}

func (s *PersistenceTestSuite) TestLoadCorruptSlotLeavesStateAlone() {
	mocks.ExpectSaveGet(s.ctx, s.mockRepo, "slot-c", []byte("{not json"), nil)

	_, err := s.svc.Load(s.ctx, &game.LoadInput{Slot: "slot-c"})
	s.Require().Error(err)
	s.Assert().True(errors.IsDataLoss(err))

	cur, err := s.svc.GetState(s.ctx, &game.GetStateInput{})
	s.Require().NoError(err)
	s.Assert().Equal("Tester", cur.State.Character.Name)
	s.Assert().True(cur.State.Battle.Auto)
}

func (s *PersistenceTestSuite) TestImportAbandonedKeepsState() {
	other := &entities.State{
		Character: stats.NewCharacter("char-5", "Drifter", s.cfg),
		Tower:     tower.NewProgress(s.cfg),
		Battle:    entities.Battle{Burst: entities.NeutralBurst()},
	}
	blob, err := snapshot.EncodeBlob(other)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err = s.svc.Import(ctx, &game.ImportInput{Blob: blob})
	s.Require().Error(err)
	s.Assert().ErrorIs(err, context.Canceled)
	s.Assert().NotContains(s.bus.published(), game.EventGameLoaded)

	cur, err := s.svc.GetState(s.ctx, &game.GetStateInput{})
	s.Require().NoError(err)
	s.Assert().Equal("Tester", cur.State.Character.Name)
	s.Assert().True(cur.State.Battle.Auto)
}

func (s *PersistenceTestSuite) TestLoadMissingSlot() {
	mocks.ExpectSaveGet(s.ctx, s.mockRepo, "nope", nil, errors.NotFound("save slot nope not found"))

	_, err := s.svc.Load(s.ctx, &game.LoadInput{Slot: "nope"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *PersistenceTestSuite) TestListSaves() {
	mocks.ExpectSaveList(s.ctx, s.mockRepo, "alpha", "beta")

	out, err := s.svc.ListSaves(s.ctx, &game.ListSavesInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Slots, 2)
	s.Assert().Equal("alpha", out.Slots[0].Slot)
	s.Assert().Equal(mocks.SavedAt, out.Slots[1].SavedAt)
}
