package leveling_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/leveling"
	"github.com/KirkDiggler/alloy-horizon/internal/stats"
)

type LevelingTestSuite struct {
	suite.Suite
	cfg  *balance.Config
	char *entities.Character
}

func TestLevelingSuite(t *testing.T) {
	suite.Run(t, new(LevelingTestSuite))
}

func (s *LevelingTestSuite) SetupTest() {
	s.cfg = balance.Default()
	s.char = stats.NewCharacter("char-1", "Tester", s.cfg)
}

func (s *LevelingTestSuite) TestThreshold() {
	testCases := []struct {
		level int
		want  int
	}{
		{1, 30},
		{2, 80},
		{3, 150},
		{10, 1200},
	}

	for _, tc := range testCases {
		s.Assert().Equal(tc.want, leveling.Threshold(tc.level, s.cfg.Leveling), "level %d", tc.level)
	}
}

func (s *LevelingTestSuite) TestGrantBelowThreshold() {
	s.Assert().Equal(0, leveling.Grant(s.char, 29, s.cfg))
	s.Assert().Equal(1, s.char.Level)
	s.Assert().Equal(29, s.char.LevelCurrency)
}

func (s *LevelingTestSuite) TestGrantMultipleLevels() {
	s.char.HP = 10
	s.char.MP = 0

	// 30 + 80 + 5 left over
	gained := leveling.Grant(s.char, 115, s.cfg)

	s.Assert().Equal(2, gained)
	s.Assert().Equal(3, s.char.Level)
	s.Assert().Equal(5, s.char.LevelCurrency)
	s.Assert().Equal(124, s.char.HPMax)
	s.Assert().Equal(124, s.char.HP)
	s.Assert().Equal(58, s.char.MP)
}

func (s *LevelingTestSuite) TestGrantStopsAtMaxLevel() {
	s.cfg.Leveling.MaxLevel = 2

	gained := leveling.Grant(s.char, 10_000, s.cfg)
	s.Assert().Equal(1, gained)
	s.Assert().Equal(2, s.char.Level)
	s.Assert().Equal(10_000-30, s.char.LevelCurrency)

	s.Assert().Equal(0, leveling.Grant(s.char, 10, s.cfg))
	s.Assert().Equal(10_000-20, s.char.LevelCurrency)
}

func (s *LevelingTestSuite) TestGrantIgnoresNegative() {
	s.char.LevelCurrency = 5
	leveling.Grant(s.char, -50, s.cfg)
	s.Assert().Equal(5, s.char.LevelCurrency)
}

func (s *LevelingTestSuite) TestRewards() {
	testCases := []struct {
		class entities.EncounterClass
		level int
		want  leveling.Reward
	}{
		{entities.ClassNormal, 1, leveling.Reward{Exp: 12, Gold: 8, Scrap: 0, EquipmentChance: 0.35, ConsumableChance: 0.15}},
		{entities.ClassElite, 2, leveling.Reward{Exp: 28, Gold: 19, Scrap: 2, EquipmentChance: 0.75, ConsumableChance: 0.25}},
		{entities.ClassMiniBoss, 3, leveling.Reward{Exp: 50, Gold: 35, Scrap: 4, EquipmentChance: 1, ConsumableChance: 0.35}},
		{entities.ClassBoss, 4, leveling.Reward{Exp: 96, Gold: 68, Scrap: 8, EquipmentChance: 1, ConsumableChance: 0.5}},
	}

	for _, tc := range testCases {
		s.Run(string(tc.class), func() {
			enemy := &entities.Enemy{Class: tc.class, Level: tc.level}
			s.Assert().Equal(tc.want, leveling.Rewards(enemy, s.cfg))
		})
	}
}
