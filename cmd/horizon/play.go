package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/alloy-horizon/internal/combat"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively",
	Long:  `Read one command per line from stdin. Type "help" for the command list.`,
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.resume(ctx, cfg.Slot); err != nil {
		return err
	}

	s := newSession(a.game, cmd.OutOrStdout(), cfg.Slot)
	if err := s.loop(ctx, cmd.InOrStdin()); err != nil {
		return err
	}

	if cfg.Slot != "" {
		if _, err := a.game.Save(ctx, &game.SaveInput{Slot: cfg.Slot}); err != nil {
			return errors.Wrap(err, "failed to save on exit")
		}
	}
	return nil
}

type commandFunc func(ctx context.Context, args []string) error

// session maps REPL lines onto game operations
type session struct {
	game     game.Service
	out      io.Writer
	slot     string
	commands map[string]commandFunc
	usage    map[string]string
}

func newSession(svc game.Service, out io.Writer, slot string) *session {
	s := &session{game: svc, out: out, slot: slot}
	s.register()
	return s
}

func (s *session) register() {
	s.commands = map[string]commandFunc{
		"new":       s.newGame,
		"explore":   s.explore,
		"attack":    s.attack,
		"challenge": s.challenge,
		"advance":   s.advance,
		"rest":      s.rest,
		"equip":     s.equip,
		"unequip":   s.unequip,
		"enhance":   s.enhance,
		"dismantle": s.dismantle,
		"discard":   s.discard,
		"use":       s.use,
		"buy":       s.buy,
		"auto":      s.auto,
		"stats":     s.stats,
		"floor":     s.progress,
		"gear":      s.gear,
		"bag":       s.bag,
		"battle":    s.battle,
		"save":      s.save,
		"load":      s.load,
		"saves":     s.listSaves,
		"export":    s.export,
		"import":    s.importBlob,
	}
	s.usage = map[string]string{
		"new":       "new [name]",
		"explore":   "explore",
		"attack":    "attack [basic|skill|burst|execute]",
		"challenge": "challenge",
		"advance":   "advance",
		"rest":      "rest",
		"equip":     "equip <item-id>",
		"unequip":   "unequip <slot>",
		"enhance":   "enhance <item-id>",
		"dismantle": "dismantle <item-id>",
		"discard":   "discard <item-id>",
		"use":       "use <item-id>",
		"buy":       "buy <repair_kit|energy_cell|resonance_core|overclock_chip>",
		"auto":      "auto <on|off>",
		"stats":     "stats",
		"floor":     "floor",
		"gear":      "gear",
		"bag":       "bag",
		"battle":    "battle",
		"save":      "save [slot]",
		"load":      "load [slot]",
		"saves":     "saves",
		"export":    "export",
		"import":    "import <blob>",
	}
}

func (s *session) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s.printf("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		s.printf("> ")
	}
	return scanner.Err()
}

// exec runs one line. Gameplay rejections are printed and the session
// continues; only infrastructure failures end it.
func (s *session) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		s.help()
		return false, nil
	}

	fn, ok := s.commands[name]
	if !ok {
		s.printf("unknown command %q, try help\n", name)
		return false, nil
	}

	if err := fn(ctx, args); err != nil {
		if errors.IsRecoverable(err) {
			s.printf("rejected (%s): %s\n", errors.GetCode(err), errors.GetMessage(err))
			return false, nil
		}
		slog.Error("Command failed", "command", name, "error", err)
		return false, err
	}
	return false, nil
}

func (s *session) help() {
	names := make([]string, 0, len(s.usage))
	for name := range s.usage {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("  %s\n", s.usage[name])
	}
	s.printf("  quit\n")
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func arg(args []string, i int, name string) (string, error) {
	if i >= len(args) {
		return "", errors.InvalidArgumentf("%s is required", name)
	}
	return args[i], nil
}

func (s *session) newGame(ctx context.Context, args []string) error {
	out, err := s.game.NewGame(ctx, &game.NewGameInput{Name: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	s.printf("%s wakes on floor %d\n", out.State.Character.Name, out.State.Tower.Floor)
	return nil
}

func (s *session) explore(ctx context.Context, _ []string) error {
	out, err := s.game.Explore(ctx, &game.ExploreInput{})
	if err != nil {
		return err
	}
	if out.Event != nil {
		s.printf("%s\n", out.Event.Message)
	}
	if out.Enemy != nil {
		s.printEnemy("encounter", out.Enemy)
	}
	return nil
}

func (s *session) attack(ctx context.Context, args []string) error {
	action := combat.ActionBasic
	if len(args) > 0 {
		action = combat.Action(strings.ToLower(args[0]))
	}

	out, err := s.game.Attack(ctx, &game.AttackInput{Action: action})
	if err != nil {
		return err
	}
	for _, line := range out.Exchange.Log {
		s.printf("  %s\n", line)
	}

	if v := out.Victory; v != nil {
		s.printf("victory: +%d exp, +%d gold, +%d scrap\n", v.Reward.Exp, v.Reward.Gold, v.Reward.Scrap)
		if v.LevelsGained > 0 {
			s.printf("level up! now level %d\n", v.Level)
		}
		if v.Equipment != nil {
			s.printItem("drop", v.Equipment)
		}
		if v.Consumable != nil {
			s.printf("drop: %s (%s)\n", v.Consumable.Name, v.Consumable.ID)
		}
		s.printf("floor phase: %s\n", v.Phase)
	}
	if out.Exchange.Defeat {
		s.printf("defeated; lost %d gold\n", out.Exchange.GoldLost)
	}
	return nil
}

func (s *session) challenge(ctx context.Context, _ []string) error {
	out, err := s.game.ChallengeBoss(ctx, &game.ChallengeBossInput{})
	if err != nil {
		return err
	}
	s.printEnemy("challenge", out.Enemy)
	return nil
}

func (s *session) advance(ctx context.Context, _ []string) error {
	out, err := s.game.AdvanceFloor(ctx, &game.AdvanceFloorInput{})
	if err != nil {
		return err
	}
	if out.AtCap {
		s.printf("floor %d is the top of the tower\n", out.From)
		return nil
	}
	s.printf("climbed from floor %d to %d\n", out.From, out.To)
	return nil
}

func (s *session) rest(ctx context.Context, _ []string) error {
	out, err := s.game.Rest(ctx, &game.RestInput{})
	if err != nil {
		return err
	}
	s.printf("rested: +%d hp, +%d mp, +%d resonance\n", out.HP, out.MP, out.Resonance)
	return nil
}

func (s *session) equip(ctx context.Context, args []string) error {
	id, err := arg(args, 0, "item id")
	if err != nil {
		return err
	}
	out, err := s.game.Equip(ctx, &game.EquipInput{ItemID: id})
	if err != nil {
		return err
	}
	s.printItem("equipped "+out.Slot.String(), out.Equipped)
	if out.Replaced != nil {
		s.printItem("returned to bag", out.Replaced)
	}
	return nil
}

func (s *session) unequip(ctx context.Context, args []string) error {
	slot, err := arg(args, 0, "slot")
	if err != nil {
		return err
	}
	out, err := s.game.Unequip(ctx, &game.UnequipInput{Slot: entities.Slot(slot)})
	if err != nil {
		return err
	}
	s.printItem("unequipped", out.Item)
	return nil
}

func (s *session) enhance(ctx context.Context, args []string) error {
	id, err := arg(args, 0, "item id")
	if err != nil {
		return err
	}
	out, err := s.game.Enhance(ctx, &game.EnhanceInput{ItemID: id})
	if err != nil {
		return err
	}
	s.printf("%s is now +%d (paid %d gold, %d scrap)\n", out.Item.Name, out.Item.Enhancement, out.Gold, out.Scrap)
	return nil
}

func (s *session) dismantle(ctx context.Context, args []string) error {
	id, err := arg(args, 0, "item id")
	if err != nil {
		return err
	}
	out, err := s.game.Dismantle(ctx, &game.DismantleInput{ItemID: id})
	if err != nil {
		return err
	}
	s.printf("salvaged %d scrap (%d total)\n", out.Scrap, out.TotalScrap)
	return nil
}

func (s *session) discard(ctx context.Context, args []string) error {
	id, err := arg(args, 0, "item id")
	if err != nil {
		return err
	}
	out, err := s.game.Discard(ctx, &game.DiscardInput{ItemID: id})
	if err != nil {
		return err
	}
	s.printf("discarded %s\n", out.Item.Name)
	return nil
}

func (s *session) use(ctx context.Context, args []string) error {
	id, err := arg(args, 0, "item id")
	if err != nil {
		return err
	}
	out, err := s.game.UseConsumable(ctx, &game.UseConsumableInput{ItemID: id})
	if err != nil {
		return err
	}
	s.printf("%s restored %d\n", out.Kind, out.Restored)
	return nil
}

func (s *session) buy(ctx context.Context, args []string) error {
	kind, err := arg(args, 0, "kind")
	if err != nil {
		return err
	}
	out, err := s.game.BuyConsumable(ctx, &game.BuyConsumableInput{Kind: entities.ConsumableKind(kind)})
	if err != nil {
		return err
	}
	s.printf("bought %s (%s) for %d; %d gold left\n", out.Item.Name, out.Item.ID, out.Item.Price, out.Gold)
	return nil
}

func (s *session) auto(ctx context.Context, args []string) error {
	mode, err := arg(args, 0, "on or off")
	if err != nil {
		return err
	}
	var enabled bool
	switch strings.ToLower(mode) {
	case "on":
		enabled = true
	case "off":
	default:
		return errors.InvalidArgumentf("auto takes on or off, got %q", mode)
	}

	out, err := s.game.SetAuto(ctx, &game.SetAutoInput{Enabled: enabled})
	if err != nil {
		return err
	}
	s.printf("auto-advance %v; run the auto command to let it play\n", out.Enabled)
	return nil
}

func (s *session) stats(ctx context.Context, _ []string) error {
	out, err := s.game.GetStats(ctx, &game.GetStatsInput{})
	if err != nil {
		return err
	}
	c := out.Character
	s.printf("%s  level %d  exp %d/%d\n", c.Name, c.Level, c.LevelCurrency, out.NextThreshold)
	s.printf("hp %d/%d  mp %d/%d  resonance %d/%d  execution %d/%d\n",
		c.HP, out.Maxima.HP, c.MP, out.Maxima.MP, c.Resonance, out.Maxima.Resonance, c.Execution, c.ExecutionMax)
	s.printf("attack %d  defense %d  crit %.0f%%  hit %.0f%%\n",
		out.Effective.Attack, out.Effective.Defense, out.Effective.Crit*100, out.Effective.Hit*100)
	s.printf("gold %d  scrap %d\n", c.Gold, c.Scrap)
	return nil
}

func (s *session) progress(ctx context.Context, _ []string) error {
	out, err := s.game.GetProgress(ctx, &game.GetProgressInput{})
	if err != nil {
		return err
	}
	p := out.Summary
	s.printf("floor %d/%d (highest %d)  phase %s  normals %d/%d\n",
		p.Floor, p.MaxFloor, p.HighestFloor, p.Phase, p.NormalsDefeated, p.NormalsRequired)
	s.printf("%s\n", p.Hint)
	return nil
}

func (s *session) gear(ctx context.Context, _ []string) error {
	out, err := s.game.GetEquipment(ctx, &game.GetEquipmentInput{})
	if err != nil {
		return err
	}
	if len(out.Items) == 0 {
		s.printf("nothing equipped\n")
	}
	for _, it := range out.Items {
		s.printItem(it.Slot.String(), it.Item)
	}
	for set, n := range out.SetPieces {
		s.printf("set %s: %d pieces\n", set, n)
	}
	return nil
}

func (s *session) bag(ctx context.Context, _ []string) error {
	out, err := s.game.GetBag(ctx, &game.GetBagInput{})
	if err != nil {
		return err
	}
	for _, eq := range out.Equipment {
		s.printItem("bag", eq)
	}
	for _, c := range out.Consumables {
		s.printf("bag: %s (%s) restores %d\n", c.Name, c.ID, c.Amount)
	}
	s.printf("gold %d  scrap %d\n", out.Gold, out.Scrap)
	return nil
}

func (s *session) battle(ctx context.Context, _ []string) error {
	out, err := s.game.GetBattle(ctx, &game.GetBattleInput{})
	if err != nil {
		return err
	}
	if out.Enemy == nil {
		s.printf("no enemy\n")
	} else {
		s.printEnemy("fighting", out.Enemy)
	}
	if out.Burst.Active {
		s.printf("burst active, %d turns left\n", out.Burst.TurnsLeft)
	}
	s.printf("turn %d  auto %v\n", out.Turn, out.Auto)
	return nil
}

func (s *session) save(ctx context.Context, args []string) error {
	slot := s.slot
	if len(args) > 0 {
		slot = args[0]
	}
	out, err := s.game.Save(ctx, &game.SaveInput{Slot: slot})
	if err != nil {
		return err
	}
	s.printf("saved %s at %s\n", out.Slot, out.SavedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (s *session) load(ctx context.Context, args []string) error {
	slot := s.slot
	if len(args) > 0 {
		slot = args[0]
	}
	out, err := s.game.Load(ctx, &game.LoadInput{Slot: slot})
	if err != nil {
		return err
	}
	s.printf("loaded %s: %s level %d on floor %d\n",
		slot, out.State.Character.Name, out.State.Character.Level, out.State.Tower.Floor)
	return nil
}

func (s *session) listSaves(ctx context.Context, _ []string) error {
	out, err := s.game.ListSaves(ctx, &game.ListSavesInput{})
	if err != nil {
		return err
	}
	if len(out.Slots) == 0 {
		s.printf("no saves\n")
	}
	for _, slot := range out.Slots {
		s.printf("%s  v%d  %s\n", slot.Slot, slot.Version, slot.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (s *session) export(ctx context.Context, _ []string) error {
	out, err := s.game.Export(ctx, &game.ExportInput{})
	if err != nil {
		return err
	}
	s.printf("%s\n", out.Blob)
	return nil
}

func (s *session) importBlob(ctx context.Context, args []string) error {
	blob, err := arg(args, 0, "blob")
	if err != nil {
		return err
	}
	out, err := s.game.Import(ctx, &game.ImportInput{Blob: blob})
	if err != nil {
		return err
	}
	s.printf("imported %s level %d\n", out.State.Character.Name, out.State.Character.Level)
	return nil
}

func (s *session) printEnemy(label string, e *entities.Enemy) {
	s.printf("%s: %s [%s] level %d  hp %d/%d  atk %d  def %d\n",
		label, e.Name, e.Class, e.Level, e.HP, e.HPMax, e.Attack, e.Defense)
}

func (s *session) printItem(label string, eq *entities.Equipment) {
	enh := ""
	if eq.Enhancement > 0 {
		enh = fmt.Sprintf(" +%d", eq.Enhancement)
	}
	set := ""
	if eq.Set != "" {
		set = " set:" + eq.Set
	}
	s.printf("%s: %s%s (%s, %s%s) %s\n", label, eq.Name, enh, eq.Rarity, eq.Slot, set, eq.ID)
}
