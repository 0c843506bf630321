package tower

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"

	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// Phase is the per-floor sequencer state
type Phase string

// Floor phases
const (
	PhaseNormal    Phase = "normal"
	PhaseMiniReady Phase = "mini_ready"
	PhaseBossReady Phase = "boss_ready"
	PhaseCleared   Phase = "cleared"
)

// Phase machine events
const (
	EventNormalsCleared = "normals_cleared"
	EventMiniDefeated   = "mini_defeated"
	EventBossDefeated   = "boss_defeated"
	EventAdvance        = "advance"
)

// PhaseOf derives the phase from the floor counters. The counters are the
// source of truth, so a restored save always rebuilds the right machine.
func PhaseOf(p entities.FloorProgress) Phase {
	switch {
	case p.BossDone:
		return PhaseCleared
	case p.MiniBossDone:
		return PhaseBossReady
	case p.NormalsRemaining() == 0:
		return PhaseMiniReady
	default:
		return PhaseNormal
	}
}

// transitionFor names the event that moves the machine from one phase to the next
var transitionFor = map[Phase]string{
	PhaseMiniReady: EventNormalsCleared,
	PhaseBossReady: EventMiniDefeated,
	PhaseCleared:   EventBossDefeated,
	PhaseNormal:    EventAdvance,
}

func newMachine(p *entities.FloorProgress) *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseOf(*p)),
		fsm.Events{
			{Name: EventNormalsCleared, Src: []string{string(PhaseNormal)}, Dst: string(PhaseMiniReady)},
			{Name: EventMiniDefeated, Src: []string{string(PhaseMiniReady)}, Dst: string(PhaseBossReady)},
			{Name: EventBossDefeated, Src: []string{string(PhaseBossReady)}, Dst: string(PhaseCleared)},
			{Name: EventAdvance, Src: []string{string(PhaseCleared)}, Dst: string(PhaseNormal)},
		},
		fsm.Callbacks{
			"after_" + EventAdvance: func(_ context.Context, _ *fsm.Event) {
				p.Floor++
				p.HighestFloor = max(p.HighestFloor, p.Floor)
				p.ResetCounters()
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("floor phase changed",
					"floor", p.Floor,
					"from", e.Src,
					"to", e.Dst,
					"event", e.Event)
			},
		},
	)
}
