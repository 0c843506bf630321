package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on the bus
const (
	EventGameStarted    = "horizon.game.started"
	EventGameLoaded     = "horizon.game.loaded"
	EventEncounterFound = "horizon.tower.encounter"
	EventFloorEvent     = "horizon.tower.event"
	EventFloorAdvanced  = "horizon.tower.advanced"
	EventExchange       = "horizon.combat.exchange"
	EventVictory        = "horizon.combat.victory"
	EventDefeat         = "horizon.combat.defeat"
	EventLevelUp        = "horizon.character.level_up"
	EventLoot           = "horizon.loot.drop"
	EventItemEnhanced   = "horizon.forge.enhanced"
	EventItemDismantled = "horizon.forge.dismantled"
)

type pendingEvent struct {
	kind   string
	source core.Entity
	target core.Entity
	data   map[string]any
}

// outbox collects events raised while the state lock is held
type outbox struct {
	events []pendingEvent
}

func (b *outbox) add(kind string, source, target core.Entity, data map[string]any) {
	b.events = append(b.events, pendingEvent{kind: kind, source: source, target: target, data: data})
}

func (o *orchestrator) publish(ctx context.Context, pending []pendingEvent) {
	for _, p := range pending {
		ev := events.NewGameEvent(p.kind, p.source, p.target)
		for k, v := range p.data {
			ev.Context().Set(k, v)
		}
		if err := o.bus.Publish(ctx, ev); err != nil {
			slog.Warn("Failed to publish event", "event_type", p.kind, "error", err)
		}
	}
}
