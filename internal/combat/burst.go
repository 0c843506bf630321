package combat

import (
	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/entities"
)

// Activate starts the burst buff. The caller has already checked and paid
// the resonance cost; Activate never stacks an active burst.
func Activate(b *entities.BurstState, cfg balance.BurstConfig) bool {
	if b.Active {
		return false
	}
	*b = entities.BurstState{
		Active:       true,
		TurnsLeft:    cfg.Turns,
		AttackMult:   cfg.AttackMult,
		IncomingMult: cfg.IncomingMult,
	}
	return true
}

// Tick spends one burst turn and reports whether the buff just expired
func Tick(b *entities.BurstState) bool {
	if !b.Active {
		return false
	}
	b.TurnsLeft--
	if b.TurnsLeft <= 0 {
		Clear(b)
		return true
	}
	return false
}

// Clear ends the buff and restores neutral multipliers
func Clear(b *entities.BurstState) {
	*b = entities.NeutralBurst()
}

// attackMult is the outgoing multiplier, 1 when inactive
func attackMult(b entities.BurstState) float64 {
	if !b.Active || b.AttackMult <= 0 {
		return 1
	}
	return b.AttackMult
}

// incomingMult is the incoming multiplier, 1 when inactive
func incomingMult(b entities.BurstState) float64 {
	if !b.Active || b.IncomingMult <= 0 {
		return 1
	}
	return b.IncomingMult
}
