package entities

// FloorProgress tracks encounters cleared on the current floor
type FloorProgress struct {
	Floor           int  `json:"floor"`
	MaxFloor        int  `json:"max_floor"`
	HighestFloor    int  `json:"highest_floor"`
	NormalsDefeated int  `json:"normals_defeated"`
	NormalsRequired int  `json:"normals_required"`
	EliteSpawned    bool `json:"elite_spawned"`
	EliteDone       bool `json:"elite_done"`
	MiniBossDone    bool `json:"mini_boss_done"`
	BossDone        bool `json:"boss_done"`
}

// NormalsRemaining returns how many normal fights stand between the player and the mini-boss
func (p FloorProgress) NormalsRemaining() int {
	return max(0, p.NormalsRequired-p.NormalsDefeated)
}

// ResetCounters clears every per-floor counter
func (p *FloorProgress) ResetCounters() {
	p.NormalsDefeated = 0
	p.EliteSpawned = false
	p.EliteDone = false
	p.MiniBossDone = false
	p.BossDone = false
}

// FloorEvent is a non-combat explore outcome
type FloorEvent string

// Floor events
const (
	EventSupply    FloorEvent = "supply"
	EventTrap      FloorEvent = "trap"
	EventResonance FloorEvent = "resonance_surge"
	EventScrap     FloorEvent = "scrap_cache"
	EventAmbush    FloorEvent = "ambush"
	EventMerchant  FloorEvent = "merchant"
)

// AllFloorEvents returns every event kind
func AllFloorEvents() []FloorEvent {
	return []FloorEvent{EventSupply, EventTrap, EventResonance, EventScrap, EventAmbush, EventMerchant}
}
