package entities

// BurstState is the turn-limited burst buff
type BurstState struct {
	Active       bool    `json:"active"`
	TurnsLeft    int     `json:"turns_left"`
	AttackMult   float64 `json:"attack_mult"`
	IncomingMult float64 `json:"incoming_mult"`
}

// NeutralBurst returns an inactive burst with 1.0 multipliers
func NeutralBurst() BurstState {
	return BurstState{AttackMult: 1, IncomingMult: 1}
}

// Battle holds the encounter in progress
type Battle struct {
	Enemy *Enemy     `json:"enemy,omitempty"`
	Burst BurstState `json:"burst"`
	Auto  bool       `json:"auto"`
	Turn  int        `json:"turn"`
	Log   []string   `json:"log,omitempty"`
}

// AppendLog adds a line and keeps only the newest limit lines
func (b *Battle) AppendLog(line string, limit int) {
	b.Log = append(b.Log, line)
	if limit > 0 && len(b.Log) > limit {
		b.Log = append([]string(nil), b.Log[len(b.Log)-limit:]...)
	}
}

// State is the whole game: the only object engine operations mutate
type State struct {
	Character *Character    `json:"character"`
	Tower     FloorProgress `json:"tower"`
	Battle    Battle        `json:"battle"`
}

// Clone returns a deep copy safe to hand to readers
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Character = s.Character.Clone()
	out.Battle.Enemy = s.Battle.Enemy.Clone()
	if s.Battle.Log != nil {
		out.Battle.Log = append([]string(nil), s.Battle.Log...)
	}
	return &out
}
