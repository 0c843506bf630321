package entities

import "math"

// StatBundle is the fixed set of stats any source can contribute.
// Absent stats are zero.
type StatBundle struct {
	Attack    int     `json:"attack,omitempty" yaml:"attack,omitempty"`
	Defense   int     `json:"defense,omitempty" yaml:"defense,omitempty"`
	HP        int     `json:"hp,omitempty" yaml:"hp,omitempty"`
	MP        int     `json:"mp,omitempty" yaml:"mp,omitempty"`
	Resonance int     `json:"resonance,omitempty" yaml:"resonance,omitempty"`
	Crit      float64 `json:"crit,omitempty" yaml:"crit,omitempty"`
	Hit       float64 `json:"hit,omitempty" yaml:"hit,omitempty"`
}

// Add returns the field-wise sum of two bundles
func (b StatBundle) Add(o StatBundle) StatBundle {
	return StatBundle{
		Attack:    b.Attack + o.Attack,
		Defense:   b.Defense + o.Defense,
		HP:        b.HP + o.HP,
		MP:        b.MP + o.MP,
		Resonance: b.Resonance + o.Resonance,
		Crit:      b.Crit + o.Crit,
		Hit:       b.Hit + o.Hit,
	}
}

// Scale multiplies every stat by f. Integer stats are floored.
func (b StatBundle) Scale(f float64) StatBundle {
	return StatBundle{
		Attack:    floorScaled(b.Attack, f),
		Defense:   floorScaled(b.Defense, f),
		HP:        floorScaled(b.HP, f),
		MP:        floorScaled(b.MP, f),
		Resonance: floorScaled(b.Resonance, f),
		Crit:      b.Crit * f,
		Hit:       b.Hit * f,
	}
}

// floorScaled floors v*f, absorbing float error so 50*1.18 floors to 59
func floorScaled(v int, f float64) int {
	return int(math.Floor(float64(v)*f + 1e-9))
}

// IsZero reports whether no stat is set
func (b StatBundle) IsZero() bool {
	return b == StatBundle{}
}

// CombatStats are the four stats the resolver reads
type CombatStats struct {
	Attack  int     `json:"attack"`
	Defense int     `json:"defense"`
	Crit    float64 `json:"crit"`
	Hit     float64 `json:"hit"`
}

// Maxima are the derived resource ceilings
type Maxima struct {
	HP        int `json:"hp"`
	MP        int `json:"mp"`
	Resonance int `json:"resonance"`
}
