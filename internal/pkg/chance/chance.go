// Package chance is the single source of randomness for the engine
package chance

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// resolution is the die size used to draw a uniform float
const resolution = 1_000_000

// Source produces the random draws used by combat, loot and tower events
type Source interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n); n <= 1 always yields 0
	Intn(n int) int
}

type rollerSource struct {
	roller dice.Roller
}

// FromRoller adapts an rpg-toolkit dice roller into a Source
func FromRoller(roller dice.Roller) Source {
	return &rollerSource{roller: roller}
}

// Default returns a Source backed by the toolkit's default roller
func Default() Source {
	return FromRoller(dice.DefaultRoller)
}

func (s *rollerSource) Float64() float64 {
	v, err := s.roller.Roll(resolution)
	if err != nil {
		slog.Warn("Dice roll failed, using zero", "size", resolution, "error", err)
		return 0
	}
	return float64(v-1) / resolution
}

func (s *rollerSource) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := s.roller.Roll(n)
	if err != nil {
		slog.Warn("Dice roll failed, using zero", "size", n, "error", err)
		return 0
	}
	return v - 1
}

// Chance reports whether a draw lands under p
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Between draws a float uniformly from [lo, hi)
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Weighted is one entry of a weighted table
type Weighted[T any] struct {
	Value  T
	Weight int
}

// Pick draws one value from a weighted table. Entries with non-positive
// weight are never picked; ok is false when nothing can be picked.
func Pick[T any](src Source, table []Weighted[T]) (T, bool) {
	total := 0
	for _, w := range table {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	var zero T
	if total == 0 {
		return zero, false
	}

	r := src.Intn(total)
	for _, w := range table {
		if w.Weight <= 0 {
			continue
		}
		if r < w.Weight {
			return w.Value, true
		}
		r -= w.Weight
	}
	return zero, false
}
