package chance

// Script is a deterministic Source for tests and replays.
// Floats and ints are queued separately; an empty queue falls back to
// FallbackFloat and 0.
type Script struct {
	floats []float64
	ints   []int

	FallbackFloat float64
}

// NewScript creates an empty script whose float fallback is 0.5
func NewScript() *Script {
	return &Script{FallbackFloat: 0.5}
}

// Floats queues float draws
func (s *Script) Floats(v ...float64) *Script {
	s.floats = append(s.floats, v...)
	return s
}

// Ints queues integer draws; each is reduced modulo n when consumed
func (s *Script) Ints(v ...int) *Script {
	s.ints = append(s.ints, v...)
	return s
}

// Remaining returns how many queued draws have not been consumed
func (s *Script) Remaining() (floats, ints int) {
	return len(s.floats), len(s.ints)
}

// Float64 pops the next queued float
func (s *Script) Float64() float64 {
	if len(s.floats) == 0 {
		return s.FallbackFloat
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Intn pops the next queued int
func (s *Script) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}
