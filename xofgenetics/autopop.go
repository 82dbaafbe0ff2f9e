package xofgenetics

import "time"

// autoPopPhase is one of the five phases of the adaptive population sizer.
type autoPopPhase int

const (
	phaseExplore autoPopPhase = iota
	phaseBinarySearch
	phaseAdapt
	phaseFineTune
	phaseLocked
)

// History length and oscillation threshold for the adapt->fine_tune transition. These are part
// of the contract only in behavior, not in numeric exactness.
const (
	autoPopHistoryLength        = 10
	autoPopOscillationThreshold = 3
)

// AutoPopulationConfig configures the adaptive population sizer.
type AutoPopulationConfig struct {
	TargetDuration time.Duration
	MinSize        int
}

// AutoPopState is the adaptive population sizer's mutable state, owned exclusively by the
// evolution driver between generations.
type AutoPopState struct {
	phase autoPopPhase

	maxSafe int
	ceiling int
	low     int
	high    int

	lockedSize int
	oscBounds  [2]int

	recentSizes []int
	testingMid  bool
}

// NewAutoPopState starts the sizer in the explore phase from an initial population size.
func NewAutoPopState(initialSize int) *AutoPopState {
	return &AutoPopState{
		phase:   phaseExplore,
		maxSafe: initialSize,
	}
}

// Adjust observes how long the most recent generation took to evaluate at currentSize and
// returns the population size to target for the next generation, per spec §4.6.
func (s *AutoPopState) Adjust(currentSize int, elapsed time.Duration, cfg AutoPopulationConfig) int {
	target := cfg.TargetDuration
	withinTarget := elapsed <= target

	s.recordSize(currentSize)

	switch s.phase {
	case phaseExplore:
		return s.adjustExplore(currentSize, withinTarget, cfg)
	case phaseBinarySearch:
		return s.adjustBinarySearch(currentSize, withinTarget, phaseAdapt, cfg)
	case phaseAdapt:
		return s.adjustAdapt(currentSize, withinTarget, target, elapsed)
	case phaseFineTune:
		return s.adjustBinarySearch(currentSize, withinTarget, phaseLocked, cfg)
	case phaseLocked:
		return s.adjustLocked(currentSize, withinTarget, target, elapsed, cfg)
	default:
		return currentSize
	}
}

func (s *AutoPopState) recordSize(size int) {
	s.recentSizes = append(s.recentSizes, size)
	if len(s.recentSizes) > autoPopHistoryLength {
		s.recentSizes = s.recentSizes[len(s.recentSizes)-autoPopHistoryLength:]
	}
}

func (s *AutoPopState) adjustExplore(currentSize int, withinTarget bool, cfg AutoPopulationConfig) int {
	if withinTarget {
		s.maxSafe = currentSize
		return maxInt(cfg.MinSize, int(1.5*float64(currentSize)))
	}
	s.ceiling = currentSize
	s.low, s.high = s.maxSafe, s.ceiling
	s.phase = phaseBinarySearch
	s.testingMid = true
	return (s.low + s.high) / 2
}

// adjustBinarySearch implements the shared binary-search pattern used by both binary_search and
// fine_tune: narrow [low, high] based on whether the midpoint breached the time target, and on
// convergence (high-low <= 1) transition to nextPhase at the best safe operating point.
func (s *AutoPopState) adjustBinarySearch(currentSize int, withinTarget bool, nextPhase autoPopPhase, cfg AutoPopulationConfig) int {
	if withinTarget {
		s.low = currentSize
		s.maxSafe = currentSize
	} else {
		s.high = currentSize
	}

	if s.high-s.low <= 1 {
		s.phase = nextPhase
		if nextPhase == phaseLocked {
			s.lockedSize = s.maxSafe
		}
		return s.maxSafe
	}

	return (s.low + s.high) / 2
}

func (s *AutoPopState) adjustAdapt(currentSize int, withinTarget bool, target, elapsed time.Duration) int {
	if bounds, oscillating := detectOscillation(s.recentSizes, autoPopOscillationThreshold); oscillating {
		s.oscBounds = bounds
		s.low, s.high = bounds[0], bounds[1]
		s.phase = phaseFineTune
		return (s.low + s.high) / 2
	}

	if !withinTarget {
		s.maxSafe = minInt(s.maxSafe, currentSize)
		return s.maxSafe
	}

	headroom := 1.0 - float64(elapsed)/float64(target)
	growth := 0.05
	if headroom > 0.10 {
		growth = 0.20
	}
	return int(float64(currentSize) * (1.0 + growth))
}

func (s *AutoPopState) adjustLocked(currentSize int, withinTarget bool, target, elapsed time.Duration, cfg AutoPopulationConfig) int {
	if !withinTarget {
		s.lockedSize = s.maxSafe
		return s.maxSafe
	}

	headroom := 1.0 - float64(elapsed)/float64(target)
	if headroom > 0.15 {
		return int(float64(currentSize) * 1.10)
	}
	return s.lockedSize
}

// detectOscillation reports whether the tail of sizes alternates between exactly two values for
// at least threshold consecutive pairs.
func detectOscillation(sizes []int, threshold int) ([2]int, bool) {
	if len(sizes) < threshold*2 {
		return [2]int{}, false
	}
	tail := sizes[len(sizes)-threshold*2:]
	a, b := tail[0], tail[1]
	if a == b {
		return [2]int{}, false
	}
	for i, v := range tail {
		want := a
		if i%2 == 1 {
			want = b
		}
		if v != want {
			return [2]int{}, false
		}
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return [2]int{lo, hi}, true
}
