package xofgenetics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAutoPopExploreGrowsWhileWithinTarget(t *testing.T) {
	s := NewAutoPopState(10)
	cfg := AutoPopulationConfig{TargetDuration: 100 * time.Millisecond, MinSize: 1}

	next := s.Adjust(10, 20*time.Millisecond, cfg)
	require.Equal(t, 15, next)
	require.Equal(t, phaseExplore, s.phase)
}

func TestAutoPopExploreTransitionsToBinarySearchOnBreach(t *testing.T) {
	s := NewAutoPopState(10)
	cfg := AutoPopulationConfig{TargetDuration: 100 * time.Millisecond, MinSize: 1}

	s.Adjust(10, 20*time.Millisecond, cfg)  // maxSafe=10, next=15
	s.Adjust(15, 200*time.Millisecond, cfg) // breach -> binary_search

	require.Equal(t, phaseBinarySearch, s.phase)
	require.Equal(t, 10, s.low)
	require.Equal(t, 15, s.high)
}

func TestAutoPopBinarySearchConvergesToAdapt(t *testing.T) {
	s := &AutoPopState{phase: phaseBinarySearch, low: 10, high: 12, maxSafe: 10}
	cfg := AutoPopulationConfig{TargetDuration: 100 * time.Millisecond, MinSize: 1}

	next := s.Adjust(11, 50*time.Millisecond, cfg) // within target, low=11, high-low=1 -> converge
	require.Equal(t, phaseAdapt, s.phase)
	require.Equal(t, 11, next)
}

func TestAutoPopDetectOscillationRequiresAlternatingPattern(t *testing.T) {
	_, ok := detectOscillation([]int{10, 20, 10, 20, 10}, 3)
	require.False(t, ok, "only two full alternating pairs present")

	bounds, ok := detectOscillation([]int{10, 20, 10, 20, 10, 20}, 3)
	require.True(t, ok)
	require.Equal(t, [2]int{10, 20}, bounds)
}

func TestAutoPopLockedFallsBackToMaxSafeOnBreach(t *testing.T) {
	s := &AutoPopState{phase: phaseLocked, maxSafe: 50, lockedSize: 60}
	cfg := AutoPopulationConfig{TargetDuration: 100 * time.Millisecond, MinSize: 1}

	next := s.Adjust(60, 200*time.Millisecond, cfg)
	require.Equal(t, 50, next)
}
