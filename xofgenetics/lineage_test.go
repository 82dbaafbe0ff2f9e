package xofgenetics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLineageTrackerAdvancesObservedToStable(t *testing.T) {
	cfg := LineageConfig{MinGensToStabilize: 2, ChampionFitness: 100, RetireFitnessDrop: 0.5}
	tr := NewLineageTracker(cfg)

	orgCfg := basicConfig(t, 32)
	o, err := FromSeed([]byte("candidate"), orgCfg)
	require.NoError(t, err)

	now := time.Unix(0, 0)
	tr.Observe(0, []*Organism{o}, now)
	rec, ok := tr.Lookup(o)
	require.True(t, ok)
	require.Equal(t, PhaseObserved, rec.Phase)

	tr.Observe(1, []*Organism{o}, now)
	rec, _ = tr.Lookup(o)
	require.Equal(t, PhaseStable, rec.Phase)
}

func TestLineageTrackerPromotesToChampionOnHighFitness(t *testing.T) {
	cfg := LineageConfig{MinGensToStabilize: 1, ChampionFitness: 10, RetireFitnessDrop: 0.5}
	tr := NewLineageTracker(cfg)

	orgCfg := basicConfig(t, 32)
	o, err := FromSeed([]byte("candidate"), orgCfg)
	require.NoError(t, err)
	o.Fitness = 20

	now := time.Unix(0, 0)
	tr.Observe(0, []*Organism{o}, now) // observed -> stable (threshold met)
	tr.Observe(1, []*Organism{o}, now) // stable -> champion

	rec, _ := tr.Lookup(o)
	require.Equal(t, PhaseChampion, rec.Phase)
}

func TestLineageTrackerRetiresOrganismAbsentFromPopulation(t *testing.T) {
	cfg := DefaultLineageConfig()
	tr := NewLineageTracker(cfg)

	orgCfg := basicConfig(t, 32)
	o, err := FromSeed([]byte("candidate"), orgCfg)
	require.NoError(t, err)

	now := time.Unix(0, 0)
	tr.Observe(0, []*Organism{o}, now)
	tr.Observe(1, nil, now)

	rec, ok := tr.Lookup(o)
	require.True(t, ok)
	require.Equal(t, PhaseRetired, rec.Phase)
}

func TestLineageTrackerChampionDropsBelowThresholdRetires(t *testing.T) {
	cfg := LineageConfig{MinGensToStabilize: 1, ChampionFitness: 10, RetireFitnessDrop: 0.2}
	tr := NewLineageTracker(cfg)

	orgCfg := basicConfig(t, 32)
	o, err := FromSeed([]byte("candidate"), orgCfg)
	require.NoError(t, err)

	now := time.Unix(0, 0)
	o.Fitness = 100
	tr.Observe(0, []*Organism{o}, now)
	tr.Observe(1, []*Organism{o}, now)
	rec, _ := tr.Lookup(o)
	require.Equal(t, PhaseChampion, rec.Phase)

	o.Fitness = 50 // drop of 50% > 20% threshold
	tr.Observe(2, []*Organism{o}, now)
	rec, _ = tr.Lookup(o)
	require.Equal(t, PhaseRetired, rec.Phase)
}
