package xofgenetics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGenomeStrategyDecodesEnabledMethodsBitmask(t *testing.T) {
	meta := make([]byte, 210)
	meta[0] = 1<<uint(DirectAsexual) | 1<<uint(Rotation)
	cfg := basicConfig(t, 32)

	strat := parseGenomeStrategy(meta, cfg)
	require.True(t, strat.EnabledMethods[DirectAsexual])
	require.True(t, strat.EnabledMethods[Rotation])
	require.False(t, strat.EnabledMethods[Sexual])
}

func TestParseGenomeStrategyCombinationStrategyModThree(t *testing.T) {
	cfg := basicConfig(t, 32)
	for b, want := range map[byte]CombinationStrategy{
		0: CombineAll,
		1: CombineRandom,
		2: CombineWeighted,
		3: CombineAll,
	} {
		meta := make([]byte, 210)
		meta[1] = b
		strat := parseGenomeStrategy(meta, cfg)
		require.Equal(t, want, strat.CombinationStrategy)
	}
}

func TestParseGenomeStrategyRotationPositionsAreModGenomeLength(t *testing.T) {
	cfg := basicConfig(t, 32)
	meta := make([]byte, 210)
	meta[98] = 0
	meta[99] = 40 // 40 mod 32 == 8
	strat := parseGenomeStrategy(meta, cfg)
	require.Equal(t, 8, strat.RotationPositions[0])
}

func TestParseGenomeStrategyPermutationMapsAreValidPermutations(t *testing.T) {
	cfg := basicConfig(t, 32)
	meta := make([]byte, 210)
	for i := 106; i < 106+32; i++ {
		meta[i] = byte(i)
	}
	strat := parseGenomeStrategy(meta, cfg)
	require.Len(t, strat.PermutationMaps, 3)

	seen := make(map[int]bool)
	for _, v := range strat.PermutationMaps[0] {
		require.False(t, seen[v], "permutation map must not repeat indices")
		seen[v] = true
	}
	require.Len(t, seen, 32)
}

func TestCombineStrategiesUnionsEnabledMethodsAndAveragesWeights(t *testing.T) {
	a := ReproductionStrategy{
		EnabledMethods: map[ReproductionMethod]bool{DirectAsexual: true},
		MethodWeights:  map[ReproductionMethod]float64{DirectAsexual: 1.0},
	}
	b := ReproductionStrategy{
		EnabledMethods: map[ReproductionMethod]bool{Rotation: true},
		MethodWeights:  map[ReproductionMethod]float64{DirectAsexual: 0.0},
	}
	out := combineStrategies(a, b)
	require.True(t, out.EnabledMethods[DirectAsexual])
	require.True(t, out.EnabledMethods[Rotation])
	require.InDelta(t, 0.5, out.MethodWeights[DirectAsexual], 1e-9)
}

func TestCombineStrategiesPicksMaxCombinationStrategy(t *testing.T) {
	a := ReproductionStrategy{EnabledMethods: map[ReproductionMethod]bool{}, MethodWeights: map[ReproductionMethod]float64{}, CombinationStrategy: CombineAll}
	b := ReproductionStrategy{EnabledMethods: map[ReproductionMethod]bool{}, MethodWeights: map[ReproductionMethod]float64{}, CombinationStrategy: CombineWeighted}
	out := combineStrategies(a, b)
	require.Equal(t, CombineWeighted, out.CombinationStrategy)
}

func TestSelectMethodsFallsBackToDirectAsexualWhenNoneEnabled(t *testing.T) {
	strat := ReproductionStrategy{EnabledMethods: map[ReproductionMethod]bool{}, MethodWeights: map[ReproductionMethod]float64{}}
	methods := selectMethods(strat, NewRng(1))
	require.Equal(t, []ReproductionMethod{DirectAsexual}, methods)
}

func TestSelectMethodsAllReturnsEveryEnabledMethod(t *testing.T) {
	strat := ReproductionStrategy{
		EnabledMethods: map[ReproductionMethod]bool{
			DirectAsexual: true,
			Rotation:      true,
			Mutation:      true,
		},
		CombinationStrategy: CombineAll,
		MethodWeights:        map[ReproductionMethod]float64{},
	}
	methods := selectMethods(strat, NewRng(1))
	require.Len(t, methods, 3)
}

func TestBuildPermutationFromBytesEmptyWindowIsIdentity(t *testing.T) {
	perm := buildPermutationFromBytes(nil, 8)
	require.Equal(t, identityPermutation(8), perm)
}
