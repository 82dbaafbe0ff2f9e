package xofgenetics

import (
	"testing"

	"github.com/Nackloose/perturbarium/internal/xofhash"
	"github.com/stretchr/testify/require"
)

func basicConfig(t *testing.T, genomeLength int) OrganismConfig {
	t.Helper()
	cfg := DefaultOrganismConfig(genomeLength, xofhash.SHA256Hash{})
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewOrganismRejectsWrongGenomeLength(t *testing.T) {
	cfg := basicConfig(t, 32)
	_, err := NewOrganism(make([]byte, 16), cfg, nil)
	require.ErrorIs(t, err, ErrGenomeLength)
}

func TestNewOrganismBasicModeDerivesStrategyFromConfig(t *testing.T) {
	cfg := basicConfig(t, 32)
	o, err := NewOrganism(make([]byte, 32), cfg, nil)
	require.NoError(t, err)
	require.True(t, o.ReproStrategy.EnabledMethods[DirectAsexual])
	require.True(t, o.ReproStrategy.EnabledMethods[Sexual])
	require.False(t, o.ReproStrategy.EnabledMethods[Rotation])
}

func TestNewOrganismDualEncodedRequiresMetaGenome(t *testing.T) {
	cfg := basicConfig(t, 32)
	cfg.Mode = DualEncoded
	cfg.MetaGenomeLength = 210

	_, err := NewOrganism(make([]byte, 32), cfg, nil)
	require.ErrorIs(t, err, ErrMetaGenomeNeeded)

	_, err = NewOrganism(make([]byte, 32), cfg, make([]byte, 100))
	require.ErrorIs(t, err, ErrMetaGenomeLength)

	o, err := NewOrganism(make([]byte, 32), cfg, make([]byte, 210))
	require.NoError(t, err)
	require.NotNil(t, o.ReproStrategy.EnabledMethods)
}

func TestFromSeedDeterministic(t *testing.T) {
	cfg := basicConfig(t, 32)
	o1, err := FromSeed([]byte("seed-a"), cfg)
	require.NoError(t, err)
	o2, err := FromSeed([]byte("seed-a"), cfg)
	require.NoError(t, err)
	require.True(t, o1.Equal(o2))

	o3, err := FromSeed([]byte("seed-b"), cfg)
	require.NoError(t, err)
	require.False(t, o1.Equal(o3))
}

func TestOrganismConfigValidateRejectsBadMaskLength(t *testing.T) {
	cfg := basicConfig(t, 32)
	cfg.MutationMasks = [][]byte{make([]byte, 16)}
	require.ErrorIs(t, cfg.Validate(), ErrMaskLength)
}
