// Package xofgenetics implements the hash-agnostic genetic framework over fixed-length byte
// genomes: organisms with configurable reproduction methods, a dual-encoded mode where the
// genome encodes its own reproduction strategy, and an evolution loop with pairing strategies,
// elitism, population capping, and an adaptive population sizer.
package xofgenetics

import (
	"bytes"

	"github.com/Nackloose/perturbarium/internal/xofhash"
)

// ReproductionMethod is one of the eight reproduction operators an organism may use. The
// numeric order is fixed: it is also the bit order of the dual-encoded genome's method bitmask
// (bit i -> method i).
type ReproductionMethod int

const (
	DirectAsexual ReproductionMethod = iota
	SelfReproduction
	Sexual
	Mutation
	Rotation
	Permutation
	CombinedTransforms
	EnhancedSexual

	numReproductionMethods = 8
)

func (m ReproductionMethod) String() string {
	switch m {
	case DirectAsexual:
		return "direct_asexual"
	case SelfReproduction:
		return "self_reproduction"
	case Sexual:
		return "sexual"
	case Mutation:
		return "mutation"
	case Rotation:
		return "rotation"
	case Permutation:
		return "permutation"
	case CombinedTransforms:
		return "combined_transformations"
	case EnhancedSexual:
		return "enhanced_sexual"
	default:
		return "unknown"
	}
}

// allReproductionMethods enumerates methods in fixed order, matching the dual-encoded genome's
// bit order.
var allReproductionMethods = [numReproductionMethods]ReproductionMethod{
	DirectAsexual, SelfReproduction, Sexual, Mutation,
	Rotation, Permutation, CombinedTransforms, EnhancedSexual,
}

// OrganismMode selects whether an organism's reproduction strategy comes from static config
// (BASIC) or is decoded from the genome itself (DUAL_ENCODED).
type OrganismMode int

const (
	Basic OrganismMode = iota
	DualEncoded
)

// CombinationStrategy controls how a combined/derived strategy selects which enabled methods to
// actually run for a given reproduction event.
type CombinationStrategy int

const (
	CombineAll CombinationStrategy = iota
	CombineRandom
	CombineWeighted
)

func (c CombinationStrategy) String() string {
	switch c {
	case CombineAll:
		return "all"
	case CombineRandom:
		return "random"
	case CombineWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ReproductionStrategy is the derived record controlling which operators are available and how
// they combine for a reproduction event. In BASIC mode it is a direct copy of the
// OrganismConfig; in DUAL_ENCODED mode it is decoded from the meta-genome bytes (see
// dualencode.go).
type ReproductionStrategy struct {
	EnabledMethods      map[ReproductionMethod]bool
	CombinationStrategy CombinationStrategy
	MutationMasks       [][]byte
	RotationPositions   []int
	PermutationMaps     [][]int
	MethodWeights       map[ReproductionMethod]float64
}

func (s ReproductionStrategy) clone() ReproductionStrategy {
	out := ReproductionStrategy{
		EnabledMethods:      make(map[ReproductionMethod]bool, len(s.EnabledMethods)),
		CombinationStrategy: s.CombinationStrategy,
		MutationMasks:       append([][]byte{}, s.MutationMasks...),
		RotationPositions:   append([]int{}, s.RotationPositions...),
		PermutationMaps:     append([][]int{}, s.PermutationMaps...),
		MethodWeights:       make(map[ReproductionMethod]float64, len(s.MethodWeights)),
	}
	for k, v := range s.EnabledMethods {
		out.EnabledMethods[k] = v
	}
	for k, v := range s.MethodWeights {
		out.MethodWeights[k] = v
	}
	return out
}

func (s ReproductionStrategy) enabledList() []ReproductionMethod {
	out := make([]ReproductionMethod, 0, len(s.EnabledMethods))
	for _, m := range allReproductionMethods {
		if s.EnabledMethods[m] {
			out = append(out, m)
		}
	}
	return out
}

// OrganismConfig is the immutable configuration shared by a population of organisms.
type OrganismConfig struct {
	GenomeLength                 int
	HashFunction                 xofhash.HashFunction
	Mode                         OrganismMode
	EnabledMethods               map[ReproductionMethod]bool
	CombinationStrategy          CombinationStrategy
	MutationMasks                [][]byte
	RotationPositions            []int
	PermutationMaps              [][]int
	MethodWeights                map[ReproductionMethod]float64
	MetaGenomeLength             int
	EnableDualEncoding           bool
	EnableReciprocalReproduction bool
}

// DefaultOrganismConfig returns a BASIC-mode config with a single identity mutation mask,
// matching the "first k" deterministic-library convention used throughout reproduction.
func DefaultOrganismConfig(genomeLength int, hash xofhash.HashFunction) OrganismConfig {
	zeroMask := make([]byte, genomeLength)
	return OrganismConfig{
		GenomeLength: genomeLength,
		HashFunction: hash,
		Mode:         Basic,
		EnabledMethods: map[ReproductionMethod]bool{
			DirectAsexual: true,
			Sexual:        true,
			Mutation:      true,
		},
		CombinationStrategy:          CombineAll,
		MutationMasks:                [][]byte{zeroMask},
		RotationPositions:            []int{1},
		PermutationMaps:              [][]int{identityPermutation(genomeLength)},
		MethodWeights:                defaultWeights(),
		EnableReciprocalReproduction: true,
	}
}

func defaultWeights() map[ReproductionMethod]float64 {
	w := make(map[ReproductionMethod]float64, numReproductionMethods)
	for _, m := range allReproductionMethods {
		w[m] = 0.5
	}
	return w
}

func identityPermutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func (c OrganismConfig) strategyFromConfig() ReproductionStrategy {
	methods := make(map[ReproductionMethod]bool, len(c.EnabledMethods))
	for k, v := range c.EnabledMethods {
		methods[k] = v
	}
	weights := make(map[ReproductionMethod]float64, len(c.MethodWeights))
	for k, v := range c.MethodWeights {
		weights[k] = v
	}
	return ReproductionStrategy{
		EnabledMethods:      methods,
		CombinationStrategy: c.CombinationStrategy,
		MutationMasks:       c.MutationMasks,
		RotationPositions:   c.RotationPositions,
		PermutationMaps:     c.PermutationMaps,
		MethodWeights:       weights,
	}
}

// Validate checks the config's invariants at construction time.
func (c OrganismConfig) Validate() error {
	if c.GenomeLength <= 0 {
		return ErrInvalidConfig
	}
	if c.HashFunction == nil {
		return ErrInvalidConfig
	}
	if c.Mode == DualEncoded && c.MetaGenomeLength <= 0 {
		return ErrInvalidConfig
	}
	for _, mask := range c.MutationMasks {
		if len(mask) != c.GenomeLength {
			return ErrMaskLength
		}
	}
	return nil
}

// Organism is an immutable genome (plus optional meta-genome for dual-encoded mode) with a
// mutable fitness and generation, a reference to its config, and a derived reproduction
// strategy. Equality and hashing are by (genome, meta_genome); neither field is ever mutated
// after construction.
type Organism struct {
	Genome       []byte
	MetaGenome   []byte
	Fitness      float64
	Generation   int
	Config       OrganismConfig
	ReproStrategy ReproductionStrategy
}

// NewOrganism constructs an organism from explicit genome bytes (and meta-genome, if the config
// requires one), enforcing length invariants.
func NewOrganism(genome []byte, config OrganismConfig, metaGenome []byte) (*Organism, error) {
	if len(genome) != config.GenomeLength {
		return nil, ErrGenomeLength
	}
	usesMeta := config.Mode == DualEncoded || config.EnableDualEncoding
	if usesMeta {
		if metaGenome == nil {
			return nil, ErrMetaGenomeNeeded
		}
		if len(metaGenome) != config.MetaGenomeLength {
			return nil, ErrMetaGenomeLength
		}
	}

	o := &Organism{
		Genome:     append([]byte{}, genome...),
		Config:     config,
		Generation: 0,
	}
	if metaGenome != nil {
		o.MetaGenome = append([]byte{}, metaGenome...)
	}

	if usesMeta {
		strategySource := o.MetaGenome
		if config.Mode != DualEncoded && !config.EnableDualEncoding {
			strategySource = o.Genome
		}
		o.ReproStrategy = parseGenomeStrategy(strategySource, config)
	} else {
		o.ReproStrategy = config.strategyFromConfig()
	}
	return o, nil
}

// FromSeed creates an organism by hash-expanding arbitrary seed bytes into a genome (and, for
// dual-encoded configs, a meta-genome derived from seed || "_meta").
func FromSeed(seed []byte, config OrganismConfig) (*Organism, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	genome := config.HashFunction.Hash(seed, config.GenomeLength)

	if config.Mode == DualEncoded || config.EnableDualEncoding {
		meta := config.HashFunction.Hash(append(append([]byte{}, seed...), []byte("_meta")...), config.MetaGenomeLength)
		return NewOrganism(genome, config, meta)
	}
	return NewOrganism(genome, config, nil)
}

// Equal reports whether two organisms have identical genome and meta-genome.
func (o *Organism) Equal(other *Organism) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(o.Genome, other.Genome) && bytes.Equal(o.MetaGenome, other.MetaGenome)
}

func (o *Organism) usesDualEncoding() bool {
	return o.Config.Mode == DualEncoded || o.Config.EnableDualEncoding
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
