package xofgenetics

import "encoding/binary"

// parseGenomeStrategy decodes a reproduction strategy from genome bytes per spec §4.3:
//   - byte 0: bitmask of enabled methods (bit i -> allReproductionMethods[i]).
//   - byte 1: combination_strategy = ["all","random","weighted"][byte1 % 3].
//   - bytes 2..97: three 32-byte windows tiled to G-byte mutation masks.
//   - bytes 98..105: four 16-bit big-endian rotation positions, each mod G.
//   - bytes 106..201: three permutation maps built by iterative swap-construction.
//   - bytes 202..209: eight bytes normalized to [0,1] as per-method weights.
//
// Parsing is total and side-effect free. Missing bytes use fixed fallbacks, not the config's
// libraries: a zero method bitmask, combination byte and rotation position, an ascending-byte
// mutation mask, an identity permutation map, and a weight of 0.5.
func parseGenomeStrategy(genome []byte, config OrganismConfig) ReproductionStrategy {
	g := config.GenomeLength
	strat := ReproductionStrategy{
		EnabledMethods:      make(map[ReproductionMethod]bool, numReproductionMethods),
		CombinationStrategy: CombineAll,
		MethodWeights:       make(map[ReproductionMethod]float64, numReproductionMethods),
	}

	methodFlags := byteAt(genome, 0)
	for i, m := range allReproductionMethods {
		if methodFlags&(1<<uint(i)) != 0 {
			strat.EnabledMethods[m] = true
		}
	}

	combinationByte := int(byteAt(genome, 1))
	strat.CombinationStrategy = CombinationStrategy(combinationByte % 3)

	for i := 0; i < 3; i++ {
		start := 2 + i*32
		window := sliceOrEmpty(genome, start, start+32)
		strat.MutationMasks = append(strat.MutationMasks, tileToLength(window, g, i))
	}

	for i := 0; i < 4; i++ {
		start := 98 + i*2
		window := sliceOrEmpty(genome, start, start+2)
		var pos int
		if len(window) == 2 {
			pos = int(binary.BigEndian.Uint16(window))
		}
		strat.RotationPositions = append(strat.RotationPositions, pos%g)
	}

	for i := 0; i < 3; i++ {
		start := 106 + i*32
		window := sliceOrEmpty(genome, start, start+32)
		strat.PermutationMaps = append(strat.PermutationMaps, buildPermutationFromBytes(window, g))
	}

	weightStart := 202
	for i, m := range allReproductionMethods {
		idx := weightStart + i
		if idx < len(genome) {
			strat.MethodWeights[m] = float64(genome[idx]) / 255.0
		} else {
			strat.MethodWeights[m] = 0.5
		}
	}

	return strat
}

func byteAt(b []byte, i int) byte {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

func sliceOrEmpty(b []byte, start, end int) []byte {
	if start < 0 || start >= len(b) {
		return nil
	}
	if end > len(b) {
		end = len(b)
	}
	if end <= start {
		return nil
	}
	return b[start:end]
}

// tileToLength repeats window bytes to fill a genome-length mask; if window is empty, falls
// back to a simple ascending-byte pattern (matching organism.py's fallback).
func tileToLength(window []byte, length int, fallbackSeed int) []byte {
	out := make([]byte, length)
	if len(window) == 0 {
		for i := range out {
			out[i] = byte((fallbackSeed + i) % 256)
		}
		return out
	}
	for i := range out {
		out[i] = window[i%len(window)]
	}
	return out
}

// buildPermutationFromBytes constructs a permutation map by iterative swap-construction: start
// from the identity permutation over [0..length), then for each byte j in window (j < length),
// swap perm[j] with perm[(j+byte) mod length].
func buildPermutationFromBytes(window []byte, length int) []int {
	perm := identityPermutation(length)
	for j, b := range window {
		if j >= length {
			break
		}
		swapIdx := (j + int(b)) % length
		perm[j], perm[swapIdx] = perm[swapIdx], perm[j]
	}
	return perm
}

// combineStrategies merges two organisms' reproduction strategies for paired dual-encoded
// reproduction: union of enabled methods, concatenated libraries, averaged weights, and the
// maximum combination_strategy by the fixed ordering all < random < weighted.
func combineStrategies(a, b ReproductionStrategy) ReproductionStrategy {
	out := ReproductionStrategy{
		EnabledMethods: make(map[ReproductionMethod]bool, numReproductionMethods),
		MethodWeights:  make(map[ReproductionMethod]float64, numReproductionMethods),
	}
	for k, v := range a.EnabledMethods {
		if v {
			out.EnabledMethods[k] = true
		}
	}
	for k, v := range b.EnabledMethods {
		if v {
			out.EnabledMethods[k] = true
		}
	}

	out.MutationMasks = append(append([][]byte{}, a.MutationMasks...), b.MutationMasks...)
	out.RotationPositions = append(append([]int{}, a.RotationPositions...), b.RotationPositions...)
	out.PermutationMaps = append(append([][]int{}, a.PermutationMaps...), b.PermutationMaps...)

	for _, m := range allReproductionMethods {
		wa, ok := a.MethodWeights[m]
		if !ok {
			wa = 0.5
		}
		wb, ok := b.MethodWeights[m]
		if !ok {
			wb = 0.5
		}
		out.MethodWeights[m] = (wa + wb) / 2
	}

	if a.CombinationStrategy > b.CombinationStrategy {
		out.CombinationStrategy = a.CombinationStrategy
	} else {
		out.CombinationStrategy = b.CombinationStrategy
	}
	return out
}

// selectMethods chooses which methods to run for a reproduction event given a combined
// strategy. Empty enabled sets fall back to {DirectAsexual} only (spec §9 open question #3).
func selectMethods(strat ReproductionStrategy, rng *Rng) []ReproductionMethod {
	enabled := strat.enabledList()
	if len(enabled) == 0 {
		return []ReproductionMethod{DirectAsexual}
	}

	switch strat.CombinationStrategy {
	case CombineRandom:
		n := 1 + rng.Intn(minInt(3, len(enabled)))
		idx := rng.Shuffle(len(enabled))
		out := make([]ReproductionMethod, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, enabled[idx[i]])
		}
		return out
	case CombineWeighted:
		total := 0.0
		for _, m := range enabled {
			total += strat.MethodWeights[m]
		}
		if total <= 0 {
			n := minInt(3, len(enabled))
			idx := rng.Shuffle(len(enabled))
			out := make([]ReproductionMethod, 0, n)
			for i := 0; i < n; i++ {
				out = append(out, enabled[idx[i]])
			}
			return out
		}
		n := 1 + rng.Intn(3)
		out := make([]ReproductionMethod, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, weightedPick(enabled, strat.MethodWeights, total, rng))
		}
		return out
	default: // CombineAll
		return enabled
	}
}

func weightedPick(methods []ReproductionMethod, weights map[ReproductionMethod]float64, total float64, rng *Rng) ReproductionMethod {
	r := rng.Float64() * total
	acc := 0.0
	for _, m := range methods {
		acc += weights[m]
		if r <= acc {
			return m
		}
	}
	return methods[len(methods)-1]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// applyReproductionMethod runs one reproduction method for a pair (or self, when partner == o).
func applyReproductionMethod(o, partner *Organism, method ReproductionMethod, strat ReproductionStrategy, rng *Rng) ([]*Organism, error) {
	var children []*Organism
	selfPartner := partner == nil || partner.Equal(o)

	switch method {
	case DirectAsexual:
		c, err := o.DirectAsexualReproduction()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		if !selfPartner {
			c2, err := partner.DirectAsexualReproduction()
			if err != nil {
				return nil, err
			}
			children = append(children, c2)
		}

	case SelfReproduction:
		cs, err := o.AsexualSelfReproduction(rng)
		if err != nil {
			return nil, err
		}
		children = append(children, cs...)
		if !selfPartner {
			cs2, err := partner.AsexualSelfReproduction(rng)
			if err != nil {
				return nil, err
			}
			children = append(children, cs2...)
		}

	case Sexual:
		if partner != nil {
			cs, err := o.ReproduceSexually(partner, rng)
			if err != nil {
				return nil, err
			}
			children = append(children, cs...)
		}

	case Mutation:
		for _, mask := range strat.MutationMasks {
			c, err := o.Mutate(mask)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
			if !selfPartner {
				c2, err := partner.Mutate(mask)
				if err != nil {
					return nil, err
				}
				children = append(children, c2)
			}
		}

	case Rotation:
		for _, pos := range strat.RotationPositions {
			c, err := o.Rotate(pos)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
			if !selfPartner {
				c2, err := partner.Rotate(pos)
				if err != nil {
					return nil, err
				}
				children = append(children, c2)
			}
		}

	case Permutation:
		for _, pm := range strat.PermutationMaps {
			c, err := o.Permute(pm)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
			if !selfPartner {
				c2, err := partner.Permute(pm)
				if err != nil {
					return nil, err
				}
				children = append(children, c2)
			}
		}

	case CombinedTransforms:
		masks := firstN(strat.MutationMasks, 2)
		positions := firstN(strat.RotationPositions, 2)
		for _, mask := range masks {
			for _, pos := range positions {
				mutated, err := o.Mutate(mask)
				if err != nil {
					return nil, err
				}
				rotated, err := mutated.Rotate(pos)
				if err != nil {
					return nil, err
				}
				children = append(children, rotated)
				if !selfPartner {
					mutatedP, err := partner.Mutate(mask)
					if err != nil {
						return nil, err
					}
					rotatedP, err := mutatedP.Rotate(pos)
					if err != nil {
						return nil, err
					}
					children = append(children, rotatedP)
				}
			}
		}

	case EnhancedSexual:
		if partner != nil {
			sexualChildren, err := o.ReproduceSexually(partner, rng)
			if err != nil {
				return nil, err
			}
			masks := firstN(strat.MutationMasks, 2)
			for _, child := range sexualChildren {
				for _, mask := range masks {
					mutated, err := child.Mutate(mask)
					if err != nil {
						return nil, err
					}
					children = append(children, mutated)
				}
			}
		}
	}

	return children, nil
}

func firstN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// dualEncodedReproduction is the DUAL_ENCODED reproduction path: strategies are combined,
// methods selected, applied, and every resulting child's generation is forced to
// max(parent generations)+1 regardless of the operator used.
func (o *Organism) dualEncodedReproduction(partner *Organism, rng *Rng) ([]*Organism, error) {
	combined := combineStrategies(o.ReproStrategy, partner.ReproStrategy)
	methods := selectMethods(combined, rng)

	var children []*Organism
	for _, method := range methods {
		mc, err := applyReproductionMethod(o, partner, method, combined, rng)
		if err != nil {
			return nil, err
		}
		children = append(children, mc...)
	}

	target := maxInt(o.Generation, partner.Generation) + 1
	for _, c := range children {
		c.Generation = target
	}
	return children, nil
}

// OmniReproduce generates offspring covering every enabled method deterministically: direct
// asexual from both parents, self-reproduction pairs, the sexual pair, mutation/rotation/
// permutation against the first k entries of each library for both parents, the combined
// cartesian product (first 3 x 3), and enhanced-sexual from the sexual children. k is bounded
// by library size; no randomization is used, so omni is deterministic for fixed parents/config.
func (o *Organism) OmniReproduce(partner *Organism, rng *Rng) ([]*Organism, error) {
	if partner == nil {
		partner = o
	}
	combined := combineStrategies(o.ReproStrategy, partner.ReproStrategy)
	selfPartner := partner.Equal(o)

	var children []*Organism

	c1, err := o.DirectAsexualReproduction()
	if err != nil {
		return nil, err
	}
	children = append(children, c1)
	if !selfPartner {
		c2, err := partner.DirectAsexualReproduction()
		if err != nil {
			return nil, err
		}
		children = append(children, c2)
	}

	selfKids, err := o.AsexualSelfReproduction(rng)
	if err != nil {
		return nil, err
	}
	children = append(children, selfKids...)
	if !selfPartner {
		partnerSelfKids, err := partner.AsexualSelfReproduction(rng)
		if err != nil {
			return nil, err
		}
		children = append(children, partnerSelfKids...)
	}

	var sexualChildren []*Organism
	if !selfPartner {
		sexualChildren, err = o.ReproduceSexually(partner, rng)
		if err != nil {
			return nil, err
		}
		children = append(children, sexualChildren...)
	}

	k := 3
	for _, mask := range firstN(combined.MutationMasks, k) {
		c, err := o.Mutate(mask)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		if !selfPartner {
			c2, err := partner.Mutate(mask)
			if err != nil {
				return nil, err
			}
			children = append(children, c2)
		}
	}

	for _, pos := range firstN(combined.RotationPositions, k) {
		c, err := o.Rotate(pos)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		if !selfPartner {
			c2, err := partner.Rotate(pos)
			if err != nil {
				return nil, err
			}
			children = append(children, c2)
		}
	}

	for _, pm := range firstN(combined.PermutationMaps, k) {
		c, err := o.Permute(pm)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		if !selfPartner {
			c2, err := partner.Permute(pm)
			if err != nil {
				return nil, err
			}
			children = append(children, c2)
		}
	}

	combMasks := firstN(combined.MutationMasks, 3)
	combPositions := firstN(combined.RotationPositions, 3)
	for _, mask := range combMasks {
		for _, pos := range combPositions {
			mutated, err := o.Mutate(mask)
			if err != nil {
				return nil, err
			}
			rotated, err := mutated.Rotate(pos)
			if err != nil {
				return nil, err
			}
			children = append(children, rotated)
		}
	}

	for _, sc := range sexualChildren {
		for _, mask := range firstN(combined.MutationMasks, 2) {
			m, err := sc.Mutate(mask)
			if err != nil {
				return nil, err
			}
			children = append(children, m)
		}
	}

	target := maxInt(o.Generation, partner.Generation) + 1
	for _, c := range children {
		c.Generation = target
	}
	return children, nil
}
