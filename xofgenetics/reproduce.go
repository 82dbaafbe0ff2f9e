package xofgenetics

// This file implements the single-organism and pairwise reproduction operators of spec §4.3:
// direct asexual, self reproduction, sexual (reciprocal), mutation, rotation, and permutation,
// plus the BASIC/DUAL_ENCODED dispatch in Reproduce. Combined transformations, enhanced sexual,
// and omni reproduction are in dualencode.go.

// DirectAsexualReproduction re-hashes the genome: child.genome = H(parent.genome, G).
func (o *Organism) DirectAsexualReproduction() (*Organism, error) {
	childGenome := o.Config.HashFunction.Hash(o.Genome, o.Config.GenomeLength)
	child, err := NewOrganism(childGenome, o.Config, o.MetaGenome)
	if err != nil {
		return nil, err
	}
	child.Generation = o.Generation + 1
	return child, nil
}

// AsexualSelfReproduction returns two children: a direct-asexual child, and either a
// self-recombined child (if Sexual is enabled, using the split-and-rehash formula with the
// same genome on both sides) or a mutated child (uniformly chosen mask) otherwise.
func (o *Organism) AsexualSelfReproduction(rng *Rng) ([]*Organism, error) {
	child1, err := o.DirectAsexualReproduction()
	if err != nil {
		return nil, err
	}

	var child2 *Organism
	if o.Config.EnabledMethods[Sexual] {
		split := o.Config.GenomeLength / 2
		preImage := append(append([]byte{}, o.Genome[:split]...), o.Genome[split:]...)
		child2Genome := o.Config.HashFunction.Hash(preImage, o.Config.GenomeLength)
		child2, err = NewOrganism(child2Genome, o.Config, o.MetaGenome)
		if err != nil {
			return nil, err
		}
		child2.Generation = o.Generation + 1
	} else {
		if len(o.Config.MutationMasks) == 0 {
			return nil, ErrEmptyLibrary
		}
		mask := chooseMask(rng, o.Config.MutationMasks)
		child2, err = o.Mutate(mask)
		if err != nil {
			return nil, err
		}
	}

	return []*Organism{child1, child2}, nil
}

// ReproduceSexually produces children by single-point crossover at the midpoint of the genome.
// If EnableReciprocalReproduction is true, both reciprocal children are returned; otherwise a
// coin flip (from rng) selects which parent contributes the first half, and only one child is
// returned.
func (o *Organism) ReproduceSexually(partner *Organism, rng *Rng) ([]*Organism, error) {
	if partner == nil {
		return nil, ErrNoPartner
	}
	split := o.Config.GenomeLength / 2
	gen := maxInt(o.Generation, partner.Generation) + 1

	if o.Config.EnableReciprocalReproduction {
		p1 := append(append([]byte{}, o.Genome[:split]...), partner.Genome[split:]...)
		p2 := append(append([]byte{}, partner.Genome[:split]...), o.Genome[split:]...)

		g1 := o.Config.HashFunction.Hash(p1, o.Config.GenomeLength)
		g2 := o.Config.HashFunction.Hash(p2, o.Config.GenomeLength)

		c1, err := NewOrganism(g1, o.Config, o.MetaGenome)
		if err != nil {
			return nil, err
		}
		c2, err := NewOrganism(g2, o.Config, o.MetaGenome)
		if err != nil {
			return nil, err
		}
		c1.Generation, c2.Generation = gen, gen
		return []*Organism{c1, c2}, nil
	}

	var preImage []byte
	if rng.Bool() {
		preImage = append(append([]byte{}, o.Genome[:split]...), partner.Genome[split:]...)
	} else {
		preImage = append(append([]byte{}, partner.Genome[:split]...), o.Genome[split:]...)
	}
	childGenome := o.Config.HashFunction.Hash(preImage, o.Config.GenomeLength)
	child, err := NewOrganism(childGenome, o.Config, o.MetaGenome)
	if err != nil {
		return nil, err
	}
	child.Generation = gen
	return []*Organism{child}, nil
}

// Mutate creates a mutated child: child.genome = H(parent.genome XOR mask, G).
func (o *Organism) Mutate(mask []byte) (*Organism, error) {
	if len(mask) != o.Config.GenomeLength {
		return nil, ErrMaskLength
	}
	xored := make([]byte, o.Config.GenomeLength)
	for i := range xored {
		xored[i] = o.Genome[i] ^ mask[i]
	}
	childGenome := o.Config.HashFunction.Hash(xored, o.Config.GenomeLength)
	child, err := NewOrganism(childGenome, o.Config, o.MetaGenome)
	if err != nil {
		return nil, err
	}
	child.Generation = o.Generation + 1
	return child, nil
}

// Rotate creates a child from a cyclic rotation of the genome by p positions:
// rot = genome[p mod G:] || genome[:p mod G]; child = H(rot, G).
func (o *Organism) Rotate(p int) (*Organism, error) {
	g := o.Config.GenomeLength
	pos := ((p % g) + g) % g
	rotated := append(append([]byte{}, o.Genome[pos:]...), o.Genome[:pos]...)
	childGenome := o.Config.HashFunction.Hash(rotated, g)
	child, err := NewOrganism(childGenome, o.Config, o.MetaGenome)
	if err != nil {
		return nil, err
	}
	child.Generation = o.Generation + 1
	return child, nil
}

// Permute creates a child from an index permutation of the genome: permuted[i] = genome[pi[i]];
// child = H(permuted, G). pi uses the new->original ("argsort") convention, matching how
// dual-encoded permutation maps are constructed (see dualencode.go).
func (o *Organism) Permute(pi []int) (*Organism, error) {
	g := o.Config.GenomeLength
	if len(pi) != g {
		return nil, ErrMaskLength
	}
	permuted := make([]byte, g)
	for i, src := range pi {
		if src < 0 || src >= g {
			return nil, ErrInvalidConfig
		}
		permuted[i] = o.Genome[src]
	}
	childGenome := o.Config.HashFunction.Hash(permuted, g)
	child, err := NewOrganism(childGenome, o.Config, o.MetaGenome)
	if err != nil {
		return nil, err
	}
	child.Generation = o.Generation + 1
	return child, nil
}

// Reproduce dispatches to the BASIC or DUAL_ENCODED reproduction path depending on
// configuration, matching spec §4.3.
func (o *Organism) Reproduce(partner *Organism, rng *Rng) ([]*Organism, error) {
	if o.Config.Mode == Basic && !o.Config.EnableDualEncoding {
		if partner == nil {
			return o.basicAsexual(rng)
		}
		return o.basicSexual(partner, rng)
	}
	if partner == nil {
		return o.dualEncodedReproduction(o, rng)
	}
	return o.dualEncodedReproduction(partner, rng)
}

func (o *Organism) basicAsexual(rng *Rng) ([]*Organism, error) {
	var children []*Organism
	if o.Config.EnabledMethods[DirectAsexual] {
		c, err := o.DirectAsexualReproduction()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if o.Config.EnabledMethods[SelfReproduction] {
		cs, err := o.AsexualSelfReproduction(rng)
		if err != nil {
			return nil, err
		}
		children = append(children, cs...)
	}
	return children, nil
}

func (o *Organism) basicSexual(partner *Organism, rng *Rng) ([]*Organism, error) {
	if o.Config.EnabledMethods[Sexual] {
		return o.ReproduceSexually(partner, rng)
	}
	return nil, nil
}
