package xofgenetics

import "sort"

// PairingStrategy selects how organisms are paired for reproduction within a generation.
type PairingStrategy int

const (
	Random PairingStrategy = iota
	EliteVsElite
	EliteVsChallenger
	Complementary
)

func (p PairingStrategy) String() string {
	switch p {
	case Random:
		return "random"
	case EliteVsElite:
		return "elite_vs_elite"
	case EliteVsChallenger:
		return "elite_vs_challenger"
	case Complementary:
		return "complementary"
	default:
		return "unknown"
	}
}

// OrganismPair is a matched pair of organisms selected for reproduction.
type OrganismPair struct {
	First  *Organism
	Second *Organism
}

// Pair applies a pairing strategy to a population, returning matched pairs and any leftover
// unpaired organism (nil if the population size is even). Elite-based strategies sort a copy of
// the slice and never mutate the caller's population order.
func Pair(population []*Organism, strategy PairingStrategy, rng *Rng) ([]OrganismPair, *Organism) {
	n := len(population)
	if n == 0 {
		return nil, nil
	}

	var ordered []*Organism
	switch strategy {
	case Random:
		idx := rng.Shuffle(n)
		ordered = make([]*Organism, n)
		for i, src := range idx {
			ordered[i] = population[src]
		}
		return consecutivePairs(ordered)

	case EliteVsElite:
		ordered = sortedByFitnessDescending(population)
		return consecutivePairs(ordered)

	case EliteVsChallenger:
		ordered = sortedByFitnessDescending(population)
		half := n / 2
		var pairs []OrganismPair
		for i := 0; i < half; i++ {
			pairs = append(pairs, OrganismPair{First: ordered[i], Second: ordered[i+half]})
		}
		var unpaired *Organism
		if n%2 != 0 {
			unpaired = ordered[n-1]
		}
		return pairs, unpaired

	case Complementary:
		ordered = sortedByFitnessDescending(population)
		half := n / 2
		var pairs []OrganismPair
		for i := 0; i < half; i++ {
			pairs = append(pairs, OrganismPair{First: ordered[i], Second: ordered[n-1-i]})
		}
		var unpaired *Organism
		if n%2 != 0 {
			unpaired = ordered[half]
		}
		return pairs, unpaired

	default:
		return consecutivePairs(population)
	}
}

func consecutivePairs(ordered []*Organism) ([]OrganismPair, *Organism) {
	n := len(ordered)
	var pairs []OrganismPair
	for i := 0; i+1 < n; i += 2 {
		pairs = append(pairs, OrganismPair{First: ordered[i], Second: ordered[i+1]})
	}
	var unpaired *Organism
	if n%2 != 0 {
		unpaired = ordered[n-1]
	}
	return pairs, unpaired
}

func sortedByFitnessDescending(population []*Organism) []*Organism {
	out := append([]*Organism{}, population...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fitness > out[j].Fitness })
	return out
}
