package xofgenetics

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Nackloose/perturbarium/internal/logging"
)

// EvolutionMode selects the reproduction scheme applied each generation.
type EvolutionMode int

const (
	Tournament EvolutionMode = iota
	Simple
	Omni
	DualEncodedMode
)

func (m EvolutionMode) String() string {
	switch m {
	case Tournament:
		return "tournament"
	case Simple:
		return "simple"
	case Omni:
		return "omni"
	case DualEncodedMode:
		return "dual_encoded"
	default:
		return "unknown"
	}
}

// FitnessFunc scores a single organism. It must be safe to call concurrently from multiple
// goroutines; organisms are immutable apart from Fitness/Generation, which the driver alone
// writes.
type FitnessFunc func(ctx context.Context, o *Organism) (float64, error)

// GenerationSnapshot is passed to a user-supplied callback after fitness evaluation and before
// reproduction; it must not be mutated.
type GenerationSnapshot struct {
	Generation     int
	Population     []*Organism
	BestEver       *Organism
	BestThisGen    *Organism
	PopulationSize int
}

// GenerationCallback observes a snapshot of state once per generation. It must not mutate the
// population.
type GenerationCallback func(snapshot GenerationSnapshot)

// GenerationRecord is one history entry recorded per generation.
type GenerationRecord struct {
	Generation     int
	BestFitness    float64
	MeanFitness    float64
	PopulationSize int
	Elapsed        time.Duration
}

// EvolutionConfig parameterizes a run of the evolution loop (spec §4.4).
type EvolutionConfig struct {
	Mode              EvolutionMode
	Pairing           PairingStrategy
	MaxGenerations    int
	PopulationCap     int
	EliteFraction     float64
	SelectionPressure float64
	WorkerCount       int
	Seed              int64
	Fitness           FitnessFunc
	Callback          GenerationCallback
	AutoPopulation    *AutoPopulationConfig

	// Logger receives Debug/Info lifecycle events and Warn/Error failures. Defaults to a no-op
	// logger; never logs genome bytes.
	Logger *zap.Logger
}

func (c EvolutionConfig) validate() error {
	if c.MaxGenerations <= 0 {
		return errors.New("xofgenetics: max_generations must be positive")
	}
	if c.PopulationCap <= 0 {
		return errors.New("xofgenetics: population_cap must be positive")
	}
	if c.EliteFraction <= 0 || c.EliteFraction > 1 {
		return errors.New("xofgenetics: elite_fraction must be in (0,1]")
	}
	if c.Fitness == nil {
		return errors.New("xofgenetics: fitness function is required")
	}
	return nil
}

// EvolutionState is the driver's mutable state across generations: population, best-ever
// organism, per-generation history, and (if enabled) the auto-population sizer's state. Organisms
// are immutable except for Fitness/Generation, written at most once per generation by the driver;
// BestEver is updated only by the driver between phases.
type EvolutionState struct {
	Population []*Organism
	BestEver   *Organism
	History    []GenerationRecord
	Generation int

	rng     *Rng
	autoPop *AutoPopState
	cfg     EvolutionConfig
}

// NewEvolutionState constructs driver state from an initial population and configuration.
func NewEvolutionState(initial []*Organism, cfg EvolutionConfig) (*EvolutionState, error) {
	if len(initial) == 0 {
		return nil, ErrEmptyPopulation
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	st := &EvolutionState{
		Population: append([]*Organism{}, initial...),
		rng:        NewRng(cfg.Seed),
		cfg:        cfg,
	}
	if cfg.AutoPopulation != nil {
		st.autoPop = NewAutoPopState(len(initial))
	}
	cfg.Logger.Debug("xofgenetics: evolution state initialized",
		zap.Int("population_size", len(initial)), zap.String("mode", cfg.Mode.String()))
	return st, nil
}

// Run advances the evolution loop for MaxGenerations generations, or until ctx is cancelled.
func (st *EvolutionState) Run(ctx context.Context) error {
	for g := 0; g < st.cfg.MaxGenerations; g++ {
		if err := ctx.Err(); err != nil {
			st.cfg.Logger.Warn("xofgenetics: run cancelled", zap.Int("generation", st.Generation), zap.Error(err))
			return err
		}
		if err := st.step(ctx); err != nil {
			return err
		}
	}
	st.cfg.Logger.Info("xofgenetics: run complete",
		zap.Int("generations", st.Generation), zap.Float64("best_ever_fitness", st.BestEver.Fitness))
	return nil
}

// step runs a single generation's state machine per spec §4.4.
func (st *EvolutionState) step(ctx context.Context) error {
	start := time.Now()

	if err := st.evaluateFitness(ctx); err != nil {
		st.cfg.Logger.Error("xofgenetics: fitness evaluation failed",
			zap.Int("generation", st.Generation), zap.Error(err))
		return err
	}

	best := bestOf(st.Population)
	if st.BestEver == nil || best.Fitness > st.BestEver.Fitness {
		st.BestEver = best
	}

	elapsed := time.Since(start)
	st.History = append(st.History, GenerationRecord{
		Generation:     st.Generation,
		BestFitness:    best.Fitness,
		MeanFitness:    meanFitness(st.Population),
		PopulationSize: len(st.Population),
		Elapsed:        elapsed,
	})
	if st.cfg.Callback != nil {
		st.cfg.Callback(GenerationSnapshot{
			Generation:     st.Generation,
			Population:     st.Population,
			BestEver:       st.BestEver,
			BestThisGen:    best,
			PopulationSize: len(st.Population),
		})
	}

	next, err := st.reproduceGeneration(ctx)
	if err != nil {
		st.cfg.Logger.Error("xofgenetics: reproduction failed",
			zap.Int("generation", st.Generation), zap.String("mode", st.cfg.Mode.String()), zap.Error(err))
		return err
	}
	st.Population = next

	st.enforceElitism()
	st.capPopulation()

	if st.autoPop != nil && st.cfg.AutoPopulation != nil {
		target := st.autoPop.Adjust(len(st.Population), elapsed, *st.cfg.AutoPopulation)
		if target != len(st.Population) {
			st.cfg.Logger.Info("xofgenetics: auto-population resized population",
				zap.Int("generation", st.Generation), zap.Int("from", len(st.Population)), zap.Int("to", target))
		}
		st.adjustPopulationSize(target)
	}

	st.cfg.Logger.Debug("xofgenetics: generation complete",
		zap.Int("generation", st.Generation),
		zap.Float64("best_fitness", best.Fitness),
		zap.Int("population_size", len(st.Population)),
		zap.Duration("elapsed", elapsed),
	)

	st.Generation++
	return nil
}

// evaluateFitness scores the population with a bounded worker pool, matching the teacher's
// streaming battle-evaluation pattern.
func (st *EvolutionState) evaluateFitness(ctx context.Context) error {
	workers := st.cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	if workers > len(st.Population) {
		workers = len(st.Population)
	}

	type job struct {
		index    int
		organism *Organism
	}
	type result struct {
		index   int
		fitness float64
		err     error
	}

	jobs := make(chan job, len(st.Population))
	results := make(chan result, len(st.Population))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				f, err := st.cfg.Fitness(ctx, j.organism)
				results <- result{index: j.index, fitness: f, err: err}
			}
		}()
	}

	for i, o := range st.Population {
		jobs <- job{index: i, organism: o}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil {
			st.cfg.Logger.Warn("xofgenetics: organism fitness evaluation failed",
				zap.Int("index", r.index), zap.Error(r.err))
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		st.Population[r.index].Fitness = r.fitness
	}
	return firstErr
}

// reproduceGeneration dispatches to the mode-specific reproduction scheme. Pairs and the unpaired
// organism are reproduced one after another on the calling goroutine, not in parallel; the
// returned population is the concatenation of their results in pair order followed by the
// unpaired organism's, so results are deterministic for a fixed seed and pairing order.
func (st *EvolutionState) reproduceGeneration(ctx context.Context) ([]*Organism, error) {
	switch st.cfg.Mode {
	case Simple:
		return st.reproduceSimple()
	case Omni:
		return st.reproduceOmni()
	case DualEncodedMode:
		return st.reproduceDualEncoded()
	default:
		return st.reproduceTournament(ctx)
	}
}

func (st *EvolutionState) reproduceTournament(ctx context.Context) ([]*Organism, error) {
	pairs, unpaired := Pair(st.Population, st.cfg.Pairing, st.rng)
	var next []*Organism

	for _, pr := range pairs {
		champion, err := st.tournament(ctx, pr.First, pr.Second)
		if err != nil {
			return nil, err
		}
		next = append(next, champion...)
	}
	if unpaired != nil {
		children, err := unpaired.Reproduce(nil, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	return next, nil
}

// tournament runs an intergenerational tournament between two parents: produce sexual children,
// evaluate all four organisms, the champion child always survives, and each parent survives iff
// strictly fitter than the champion child.
func (st *EvolutionState) tournament(ctx context.Context, a, b *Organism) ([]*Organism, error) {
	children, err := a.ReproduceSexually(b, st.rng)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		f, err := st.cfg.Fitness(ctx, c)
		if err != nil {
			return nil, err
		}
		c.Fitness = f
	}
	champion := bestOf(children)

	survivors := []*Organism{champion}
	if a.Fitness > champion.Fitness {
		survivors = append(survivors, a)
	}
	if b.Fitness > champion.Fitness {
		survivors = append(survivors, b)
	}
	return survivors, nil
}

func (st *EvolutionState) reproduceSimple() ([]*Organism, error) {
	sorted := sortedByFitnessDescending(st.Population)
	parentCount := maxInt(2, int(st.cfg.SelectionPressure*float64(len(sorted))))
	if parentCount > len(sorted) {
		parentCount = len(sorted)
	}
	parents := sorted[:parentCount]

	target := len(st.Population)
	var next []*Organism
	for len(next) < target {
		a := parents[st.rng.Intn(len(parents))]
		b := parents[st.rng.Intn(len(parents))]
		children, err := a.ReproduceSexually(b, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	return next[:target], nil
}

func (st *EvolutionState) reproduceOmni() ([]*Organism, error) {
	pairs, unpaired := Pair(st.Population, st.cfg.Pairing, st.rng)
	var next []*Organism
	for _, pr := range pairs {
		children, err := pr.First.OmniReproduce(pr.Second, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	if unpaired != nil {
		children, err := unpaired.OmniReproduce(nil, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	return next, nil
}

func (st *EvolutionState) reproduceDualEncoded() ([]*Organism, error) {
	pairs, unpaired := Pair(st.Population, st.cfg.Pairing, st.rng)
	var next []*Organism
	for _, pr := range pairs {
		children, err := pr.First.dualEncodedReproduction(pr.Second, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	if unpaired != nil {
		children, err := unpaired.dualEncodedReproduction(unpaired, st.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, children...)
	}
	return next, nil
}

// enforceElitism appends BestEver to the population if it is not already present.
func (st *EvolutionState) enforceElitism() {
	if st.BestEver == nil {
		return
	}
	for _, o := range st.Population {
		if o.Equal(st.BestEver) {
			return
		}
	}
	st.Population = append(st.Population, st.BestEver)
}

// capPopulation truncates an over-cap population to elite_fraction * cap, sorted by fitness
// descending.
func (st *EvolutionState) capPopulation() {
	if len(st.Population) <= st.cfg.PopulationCap {
		return
	}
	sorted := sortedByFitnessDescending(st.Population)
	keep := int(st.cfg.EliteFraction * float64(st.cfg.PopulationCap))
	if keep < 1 {
		keep = 1
	}
	if keep > len(sorted) {
		keep = len(sorted)
	}
	st.Population = sorted[:keep]
}

// adjustPopulationSize resizes the population to target: truncating the least fit if shrinking,
// or duplicating from the top if growing, while preserving BestEver's presence.
func (st *EvolutionState) adjustPopulationSize(target int) {
	if target == len(st.Population) || target <= 0 {
		return
	}
	sorted := sortedByFitnessDescending(st.Population)
	if target < len(sorted) {
		st.Population = sorted[:target]
	} else {
		out := append([]*Organism{}, sorted...)
		for i := 0; len(out) < target; i++ {
			out = append(out, sorted[i%len(sorted)])
		}
		st.Population = out
	}
	st.enforceElitism()
}

func bestOf(population []*Organism) *Organism {
	best := population[0]
	for _, o := range population[1:] {
		if o.Fitness > best.Fitness {
			best = o
		}
	}
	return best
}

func meanFitness(population []*Organism) float64 {
	if len(population) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range population {
		sum += o.Fitness
	}
	return sum / float64(len(population))
}
