package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Nackloose/perturbarium/internal/config"
	"github.com/Nackloose/perturbarium/internal/logging"
	"github.com/Nackloose/perturbarium/internal/xofhash"
	"github.com/Nackloose/perturbarium/xofgenetics"
)

func newEvolveCmd(configPath, logLevel *string) *cobra.Command {
	var genomeLength int
	var populationSize int
	var seedPrefix string

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "run an evolution loop, maximizing byte-sum fitness, and print the champion genome",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mode, err := cfg.Evolution.EvolutionMode()
			if err != nil {
				return err
			}
			pairing, err := cfg.Evolution.PairingStrategy()
			if err != nil {
				return err
			}

			organismCfg := xofgenetics.DefaultOrganismConfig(genomeLength, xofhash.Blake3Hash{})
			population := make([]*xofgenetics.Organism, 0, populationSize)
			for i := 0; i < populationSize; i++ {
				seed := []byte(fmt.Sprintf("%s-%d", seedPrefix, i))
				o, err := xofgenetics.FromSeed(seed, organismCfg)
				if err != nil {
					return err
				}
				population = append(population, o)
			}

			evoCfg := xofgenetics.EvolutionConfig{
				Mode:              mode,
				Pairing:           pairing,
				MaxGenerations:    cfg.Evolution.MaxGenerations,
				PopulationCap:     cfg.Evolution.PopulationCap,
				EliteFraction:     cfg.Evolution.EliteFraction,
				SelectionPressure: cfg.Evolution.SelectionPressure,
				WorkerCount:       cfg.Evolution.WorkerCount,
				Seed:              cfg.Evolution.Seed,
				Fitness:           byteSumFitness,
				Logger:            logger,
				Callback: func(snapshot xofgenetics.GenerationSnapshot) {
					logger.Debug("generation complete",
						zap.Int("generation", snapshot.Generation),
						zap.Int("population_size", snapshot.PopulationSize),
						zap.Float64("best_ever_fitness", snapshot.BestEver.Fitness),
					)
				},
			}

			if ap := cfg.Evolution.AutoPopulation; ap != nil {
				evoCfg.AutoPopulation = &xofgenetics.AutoPopulationConfig{
					TargetDuration: time.Duration(ap.TargetDurationSeconds * float64(time.Second)),
					MinSize:        ap.MinSize,
				}
			}

			state, err := xofgenetics.NewEvolutionState(population, evoCfg)
			if err != nil {
				return err
			}
			if err := state.Run(context.Background()); err != nil {
				return errors.Wrap(err, "evolve: run failed")
			}

			fmt.Printf("generations: %d\n", state.Generation)
			fmt.Printf("best_ever fitness: %.2f\n", state.BestEver.Fitness)
			fmt.Printf("best_ever genome: %x\n", state.BestEver.Genome)
			return nil
		},
	}

	cmd.Flags().IntVar(&genomeLength, "genome-length", 32, "genome length in bytes")
	cmd.Flags().IntVar(&populationSize, "population-size", 16, "initial population size")
	cmd.Flags().StringVar(&seedPrefix, "seed-prefix", "perturbarium", "prefix used to derive the initial population's seeds")
	return cmd
}

// byteSumFitness is a simple deterministic fitness function for CLI demonstration purposes: the
// normalized sum of genome bytes.
func byteSumFitness(ctx context.Context, o *xofgenetics.Organism) (float64, error) {
	sum := 0
	for _, b := range o.Genome {
		sum += int(b)
	}
	return float64(sum) / float64(len(o.Genome)*255), nil
}
