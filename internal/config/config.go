// Package config loads the YAML-based default parameters for the evolution loop, the
// SineScramble cipher, and the Licensee codec, mirroring the teacher's pattern of sane
// in-code defaults plus an optional override file.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/Nackloose/perturbarium/sinescramble"
	"github.com/Nackloose/perturbarium/xofgenetics"
)

// EvolutionDefaults holds the serializable subset of xofgenetics.EvolutionConfig: the knobs a
// config file can set. Fitness and Callback are wired up by the caller, not configured here.
type EvolutionDefaults struct {
	Mode              string  `yaml:"mode"`
	Pairing           string  `yaml:"pairing"`
	MaxGenerations    int     `yaml:"max_generations"`
	PopulationCap     int     `yaml:"population_cap"`
	EliteFraction     float64 `yaml:"elite_fraction"`
	SelectionPressure float64 `yaml:"selection_pressure"`
	WorkerCount       int     `yaml:"worker_count"`
	Seed              int64   `yaml:"seed"`

	AutoPopulation *AutoPopulationDefaults `yaml:"auto_population,omitempty"`
}

// AutoPopulationDefaults mirrors xofgenetics.AutoPopulationConfig.
type AutoPopulationDefaults struct {
	TargetDurationSeconds float64 `yaml:"target_duration_seconds"`
	MinSize               int     `yaml:"min_size"`
}

// CipherDefaults holds the SineScramble default parameter set.
type CipherDefaults struct {
	Amplitude float64 `yaml:"amplitude"`
	Omega     float64 `yaml:"omega"`
	Gamma     float64 `yaml:"gamma"`
	Mode      string  `yaml:"mode"`
}

// LicenseeDefaults holds Licensee codec policy defaults: key file paths and the baseline
// key_holder_group / version_lock values new licenses are issued with.
type LicenseeDefaults struct {
	PrivateKeyPath    string `yaml:"private_key_path"`
	PublicKeyPath     string `yaml:"public_key_path"`
	KeyHolderGroup    uint8  `yaml:"key_holder_group"`
	VersionLock       uint8  `yaml:"version_lock"`
	DurationDays      uint16 `yaml:"duration_days"`
	CurrentAppVersion uint8  `yaml:"current_app_version"`
}

// Config is the complete, serializable configuration surface for the CLI.
type Config struct {
	Evolution EvolutionDefaults `yaml:"evolution"`
	Cipher    CipherDefaults    `yaml:"cipher"`
	Licensee  LicenseeDefaults  `yaml:"licensee"`
}

// Default returns the in-code baseline configuration, matching the teacher's
// DefaultEvolutionConfig()-style "sane defaults in code" pattern.
func Default() Config {
	return Config{
		Evolution: EvolutionDefaults{
			Mode:              "tournament",
			Pairing:           "elite_vs_challenger",
			MaxGenerations:    100,
			PopulationCap:     64,
			EliteFraction:     0.1,
			SelectionPressure: 1.0,
			WorkerCount:       4,
			Seed:              1,
		},
		Cipher: CipherDefaults{
			Amplitude: 100,
			Omega:     0.1,
			Gamma:     1,
			Mode:      "multi_round",
		},
		Licensee: LicenseeDefaults{
			PrivateKeyPath: "licensee_private.pem",
			PublicKeyPath:  "licensee_public.pem",
			KeyHolderGroup: 0,
			VersionLock:    0,
			DurationDays:   365,
		},
	}
}

// Load reads and merges a YAML override file onto Default(). A missing file is not an error;
// Load returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}

// EvolutionMode parses the config's mode string into a xofgenetics.EvolutionMode.
func (d EvolutionDefaults) EvolutionMode() (xofgenetics.EvolutionMode, error) {
	switch d.Mode {
	case "tournament":
		return xofgenetics.Tournament, nil
	case "simple":
		return xofgenetics.Simple, nil
	case "omni":
		return xofgenetics.Omni, nil
	case "dual_encoded":
		return xofgenetics.DualEncodedMode, nil
	default:
		return 0, errors.Newf("config: unknown evolution mode %q", d.Mode)
	}
}

// Params converts the config's cipher defaults into a sinescramble.Params.
func (d CipherDefaults) Params() sinescramble.Params {
	return sinescramble.Params{Amplitude: d.Amplitude, Omega: d.Omega, Gamma: d.Gamma}
}

// CipherMode parses the config's mode string into a sinescramble.Mode.
func (d CipherDefaults) CipherMode() (sinescramble.Mode, error) {
	switch d.Mode {
	case "multi_round":
		return sinescramble.MultiRound, nil
	case "segmented":
		return sinescramble.Segmented, nil
	default:
		return 0, errors.Newf("config: unknown cipher mode %q", d.Mode)
	}
}

// PairingStrategy parses the config's pairing string into a xofgenetics.PairingStrategy.
func (d EvolutionDefaults) PairingStrategy() (xofgenetics.PairingStrategy, error) {
	switch d.Pairing {
	case "random":
		return xofgenetics.Random, nil
	case "elite_vs_elite":
		return xofgenetics.EliteVsElite, nil
	case "elite_vs_challenger":
		return xofgenetics.EliteVsChallenger, nil
	case "complementary":
		return xofgenetics.Complementary, nil
	default:
		return 0, errors.Newf("config: unknown pairing strategy %q", d.Pairing)
	}
}
