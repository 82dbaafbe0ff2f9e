// Command perturbarium is a thin CLI wrapper over the genetics engine, the SineScramble cipher,
// and the Licensee codec. It is an optional external collaborator, not part of the core library
// contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var logLevel string

	root := &cobra.Command{
		Use:           "perturbarium",
		Short:         "genetics, cipher, and licensing toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config override file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newEvolveCmd(&configPath, &logLevel),
		newCipherCmd(&configPath, &logLevel),
		newLicenseCmd(&configPath, &logLevel),
	)
	return root
}
